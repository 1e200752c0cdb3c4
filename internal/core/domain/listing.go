package domain

import (
	"math"
	"time"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusHidden   Status = "hidden"
	StatusArchived Status = "archived"
)

type Category string

const (
	CategoryNewbuild  Category = "newbuild"
	CategorySecondary Category = "secondary"
	CategoryRent      Category = "rent"
)

type DealType string

const (
	DealSale DealType = "sale"
	DealRent DealType = "rent"
)

// PricePeriodMonth проставляется только для аренды
const PricePeriodMonth = "month"

// RoundBedrooms приводит число комнат из фида к целому (1.6 -> 2)
func RoundBedrooms(n float64) int {
	return int(math.Round(n))
}

// RecordKey - естественный ключ записи каталога: внешний ID уникален только в пределах источника
type RecordKey struct {
	SourceID   string
	ExternalID string
}

// Listing - отдельное объявление (лот) в каталоге
type Listing struct {
	ID                string   `json:"id"`
	SourceID          string   `json:"source_id"`
	ExternalID        string   `json:"external_id"`
	Slug              string   `json:"slug"`
	LotNumber         string   `json:"lot_number"`
	ComplexID         string   `json:"complex_id,omitempty"`
	ComplexExternalID string   `json:"complex_external_id,omitempty"`
	DealType          DealType `json:"deal_type"`
	Category          Category `json:"category"`
	Title             string   `json:"title"`
	Bedrooms          int      `json:"bedrooms"`
	Price             float64  `json:"price"`
	PricePeriod       string   `json:"price_period,omitempty"`
	AreaTotal         float64  `json:"area_total"`
	District          string   `json:"district"`
	Metro             []string `json:"metro"`
	Images            []string `json:"images"`
	Description       string   `json:"description,omitempty"`

	Floor       *int     `json:"floor,omitempty"`
	FloorsTotal *int     `json:"floors_total,omitempty"`
	Renovation  string   `json:"renovation,omitempty"`
	GeoLat      *float64 `json:"geo_lat,omitempty"`
	GeoLon      *float64 `json:"geo_lon,omitempty"`
	Geohash     string   `json:"geohash,omitempty"`

	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (l Listing) Key() RecordKey {
	return RecordKey{SourceID: l.SourceID, ExternalID: l.ExternalID}
}

func (l Listing) CurrentStatus() Status { return l.Status }

// MergeFrom возвращает новую запись: все поля берутся из кандидата,
// от существующей записи сохраняются только ID и время создания.
func (l Listing) MergeFrom(candidate Listing) Listing {
	merged := candidate
	merged.ID = l.ID
	if !l.CreatedAt.IsZero() {
		merged.CreatedAt = l.CreatedAt
	}
	return merged
}

func (l Listing) HiddenAt(at time.Time) Listing {
	l.Status = StatusHidden
	l.UpdatedAt = at
	return l
}

func (l Listing) WithID(id string) Listing {
	l.ID = id
	if l.CreatedAt.IsZero() {
		l.CreatedAt = l.UpdatedAt
	}
	return l
}
