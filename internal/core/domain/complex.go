package domain

import "time"

// Complex - агрегат по зданию/жилому комплексу, собранный из лотов фида
type Complex struct {
	ID           string   `json:"id"`
	SourceID     string   `json:"source_id"`
	ExternalID   string   `json:"external_id"`
	Slug         string   `json:"slug"`
	Title        string   `json:"title"`
	Category     Category `json:"category"`
	District     string   `json:"district"`
	Metro        []string `json:"metro"`
	PriceFrom    *float64 `json:"price_from,omitempty"`
	AreaFrom     *float64 `json:"area_from,omitempty"`
	Images       []string `json:"images"`
	Developer    string   `json:"developer,omitempty"`
	HandoverDate string   `json:"handover_date,omitempty"`
	Description  string   `json:"description,omitempty"`

	GeoLat  *float64 `json:"geo_lat,omitempty"`
	GeoLon  *float64 `json:"geo_lon,omitempty"`
	Geohash string   `json:"geohash,omitempty"`

	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (c Complex) Key() RecordKey {
	return RecordKey{SourceID: c.SourceID, ExternalID: c.ExternalID}
}

func (c Complex) CurrentStatus() Status { return c.Status }

func (c Complex) MergeFrom(candidate Complex) Complex {
	merged := candidate
	merged.ID = c.ID
	if !c.CreatedAt.IsZero() {
		merged.CreatedAt = c.CreatedAt
	}
	return merged
}

func (c Complex) HiddenAt(at time.Time) Complex {
	c.Status = StatusHidden
	c.UpdatedAt = at
	return c
}

func (c Complex) WithID(id string) Complex {
	c.ID = id
	if c.CreatedAt.IsZero() {
		c.CreatedAt = c.UpdatedAt
	}
	return c
}
