// Package yandexfeed разбирает фид в формате Яндекс.Недвижимости и приводит
// его вложенные offer-объекты к общему плоскому виду строки.
package yandexfeed

import (
	"catalog-import-service/internal/core/feedrow"
	"strings"
)

const (
	rentTerm          = "аренда"
	primaryMarketTerm = "первичн"
	developerCategory = "developer"
	flatFallbackTitle = "квартира"
)

// newFlatValues - значения флага <new-flat>, которые означают новостройку
var newFlatValues = map[string]bool{"1": true, "true": true, "да": true}

// Normalizer реализует port.RowNormalizerPort для фидов Яндекса.
// Отсутствующие или кривые вложенные структуры дают пустое значение поля, а не ошибку.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

func (n *Normalizer) Normalize(row feedrow.Row) feedrow.Row {
	out := make(feedrow.Row)

	out["external_id"] = feedrow.Str(feedrow.String(row.FirstTruthy("@_internal-id", "internal_id", "id")))
	if v, ok := row["crm_id"]; ok {
		out["crm_id"] = v
	}

	dealType := "sale"
	if t := strings.ToLower(strings.TrimSpace(feedrow.String(row["type"]))); t == rentTerm || t == "rent" {
		dealType = "rent"
	}
	out["deal_type"] = feedrow.Str(dealType)

	rooms, hasRooms := feedrow.Number(row["rooms"])
	if hasRooms {
		out["bedrooms"] = feedrow.Num(rooms)
	}
	setNumber(out, "price", wrappedValue(row["price"]))
	setNumber(out, "area_total", wrappedValue(row["area"]))

	district, metro, lat, lon := location(row["location"])
	out["district"] = feedrow.Str(district)
	out["metro"] = feedrow.Str(metro)
	setNumber(out, "latitude", lat)
	setNumber(out, "longitude", lon)

	building := feedrow.String(row.FirstTruthy("building-name", "building_name"))
	if building != "" {
		out["complex_external_id"] = feedrow.Str(building)
		out["complex_title"] = feedrow.Str(building)
	}

	if agent := row["sales-agent"]; agent.Kind() == feedrow.KindObject {
		category, _ := agent.Get("category")
		if feedrow.String(category) == developerCategory {
			org, _ := agent.Get("organization")
			out["developer"] = feedrow.Str(feedrow.String(org))
		}
	}

	if handover := handoverDate(row["built-year"], row["ready-quarter"]); handover != "" {
		out["handover_date"] = feedrow.Str(handover)
	}

	out["images"] = feedrow.Str(strings.Join(images(row["image"]), ","))
	out["category"] = feedrow.Str(category(dealType, row))

	title := flatFallbackTitle
	if hasRooms && rooms != 0 {
		title = feedrow.FormatNumber(rooms) + "-комнатная"
	}
	if building != "" {
		title += " в " + building
	}
	out["title"] = feedrow.Str(title)

	out["description"] = feedrow.Str(feedrow.String(row["description"]))
	setNumber(out, "floor", row["floor"])
	setNumber(out, "floors_total", row.FirstTruthy("floors-total", "floors_total"))
	out["renovation"] = feedrow.Str(feedrow.String(row["renovation"]))

	return out
}

// wrappedValue разворачивает <price><value>...</value></price>
func wrappedValue(v feedrow.Value) feedrow.Value {
	if inner, ok := v.Get("value"); ok {
		return inner
	}
	return v
}

func setNumber(out feedrow.Row, key string, v feedrow.Value) {
	if n, ok := feedrow.Number(v); ok {
		out[key] = feedrow.Num(n)
	}
}

func location(v feedrow.Value) (district, metro string, lat, lon feedrow.Value) {
	if v.Kind() != feedrow.KindObject {
		return "", "", feedrow.Null(), feedrow.Null()
	}

	address, _ := v.Get("address")
	locality, _ := v.Get("locality-name")
	if feedrow.Truthy(address) {
		district = feedrow.String(address)
	} else {
		district = feedrow.String(locality)
	}

	var names []string
	stations, _ := v.Get("metro")
	for _, station := range feedrow.Items(stations) {
		var name string
		if station.Kind() == feedrow.KindObject {
			n, _ := station.Get("name")
			name = feedrow.String(n)
		} else {
			name = feedrow.String(station)
		}
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}

	lat, _ = v.Get("latitude")
	lon, _ = v.Get("longitude")
	return district, strings.Join(names, ","), lat, lon
}

// handoverDate: "<квартал> кв. <год>" или просто год
func handoverDate(builtYear, readyQuarter feedrow.Value) string {
	year, ok := feedrow.Number(builtYear)
	if !ok || year == 0 {
		return ""
	}
	if quarter, ok := feedrow.Number(readyQuarter); ok && quarter != 0 {
		return feedrow.FormatNumber(quarter) + " кв. " + feedrow.FormatNumber(year)
	}
	return feedrow.FormatNumber(year)
}

// images собирает все <image>: строкой, объектом с текстом или объектом с url
func images(v feedrow.Value) []string {
	var urls []string
	for _, img := range feedrow.Items(v) {
		var url string
		switch {
		case img.Kind() == feedrow.KindObject && img.Has("#text"):
			text, _ := img.Get("#text")
			url = feedrow.String(text)
		case img.Kind() == feedrow.KindObject && img.Has("url"):
			u, _ := img.Get("url")
			url = feedrow.String(u)
		default:
			url = feedrow.String(img)
		}
		if url = strings.TrimSpace(url); url != "" {
			urls = append(urls, url)
		}
	}
	return urls
}

func category(dealType string, row feedrow.Row) string {
	if dealType == "rent" {
		return "rent"
	}
	newFlat := strings.ToLower(strings.TrimSpace(feedrow.String(row.FirstTruthy("new-flat", "new_flat"))))
	dealStatus := strings.ToLower(feedrow.String(row.FirstTruthy("deal-status", "deal_status")))
	if newFlatValues[newFlat] || strings.Contains(dealStatus, primaryMarketTerm) {
		return "newbuild"
	}
	return "secondary"
}
