package yandexfeed

import (
	"catalog-import-service/internal/core/feedrow"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(v feedrow.Value) string { return feedrow.String(v) }

func TestNormalize_PriceWrappedOrBare(t *testing.T) {
	n := NewNormalizer()

	wrapped := n.Normalize(feedrow.Row{"price": feedrow.Object(feedrow.Row{"value": feedrow.Num(27490000)})})
	bare := n.Normalize(feedrow.Row{"price": feedrow.Str("27490000")})

	p1, ok := feedrow.Number(wrapped["price"])
	require.True(t, ok)
	p2, ok := feedrow.Number(bare["price"])
	require.True(t, ok)
	assert.Equal(t, 27490000.0, p1)
	assert.Equal(t, p1, p2)
}

func TestNormalize_FullOffer(t *testing.T) {
	row := feedrow.Row{
		"@_internal-id": feedrow.Str("777"),
		"type":          feedrow.Str("продажа"),
		"rooms":         feedrow.Str("2"),
		"area":          feedrow.Object(feedrow.Row{"value": feedrow.Str("59.5"), "unit": feedrow.Str("кв. м")}),
		"location": feedrow.Object(feedrow.Row{
			"locality-name": feedrow.Str("Москва"),
			"metro": feedrow.List(
				feedrow.Object(feedrow.Row{"name": feedrow.Str("Сокол")}),
				feedrow.Object(feedrow.Row{"name": feedrow.Str("Аэропорт")}),
			),
			"latitude":  feedrow.Str("55.80"),
			"longitude": feedrow.Str("37.51"),
		}),
		"building-name": feedrow.Str("ЖК Лес"),
		"sales-agent":   feedrow.Object(feedrow.Row{"category": feedrow.Str("developer"), "organization": feedrow.Str("ПИК")}),
		"built-year":    feedrow.Str("2026"),
		"ready-quarter": feedrow.Str("4"),
		"image": feedrow.List(
			feedrow.Str("https://a/1.jpg"),
			feedrow.Object(feedrow.Row{"@_tag": feedrow.Str("plan"), "#text": feedrow.Str("https://a/2.jpg")}),
			feedrow.Object(feedrow.Row{"url": feedrow.Str("https://a/3.jpg")}),
		),
		"deal-status":  feedrow.Str("Первичная продажа"),
		"floors-total": feedrow.Str("17"),
	}

	out := NewNormalizer().Normalize(row)

	assert.Equal(t, "777", str(out["external_id"]))
	assert.Equal(t, "sale", str(out["deal_type"]))
	assert.Equal(t, "2", str(out["bedrooms"]))
	assert.Equal(t, "59.5", str(out["area_total"]))
	assert.Equal(t, "Москва", str(out["district"]))
	assert.Equal(t, "Сокол,Аэропорт", str(out["metro"]))
	assert.Equal(t, "ЖК Лес", str(out["complex_external_id"]))
	assert.Equal(t, "ЖК Лес", str(out["complex_title"]))
	assert.Equal(t, "ПИК", str(out["developer"]))
	assert.Equal(t, "4 кв. 2026", str(out["handover_date"]))
	assert.Equal(t, "https://a/1.jpg,https://a/2.jpg,https://a/3.jpg", str(out["images"]))
	assert.Equal(t, "newbuild", str(out["category"]))
	assert.Equal(t, "2-комнатная в ЖК Лес", str(out["title"]))
	assert.Equal(t, "17", str(out["floors_total"]))
	assert.Equal(t, "55.8", str(out["latitude"]))
	_, hasPrice := out["price"]
	assert.False(t, hasPrice)
}

func TestNormalize_DegradesOnMalformedData(t *testing.T) {
	row := feedrow.Row{
		"id":          feedrow.Str("x1"),
		"type":        feedrow.Str("Аренда"),
		"location":    feedrow.Str("not an object"),
		"sales-agent": feedrow.Object(feedrow.Row{"category": feedrow.Str("agency"), "organization": feedrow.Str("A")}),
		"image":       feedrow.Object(feedrow.Row{"@_tag": feedrow.Str("plan")}),
		"built-year":  feedrow.Str("soon"),
		"new-flat":    feedrow.Str("1"),
	}

	out := NewNormalizer().Normalize(row)

	assert.Equal(t, "x1", str(out["external_id"]))
	assert.Equal(t, "rent", str(out["deal_type"]))
	assert.Equal(t, "rent", str(out["category"]))
	assert.Equal(t, "", str(out["district"]))
	assert.Equal(t, "", str(out["metro"]))
	assert.Equal(t, "", str(out["images"]))
	assert.Equal(t, "квартира", str(out["title"]))
	_, hasDeveloper := out["developer"]
	assert.False(t, hasDeveloper)
	_, hasHandover := out["handover_date"]
	assert.False(t, hasHandover)
}

func TestNormalize_MetroShapes(t *testing.T) {
	n := NewNormalizer()
	loc := func(metro feedrow.Value) feedrow.Row {
		return feedrow.Row{"location": feedrow.Object(feedrow.Row{"address": feedrow.Str("ул. Ленина, 1"), "metro": metro})}
	}

	assert.Equal(t, "Сокол", str(n.Normalize(loc(feedrow.Object(feedrow.Row{"name": feedrow.Str("Сокол")})))["metro"]))
	assert.Equal(t, "Сокол", str(n.Normalize(loc(feedrow.Str("Сокол")))["metro"]))
	assert.Equal(t, "", str(n.Normalize(loc(feedrow.Null()))["metro"]))
	assert.Equal(t, "ул. Ленина, 1", str(n.Normalize(loc(feedrow.Null()))["district"]))
}

func TestNormalize_SecondaryAndHandoverYearOnly(t *testing.T) {
	out := NewNormalizer().Normalize(feedrow.Row{"built-year": feedrow.Num(2019), "rooms": feedrow.Num(3)})

	assert.Equal(t, "secondary", str(out["category"]))
	assert.Equal(t, "2019", str(out["handover_date"]))
	assert.True(t, strings.HasPrefix(str(out["title"]), "3-комнатная"))
}
