package feedrow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber(t *testing.T) {
	cases := []struct {
		name   string
		in     Value
		want   float64
		wantOK bool
	}{
		{"locale string", Str("2 500,75"), 2500.75, true},
		{"nbsp thousands", Str("3 000 000"), 3000000, true},
		{"native number", Num(59.5), 59.5, true},
		{"zero is present", Str("0"), 0, true},
		{"garbage", Str("abc"), 0, false},
		{"empty", Str(""), 0, false},
		{"null", Null(), 0, false},
		{"bool", Bool(true), 0, false},
		{"list", List(Num(1)), 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Number(tc.in)
			assert.Equal(t, tc.wantOK, ok)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "3", String(Num(3)))
	assert.Equal(t, "59.5", String(Num(59.5)))
	assert.Equal(t, "true", String(Bool(true)))
	assert.Equal(t, "abc", String(Str("abc")))
	assert.Empty(t, String(Null()))
	assert.Empty(t, String(List(Str("a"))))
	assert.Empty(t, String(Object(Row{"a": Str("b")})))
}

func TestStringArray(t *testing.T) {
	assert.Equal(t, []string{"м. Сокол", "м. Аэропорт"}, StringArray(Str("м. Сокол; м. Аэропорт")))
	assert.Equal(t, []string{"a", "b", "c"}, StringArray(Str("a,b|c;;")))
	assert.Equal(t, []string{"a", "b"}, StringArray(List(Str(" a "), Str(""), Str("b"), Str("a"))))
	assert.Equal(t, []string{"1", "x"}, StringArray(List(Num(1), Object(Row{}), Str("x"))))

	empty := StringArray(Null())
	require.NotNil(t, empty)
	assert.Empty(t, empty)
	assert.NotNil(t, StringArray(Str("")))
}

func TestEnumCoercion(t *testing.T) {
	assert.Equal(t, "hidden", StatusOf(Str(" HIDDEN ")))
	assert.Equal(t, "archived", StatusOf(Str("archived")))
	assert.Equal(t, "active", StatusOf(Str("deleted")))
	assert.Equal(t, "active", StatusOf(Null()))

	assert.Equal(t, "secondary", CategoryOf(Str("Secondary")))
	assert.Equal(t, "rent", CategoryOf(Str("RENT")))
	assert.Equal(t, "newbuild", CategoryOf(Str("commercial")))

	assert.Equal(t, "rent", DealTypeOf(Str("Rent")))
	assert.Equal(t, "sale", DealTypeOf(Str("аренда")))
	assert.Equal(t, "sale", DealTypeOf(Null()))
}
