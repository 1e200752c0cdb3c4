package feedrow

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// String приводит скаляр к строке. Списки, объекты и null дают пустую строку.
func String(v Value) string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return FormatNumber(v.num)
	case KindBool:
		if v.flag {
			return "true"
		}
		return "false"
	}
	return ""
}

// FormatNumber печатает число в кратчайшей форме: 3 -> "3", 59.5 -> "59.5"
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Number приводит значение к числу с учетом локали: пробелы удаляются,
// запятая считается десятичным разделителем. Второе значение false означает
// "нет числа" и не равно нулю.
func Number(v Value) (float64, bool) {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return 0, false
		}
		return v.num, true
	case KindString:
		return ParseLocaleNumber(v.str)
	}
	return 0, false
}

// ParseLocaleNumber разбирает строки вида "2 500,75"
func ParseLocaleNumber(s string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		if r == ',' {
			return '.'
		}
		return r
	}, s)
	if cleaned == "" {
		return 0, false
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, false
	}
	f, _ := d.Float64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// StringArray приводит значение к списку строк без пустых элементов и повторов.
// Никогда не возвращает nil.
func StringArray(v Value) []string {
	var parts []string
	if v.kind == KindList {
		for _, item := range v.list {
			parts = append(parts, String(item))
		}
	} else if s := String(v); s != "" {
		parts = strings.FieldsFunc(s, func(r rune) bool {
			return r == ',' || r == ';' || r == '|'
		})
	}

	result := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		result = append(result, p)
	}
	return result
}

func normalizedToken(v Value) string {
	return strings.TrimSpace(strings.ToLower(String(v)))
}

// StatusOf распознает только hidden и archived, все остальное - active
func StatusOf(v Value) string {
	switch s := normalizedToken(v); s {
	case "hidden", "archived":
		return s
	}
	return "active"
}

// CategoryOf распознает secondary и rent, все остальное - newbuild
func CategoryOf(v Value) string {
	switch s := normalizedToken(v); s {
	case "secondary", "rent":
		return s
	}
	return "newbuild"
}

// DealTypeOf распознает только rent, все остальное - sale
func DealTypeOf(v Value) string {
	if normalizedToken(v) == "rent" {
		return "rent"
	}
	return "sale"
}
