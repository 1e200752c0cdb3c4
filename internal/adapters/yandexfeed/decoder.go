package yandexfeed

import (
	"catalog-import-service/internal/core/feedrow"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
)

const (
	offerXPath      = "//*[local-name()='offer']"
	attributePrefix = "@_"
	textKey         = "#text"
)

// DecodeXML читает XML-фид и возвращает по одной строке на каждый <offer>.
// Атрибуты получают префикс "@_", повторяющиеся элементы становятся списком,
// текст элемента с атрибутами или детьми кладется в "#text".
func DecodeXML(r io.Reader) ([]feedrow.Row, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("yandexfeed: failed to parse xml: %w", err)
	}

	offers := xmlquery.Find(doc, offerXPath)
	rows := make([]feedrow.Row, 0, len(offers))
	for _, offer := range offers {
		rows = append(rows, elementRow(offer))
	}
	return rows, nil
}

func elementRow(n *xmlquery.Node) feedrow.Row {
	row := make(feedrow.Row)
	for _, attr := range n.Attr {
		if attr.Name.Space == "xmlns" || attr.Name.Local == "xmlns" {
			continue
		}
		row[attributePrefix+attr.Name.Local] = feedrow.Str(attr.Value)
	}

	var text strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case xmlquery.ElementNode:
			appendChild(row, child.Data, elementValue(child))
		case xmlquery.TextNode, xmlquery.CharDataNode:
			text.WriteString(child.Data)
		}
	}
	if t := strings.TrimSpace(text.String()); t != "" {
		row[textKey] = feedrow.Str(t)
	}
	return row
}

// elementValue: лист без атрибутов - строка, иначе вложенный объект
func elementValue(n *xmlquery.Node) feedrow.Value {
	row := elementRow(n)
	if len(row) == 0 {
		return feedrow.Str("")
	}
	if text, ok := row[textKey]; ok && len(row) == 1 {
		return text
	}
	return feedrow.Object(row)
}

func appendChild(row feedrow.Row, name string, v feedrow.Value) {
	existing, ok := row[name]
	if !ok {
		row[name] = v
		return
	}
	if existing.Kind() == feedrow.KindList {
		row[name] = feedrow.List(append(feedrow.Items(existing), v)...)
		return
	}
	row[name] = feedrow.List(existing, v)
}
