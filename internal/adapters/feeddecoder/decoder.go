// Package feeddecoder материализует файл фида в пачку строк feedrow.Row.
package feeddecoder

import (
	"bytes"
	"catalog-import-service/internal/adapters/yandexfeed"
	"catalog-import-service/internal/core/domain"
	"catalog-import-service/internal/core/feedrow"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

type Kind string

const (
	KindJSON Kind = "json"
	KindCSV  Kind = "csv"
	KindXLSX Kind = "xlsx"
	KindXML  Kind = "xml"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// KindFromFilename определяет тип файла по расширению
func KindFromFilename(name string) (Kind, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")); ext {
	case "json":
		return KindJSON, nil
	case "csv", "tsv", "txt":
		return KindCSV, nil
	case "xlsx":
		return KindXLSX, nil
	case "xml", "yml":
		return KindXML, nil
	default:
		return "", fmt.Errorf("%w: file extension %q", domain.ErrUnsupportedFormat, ext)
	}
}

// DefaultFeedFormat - схема строк, если клиент ее не указал: XML-фиды приходят от Яндекса
func (k Kind) DefaultFeedFormat() domain.FeedFormat {
	if k == KindXML {
		return domain.FormatYandex
	}
	return domain.FormatGeneric
}

func Decode(kind Kind, r io.Reader) ([]feedrow.Row, error) {
	switch kind {
	case KindJSON:
		return DecodeJSON(r)
	case KindCSV:
		return DecodeCSV(r)
	case KindXLSX:
		return DecodeXLSX(r)
	case KindXML:
		return yandexfeed.DecodeXML(r)
	}
	return nil, fmt.Errorf("%w: feed kind %q", domain.ErrUnsupportedFormat, kind)
}

// DecodeJSON принимает массив объектов или объект-обертку {"rows": [...]}, {"offers": [...]}, {"items": [...]}
func DecodeJSON(r io.Reader) ([]feedrow.Row, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("feeddecoder: invalid json: %w", err)
	}

	items, ok := payload.([]any)
	if !ok {
		obj, isObj := payload.(map[string]any)
		if !isObj {
			return nil, errors.New("feeddecoder: json feed must be an array or an object with rows")
		}
		for _, key := range []string{"rows", "offers", "items"} {
			if list, found := obj[key].([]any); found {
				items, ok = list, true
				break
			}
		}
		if !ok {
			return nil, errors.New(`feeddecoder: json object has no "rows", "offers" or "items" array`)
		}
	}

	rows := make([]feedrow.Row, 0, len(items))
	for i, item := range items {
		obj, isObj := item.(map[string]any)
		if !isObj {
			return nil, fmt.Errorf("feeddecoder: row %d is not an object", i+1)
		}
		rows = append(rows, feedrow.RowFromMap(obj))
	}
	return rows, nil
}

// DecodeCSV читает таблицу с заголовком. Разделитель (",", ";" или табуляция)
// определяется по первой строке. Пустые ячейки в строку не попадают.
func DecodeCSV(r io.Reader) ([]feedrow.Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("feeddecoder: failed to read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("feeddecoder: invalid csv: %w", err)
	}
	return tableRows(records), nil
}

func detectDelimiter(data []byte) rune {
	header := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		header = data[:i]
	}
	best, bestCount := ',', bytes.Count(header, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(header, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// DecodeXLSX читает первый лист книги; первая строка - заголовок
func DecodeXLSX(r io.Reader) ([]feedrow.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("feeddecoder: failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return []feedrow.Row{}, nil
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("feeddecoder: unable to read sheet %q: %w", sheets[0], err)
	}
	return tableRows(records), nil
}

// tableRows превращает таблицу с заголовком в строки, пропуская полностью пустые
func tableRows(records [][]string) []feedrow.Row {
	if len(records) == 0 {
		return []feedrow.Row{}
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	rows := make([]feedrow.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(feedrow.Row)
		for i, cell := range record {
			if i >= len(header) || header[i] == "" {
				continue
			}
			if cell = strings.TrimSpace(cell); cell != "" {
				row[header[i]] = feedrow.Str(cell)
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows
}
