package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

func extractRawText(source any) ([]RawRecord, error) {
	text, ok := sourceText(source)
	if !ok {
		return nil, &ExtractionError{Format: "raw_text", Err: fmt.Errorf("raw_data must be a string, got %T", source)}
	}
	text = strings.TrimPrefix(text, "\ufeff")
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	if records, ok := jsonRecords(text); ok {
		return records, nil
	}

	records, err := csvRecords(text)
	if err != nil {
		return nil, &ExtractionError{Format: "raw_text", Err: err}
	}
	return records, nil
}

// jsonRecords accepts a top-level array or an object with a "products" array.
func jsonRecords(text string) ([]RawRecord, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "[") && !strings.HasPrefix(trimmed, "{") {
		return nil, false
	}
	v, err := decodeJSON([]byte(trimmed))
	if err != nil {
		return nil, false
	}
	switch t := v.(type) {
	case []any:
		return listRecords(t), true
	case map[string]any:
		if items, ok := t["products"].([]any); ok {
			return listRecords(items), true
		}
	}
	return nil, false
}

func csvRecords(text string) ([]RawRecord, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = sniffDelimiter(text)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	columns := mapHeader(header)
	if len(columns) == 0 {
		return nil, fmt.Errorf("csv header has no known columns: %q", header)
	}

	var records []RawRecord
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		if blankRow(row) {
			continue
		}
		rec := RawRecord{}
		for _, field := range fieldOrder {
			for _, idx := range columns[field] {
				if idx < len(row) && strings.TrimSpace(row[idx]) != "" {
					rec[field] = strings.TrimSpace(row[idx])
					break
				}
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// mapHeader column indexes per field, ordered by alias priority.
func mapHeader(header []string) map[string][]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	columns := make(map[string][]int)
	for _, field := range fieldOrder {
		for _, alias := range fieldAliases[field] {
			if i, ok := index[strings.ToLower(alias)]; ok {
				columns[field] = append(columns[field], i)
			}
		}
	}
	return columns
}

// sniffDelimiter picks the most frequent of ',', ';' and tab in the header line.
func sniffDelimiter(text string) rune {
	line := text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		line = text[:i]
	}
	best, bestCount := ',', strings.Count(line, ",")
	for _, d := range []rune{';', '\t'} {
		if n := strings.Count(line, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
