package ingest

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// RawRecord one extracted record before coercion. A nil RawRecord stands for a feed
// item that was not an object.
type RawRecord map[string]any

// ProductInput a coerced record, ready for reconciliation.
type ProductInput struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	Category      string
	Brand         string
	SKU           string
	StockQuantity int
}

// Normalize coerces a raw record. Keys are looked up through the alias table so localized
// records found by the recursive search are accepted. Missing fields default to empty / zero.
func Normalize(raw RawRecord) (ProductInput, error) {
	if raw == nil {
		return ProductInput{}, ErrInvalidRecord
	}

	in := ProductInput{
		Name:        raw.text(FieldName),
		Description: raw.text(FieldDescription),
		Category:    raw.text(FieldCategory),
		Brand:       raw.text(FieldBrand),
		SKU:         raw.text(FieldSKU),
	}

	price, err := parsePrice(raw.value(FieldPrice))
	if err != nil {
		return ProductInput{}, err
	}
	in.Price = price

	stock, err := parseStock(raw.value(FieldStockQuantity))
	if err != nil {
		return ProductInput{}, err
	}
	in.StockQuantity = stock

	return in, nil
}

// DisplayName best-effort name for logs and failure reports.
func (r RawRecord) DisplayName() string {
	if r == nil {
		return ""
	}
	return r.text(FieldName)
}

// value returns the first alias holding a non-blank value.
func (r RawRecord) value(field string) any {
	for _, alias := range fieldAliases[field] {
		v, ok := r[alias]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		return v
	}
	return nil
}

func (r RawRecord) text(field string) string {
	return textValue(r.value(field))
}

func textValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func parsePrice(v any) (decimal.Decimal, error) {
	if v == nil {
		return decimal.Zero, nil
	}
	d, err := toDecimal(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrInvalidPrice, v)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative value %s", ErrInvalidPrice, d)
	}
	return d.Round(2), nil
}

func parseStock(v any) (int, error) {
	if v == nil {
		return 0, nil
	}
	d, err := toDecimal(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidStock, v)
	}
	if d.IsNegative() || !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("%w: %s", ErrInvalidStock, d)
	}
	if d.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return 0, fmt.Errorf("%w: %s out of range", ErrInvalidStock, d)
	}
	return int(d.IntPart()), nil
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch t := v.(type) {
	case json.Number:
		return decimal.NewFromString(t.String())
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.Zero, fmt.Errorf("not a finite number")
		}
		return decimal.NewFromFloat(t), nil
	case int:
		return decimal.NewFromInt(int64(t)), nil
	case int64:
		return decimal.NewFromInt(t), nil
	case string:
		return decimal.NewFromString(cleanNumber(t))
	default:
		return decimal.Zero, fmt.Errorf("unsupported type %T", v)
	}
}

// cleanNumber accepts price-list spellings such as "1 234,50", "1'234.50" and "1,234.50".
func cleanNumber(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f', '\'', '\t':
			return -1
		}
		return r
	}, s)
	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ",", ".")
		}
	}
	return s
}
