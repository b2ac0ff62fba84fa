package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cozyren/catalog-api/internal/domain/entity"
	"github.com/cozyren/catalog-api/internal/infrastructure/pdf"
)

func strPtr(s string) *string { return &s }

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "0,00", pdf.FormatPrice(decimal.Zero))
	assert.Equal(t, "999,90", pdf.FormatPrice(decimal.RequireFromString("999.9")))
	assert.Equal(t, "1 234,50", pdf.FormatPrice(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "1 000 000,00", pdf.FormatPrice(decimal.NewFromInt(1000000)))
}

func TestRender_ProducesPDF(t *testing.T) {
	products := []*entity.ProductView{
		{Product: entity.Product{Name: "Hammer", SKU: "H-1", Price: decimal.RequireFromString("12.5"), StockQuantity: 3},
			CategoryName: strPtr("Tools"), BrandName: strPtr("Acme")},
		{Product: entity.Product{Name: "Paint", Price: decimal.NewFromInt(700)}},
	}
	g := pdf.NewPriceListGenerator("Price list", "")

	out, err := g.Render(context.Background(), products, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRender_MissingFontIsError(t *testing.T) {
	g := pdf.NewPriceListGenerator("Price list", "/nonexistent/font.ttf")
	_, err := g.Render(context.Background(), nil, time.Now())
	assert.Error(t, err)
}
