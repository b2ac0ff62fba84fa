// Package pdf renders the price list of active products with Maroto v2.
//
// Page layout (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: title                  │  generation date          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLE HEADER: Артикул | Наименование | Бренд | Остаток | Цена │
//	│  CATEGORY BAND                                              │
//	│    product rows ...                                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: product count                                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"
	"github.com/shopspring/decimal"

	"github.com/cozyren/catalog-api/internal/domain/entity"
)

// ── Palette ───────────────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 94, Green: 64, Blue: 40}
	colorGray    = &props.Color{Red: 110, Green: 110, Blue: 110}
	colorBand    = &props.Color{Red: 240, Green: 234, Blue: 226}
)

const (
	builtinFamily = "helvetica"
	customFamily  = "catalog"
	uncategorized = "Без категории"
)

// ── Generator ─────────────────────────────────────────────────────────────────

// PriceListGenerator renders price lists. With a TTF font configured Cyrillic text renders
// correctly; the built-in Helvetica only covers Latin-1.
type PriceListGenerator struct {
	title    string
	fontPath string
}

// NewPriceListGenerator builds the generator. fontPath may be empty.
func NewPriceListGenerator(title, fontPath string) *PriceListGenerator {
	return &PriceListGenerator{title: title, fontPath: fontPath}
}

// Render produces the PDF bytes for products (already ordered by category, name).
func (g *PriceListGenerator) Render(_ context.Context, products []*entity.ProductView, generatedAt time.Time) ([]byte, error) {
	builder := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithTitle(g.title, true)

	family := builtinFamily
	if g.fontPath != "" {
		fonts, err := repository.New().
			AddUTF8Font(customFamily, fontstyle.Normal, g.fontPath).
			AddUTF8Font(customFamily, fontstyle.Bold, g.fontPath).
			Load()
		if err != nil {
			return nil, fmt.Errorf("pdf: load font %s: %w", g.fontPath, err)
		}
		builder = builder.WithCustomFonts(fonts)
		family = customFamily
	}
	cfg := builder.WithDefaultFont(&props.Font{Family: family, Size: 9}).Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(g.title, generatedAt, family))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow(family))

	for _, grp := range groupByCategory(products) {
		m.AddRows(categoryRow(grp.name, family))
		for _, p := range grp.items {
			m.AddRows(productRow(p, family))
		}
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Позиций: %d", len(products)), props.Text{
			Family: family, Size: 8, Align: align.Right, Color: colorGray, Top: 2,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Sections ──────────────────────────────────────────────────────────────────

func headerRow(title string, at time.Time, family string) core.Row {
	return row.New(16).Add(
		col.New(8).Add(text.New(title, props.Text{
			Family: family, Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
		})),
		col.New(4).Add(text.New("от "+at.Format("02.01.2006 15:04"), props.Text{
			Family: family, Size: 8, Align: align.Right, Color: colorGray, Top: 5,
		})),
	)
}

func tableHeaderRow(family string) core.Row {
	h := func(s string, a align.Type) core.Component {
		return text.New(s, props.Text{Family: family, Style: fontstyle.Bold, Size: 8, Align: a, Top: 1.5})
	}
	return row.New(7).Add(
		col.New(2).Add(h("Артикул", align.Left)),
		col.New(5).Add(h("Наименование", align.Left)),
		col.New(2).Add(h("Бренд", align.Left)),
		col.New(1).Add(h("Остаток", align.Right)),
		col.New(2).Add(h("Цена, руб.", align.Right)),
	)
}

func categoryRow(name, family string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(name, props.Text{Family: family, Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1.5, Left: 1}),
	)).WithStyle(&props.Cell{BackgroundColor: colorBand})
}

func productRow(p *entity.ProductView, family string) core.Row {
	cell := func(s string, a align.Type) core.Component {
		return text.New(s, props.Text{Family: family, Size: 8, Align: a, Top: 1})
	}
	return row.New(6).Add(
		col.New(2).Add(cell(p.SKU, align.Left)),
		col.New(5).Add(cell(p.Name, align.Left)),
		col.New(2).Add(cell(deref(p.BrandName), align.Left)),
		col.New(1).Add(cell(fmt.Sprintf("%d", p.StockQuantity), align.Right)),
		col.New(2).Add(cell(FormatPrice(p.Price), align.Right)),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

type categoryGroup struct {
	name  string
	items []*entity.ProductView
}

// groupByCategory keeps input order and starts a new group whenever the category changes.
func groupByCategory(products []*entity.ProductView) []categoryGroup {
	var groups []categoryGroup
	for _, p := range products {
		name := deref(p.CategoryName)
		if name == "" {
			name = uncategorized
		}
		if len(groups) == 0 || groups[len(groups)-1].name != name {
			groups = append(groups, categoryGroup{name: name})
		}
		last := &groups[len(groups)-1]
		last.items = append(last.items, p)
	}
	return groups
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// FormatPrice Russian notation: space thousand separators, comma decimals.
// 1234.5 → "1 234,50".
func FormatPrice(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, intPart[i])
	}
	return sign + string(buf) + "," + frac
}
