package ingest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/cozyren/catalog-api/internal/application/ingest"
)

// ─── XML ──────────────────────────────────────────────────────────────────────

func TestExtract_XMLLocalizedTags(t *testing.T) {
	xml := `<?xml version="1.0" encoding="windows-1251"?>
<Каталог>
  <Товары>
    <Товар>
      <Наименование> Молоток </Наименование>
      <Цена>12.5</Цена>
      <Бренд>Hammer</Бренд>
      <Артикул>H-1</Артикул>
    </Товар>
    <Товар>
      <Name>Отвертка</Name>
    </Товар>
  </Товары>
</Каталог>`

	records, err := ingest.Extract(ingest.XMLPayload{Source: xml})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Молоток", records[0]["name"])
	assert.Equal(t, "12.5", records[0]["price"])
	assert.Equal(t, "Hammer", records[0]["brand"])
	assert.Equal(t, "H-1", records[0]["sku"])
	assert.NotContains(t, records[0], "category")

	assert.Equal(t, "Отвертка", records[1]["name"])

	in, err := ingest.Normalize(records[1])
	require.NoError(t, err)
	assert.True(t, in.Price.IsZero(), "missing price defaults to zero")
	assert.Equal(t, 0, in.StockQuantity)
}

func TestExtract_XMLFallsBackToEnglishTags(t *testing.T) {
	xml := `<catalog><item><name>A</name><price>1</price></item><item><name>B</name></item></catalog>`
	records, err := ingest.Extract(ingest.XMLPayload{Source: xml})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "B", records[1]["name"])
}

func TestExtract_XMLFirstNonEmptyAliasWins(t *testing.T) {
	xml := `<r><Product><Наименование></Наименование><Name>Second</Name><name>Third</name></Product></r>`
	records, err := ingest.Extract(ingest.XMLPayload{Source: xml})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Second", records[0]["name"])
}

func TestExtract_XMLErrors(t *testing.T) {
	for name, src := range map[string]any{
		"malformed":  "<Товар><Наименование>x</Товар>",
		"empty":      "   ",
		"not string": 12,
	} {
		t.Run(name, func(t *testing.T) {
			records, err := ingest.Extract(ingest.XMLPayload{Source: src})
			assert.Empty(t, records)
			var ee *ingest.ExtractionError
			require.ErrorAs(t, err, &ee)
			assert.Equal(t, "xml", ee.Format)
		})
	}
}

func TestExtract_XMLNoProducts(t *testing.T) {
	records, err := ingest.Extract(ingest.XMLPayload{Source: "<root><other/></root>"})
	require.NoError(t, err)
	assert.Empty(t, records)
}

// ─── Raw text ─────────────────────────────────────────────────────────────────

func TestExtract_RawTextJSONArray(t *testing.T) {
	records, err := ingest.Extract(ingest.RawTextPayload{Source: `[{"name":"A","price":10},{"name":"B"}]`})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "A", records[0]["name"])
}

func TestExtract_RawTextJSONProductsObject(t *testing.T) {
	records, err := ingest.Extract(ingest.RawTextPayload{Source: `{"products":[{"name":"A"}]}`})
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestExtract_RawTextCSVWithAliases(t *testing.T) {
	csv := "Наименование,Цена,Категория,Артикул,Остаток\n" +
		"Молоток,\"1 234,50\",Инструменты,H-1,3\n" +
		"\n" +
		"Отвертка,,,,\n"
	records, err := ingest.Extract(ingest.RawTextPayload{Source: csv})
	require.NoError(t, err)
	require.Len(t, records, 2)

	in, err := ingest.Normalize(records[0])
	require.NoError(t, err)
	assert.Equal(t, "Молоток", in.Name)
	assert.Equal(t, "1234.5", in.Price.String())
	assert.Equal(t, "Инструменты", in.Category)
	assert.Equal(t, 3, in.StockQuantity)

	in, err = ingest.Normalize(records[1])
	require.NoError(t, err)
	assert.Equal(t, "Отвертка", in.Name)
	assert.True(t, in.Price.IsZero())
}

func TestExtract_RawTextSemicolonDelimiter(t *testing.T) {
	csv := "name;price;brand\nA;10,5;Bosch\nB;2;Makita\n"
	records, err := ingest.Extract(ingest.RawTextPayload{Source: csv})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "10,5", records[0]["price"])
	assert.Equal(t, "Makita", records[1]["brand"])
}

func TestExtract_RawTextHeaderCaseInsensitiveWithBOM(t *testing.T) {
	csv := "\ufeffNAME,PRICE\nA,1\n"
	records, err := ingest.Extract(ingest.RawTextPayload{Source: csv})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "A", records[0]["name"])
}

func TestExtract_RawTextWindows1251(t *testing.T) {
	encoded, err := charmap.Windows1251.NewEncoder().String("Наименование;Цена\nМолоток;12,5\n")
	require.NoError(t, err)

	records, err := ingest.Extract(ingest.RawTextPayload{Source: []byte(encoded)})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Молоток", records[0]["name"])
}

func TestExtract_RawTextUnrecognised(t *testing.T) {
	_, err := ingest.Extract(ingest.RawTextPayload{Source: "foo,bar\n1,2\n"})
	var ee *ingest.ExtractionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "raw_text", ee.Format)

	_, err = ingest.Extract(ingest.RawTextPayload{Source: map[string]any{"a": 1}})
	require.ErrorAs(t, err, &ee)
}

func TestExtract_RawTextEmpty(t *testing.T) {
	records, err := ingest.Extract(ingest.RawTextPayload{Source: "  \n"})
	require.NoError(t, err)
	assert.Empty(t, records)
}

// ─── Product list / recursive ─────────────────────────────────────────────────

func TestExtract_ProductListKeepsNonObjectsAsInvalid(t *testing.T) {
	records, err := ingest.Extract(ingest.ProductListPayload{Items: []any{map[string]any{"name": "A"}, "junk"}})
	require.NoError(t, err)
	require.Len(t, records, 2)

	_, err = ingest.Normalize(records[1])
	assert.ErrorIs(t, err, ingest.ErrInvalidRecord)
}

func TestExtract_RecursiveFindsNestedProducts(t *testing.T) {
	tree := map[string]any{
		"meta": map[string]any{"source": "1c"},
		"data": map[string]any{
			"Товары": []any{
				map[string]any{"Наименование": "A", "Цена": "1"},
				map[string]any{"note": "no product keys"},
				map[string]any{
					"name": "B",
					"variants": []any{
						map[string]any{"price": "3"},
					},
				},
			},
		},
	}
	records, err := ingest.Extract(ingest.UnstructuredPayload{Tree: tree})
	require.NoError(t, err)
	require.Len(t, records, 3, "each product-like object is collected exactly once")
	assert.Equal(t, "A", records[0]["Наименование"])
	assert.Equal(t, "B", records[1]["name"])
	assert.Equal(t, "3", records[2]["price"])
}

func TestExtract_RecursiveIgnoresTopLevelObject(t *testing.T) {
	records, err := ingest.Extract(ingest.UnstructuredPayload{Tree: map[string]any{"name": "not in an array"}})
	require.NoError(t, err)
	assert.Empty(t, records)
}
