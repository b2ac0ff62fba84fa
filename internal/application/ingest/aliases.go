package ingest

// Canonical record fields.
const (
	FieldName          = "name"
	FieldDescription   = "description"
	FieldPrice         = "price"
	FieldCategory      = "category"
	FieldBrand         = "brand"
	FieldSKU           = "sku"
	FieldStockQuantity = "stock_quantity"
)

// fieldAliases source keys (XML tags, CSV headers, JSON keys) per field, in priority order.
var fieldAliases = map[string][]string{
	FieldName:          {"Наименование", "Name", "name"},
	FieldDescription:   {"Описание", "Description", "description"},
	FieldPrice:         {"Цена", "Price", "price"},
	FieldCategory:      {"Категория", "Category", "category"},
	FieldBrand:         {"Бренд", "Brand", "brand"},
	FieldSKU:           {"Артикул", "Article", "sku"},
	FieldStockQuantity: {"Остаток", "Stock", "stock_quantity"},
}

// fieldOrder fixed iteration order over fieldAliases.
var fieldOrder = []string{
	FieldName, FieldDescription, FieldPrice, FieldCategory, FieldBrand, FieldSKU, FieldStockQuantity,
}

// productTags XML element names that denote one product, tried in order.
var productTags = []string{"Товар", "Product", "item"}

// isProductLike reports whether an object found during the recursive search looks like a product.
func isProductLike(m map[string]any) bool {
	for _, f := range []string{FieldName, FieldPrice} {
		for _, alias := range fieldAliases[f] {
			if _, ok := m[alias]; ok {
				return true
			}
		}
	}
	return false
}
