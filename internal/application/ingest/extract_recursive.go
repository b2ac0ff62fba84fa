package ingest

import "sort"

// extractRecursive collects product-like objects that sit inside arrays anywhere in the tree.
// Collected objects are still descended into. Keys are visited in sorted order so the result
// is deterministic.
func extractRecursive(tree any) []RawRecord {
	var out []RawRecord
	var walk func(v any)
	walk = func(v any) {
		switch t := v.(type) {
		case []any:
			for _, item := range t {
				if m, ok := item.(map[string]any); ok && isProductLike(m) {
					out = append(out, RawRecord(m))
				}
				walk(item)
			}
		case map[string]any:
			keys := make([]string, 0, len(t))
			for k := range t {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				walk(t[k])
			}
		}
	}
	walk(tree)
	return out
}
