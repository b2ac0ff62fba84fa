package ingest

import "fmt"

// Extract runs the extractor for the payload variant. A nil error with no records means the
// payload held nothing recognisable; a non-nil error is always an *ExtractionError.
func Extract(p Payload) ([]RawRecord, error) {
	switch v := p.(type) {
	case XMLPayload:
		return extractXML(v.Source)
	case RawTextPayload:
		return extractRawText(v.Source)
	case ProductListPayload:
		return listRecords(v.Items), nil
	case UnstructuredPayload:
		return extractRecursive(v.Tree), nil
	case nil:
		return nil, &ExtractionError{Format: "unknown", Err: fmt.Errorf("no payload")}
	default:
		return nil, &ExtractionError{Format: p.Format(), Err: fmt.Errorf("unsupported payload %T", p)}
	}
}

// listRecords maps feed items one to one; non-object items become nil records so they
// are counted as record errors instead of silently dropped.
func listRecords(items []any) []RawRecord {
	out := make([]RawRecord, 0, len(items))
	for _, it := range items {
		m, _ := it.(map[string]any)
		out = append(out, RawRecord(m))
	}
	return out
}
