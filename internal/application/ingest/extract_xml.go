package ingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

func extractXML(source any) ([]RawRecord, error) {
	text, ok := sourceText(source)
	if !ok {
		return nil, &ExtractionError{Format: "xml", Err: fmt.Errorf("xml_data must be a string, got %T", source)}
	}
	if strings.TrimSpace(text) == "" {
		return nil, &ExtractionError{Format: "xml", Err: errors.New("empty document")}
	}

	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = passthroughCharset
	if err := doc.ReadFromString(text); err != nil {
		return nil, &ExtractionError{Format: "xml", Err: err}
	}
	root := doc.Root()
	if root == nil {
		return nil, &ExtractionError{Format: "xml", Err: errors.New("no root element")}
	}

	var items []*etree.Element
	for _, tag := range productTags {
		if items = root.FindElements(".//" + tag); len(items) > 0 {
			break
		}
	}

	records := make([]RawRecord, 0, len(items))
	for _, item := range items {
		rec := RawRecord{}
		for _, field := range fieldOrder {
			if v := childText(item, fieldAliases[field]); v != "" {
				rec[field] = v
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// childText first direct child among tags with non-blank text.
func childText(el *etree.Element, tags []string) string {
	for _, tag := range tags {
		child := el.SelectElement(tag)
		if child == nil {
			continue
		}
		if s := strings.TrimSpace(child.Text()); s != "" {
			return s
		}
	}
	return ""
}

func sourceText(source any) (string, bool) {
	switch s := source.(type) {
	case string:
		return s, true
	case []byte:
		return decodeText(s), true
	default:
		return "", false
	}
}
