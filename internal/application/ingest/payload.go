package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"strings"
)

// Payload is one classified feed body. The set of variants is closed.
type Payload interface {
	Format() string
	isPayload()
}

// XMLPayload body carried XML under "xml_data" (or was posted as XML).
type XMLPayload struct {
	Source any
}

// RawTextPayload body carried JSON or delimited text under "raw_data" (or was posted as text/csv).
type RawTextPayload struct {
	Source any
}

// ProductListPayload body carried a "products" array.
type ProductListPayload struct {
	Items []any
}

// UnstructuredPayload anything else; records are searched for recursively.
type UnstructuredPayload struct {
	Tree any
}

func (XMLPayload) Format() string          { return "xml" }
func (RawTextPayload) Format() string      { return "raw_text" }
func (ProductListPayload) Format() string  { return "product_list" }
func (UnstructuredPayload) Format() string { return "unstructured" }

func (XMLPayload) isPayload()          {}
func (RawTextPayload) isPayload()      {}
func (ProductListPayload) isPayload()  {}
func (UnstructuredPayload) isPayload() {}

type detectRule struct {
	match func(body map[string]any) (Payload, bool)
}

// Evaluated in order; first match wins.
var detectRules = []detectRule{
	{match: func(body map[string]any) (Payload, bool) {
		v, ok := body["xml_data"]
		return XMLPayload{Source: v}, ok
	}},
	{match: func(body map[string]any) (Payload, bool) {
		v, ok := body["raw_data"]
		return RawTextPayload{Source: v}, ok
	}},
	{match: func(body map[string]any) (Payload, bool) {
		items, ok := body["products"].([]any)
		return ProductListPayload{Items: items}, ok
	}},
}

// Detect classifies a decoded JSON object. Only the marker keys are inspected;
// malformed content under a marker is reported later by the extractor.
func Detect(body map[string]any) Payload {
	for _, r := range detectRules {
		if p, ok := r.match(body); ok {
			return p
		}
	}
	return UnstructuredPayload{Tree: body}
}

// DetectBody classifies a raw HTTP body by content type. XML and text bodies are taken
// as-is (Windows-1251 bytes are decoded); JSON objects go through Detect and any other
// JSON value is searched recursively.
func DetectBody(contentType string, body []byte) (Payload, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}

	switch mediaType {
	case "application/xml", "text/xml":
		return XMLPayload{Source: decodeText(body)}, nil
	case "text/csv", "text/plain":
		return RawTextPayload{Source: decodeText(body)}, nil
	}

	tree, err := decodeJSON(body)
	if err != nil {
		return nil, fmt.Errorf("decode json body: %w", err)
	}
	if obj, ok := tree.(map[string]any); ok {
		return Detect(obj), nil
	}
	return UnstructuredPayload{Tree: tree}, nil
}

// decodeJSON keeps numbers as json.Number so prices are not rounded through float64.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return v, nil
}

// DecodeJSONObject decodes a request body the way the webhooks expect it.
func DecodeJSONObject(data []byte) (map[string]any, error) {
	v, err := decodeJSON(data)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("body is not a JSON object")
	}
	return obj, nil
}
