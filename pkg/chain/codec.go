package chain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/unleex/simchain/pkg/errors"
)

// =============================================================================
// Graph JSON Codec
// =============================================================================

// ParseGraph decodes a production-chain graph from its JSON form: a
// nested object keyed by numeric-string resource IDs, where an object
// value is a sublayer and an array value is a terminal product list.
//
//	{"115": {"46": [63, 64, 61], "7": [130, 129]}}
//
// Key order in the document is preserved as sibling order, which is why
// this uses a token-stream decoder instead of unmarshaling into a map.
// The result is validated; malformed documents and non-numeric keys
// return a structural error.
func ParseGraph(data []byte) (*Graph, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode graph")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New(errors.ErrCodeInvalidGraph, "graph document must be a JSON object")
	}

	nodes, err := parseLayer(dec)
	if err != nil {
		return nil, err
	}
	return New(nodes...)
}

// ReadGraphFile reads and parses a graph JSON file.
func ReadGraphFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseGraph(data)
}

// parseLayer consumes the members of an object whose opening brace has
// already been read, through its closing brace.
func parseLayer(dec *json.Decoder) ([]Node, error) {
	var nodes []Node
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode graph")
		}
		key := keyTok.(string)
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidGraph, "resource key %q is not numeric", key)
		}

		valTok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode graph")
		}
		d, ok := valTok.(json.Delim)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidGraph, "resource %d must map to a sublayer object or terminal array", id)
		}

		switch d {
		case '{':
			sub, err := parseLayer(dec)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, Node{ID: id, Sub: &Graph{Nodes: sub}})
		case '[':
			terms, err := parseTerminals(dec)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, Node{ID: id, Terminals: terms})
		default:
			return nil, errors.New(errors.ErrCodeInvalidGraph, "resource %d must map to a sublayer object or terminal array", id)
		}
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode graph")
	}
	return nodes, nil
}

// parseTerminals consumes the elements of an array whose opening bracket
// has already been read, through its closing bracket.
func parseTerminals(dec *json.Decoder) ([]int, error) {
	var ids []int
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode graph")
		}
		num, ok := tok.(json.Number)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidGraph, "terminal entry %v is not numeric", tok)
		}
		id, err := strconv.Atoi(num.String())
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidGraph, "terminal entry %s is not an integer", num)
		}
		ids = append(ids, id)
	}
	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode graph")
	}
	return ids, nil
}

// =============================================================================
// Int-Keyed Lookup Codec
// =============================================================================

// DecodeIntKeyed decodes a JSON object whose keys are numeric-string
// resource IDs into an int-keyed map. The API and its cache files key
// everything by stringified IDs, so loaders coerce on the way in.
//
// A non-numeric key is a structural error unless lenient is true, in
// which case the offending key is skipped.
func DecodeIntKeyed[T any](data []byte, lenient bool) (map[int]T, error) {
	var raw map[string]T
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode lookup")
	}

	out := make(map[int]T, len(raw))
	for k, v := range raw {
		id, err := strconv.Atoi(k)
		if err != nil {
			if lenient {
				continue
			}
			return nil, errors.New(errors.ErrCodeInvalidGraph, "lookup key %q is not numeric", k)
		}
		out[id] = v
	}
	return out, nil
}

// ReadIntKeyedFile reads a JSON file and decodes it with DecodeIntKeyed.
func ReadIntKeyedFile[T any](path string, lenient bool) (map[int]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return DecodeIntKeyed[T](data, lenient)
}

// =============================================================================
// Layout Document
// =============================================================================

// Document is the serialization format for a computed layout: the canvas
// it was computed for plus the position of every resource. Written by
// the layout command and consumed by external renderers.
type Document struct {
	Canvas    Size        `json:"canvas"`
	Positions PositionMap `json:"positions"`
}

// MarshalDocument serializes a Document to pretty-printed JSON bytes.
func MarshalDocument(d Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// WriteDocumentFile writes a layout Document to a JSON file.
func WriteDocumentFile(d Document, path string) error {
	data, err := MarshalDocument(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadDocumentFile reads a layout Document from a JSON file.
func ReadDocumentFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	return d, nil
}
