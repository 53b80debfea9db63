// Package jsonfile decodes the JSON overlay document.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"kilometers.ai/plistmerge/internal/core/domain"
)

// Source reads overlays from JSON files on the local filesystem
type Source struct{}

// NewSource creates a new JSON overlay source
func NewSource() *Source { return &Source{} }

// LoadOverlay reads path and decodes it with Decode
func (s *Source) LoadOverlay(ctx context.Context, path string) (domain.Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(domain.NewFileAccessError(path, "read", err))
	}
	return Decode(path, data)
}

// Decode parses data as a JSON document whose top-level value is an object.
// Numbers become uint64 (non-negative integers), int64 (negative integers) or
// float64, matching the types a decoded property list carries. null has no
// property list representation and is rejected.
func Decode(path string, data []byte) (domain.Overlay, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.WithStack(domain.NewMalformedInputError(path, domain.InputJSON, "invalid JSON", err))
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.WithStack(domain.NewMalformedInputError(path, domain.InputJSON, "unexpected data after top-level value", nil))
	}

	obj, ok := raw.(map[string]interface{})
	if !ok {
		reason := fmt.Sprintf("top-level value is %s, want an object", describe(raw))
		return nil, errors.WithStack(domain.NewMalformedInputError(path, domain.InputJSON, reason, nil))
	}

	overlay := make(domain.Overlay, len(obj))
	for key, value := range obj {
		converted, err := convert(value, strconv.Quote(key))
		if err != nil {
			return nil, errors.WithStack(domain.NewMalformedInputError(path, domain.InputJSON, "unsupported value", err))
		}
		overlay[key] = converted
	}
	return overlay, nil
}

func convert(value interface{}, at string) (interface{}, error) {
	switch v := value.(type) {
	case nil:
		return nil, fmt.Errorf("%s: null cannot be stored in a property list", at)
	case json.Number:
		n, err := convertNumber(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", at, err)
		}
		return n, nil
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, elem := range v {
			c, err := convert(elem, fmt.Sprintf("%s[%d]", at, i))
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, elem := range v {
			c, err := convert(elem, at+"."+strconv.Quote(k))
			if err != nil {
				return nil, err
			}
			out[k] = c
		}
		return out, nil
	default:
		// string, bool
		return v, nil
	}
}

func convertNumber(n json.Number) (interface{}, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if strings.HasPrefix(s, "-") {
			i, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("integer %s does not fit in 64 bits", s)
			}
			return i, nil
		}
		u, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("integer %s does not fit in 64 bits", s)
		}
		return u, nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("real %s is out of range", s)
	}
	return f, nil
}

func describe(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case []interface{}:
		return "an array"
	case string:
		return "a string"
	case json.Number:
		return "a number"
	case bool:
		return "a boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
