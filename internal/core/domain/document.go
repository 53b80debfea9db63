package domain

import (
	"fmt"
	"strings"
)

// Overlay is the JSON-sourced mapping whose top-level keys take precedence
// over a Document's during a merge. Values are already converted to types a
// property list can hold.
type Overlay map[string]interface{}

// Len returns the number of top-level keys in the overlay
func (o Overlay) Len() int {
	return len(o)
}

// Document is a decoded property list whose root is a dictionary
type Document struct {
	Path   string
	Format Format
	Values map[string]interface{}
}

// NewDocument creates a Document, substituting an empty dictionary for nil values
func NewDocument(path string, format Format, values map[string]interface{}) *Document {
	if values == nil {
		values = make(map[string]interface{})
	}
	return &Document{
		Path:   path,
		Format: format,
		Values: values,
	}
}

// WithValues returns a copy of the document carrying a different root dictionary
func (d *Document) WithValues(values map[string]interface{}) *Document {
	return NewDocument(d.Path, d.Format, values)
}

// Format is the on-disk encoding of a property list
type Format string

const (
	FormatXML      Format = "xml"
	FormatBinary   Format = "binary"
	FormatOpenStep Format = "openstep"
	FormatGNUStep  Format = "gnustep"
)

// Formats lists every encoding that can be written, in the order shown to users
var Formats = []Format{FormatXML, FormatBinary, FormatOpenStep, FormatGNUStep}

// ParseFormat creates a Format with validation. The empty string is not a format.
func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case FormatXML, FormatBinary, FormatOpenStep, FormatGNUStep:
		return f, nil
	default:
		return "", fmt.Errorf("invalid plist format %q (want one of %s)", value, formatList())
	}
}

// String returns the string representation of Format
func (f Format) String() string {
	return string(f)
}

func formatList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = f.String()
	}
	return strings.Join(names, ", ")
}

// HasTypedScalars reports whether values holds anything besides strings,
// data, arrays and dictionaries at any depth. Plain OpenStep text can only
// store those; booleans, numbers and dates need GNUstep's typed syntax.
func HasTypedScalars(values map[string]interface{}) bool {
	for _, v := range values {
		if typedScalar(v) {
			return true
		}
	}
	return false
}

func typedScalar(v interface{}) bool {
	switch x := v.(type) {
	case string, []byte:
		return false
	case []interface{}:
		for _, e := range x {
			if typedScalar(e) {
				return true
			}
		}
		return false
	case map[string]interface{}:
		return HasTypedScalars(x)
	default:
		return true
	}
}
