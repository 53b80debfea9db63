// Package plistfile reads and rewrites property list files in any of the
// encodings howett.net/plist understands.
package plistfile

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"howett.net/plist"

	"kilometers.ai/plistmerge/internal/core/domain"
)

// Indent matches the tab indentation Apple tooling uses for text plists
const Indent = "\t"

// Store reads and writes property lists on the local filesystem
type Store struct {
	indent string
}

// NewStore creates a new property list store
func NewStore() *Store {
	return &Store{indent: Indent}
}

// Load reads path and decodes it with Decode
func (s *Store) Load(ctx context.Context, path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(domain.NewFileAccessError(path, "read", err))
	}
	return Decode(path, data)
}

// Decode parses data as a property list whose root is a dictionary. The
// encoding is detected from the content.
func Decode(path string, data []byte) (*domain.Document, error) {
	var root interface{}
	libFormat, err := plist.Unmarshal(data, &root)
	if err != nil {
		return nil, errors.WithStack(domain.NewMalformedInputError(path, domain.InputPlist, "invalid property list", err))
	}

	dict, ok := root.(map[string]interface{})
	if !ok {
		reason := fmt.Sprintf("root is %s, want a dictionary", describe(root))
		return nil, errors.WithStack(domain.NewMalformedInputError(path, domain.InputPlist, reason, nil))
	}

	format, err := fromLibraryFormat(libFormat)
	if err != nil {
		return nil, errors.WithStack(domain.NewMalformedInputError(path, domain.InputPlist, "unrecognized encoding", err))
	}

	return domain.NewDocument(path, format, dict), nil
}

// Encode serializes the document's root dictionary. Text encodings are
// indented; binary output is compact.
func (s *Store) Encode(doc *domain.Document, format domain.Format) ([]byte, error) {
	libFormat, err := toLibraryFormat(format)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var data []byte
	if format == domain.FormatBinary {
		data, err = plist.Marshal(doc.Values, libFormat)
	} else {
		data, err = plist.MarshalIndent(doc.Values, libFormat, s.indent)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s property list", format)
	}
	return data, nil
}

// Write overwrites the existing file at path with data, keeping its
// permission bits. The file must already exist.
func (s *Store) Write(ctx context.Context, path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.WithStack(domain.NewFileAccessError(path, "stat", err))
	}
	if err := os.WriteFile(path, data, info.Mode().Perm()); err != nil {
		return errors.WithStack(domain.NewFileAccessError(path, "write", err))
	}
	return nil
}

func fromLibraryFormat(f int) (domain.Format, error) {
	switch f {
	case plist.XMLFormat:
		return domain.FormatXML, nil
	case plist.BinaryFormat:
		return domain.FormatBinary, nil
	case plist.OpenStepFormat:
		return domain.FormatOpenStep, nil
	case plist.GNUStepFormat:
		return domain.FormatGNUStep, nil
	default:
		return "", fmt.Errorf("unknown plist format %d", f)
	}
}

func toLibraryFormat(f domain.Format) (int, error) {
	switch f {
	case domain.FormatXML:
		return plist.XMLFormat, nil
	case domain.FormatBinary:
		return plist.BinaryFormat, nil
	case domain.FormatOpenStep:
		return plist.OpenStepFormat, nil
	case domain.FormatGNUStep:
		return plist.GNUStepFormat, nil
	default:
		return plist.InvalidFormat, fmt.Errorf("unsupported plist format %q", f)
	}
}

func describe(v interface{}) string {
	switch v.(type) {
	case nil:
		return "empty"
	case []interface{}:
		return "an array"
	case string:
		return "a string"
	case []byte:
		return "data"
	default:
		return fmt.Sprintf("%T", v)
	}
}
