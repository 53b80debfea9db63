package domain

import "fmt"

// FileAccessError reports an input or output path that could not be read or written
type FileAccessError struct {
	Path string
	Op   string
	Err  error
}

// NewFileAccessError creates a FileAccessError for the given operation
func NewFileAccessError(path, op string, err error) *FileAccessError {
	return &FileAccessError{Path: path, Op: op, Err: err}
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("cannot %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error {
	return e.Err
}

// Input kinds reported by MalformedInputError
const (
	InputJSON  = "JSON"
	InputPlist = "plist"
)

// MalformedInputError reports a file whose contents could not be decoded into
// a top-level mapping
type MalformedInputError struct {
	Path   string
	Kind   string
	Reason string
	Err    error
}

// NewMalformedInputError creates a MalformedInputError. err may be nil when the
// document decoded but has the wrong shape.
func NewMalformedInputError(path, kind, reason string, err error) *MalformedInputError {
	return &MalformedInputError{Path: path, Kind: kind, Reason: reason, Err: err}
}

func (e *MalformedInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s in %s: %s: %v", e.Kind, e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed %s in %s: %s", e.Kind, e.Path, e.Reason)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// ArgumentError reports a command line with too few positional arguments
type ArgumentError struct {
	Got  int
	Want int
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("expected %d arguments (<json_file_path> <plist_file_path>), got %d", e.Want, e.Got)
}
