package source

import (
	"context"
	"errors"

	"github.com/komsit37/kessan/pkg/kessan/types"
)

// Record is a decoded company record and the file it came from.
type Record struct {
	Path    string
	Company types.Company
}

// Source loads company records from a path (a record file or a directory of
// record files).
type Source interface {
	Load(ctx context.Context, path string) ([]Record, error)
}

// ErrInvalidName rejects record names that would escape the data directory.
var ErrInvalidName = errors.New("invalid record name")

// NotFoundError reports a record name with no matching file.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string { return e.Name + " not found" }

// ParseError reports a record file that could not be decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string { return "parse " + e.Path + ": " + e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }
