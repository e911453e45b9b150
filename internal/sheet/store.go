package sheet

import (
	"context"
	"errors"

	"github.com/desertthunder/vidtrack/internal/shared"
)

// Store defines the interface for video sheet persistence backends.
//
// Write replaces the whole table. Backends must make the replacement
// all-or-nothing: a failed write leaves the previously persisted table intact.
type Store interface {
	// Load reads the persisted table. A missing sheet is reported as
	// [shared.ErrSheetNotFound].
	Load(ctx context.Context) (*Table, error)

	// Write persists the table, replacing any previous contents.
	Write(ctx context.Context, t *Table) error

	// Name returns the backend name (e.g., "csv", "sqlite")
	Name() string
}

// ErrKind buckets storage failures for reporting.
type ErrKind int

const (
	ErrKindNotFound ErrKind = iota
	ErrKindRateLimited
	ErrKindOther
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "not_found"
	case ErrKindRateLimited:
		return "rate_limited"
	default:
		return "storage"
	}
}

// ClassifyErr buckets a storage error into its kind.
func ClassifyErr(err error) ErrKind {
	switch {
	case errors.Is(err, shared.ErrSheetNotFound):
		return ErrKindNotFound
	case errors.Is(err, shared.ErrRateLimited):
		return ErrKindRateLimited
	default:
		return ErrKindOther
	}
}
