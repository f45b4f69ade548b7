package progress

import (
	"context"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("progress not found")

// Repository persists progress records by user ID.
// SetProgress always replaces the whole record.
type Repository interface {
	GetProgress(ctx context.Context, userID string) (Record, error)
	SetProgress(ctx context.Context, userID string, rec Record) error
	QueryAllProgress(ctx context.Context) (map[string]Record, error)
}
