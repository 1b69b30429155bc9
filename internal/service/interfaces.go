// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/mayfashion/segmentflow/internal/model"
)

// TransactionSource defines the contract for transaction table loaders. The
// segmentation core consumes the normalized table a source produces and
// never parses raw inputs itself.
type TransactionSource interface {
	Load(ctx context.Context) (*model.TransactionSet, error)
	Describe() string
}

// RunStore defines the contract for the run history store.
type RunStore interface {
	SaveRun(ctx context.Context, run *model.Run) error
	GetRun(ctx context.Context, id string) (*model.Run, error)
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)
	LatestRun(ctx context.Context) (*model.Run, error)
	Close() error
}
