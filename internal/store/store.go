// Package store persists validated stage records.
package store

import (
	"context"

	"github.com/me/wfstage/pkg/model"
)

// Store is the persistence interface for stage records.
type Store interface {
	CreateStage(ctx context.Context, rec *model.StageRecord) error
	GetStage(ctx context.Context, id string) (*model.StageRecord, error)
	ListStages(ctx context.Context, opts model.ListOptions) ([]*model.StageRecord, int, error)
	DeleteStage(ctx context.Context, id string) (bool, error)
	Close() error
}
