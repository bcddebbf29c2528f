package repository

import (
	"context"
	"database/sql"

	"krishimitra/internal/models"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

// FarmRepo persists the single farm-state row.
type FarmRepo interface {
	Save(ctx context.Context, s models.FarmState) error
	Load(ctx context.Context) (models.FarmState, error)
}

// QueueRepo is the FIFO replay queue for requests made while offline.
type QueueRepo interface {
	Enqueue(ctx context.Context, r models.QueuedRequest) error
	ListFIFO(ctx context.Context) ([]models.QueuedRequest, error)
	Remove(ctx context.Context, id string) error
	Requeue(ctx context.Context, r models.QueuedRequest) error
	Depth(ctx context.Context) (int, error)
}

// KVRepo is the opaque get/set capability for cached reference data.
type KVRepo interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

type Repository struct {
	Farm  FarmRepo
	Queue QueueRepo
	KV    KVRepo
	Auth  Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Farm:  NewFarmSQLite(db),
		Queue: NewQueueSQLite(db),
		KV:    NewKVSQLite(db),
		Auth:  NewUserRepository(db),
	}
}
