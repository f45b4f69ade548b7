package inmem

import (
	"context"

	"github.com/trezcool/ielts/core/progress"
)

type progressRepository struct {
	db *DB
}

func NewProgressRepository(db *DB) progress.Repository {
	return &progressRepository{db: db}
}

func (repo *progressRepository) GetProgress(_ context.Context, userID string) (progress.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if rec, ok := repo.db.progress[userID]; ok {
		return rec.Clone(), nil
	}
	return progress.Record{}, progress.ErrNotFound
}

func (repo *progressRepository) SetProgress(_ context.Context, userID string, rec progress.Record) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.progress[userID] = rec.Clone()
	return nil
}

func (repo *progressRepository) QueryAllProgress(_ context.Context) (map[string]progress.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	all := make(map[string]progress.Record, len(repo.db.progress))
	for userID, rec := range repo.db.progress {
		all[userID] = rec.Clone()
	}
	return all, nil
}
