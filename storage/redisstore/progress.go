// Package redisstore keeps progress records in a Redis hash.
package redisstore

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/ielts/core/progress"
)

// ProgressKey is the hash holding one JSON record per user ID.
const ProgressKey = "readingProgress"

// Open connects to the Redis server at url, e.g. redis://localhost:6379/0.
func Open(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parsing redis url")
	}
	client := redis.NewClient(opts)
	if err = client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return client, nil
}

type progressRepository struct {
	client *redis.Client
	key    string
}

func NewProgressRepository(client *redis.Client) progress.Repository {
	return &progressRepository{client: client, key: ProgressKey}
}

func (repo *progressRepository) GetProgress(ctx context.Context, userID string) (progress.Record, error) {
	data, err := repo.client.HGet(ctx, repo.key, userID).Result()
	if err == redis.Nil {
		return progress.Record{}, progress.ErrNotFound
	}
	if err != nil {
		return progress.Record{}, errors.Wrap(err, "getting progress")
	}
	var rec progress.Record
	if err = json.Unmarshal([]byte(data), &rec); err != nil {
		return progress.Record{}, errors.Wrap(err, "decoding progress")
	}
	return rec, nil
}

func (repo *progressRepository) SetProgress(ctx context.Context, userID string, rec progress.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "encoding progress")
	}
	return errors.Wrap(repo.client.HSet(ctx, repo.key, userID, data).Err(), "setting progress")
}

func (repo *progressRepository) QueryAllProgress(ctx context.Context) (map[string]progress.Record, error) {
	vals, err := repo.client.HGetAll(ctx, repo.key).Result()
	if err != nil {
		return nil, errors.Wrap(err, "querying progress")
	}
	all := make(map[string]progress.Record, len(vals))
	for userID, data := range vals {
		var rec progress.Record
		if err = json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, errors.Wrapf(err, "decoding progress of %s", userID)
		}
		all[userID] = rec
	}
	return all, nil
}
