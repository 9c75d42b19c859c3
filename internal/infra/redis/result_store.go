package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"family-puzzles/internal/domain"
)

// ResultStore persists finished games in Redis lists, one per variant plus
// one per player, so both leaderboard and stats reads are single LRANGE
// calls. Records are appended in completion order:
//
//	RPUSH results:{variant}           {json}
//	RPUSH results:{variant}:user:{id} {json}
type ResultStore struct {
	client *redis.Client
}

func NewResultStore(client *redis.Client) *ResultStore {
	return &ResultStore{client: client}
}

func (s *ResultStore) Append(ctx context.Context, rec domain.ResultRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, variantKey(rec.Variant), data)
	pipe.RPush(ctx, playerKey(rec.Variant, rec.UserID), data)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *ResultStore) ListByVariant(ctx context.Context, variant domain.Variant) ([]domain.ResultRecord, error) {
	return s.list(ctx, variantKey(variant))
}

func (s *ResultStore) ListByPlayer(ctx context.Context, variant domain.Variant, userID string) ([]domain.ResultRecord, error) {
	return s.list(ctx, playerKey(variant, userID))
}

func (s *ResultStore) list(ctx context.Context, key string) ([]domain.ResultRecord, error) {
	raw, err := s.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]domain.ResultRecord, 0, len(raw))
	for _, item := range raw {
		var rec domain.ResultRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			// skip corrupt entries rather than failing the whole read
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func variantKey(variant domain.Variant) string {
	return "results:" + string(variant)
}

func playerKey(variant domain.Variant, userID string) string {
	return "results:" + string(variant) + ":user:" + userID
}
