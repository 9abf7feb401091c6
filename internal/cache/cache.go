package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lshigami/kwizify/config"
	"github.com/lshigami/kwizify/internal/dto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

// QuizCache holds rendered quiz details. A miss or a backend error both report ok=false;
// callers always fall back to the database.
type QuizCache interface {
	GetQuizDetail(ctx context.Context, quizID uint) (*dto.QuizDetailResponse, bool)
	SetQuizDetail(ctx context.Context, detail *dto.QuizDetailResponse)
	InvalidateQuiz(ctx context.Context, quizID uint)
}

// NewQuizCache returns a redis backed cache when REDIS_ADDR is configured, otherwise a no-op.
func NewQuizCache(lc fx.Lifecycle, cfg *config.Config) QuizCache {
	if cfg.Redis.Addr == "" {
		log.Info().Msg("REDIS_ADDR not set, quiz cache disabled")
		return NoopQuizCache{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				// Reads degrade to the database; startup continues.
				log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis ping failed")
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Closing redis client")
			return client.Close()
		},
	})
	return NewRedisQuizCache(client, cfg.Redis.QuizTTL)
}

type redisQuizCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisQuizCache(client *redis.Client, ttl time.Duration) QuizCache {
	return &redisQuizCache{client: client, ttl: ttl}
}

func quizDetailKey(quizID uint) string {
	return fmt.Sprintf("quiz:detail:%d", quizID)
}

func (c *redisQuizCache) GetQuizDetail(ctx context.Context, quizID uint) (*dto.QuizDetailResponse, bool) {
	raw, err := c.client.Get(ctx, quizDetailKey(quizID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Uint("quizID", quizID).Msg("QuizCache.Get: redis error")
		}
		return nil, false
	}
	var detail dto.QuizDetailResponse
	if err := json.Unmarshal(raw, &detail); err != nil {
		log.Warn().Err(err).Uint("quizID", quizID).Msg("QuizCache.Get: corrupt entry")
		return nil, false
	}
	return &detail, true
}

func (c *redisQuizCache) SetQuizDetail(ctx context.Context, detail *dto.QuizDetailResponse) {
	raw, err := json.Marshal(detail)
	if err != nil {
		log.Warn().Err(err).Uint("quizID", detail.ID).Msg("QuizCache.Set: marshal failed")
		return
	}
	if err := c.client.Set(ctx, quizDetailKey(detail.ID), raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Uint("quizID", detail.ID).Msg("QuizCache.Set: redis error")
	}
}

func (c *redisQuizCache) InvalidateQuiz(ctx context.Context, quizID uint) {
	if err := c.client.Del(ctx, quizDetailKey(quizID)).Err(); err != nil {
		log.Warn().Err(err).Uint("quizID", quizID).Msg("QuizCache.Invalidate: redis error")
	}
}

type NoopQuizCache struct{}

func (NoopQuizCache) GetQuizDetail(context.Context, uint) (*dto.QuizDetailResponse, bool) {
	return nil, false
}
func (NoopQuizCache) SetQuizDetail(context.Context, *dto.QuizDetailResponse) {}
func (NoopQuizCache) InvalidateQuiz(context.Context, uint)                   {}
