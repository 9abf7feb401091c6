package cache

import (
	"context"
	"testing"
	"time"

	"github.com/lshigami/kwizify/internal/dto"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestQuizDetailKey(t *testing.T) {
	assert.Equal(t, "quiz:detail:42", quizDetailKey(42))
}

func TestNoopQuizCache_AlwaysMisses(t *testing.T) {
	var c QuizCache = NoopQuizCache{}
	ctx := context.Background()
	c.SetQuizDetail(ctx, &dto.QuizDetailResponse{ID: 1})
	_, ok := c.GetQuizDetail(ctx, 1)
	assert.False(t, ok)
	c.InvalidateQuiz(ctx, 1)
}

func TestRedisQuizCache_UnreachableServerMisses(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewRedisQuizCache(client, time.Minute)
	ctx := context.Background()
	c.SetQuizDetail(ctx, &dto.QuizDetailResponse{ID: 7, Title: "t"})
	_, ok := c.GetQuizDetail(ctx, 7)
	assert.False(t, ok)
	c.InvalidateQuiz(ctx, 7)
}
