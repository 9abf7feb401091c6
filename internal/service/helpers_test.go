package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lshigami/kwizify/config"
	"github.com/lshigami/kwizify/database"
	"github.com/lshigami/kwizify/internal/cache"
	"github.com/lshigami/kwizify/internal/dto"
	"github.com/lshigami/kwizify/internal/model"
	"github.com/lshigami/kwizify/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	cfg       *config.Config
	quizRepo  repository.QuizRepository
	questions repository.QuestionRepository
	options   repository.OptionRepository
	attempts  repository.QuizAttemptRepository
	answers   repository.AnswerRepository
	users     repository.UserRepository
	catalog   QuizCatalogService
	ledger    *attemptService
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(config.Database{Driver: database.DriverSQLite, DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithCache(t, cache.NoopQuizCache{})
}

func newFixtureWithCache(t *testing.T, quizCache cache.QuizCache) *fixture {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{Database: config.Database{QueryTimeout: 5 * time.Second}}
	f := &fixture{
		db:        db,
		cfg:       cfg,
		quizRepo:  repository.NewQuizRepository(db),
		questions: repository.NewQuestionRepository(db),
		options:   repository.NewOptionRepository(db),
		attempts:  repository.NewQuizAttemptRepository(db),
		answers:   repository.NewAnswerRepository(db),
		users:     repository.NewUserRepository(db),
	}
	f.catalog = NewQuizCatalogService(f.quizRepo, f.questions, f.options, f.users, quizCache, db, cfg)
	f.ledger = NewAttemptService(f.quizRepo, f.questions, f.options, f.attempts, f.answers, f.users, db, cfg).(*attemptService)
	return f
}

func (f *fixture) seedUser(t *testing.T, name string) *model.User {
	t.Helper()
	u := &model.User{Username: name, Email: name + "@example.com", HashedPassword: "x", IsActive: true}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

// seedScenarioQuiz builds the two question quiz used throughout: Q1 is correct on B,
// Q2 is correct on A, four options each.
func (f *fixture) seedScenarioQuiz(t *testing.T, creatorID uint) uint {
	t.Helper()
	id, err := f.catalog.SaveQuiz(context.Background(), dto.SaveQuizRequest{
		QuizTitle: "Scenario",
		UserID:    creatorID,
		Questions: []dto.QuestionCreateDTO{
			{Question: "Q1", Options: []string{"w1", "right", "w2", "w3"}, CorrectAnswer: "right"},
			{Question: "Q2", Options: []string{"right", "w1", "w2", "w3"}, CorrectAnswer: "A"},
		},
	})
	require.NoError(t, err)
	return id
}

func (f *fixture) countRows(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(m).Count(&n).Error)
	return n
}
