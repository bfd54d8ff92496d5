package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"wordquiz/config"
	"wordquiz/models"
)

// openTestDB returns a migrated sqlite database without the hint1 column.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "questions.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access test database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&models.Question{}, &models.User{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// recordingNotifier keeps every event it is given.
type recordingNotifier struct {
	mu     sync.Mutex
	events []QuestionEvent
}

func (n *recordingNotifier) Notify(ctx context.Context, event QuestionEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

func (n *recordingNotifier) Events() []QuestionEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]QuestionEvent(nil), n.events...)
}

type testEnv struct {
	db       *gorm.DB
	schema   *SchemaProbe
	notifier *recordingNotifier
	service  *QuestionService
}

func newTestEnv(t *testing.T, hint1Mode string) *testEnv {
	t.Helper()

	db := openTestDB(t)
	schema := NewSchemaProbe(db, zap.NewNop(), hint1Mode)
	schema.Resolve(context.Background())

	notifier := &recordingNotifier{}
	return &testEnv{
		db:       db,
		schema:   schema,
		notifier: notifier,
		service:  NewQuestionService(db, schema, notifier, zap.NewNop()),
	}
}

func newDefaultEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnv(t, config.Hint1Auto)
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
