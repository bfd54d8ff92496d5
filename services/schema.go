package services

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"wordquiz/config"
	"wordquiz/models"
)

const hint1Column = "hint1"

// Capabilities describes which optional columns the connected schema has.
type Capabilities struct {
	SupportsHint1 bool `json:"hint1"`
}

// SchemaProbe tracks optional-column support. The flag is resolved once at startup
// and only ever flips from off to on, when the create path adds the column.
type SchemaProbe struct {
	db     *gorm.DB
	logger *zap.Logger
	mode   string
	hint1  atomic.Bool
}

func NewSchemaProbe(db *gorm.DB, logger *zap.Logger, mode string) *SchemaProbe {
	if mode == "" {
		mode = config.Hint1Auto
	}
	return &SchemaProbe{db: db, logger: logger, mode: mode}
}

// Resolve sets the capability flag according to the configured mode. Probe
// failures leave the service in reduced-schema mode.
func (s *SchemaProbe) Resolve(ctx context.Context) Capabilities {
	switch s.mode {
	case config.Hint1Off:
		s.hint1.Store(false)
	case config.Hint1On:
		s.hint1.Store(s.addHint1(ctx))
	default:
		s.hint1.Store(s.hasHint1(ctx))
	}

	caps := s.Capabilities()
	s.logger.Info("schema capabilities resolved",
		zap.String("mode", s.mode),
		zap.Bool("hint1", caps.SupportsHint1),
	)
	return caps
}

func (s *SchemaProbe) Capabilities() Capabilities {
	return Capabilities{SupportsHint1: s.hint1.Load()}
}

// EnsureHint1 adds the hint1 column when it is missing, unless the mode pins the
// reduced schema. It never fails: the returned capabilities tell the caller which
// columns it may write.
func (s *SchemaProbe) EnsureHint1(ctx context.Context) Capabilities {
	if s.hint1.Load() || s.mode == config.Hint1Off {
		return s.Capabilities()
	}
	if s.addHint1(ctx) {
		s.hint1.Store(true)
	}
	return s.Capabilities()
}

func (s *SchemaProbe) hasHint1(ctx context.Context) bool {
	return s.db.WithContext(ctx).Migrator().HasColumn(&models.Question{}, hint1Column)
}

// addHint1 adds the column with "add if not exists" semantics and reports whether
// the column is present afterwards. Concurrent callers may race; whoever loses sees
// the column on the re-probe.
func (s *SchemaProbe) addHint1(ctx context.Context) bool {
	db := s.db.WithContext(ctx)

	var err error
	if db.Dialector.Name() == "postgres" {
		err = db.Exec("ALTER TABLE questions ADD COLUMN IF NOT EXISTS hint1 TEXT").Error
	} else if !s.hasHint1(ctx) {
		err = db.Exec("ALTER TABLE questions ADD COLUMN hint1 TEXT").Error
	}
	if err != nil {
		s.logger.Warn("failed to add hint1 column, continuing without it", zap.Error(err))
	}

	return s.hasHint1(ctx)
}
