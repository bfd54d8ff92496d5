package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"wordquiz/models"
)

type QuestionService struct {
	db       *gorm.DB
	schema   *SchemaProbe
	notifier Notifier
	logger   *zap.Logger
}

// NewQuestionService wires the question operations. notifier may be nil.
func NewQuestionService(db *gorm.DB, schema *SchemaProbe, notifier Notifier, logger *zap.Logger) *QuestionService {
	return &QuestionService{
		db:       db,
		schema:   schema,
		notifier: notifier,
		logger:   logger,
	}
}

// QuestionResponse is a question as the API presents it: type in the OPEN/MCQ
// vocabulary, options decoded, null for open questions.
type QuestionResponse struct {
	ID           uint       `json:"id"`
	Text         string     `json:"text"`
	Difficulty   string     `json:"difficulty"`
	Type         string     `json:"type"`
	Answer       string     `json:"answer"`
	Hint1        *string    `json:"hint1"`
	Options      []string   `json:"options"`
	CorrectIndex *int       `json:"correctIndex"`
	CreatedAt    time.Time  `json:"createdAt"`
	UsedAt       *time.Time `json:"usedAt"`
}

type ListParams struct {
	Page       int
	Limit      int
	Difficulty string
}

type ListResponse struct {
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	Total      int64              `json:"total"`
	TotalPages int                `json:"totalPages"`
	Count      int                `json:"count"`
	Data       []QuestionResponse `json:"data"`
}

// columns lists the question columns the current schema can serve.
func columns(caps Capabilities) []string {
	cols := []string{"id", "text", "difficulty", "type", "answer", "options", "correct_index", "created_at", "used_at"}
	if caps.SupportsHint1 {
		cols = append(cols, hint1Column)
	}
	return cols
}

func (s *QuestionService) ListQuestions(ctx context.Context, params ListParams) (*ListResponse, error) {
	if params.Page < 1 {
		params.Page = DefaultPage
	}
	if params.Limit < 1 || params.Limit > MaxLimit {
		params.Limit = DefaultLimit
	}

	query := s.db.WithContext(ctx).Model(&models.Question{})
	if difficulty, ok := ParseDifficulty(params.Difficulty); ok {
		query = query.Where("difficulty = ?", difficulty)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}

	var rows []models.Question
	err := query.Session(&gorm.Session{}).
		Select(columns(s.schema.Capabilities())).
		Order("created_at DESC").
		Order("id DESC").
		Limit(params.Limit).
		Offset((params.Page - 1) * params.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	data := make([]QuestionResponse, 0, len(rows))
	for i := range rows {
		data = append(data, toQuestionResponse(&rows[i]))
	}

	return &ListResponse{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: TotalPages(total, params.Limit),
		Count:      len(data),
		Data:       data,
	}, nil
}

func (s *QuestionService) GetQuestion(ctx context.Context, id uint) (*QuestionResponse, error) {
	row, err := s.findQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toQuestionResponse(row)
	return &resp, nil
}

func (s *QuestionService) CreateQuestion(ctx context.Context, req *QuestionRequest) (*QuestionResponse, error) {
	in, err := normalizeQuestion(req)
	if err != nil {
		return nil, err
	}

	caps := s.schema.EnsureHint1(ctx)

	options, err := encodeOptions(in.Options)
	if err != nil {
		return nil, err
	}

	question := models.Question{
		Text:         in.Text,
		Difficulty:   in.Difficulty,
		Type:         in.Type,
		Answer:       in.Answer,
		Options:      options,
		CorrectIndex: in.CorrectIndex,
	}

	tx := s.db.WithContext(ctx)
	if caps.SupportsHint1 {
		question.Hint1 = in.Hint1
	} else {
		tx = tx.Omit(hint1Column)
	}

	if err := tx.Create(&question).Error; err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}

	s.notify(ctx, QuestionEvent{Type: EventQuestionCreated, ID: question.ID, Difficulty: question.Difficulty})

	resp := toQuestionResponse(&question)
	return &resp, nil
}

// UpdateQuestion replaces every mutable field of a question. It applies the same
// rules as CreateQuestion; created_at is never touched.
func (s *QuestionService) UpdateQuestion(ctx context.Context, id uint, req *QuestionRequest) (*QuestionResponse, error) {
	in, err := normalizeQuestion(req)
	if err != nil {
		return nil, err
	}

	options, err := encodeOptions(in.Options)
	if err != nil {
		return nil, err
	}

	values := map[string]interface{}{
		"text":          in.Text,
		"difficulty":    in.Difficulty,
		"type":          in.Type,
		"answer":        in.Answer,
		"options":       options,
		"correct_index": in.CorrectIndex,
	}
	if s.schema.Capabilities().SupportsHint1 {
		values[hint1Column] = in.Hint1
	}

	result := s.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("id = ?", id).
		Updates(values)
	if result.Error != nil {
		return nil, fmt.Errorf("update question %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, &NotFoundError{ID: id}
	}

	row, err := s.findQuestion(ctx, id)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, QuestionEvent{Type: EventQuestionUpdated, ID: row.ID, Difficulty: row.Difficulty})

	resp := toQuestionResponse(row)
	return &resp, nil
}

func (s *QuestionService) DeleteQuestion(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Question{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete question %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{ID: id}
	}

	s.notify(ctx, QuestionEvent{Type: EventQuestionDeleted, ID: id})
	return nil
}

func (s *QuestionService) Capabilities() Capabilities {
	return s.schema.Capabilities()
}

func (s *QuestionService) findQuestion(ctx context.Context, id uint) (*models.Question, error) {
	var row models.Question
	err := s.db.WithContext(ctx).
		Select(columns(s.schema.Capabilities())).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("get question %d: %w", id, err)
	}
	return &row, nil
}

func (s *QuestionService) notify(ctx context.Context, event QuestionEvent) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.logger.Warn("failed to publish question event",
			zap.String("event", event.Type),
			zap.Uint("id", event.ID),
			zap.Error(err),
		)
	}
}

// encodeOptions stores options as a JSON array; open questions store NULL.
func encodeOptions(options []string) (datatypes.JSON, error) {
	if options == nil {
		return nil, nil
	}
	data, err := json.Marshal(options)
	if err != nil {
		return nil, fmt.Errorf("encode options: %w", err)
	}
	return datatypes.JSON(data), nil
}

func decodeOptions(raw datatypes.JSON) []string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var options []string
	if err := json.Unmarshal(raw, &options); err != nil {
		return nil
	}
	return options
}

func toQuestionResponse(q *models.Question) QuestionResponse {
	return QuestionResponse{
		ID:           q.ID,
		Text:         q.Text,
		Difficulty:   q.Difficulty,
		Type:         ToAPIType(q.Type),
		Answer:       q.Answer,
		Hint1:        q.Hint1,
		Options:      decodeOptions(q.Options),
		CorrectIndex: q.CorrectIndex,
		CreatedAt:    q.CreatedAt,
		UsedAt:       q.UsedAt,
	}
}
