package panel

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrNoPendingDelete is returned when a delete is confirmed without being requested.
var ErrNoPendingDelete = errors.New("no delete pending confirmation")

// API is the part of the question API the panel drives.
type API interface {
	ListAll(ctx context.Context) ([]Question, error)
	Create(ctx context.Context, d Draft) (*Question, error)
	Delete(ctx context.Context, id uint) error
}

// PendingDelete is the question waiting for delete confirmation.
type PendingDelete struct {
	ID   uint
	Text string
}

type TypeCounts struct {
	Open  int
	MCQ   int
	Total int
}

// Panel is the question list with its difficulty tabs, delete confirmation and
// entry form. It is not safe for concurrent use.
type Panel struct {
	api       API
	logger    *zap.Logger
	questions []Question
	filter    string
	pending   *PendingDelete
	form      *Form
}

func New(api API, logger *zap.Logger) *Panel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Panel{
		api:    api,
		logger: logger,
		form:   NewForm(),
	}
}

// Refresh reloads the full question set. On failure the previous list is kept.
func (p *Panel) Refresh(ctx context.Context) error {
	questions, err := p.api.ListAll(ctx)
	if err != nil {
		p.logger.Error("failed to load questions", zap.Error(err))
		return err
	}
	p.questions = questions
	return nil
}

func (p *Panel) Questions() []Question {
	return p.questions
}

// SetFilter selects a difficulty tab; an empty value shows every question.
func (p *Panel) SetFilter(difficulty string) {
	p.filter = NormalizeDifficulty(difficulty)
}

func (p *Panel) Filter() string {
	return p.filter
}

// Visible returns the questions of the selected tab, in list order.
func (p *Panel) Visible() []Question {
	if p.filter == "" {
		return p.questions
	}
	visible := make([]Question, 0, len(p.questions))
	for _, q := range p.questions {
		if q.Difficulty == p.filter {
			visible = append(visible, q)
		}
	}
	return visible
}

// DifficultyCounts counts the full set per difficulty, whatever the active tab.
func (p *Panel) DifficultyCounts() map[string]int {
	counts := make(map[string]int, len(Difficulties))
	for _, d := range Difficulties {
		counts[d] = 0
	}
	for _, q := range p.questions {
		counts[q.Difficulty]++
	}
	return counts
}

func (p *Panel) TypeCounts() TypeCounts {
	var c TypeCounts
	for _, q := range p.questions {
		if q.Type == TypeMCQ {
			c.MCQ++
		} else {
			c.Open++
		}
	}
	c.Total = len(p.questions)
	return c
}

// RequestDelete opens the confirmation for q.
func (p *Panel) RequestDelete(q Question) {
	p.pending = &PendingDelete{ID: q.ID, Text: q.Text}
}

// Pending reports the question awaiting confirmation, if any.
func (p *Panel) Pending() (PendingDelete, bool) {
	if p.pending == nil {
		return PendingDelete{}, false
	}
	return *p.pending, true
}

// CancelDelete closes the confirmation without touching the API.
func (p *Panel) CancelDelete() {
	p.pending = nil
}

// ConfirmDelete deletes the pending question, closes the confirmation and
// reloads the list. A failed delete leaves the list as it was.
func (p *Panel) ConfirmDelete(ctx context.Context) error {
	if p.pending == nil {
		return ErrNoPendingDelete
	}
	target := *p.pending

	err := p.api.Delete(ctx, target.ID)
	p.pending = nil
	if err != nil {
		p.logger.Error("failed to delete question", zap.Uint("id", target.ID), zap.Error(err))
		return err
	}

	_ = p.Refresh(ctx)
	return nil
}

func (p *Panel) Form() *Form {
	return p.form
}

// Submit validates and sends the form. On success the form is reset, keeping the
// difficulty, and the list reloads.
func (p *Panel) Submit(ctx context.Context) (*Question, error) {
	if err := p.form.Validate(); err != nil {
		return nil, err
	}

	created, err := p.api.Create(ctx, p.form.Draft())
	if err != nil {
		return nil, err
	}

	p.form.Reset()
	_ = p.Refresh(ctx)
	return created, nil
}
