package services

import (
	"strings"

	"wordquiz/models"
)

// QuestionRequest is the body of create and update calls. Type may use either
// vocabulary.
type QuestionRequest struct {
	Text         string   `json:"text"`
	Difficulty   string   `json:"difficulty"`
	Type         string   `json:"type"`
	Answer       string   `json:"answer"`
	Hint1        *string  `json:"hint1"`
	Options      []string `json:"options"`
	CorrectIndex *int     `json:"correctIndex"`
}

// questionInput is a request that passed validation, with every string trimmed
// and type-dependent fields resolved.
type questionInput struct {
	Text         string
	Difficulty   string
	Type         string
	Answer       string
	Hint1        *string
	Options      []string
	CorrectIndex *int
}

// normalizeQuestion applies the per-type rules shared by create and update.
func normalizeQuestion(req *QuestionRequest) (*questionInput, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, newValidationError("question text required")
	}

	difficulty := models.DifficultyEasy
	if strings.TrimSpace(req.Difficulty) != "" {
		d, ok := ParseDifficulty(req.Difficulty)
		if !ok {
			return nil, newValidationError("invalid difficulty")
		}
		difficulty = d
	}

	in := &questionInput{
		Text:       text,
		Difficulty: difficulty,
		Type:       ToDBType(req.Type),
		Answer:     strings.TrimSpace(req.Answer),
	}

	if req.Hint1 != nil {
		if hint := strings.TrimSpace(*req.Hint1); hint != "" {
			in.Hint1 = &hint
		}
	}

	if in.Type == models.QuestionTypeMultipleChoice {
		if len(req.Options) != models.MCQOptionCount {
			return nil, newValidationError("MCQ requires 4 filled options")
		}
		options := make([]string, 0, models.MCQOptionCount)
		for _, o := range req.Options {
			o = strings.TrimSpace(o)
			if o == "" {
				return nil, newValidationError("MCQ requires 4 filled options")
			}
			options = append(options, o)
		}

		idx := 0
		if req.CorrectIndex != nil && *req.CorrectIndex >= 0 && *req.CorrectIndex < models.MCQOptionCount {
			idx = *req.CorrectIndex
		}
		if in.Answer == "" {
			in.Answer = options[idx]
		}
		in.Options = options
		in.CorrectIndex = &idx
		return in, nil
	}

	if in.Answer == "" {
		return nil, newValidationError("answer required for open question")
	}
	return in, nil
}
