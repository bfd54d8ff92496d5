package panel

import (
	"strings"
)

// Question types and difficulties as the API reports them.
const (
	TypeOpen = "OPEN"
	TypeMCQ  = "MCQ"

	DifficultyEasy   = "facil"
	DifficultyMedium = "medio"
	DifficultyHard   = "dificil"
)

// Difficulties are the filter tabs, easiest first.
var Difficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard}

// NormalizeDifficulty maps a tab name in either vocabulary to the API value.
// Unknown names come back unchanged.
func NormalizeDifficulty(d string) string {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case "easy", "facil", "fácil":
		return DifficultyEasy
	case "medium", "medio", "médio":
		return DifficultyMedium
	case "hard", "dificil", "difícil":
		return DifficultyHard
	}
	return strings.TrimSpace(d)
}

// FormError is a client-side check that failed before any request was sent.
type FormError struct {
	Message string
}

func (e *FormError) Error() string { return e.Message }

// Form holds the fields of the question entry form.
type Form struct {
	Text         string
	Type         string
	Difficulty   string
	Answer       string
	Hint1        string
	Options      [4]string
	CorrectIndex int
}

func NewForm() *Form {
	return &Form{Type: TypeOpen, Difficulty: DifficultyEasy}
}

// Validate runs the required-field checks the server will repeat.
func (f *Form) Validate() error {
	if strings.TrimSpace(f.Text) == "" {
		return &FormError{Message: "question text required"}
	}
	if f.isMCQ() {
		for _, o := range f.Options {
			if strings.TrimSpace(o) == "" {
				return &FormError{Message: "MCQ requires 4 filled options"}
			}
		}
		if f.CorrectIndex < 0 || f.CorrectIndex >= len(f.Options) {
			return &FormError{Message: "correct option must be between 1 and 4"}
		}
		return nil
	}
	if strings.TrimSpace(f.Answer) == "" {
		return &FormError{Message: "answer required for open question"}
	}
	return nil
}

// Draft converts the form into a request body.
func (f *Form) Draft() Draft {
	d := Draft{
		Text:       strings.TrimSpace(f.Text),
		Difficulty: NormalizeDifficulty(f.Difficulty),
		Type:       TypeOpen,
		Answer:     strings.TrimSpace(f.Answer),
	}
	if hint := strings.TrimSpace(f.Hint1); hint != "" {
		d.Hint1 = &hint
	}
	if f.isMCQ() {
		d.Type = TypeMCQ
		d.Options = make([]string, len(f.Options))
		for i, o := range f.Options {
			d.Options[i] = strings.TrimSpace(o)
		}
		idx := f.CorrectIndex
		d.CorrectIndex = &idx
	}
	return d
}

// Reset clears the form for the next entry. The difficulty stays selected.
func (f *Form) Reset() {
	difficulty := f.Difficulty
	*f = *NewForm()
	f.Difficulty = difficulty
}

func (f *Form) isMCQ() bool {
	return strings.EqualFold(strings.TrimSpace(f.Type), TypeMCQ)
}
