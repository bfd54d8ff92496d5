package services

import (
	"strings"

	"wordquiz/models"
)

// API question types.
const (
	APITypeOpen = "OPEN"
	APITypeMCQ  = "MCQ"
)

// ToDBType maps a type tag in either vocabulary to the stored vocabulary.
// Anything unrecognised is treated as a discursive question; callers rely on the
// lenient default rather than an error.
func ToDBType(t string) string {
	switch normalizeTypeTag(t) {
	case "mcq", "multiple-choice":
		return models.QuestionTypeMultipleChoice
	default:
		return models.QuestionTypeDiscursive
	}
}

// ToAPIType maps a type tag in either vocabulary to the API vocabulary.
// Anything unrecognised is reported as OPEN.
func ToAPIType(t string) string {
	switch normalizeTypeTag(t) {
	case "mcq", "multiple-choice":
		return APITypeMCQ
	default:
		return APITypeOpen
	}
}

func normalizeTypeTag(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	return strings.ReplaceAll(t, "_", "-")
}

var difficultyAliases = map[string]string{
	"facil":   models.DifficultyEasy,
	"fácil":   models.DifficultyEasy,
	"easy":    models.DifficultyEasy,
	"medio":   models.DifficultyMedium,
	"médio":   models.DifficultyMedium,
	"medium":  models.DifficultyMedium,
	"dificil": models.DifficultyHard,
	"difícil": models.DifficultyHard,
	"hard":    models.DifficultyHard,
}

// Difficulties lists the stored difficulty levels from easiest to hardest.
var Difficulties = []string{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard}

// ParseDifficulty resolves a difficulty in either vocabulary to its stored value.
// The boolean is false for unknown values; empty input is unknown too.
func ParseDifficulty(raw string) (string, bool) {
	d, ok := difficultyAliases[strings.ToLower(strings.TrimSpace(raw))]
	return d, ok
}
