package models

import (
	"time"

	"gorm.io/datatypes"
)

// Stored question types.
const (
	QuestionTypeDiscursive     = "discursive"
	QuestionTypeMultipleChoice = "multiple-choice"
)

// Stored difficulty levels.
const (
	DifficultyEasy   = "facil"
	DifficultyMedium = "medio"
	DifficultyHard   = "dificil"
)

// MCQOptionCount is the fixed number of options of a multiple-choice question.
const MCQOptionCount = 4

type Question struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Text         string         `json:"text" gorm:"type:text;not null"`
	Difficulty   string         `json:"difficulty" gorm:"size:16;not null;default:'facil';index"`
	Type         string         `json:"type" gorm:"size:32;not null;default:'discursive'"`
	Answer       string         `json:"answer" gorm:"type:text;not null"`
	Hint1        *string        `json:"hint1" gorm:"column:hint1;type:text;-:migration"` // added by the schema probe, never by AutoMigrate
	Options      datatypes.JSON `json:"options" gorm:"column:options"`
	CorrectIndex *int           `json:"correct_index" gorm:"column:correct_index"`
	CreatedAt    time.Time      `json:"created_at" gorm:"not null;index"`
	UsedAt       *time.Time     `json:"used_at" gorm:"column:used_at"`
}
