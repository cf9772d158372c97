package models

import (
	"time"

	"gorm.io/datatypes"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

type Subject struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null;size:100"`
	Domain      string  `json:"domain" gorm:"size:100;index"`
	Description *string `json:"description" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
}

func (Subject) TableName() string {
	return "subjects"
}

type MockTest struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	Name            string          `json:"name" gorm:"not null;size:200"`
	Description     *string         `json:"description" gorm:"type:text"`
	SubjectID       uint            `json:"subject_id" gorm:"not null;index"`
	Difficulty      DifficultyLevel `json:"difficulty" gorm:"not null;size:20"`
	DurationMinutes int             `json:"duration_minutes" gorm:"default:30"`

	Subject   *Subject   `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:TestID"`

	CreatedAt time.Time `json:"created_at"`
}

func (MockTest) TableName() string {
	return "mock_tests"
}

type Question struct {
	ID            uint                        `json:"id" gorm:"primaryKey"`
	TestID        uint                        `json:"test_id" gorm:"not null;index"`
	Text          string                      `json:"text" gorm:"type:text;not null"`
	Options       datatypes.JSONSlice[string] `json:"options" gorm:"type:jsonb;not null"`
	CorrectAnswer int                         `json:"-" gorm:"not null"` // 0-indexed into Options
	Topic         string                      `json:"topic" gorm:"not null;size:200"`
	Explanation   *string                     `json:"explanation,omitempty" gorm:"type:text"`
	OrderNum      int                         `json:"order_num" gorm:"default:0"`
}

func (Question) TableName() string {
	return "questions"
}
