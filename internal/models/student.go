package models

import (
	"time"

	"gorm.io/gorm"
)

type Student struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Name         string `json:"name" gorm:"not null;size:100"`
	Email        string `json:"email" gorm:"uniqueIndex;not null;size:200"`
	PasswordHash string `json:"-" gorm:"not null;size:256"`

	// TargetExam is a catalog exam id such as "neet" or "jee_main".
	TargetExam string `json:"target_exam" gorm:"size:50"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Student) TableName() string {
	return "students"
}
