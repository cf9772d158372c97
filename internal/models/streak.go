package models

import "time"

// StreakEntry is one day of logged study activity.
type StreakEntry struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	StudentID      uint      `json:"student_id" gorm:"not null;uniqueIndex:idx_streak_student_date"`
	Date           time.Time `json:"date" gorm:"type:date;not null;uniqueIndex:idx_streak_student_date"`
	MinutesStudied int       `json:"minutes_studied" gorm:"default:0"`
	TestsTaken     int       `json:"tests_taken" gorm:"default:0"`
}

func (StreakEntry) TableName() string {
	return "streak_data"
}
