package model

import "time"

// ReminderConfig holds the scalar reminder settings. There is a single row
// with ID SettingsRowID.
type ReminderConfig struct {
	ID              uint   `gorm:"primaryKey;autoIncrement:false"`
	DrinkEnabled    bool   `gorm:"not null"`
	DrinkMode       string `gorm:"size:16;not null"`
	IntervalMinutes int    `gorm:"not null"`
	ActiveStart     string `gorm:"size:5;not null"`
	ActiveEnd       string `gorm:"size:5;not null"`
	TodoEnabled     bool   `gorm:"not null"`
	UpdatedAt       time.Time
}

// SettingsRowID is the primary key of the only ReminderConfig row.
const SettingsRowID = 1

// CustomTime is one fixed hydration time of day, stored as HH:MM.
type CustomTime struct {
	Clock    string `gorm:"primaryKey;size:5"`
	Position int    `gorm:"not null"`
}

// TodoItem is one to-do list entry.
type TodoItem struct {
	ID           string    `gorm:"primaryKey;size:64"`
	Position     int       `gorm:"index;not null"`
	ReminderTime time.Time `gorm:"not null"`
	Content      string    `gorm:"size:1024;not null"`
	Completed    bool      `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// All lists the models to migrate.
func All() []any {
	return []any{&ReminderConfig{}, &CustomTime{}, &TodoItem{}}
}
