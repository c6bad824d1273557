package models

import "time"

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusInReview  = "in-review"

	TypeUniversity = "university"
	TypeBursary    = "bursary"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	FirstName    string    `gorm:"not null"                 json:"firstName"`
	LastName     string    `gorm:"not null"                 json:"lastName"`
	MatricNumber string    `json:"matricNumber,omitempty"`
	Province     string    `json:"province,omitempty"`
	School       string    `json:"school,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Application struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint      `gorm:"index;not null"           json:"user_id"`
	UniversityName string    `gorm:"not null"                 json:"universityName"`
	CourseName     string    `json:"courseName,omitempty"`
	Status         string    `gorm:"not null;default:pending" json:"status"`
	Type           string    `gorm:"not null;default:university" json:"type"`
	Deadline       time.Time `json:"deadline,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ActivityEntry is append-only; rows are never updated or deleted.
type ActivityEntry struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null"           json:"user_id"`
	Action    string    `gorm:"not null"                 json:"action"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"date"`
}

// Deadline is global reference data, read-only to users.
type Deadline struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title          string    `gorm:"not null"                 json:"title"`
	Description    string    `json:"description,omitempty"`
	DueAt          time.Time `gorm:"not null;index"           json:"deadline"`
	Type           string    `gorm:"not null"                 json:"type"`
	UniversityName string    `json:"universityName,omitempty"`
	BursaryName    string    `json:"bursaryName,omitempty"`
	CreatedAt      time.Time `json:"-"`
}
