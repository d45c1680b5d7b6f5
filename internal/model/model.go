package model

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Active reports whether an appointment in this status holds its slot.
func (s Status) Active() bool { return s != StatusCancelled }

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserView is the public shape of a user; it never carries the hash.
type UserView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

func (u *User) View() UserView {
	return UserView{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

type Appointment struct {
	ID        string
	UserID    string
	Title     string
	Date      string // YYYY-MM-DD
	Time      string // HH:MM, one of slot.Grid()
	Duration  int    // minutes
	Status    Status
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
