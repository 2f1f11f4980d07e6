package event

import "time"

// UserRegistered event
type UserRegistered struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *UserRegistered) EventType() string     { return "UserRegistered" }
func (e *UserRegistered) AggregateID() string   { return e.UserID }
func (e *UserRegistered) OccurredAt() time.Time { return e.Timestamp }
func (e *UserRegistered) Version() int          { return 1 }

// UserLoggedIn event
type UserLoggedIn struct {
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *UserLoggedIn) EventType() string     { return "UserLoggedIn" }
func (e *UserLoggedIn) AggregateID() string   { return e.UserID }
func (e *UserLoggedIn) OccurredAt() time.Time { return e.Timestamp }
func (e *UserLoggedIn) Version() int          { return 1 }
