package aggregate

import (
	"fmt"
	"time"

	"salesdesk/internal/domain/event"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserRole represents the role of a user
type UserRole string

const (
	RoleAdmin    UserRole = "Admin"
	RoleManager  UserRole = "Manager"
	RoleCustomer UserRole = "Customer"
)

// IsValid checks if the role is valid
func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleCustomer
}

// User is an account that can authenticate against the API. Users holding the
// Customer role are the only ones a sale may be created for; their identity is
// copied into the sale as a snapshot at creation time.
type User struct {
	id             string
	name           string
	email          string
	hashedPassword string
	role           UserRole
	active         bool
	createdAt      time.Time
	updatedAt      time.Time

	uncommittedEvents []event.DomainEvent
}

// NewUser creates a user with a bcrypt-hashed password and raises a
// UserRegistered event.
func NewUser(name, email, password string, role UserRole) (*User, error) {
	if name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}
	if email == "" {
		return nil, fmt.Errorf("email cannot be empty")
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role: %s", role)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &User{
		id:             uuid.New().String(),
		name:           name,
		email:          email,
		hashedPassword: string(hashed),
		role:           role,
		active:         true,
		createdAt:      now,
		updatedAt:      now,
	}

	user.raiseEvent(&event.UserRegistered{
		UserID:    user.id,
		Name:      name,
		Email:     email,
		Role:      string(role),
		Timestamp: now,
	})

	return user, nil
}

// RehydrateUser rebuilds a user from persisted state without raising events.
func RehydrateUser(id, name, email, hashedPassword string, role UserRole, active bool, createdAt, updatedAt time.Time) *User {
	return &User{
		id:             id,
		name:           name,
		email:          email,
		hashedPassword: hashedPassword,
		role:           role,
		active:         active,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// VerifyPassword checks the given password against the stored hash.
func (u *User) VerifyPassword(password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(u.hashedPassword), []byte(password)); err != nil {
		return fmt.Errorf("invalid credentials")
	}
	return nil
}

// RecordLogin raises a UserLoggedIn event and bumps the update timestamp.
func (u *User) RecordLogin() {
	now := time.Now().UTC()
	u.updatedAt = now
	u.raiseEvent(&event.UserLoggedIn{
		UserID:    u.id,
		Timestamp: now,
	})
}

// Deactivate disables the account. Inactive customers cannot be attached to
// new sales.
func (u *User) Deactivate() {
	u.active = false
	u.updatedAt = time.Now().UTC()
}

func (u *User) ID() string             { return u.id }
func (u *User) Name() string           { return u.name }
func (u *User) Email() string          { return u.email }
func (u *User) HashedPassword() string { return u.hashedPassword }
func (u *User) Role() UserRole         { return u.role }
func (u *User) IsActive() bool         { return u.active }
func (u *User) CreatedAt() time.Time   { return u.createdAt }
func (u *User) UpdatedAt() time.Time   { return u.updatedAt }

// GetUncommittedEvents returns the events raised since the last clear.
func (u *User) GetUncommittedEvents() []event.DomainEvent {
	events := make([]event.DomainEvent, len(u.uncommittedEvents))
	copy(events, u.uncommittedEvents)
	return events
}

// ClearUncommittedEvents empties the event log after dispatch.
func (u *User) ClearUncommittedEvents() {
	u.uncommittedEvents = nil
}

func (u *User) raiseEvent(ev event.DomainEvent) {
	u.uncommittedEvents = append(u.uncommittedEvents, ev)
}
