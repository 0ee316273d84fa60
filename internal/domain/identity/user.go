package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/tradenet/backend/internal/domain/shared"
)

// User represents an operator account. Email is the login name; there is no
// separate username. Staff users may run privileged administrative actions.
type User struct {
	shared.BaseEntity
	Email        string  `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string  `gorm:"type:varchar(200);not null"`
	PhoneNumber  *string `gorm:"type:varchar(35)"`
	City         *string `gorm:"type:varchar(100)"`
	IsStaff      bool    `gorm:"not null;default:false"`
	IsActive     bool    `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new active, non-staff user. The password hash is produced
// by the auth infrastructure and stored opaquely here.
func NewUser(email, passwordHash string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateUserEmail(email); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password hash cannot be empty")
	}

	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
	}, nil
}

// SetPasswordHash replaces the stored password hash
func (u *User) SetPasswordHash(hash string) error {
	if hash == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password hash cannot be empty")
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now()
	return nil
}

// SetContact sets the optional phone number and city
func (u *User) SetContact(phoneNumber, city *string) error {
	if phoneNumber != nil && len(*phoneNumber) > 35 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 35 characters")
	}
	if city != nil && len(*city) > 100 {
		return shared.NewDomainError("INVALID_CITY", "City cannot exceed 100 characters")
	}
	u.PhoneNumber = phoneNumber
	u.City = city
	u.UpdatedAt = time.Now()
	return nil
}

// PromoteToStaff grants the privileged-operator flag
func (u *User) PromoteToStaff() {
	u.IsStaff = true
	u.UpdatedAt = time.Now()
}

// Deactivate disables the account without deleting it
func (u *User) Deactivate() {
	u.IsActive = false
	u.UpdatedAt = time.Now()
}

// Activate re-enables the account
func (u *User) Activate() {
	u.IsActive = true
	u.UpdatedAt = time.Now()
}

func validateUserEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
