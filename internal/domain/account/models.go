package account

import (
	"errors"
	"time"
)

var (
	// Allowed account types for validation
	accountTypes = map[string]struct{}{
		"CHECKING":       {},
		"SAVINGS":        {},
		"INVESTMENT":     {},
		"DIGITAL_WALLET": {},
		"SPORTSBOOKS":    {},
	}
)

// Domain errors
var (
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidInput       = errors.New("invalid input")
)

// Account represents a financial account domain entity
type Account struct {
	ID          string    `json:"id"`
	Institution string    `json:"institution"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateParams contains parameters for creating a new account
type CreateParams struct {
	ID          string
	Institution string
	Type        string
	Description string
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.ID == "" {
		return errors.New("account ID is required")
	}
	if p.Institution == "" {
		return errors.New("institution is required")
	}
	if p.Type == "" {
		return errors.New("account type is required")
	}
	if !IsValidAccountType(p.Type) {
		return ErrInvalidAccountType
	}
	return nil
}

// UpdateParams contains parameters for updating an account
type UpdateParams struct {
	Institution *string
	Type        *string
	Description *string
}

// Validate validates the update parameters
func (p UpdateParams) Validate() error {
	if p.Institution != nil && *p.Institution == "" {
		return errors.New("institution must not be empty")
	}
	if p.Type != nil && !IsValidAccountType(*p.Type) {
		return ErrInvalidAccountType
	}
	return nil
}

// IsValidAccountType checks if the provided account type is valid.
func IsValidAccountType(t string) bool {
	_, ok := accountTypes[t]
	return ok
}
