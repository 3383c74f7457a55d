package utils

import (
	"errors"
	"fmt"
	"regexp"
)

// MaxOrigins caps the number of coordinates accepted in one group query
const MaxOrigins = 16

// Allow alphanumeric, underscore, hyphen, dot and colon - common in transit IDs
var validIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.:-]+$`)

// ValidateID validates that an ID is safe and within reasonable limits
func ValidateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}

	if len(id) > 100 {
		return errors.New("id too long (max 100 characters)")
	}

	if !validIDPattern.MatchString(id) {
		return errors.New("id contains invalid characters")
	}

	return nil
}

// ValidateLocationCount checks the number of origins in a group query
func ValidateLocationCount(n int) error {
	if n == 0 {
		return errors.New("at least one location is required")
	}
	if n > MaxOrigins {
		return fmt.Errorf("too many locations (max %d)", MaxOrigins)
	}
	return nil
}
