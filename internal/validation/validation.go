// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// MinPasswordLength is the registration password floor.
const MinPasswordLength = 6

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateName checks that a display name is present.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("Name is required")
	}
	if len(name) > 100 {
		return fmt.Errorf("Name must not exceed 100 characters")
	}
	return nil
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("Please include a valid email")
	}
	if len(email) > 254 {
		return fmt.Errorf("Email must not exceed 254 characters")
	}
	return nil
}

// ValidatePassword checks if a password meets length requirements
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("Please enter a password with %d or more characters", MinPasswordLength)
	}
	if len(password) > 128 {
		return fmt.Errorf("Password must not exceed 128 characters")
	}
	return nil
}

// SplitSkills converts comma-separated skill input into a trimmed list,
// dropping empty segments ("js, node , react" -> ["js" "node" "react"]).
func SplitSkills(input string) []string {
	parts := strings.Split(input, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}
