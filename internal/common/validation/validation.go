package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MaxNameLength        = 255
	MaxServerLength      = 255
	MaxDescriptionLength = 1000

	MinNameLength   = 1
	MinServerLength = 1
)

// SteamID64 is always exactly 17 digits.
var steamID64Regex = regexp.MustCompile(`^[0-9]{17}$`)

func ValidateSteamID64(steamID string) error {
	if steamID == "" {
		return fmt.Errorf("steam id cannot be empty")
	}
	if !steamID64Regex.MatchString(steamID) {
		return fmt.Errorf("steam id must be exactly 17 digits")
	}
	return nil
}

func IsValidSteamID64(steamID string) bool {
	return steamID64Regex.MatchString(steamID)
}

func ValidatePlayerName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("player name cannot be empty")
	}
	if len(name) < MinNameLength || len(name) > MaxNameLength {
		return fmt.Errorf("player name must be between %d and %d characters", MinNameLength, MaxNameLength)
	}
	return nil
}

func ValidateServer(server string) error {
	if strings.TrimSpace(server) == "" {
		return fmt.Errorf("server cannot be empty")
	}
	if len(server) < MinServerLength || len(server) > MaxServerLength {
		return fmt.Errorf("server must be between %d and %d characters", MinServerLength, MaxServerLength)
	}
	return nil
}

func ValidateGiveawayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("name cannot exceed %d characters", MaxNameLength)
	}
	return nil
}

func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("description cannot exceed %d characters", MaxDescriptionLength)
	}
	return nil
}

func ValidateNonNegativeFloat(value float64, fieldName string) error {
	if value < 0 {
		return fmt.Errorf("%s cannot be negative", fieldName)
	}
	return nil
}

func ValidatePositiveInt(value int, fieldName string) error {
	if value <= 0 {
		return fmt.Errorf("%s must be positive", fieldName)
	}
	return nil
}
