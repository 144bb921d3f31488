package validator

import (
	"errors"
	"regexp"

	"fleetcab/internal/models"
)

var (
	ErrInvalidEmail    = errors.New("invalid email")
	ErrInvalidUsername = errors.New("invalid username")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidPlate    = errors.New("invalid plate")
	ErrInvalidMethod   = errors.New("invalid payment method")
)

var (
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
	plateRegex    = regexp.MustCompile(`^[A-Z0-9][A-Z0-9 -]{2,14}$`)
)

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrInvalidPassword
	}
	return nil
}

func ValidatePlate(plate string) error {
	if !plateRegex.MatchString(plate) {
		return ErrInvalidPlate
	}
	return nil
}

func ValidatePaymentMethod(method string) error {
	switch method {
	case models.MethodCash, models.MethodBank, models.MethodMobileMoney:
		return nil
	}
	return ErrInvalidMethod
}
