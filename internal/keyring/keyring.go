package keyring

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/zalando/go-keyring"
)

const (
	service = "streaknest"
	pinUser = "backup-pin"
)

var (
	// ErrNotFound is returned when no PIN is stored in the keyring
	ErrNotFound = errors.New("PIN not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
	// ErrInvalidPIN is returned for anything other than four digits
	ErrInvalidPIN = errors.New("PIN must be exactly 4 digits")
)

var pinPattern = regexp.MustCompile(`^\d{4}$`)

// ValidatePIN checks the four-digit PIN rule.
func ValidatePIN(pin string) error {
	if !pinPattern.MatchString(pin) {
		return ErrInvalidPIN
	}
	return nil
}

// GetPIN retrieves the backup PIN from the OS keyring.
func GetPIN() (string, error) {
	pin, err := keyring.Get(service, pinUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return pin, nil
}

// SetPIN stores the backup PIN in the OS keyring.
func SetPIN(pin string) error {
	if err := ValidatePIN(pin); err != nil {
		return err
	}
	if err := keyring.Set(service, pinUser, pin); err != nil {
		return fmt.Errorf("failed to store PIN in keyring: %w", err)
	}
	return nil
}

// DeletePIN removes the backup PIN from the OS keyring.
func DeletePIN() error {
	err := keyring.Delete(service, pinUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete PIN from keyring: %w", err)
	}
	return nil
}

// ResolvePIN returns flagPIN when set, otherwise the stored PIN.
func ResolvePIN(flagPIN string) (string, error) {
	if flagPIN != "" {
		return flagPIN, ValidatePIN(flagPIN)
	}
	return GetPIN()
}
