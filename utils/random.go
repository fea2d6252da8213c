package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// RandomPassword returns a hex-encoded placeholder password built from length
// bytes of secure random data. Used for guest accounts that never log in.
func RandomPassword(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid password length %d", length)
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GuestEmail synthesizes a unique throwaway address for bookings submitted
// without any contact information.
func GuestEmail() string {
	return fmt.Sprintf("guest-%s@guests.local", uuid.NewString())
}
