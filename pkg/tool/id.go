package tool

import (
	"strings"

	"github.com/google/uuid"
)

func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// GenerateTransactionID returns a random (v4) id handed out to acquirers and payers.
func GenerateTransactionID() string {
	return uuid.NewString()
}

// GenerateAuthorizationCode returns 8 upper-case hex characters.
func GenerateAuthorizationCode() string {
	return strings.ToUpper(uuid.NewString()[:8])
}
