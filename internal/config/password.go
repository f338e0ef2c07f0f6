// Package config provides operator credential verification for the API server.
package config

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// CredentialConfig holds the bcrypt-hashed operator password the solve API
// authenticates against. The server is single-principal: whoever can present
// the operator password gets a token.
type CredentialConfig struct {
	PasswordHash string
	BcryptCost   int
}

// NewCredentialConfig creates a credential configuration from environment
// variables. It reads OPERATOR_PASSWORD_HASH (required for the server) and
// BCRYPT_COST (default: 12, used only when hashing new credentials).
func NewCredentialConfig() (*CredentialConfig, error) {
	hash := os.Getenv("OPERATOR_PASSWORD_HASH")
	if hash == "" {
		return nil, fmt.Errorf("OPERATOR_PASSWORD_HASH is required but not set")
	}

	costStr := os.Getenv("BCRYPT_COST")
	if costStr == "" {
		costStr = "12" // default
	}
	cost, err := strconv.Atoi(costStr)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %v", err)
	}
	if cost < 10 || cost > 14 {
		return nil, fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", cost)
	}

	return &CredentialConfig{PasswordHash: hash, BcryptCost: cost}, nil
}

// HashPassword hashes a password using bcrypt at the configured cost.
func (c *CredentialConfig) HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword verifies a password against the stored operator hash.
func (c *CredentialConfig) VerifyPassword(pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(pw)) == nil
}
