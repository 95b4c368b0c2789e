// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

var (
	ErrInvalidAdminKey      = errors.New("invalid admin key")
	ErrInvalidParticipantID = errors.New("invalid participant id")
	ErrInvalidProjectID     = errors.New("invalid project id")
)

// Project ids appear in URLs and blob paths.
var projectIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// ValidateAdminKey compares the provided key with the configured shared
// secret in constant time. An empty configured key never validates.
func ValidateAdminKey(provided, configured string) error {
	if configured == "" || !hmac.Equal([]byte(provided), []byte(configured)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// NewParticipantID creates the stable per-device participant token.
func NewParticipantID() string {
	return uuid.NewString()
}

// ValidateParticipantID accepts any UUID, the format NewParticipantID emits.
func ValidateParticipantID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParticipantID, err)
	}
	return nil
}

// ValidateProjectID checks the project id is safe for URLs and file paths.
func ValidateProjectID(id string) error {
	if !projectIDPattern.MatchString(id) {
		return ErrInvalidProjectID
	}
	return nil
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}
