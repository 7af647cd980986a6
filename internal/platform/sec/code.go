// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package sec

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// codeAlphabet excludes visually ambiguous characters (0/O, 1/I/l).
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateConfirmationCode produces a random confirmation code of the given
// length, suitable for delivery over email.
func GenerateConfirmationCode(length int) (string, error) {
	buffer := make([]byte, length)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to generate confirmation code: %w", err)
	}

	for i, b := range buffer {
		buffer[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}

	return string(buffer), nil
}

// HashCode hashes a confirmation code for storage.
//
// Codes are never persisted in plain text so a leaked cache dump cannot be
// replayed against the token endpoint.
func HashCode(plainCode string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainCode), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash confirmation code: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckCodeHash compares a plain-text confirmation code with its stored hash.
func CheckCodeHash(plainCode, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainCode))
	return err == nil
}
