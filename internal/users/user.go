// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

/*
Package users implements the user identity and account administration layer.

It defines the core domain entity (User) and the logic for the account
lifecycle: admin-side management of any account plus self-service access to
the caller's own profile.

# Architecture

This layer is the "Truth" of the system. The entity defined here has no
external dependencies and encapsulates all business rules related to user
identity, including the role model that drives authorization decisions.
*/
package users

import (
	"time"

	"github.com/velkore/critiq/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Critiq platform.
type User struct {
	ID          string       `json:"-"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	FirstName   string       `json:"first_name,omitempty"`
	LastName    string       `json:"last_name,omitempty"`
	Bio         string       `json:"bio,omitempty"`
	Role        sec.UserRole `json:"role"`
	IsSuperuser bool         `json:"-"` // Internal operator flag. Omitted from transport.
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// IsAdmin reports whether the user holds admin privileges.
// The superuser flag grants admin regardless of the stored role.
func (user *User) IsAdmin() bool {
	return user.Role == sec.RoleAdmin || user.IsSuperuser
}

// IsModerator reports whether the user holds the moderator role.
func (user *User) IsModerator() bool {
	return user.Role == sec.RoleModerator
}

// # Field Identifiers

// Global field names for validation and identity mapping in the users domain.
const (
	FieldUsername  = "username"
	FieldEmail     = "email"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldBio       = "bio"
	FieldRole      = "role"
)
