// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

/*
Package authz implements the pure authorization rule engine.

Every write in the API is gated by a composable rule evaluated against an
actor, an action, and an optional concrete resource. Rules are side-effect
free and require no synchronization: a decision is a function of its inputs
and nothing else, so it can be unit-tested exhaustively and evaluated before
any mutation is attempted (fail closed).

Architecture:

  - Actor: An immutable snapshot of the caller's identity (or anonymous).
  - Rule: A predicate func(Actor, Action, Resource) bool.
  - AnyOf: Logical OR composition mirroring permission-class composition.
  - Decide: Translates a deny into Unauthorized (anonymous) or Forbidden.
*/
package authz

import (
	"github.com/velkore/critiq/internal/platform/apperr"
	"github.com/velkore/critiq/internal/platform/sec"
)

// # Vocabulary

// Action classifies what the caller is trying to do with a resource.
type Action int

const (
	ActionRead Action = iota
	ActionCreate
	ActionUpdate
	ActionDelete
)

// IsRead reports whether the action is a safe (non-mutating) one.
func (a Action) IsRead() bool { return a == ActionRead }

// Actor is an immutable snapshot of the caller's identity at decision time.
//
// The zero value is the anonymous actor. Derived predicates are computed
// from the snapshot rather than read from live mutable state.
type Actor struct {
	// ID is the user's unique identifier; empty for anonymous callers.
	ID string
	// Role is the stored role of the account.
	Role sec.UserRole
	// Superuser mirrors the database superuser flag and implies admin.
	Superuser bool
	// Authenticated is true when the request carried a valid bearer token.
	Authenticated bool
}

// Anonymous is the actor used for requests without credentials.
var Anonymous = Actor{}

// ActorFromClaims builds an [Actor] from verified token claims.
// A nil claims pointer yields the anonymous actor.
func ActorFromClaims(claims *sec.AuthClaims) Actor {
	if claims == nil {
		return Anonymous
	}
	return Actor{
		ID:            claims.UserID,
		Role:          sec.UserRole(claims.Role),
		Superuser:     claims.IsSuperuser,
		Authenticated: true,
	}
}

// IsAdminActor reports whether the actor holds admin privileges.
// The superuser flag grants admin regardless of the stored role.
func (a Actor) IsAdminActor() bool {
	return a.Authenticated && (a.Role == sec.RoleAdmin || a.Superuser)
}

// IsModeratorActor reports whether the actor holds the moderator role.
func (a Actor) IsModeratorActor() bool {
	return a.Authenticated && a.Role == sec.RoleModerator
}

// Resource is the contract a concrete target must satisfy for
// ownership-sensitive rules. Category, Genre, and Title have no owner and
// are gated purely by role, so they never reach an ownership rule.
type Resource interface {
	// OwnerID returns the user ID of the resource's author.
	OwnerID() string
}

// # Rules

// Rule is a pure authorization predicate.
//
// resource may be nil for list- and create-time checks where no concrete
// object exists yet.
type Rule func(actor Actor, action Action, resource Resource) bool

// AllowAny always allows.
func AllowAny(Actor, Action, Resource) bool { return true }

// IsAuthenticated allows any authenticated actor, regardless of role.
func IsAuthenticated(actor Actor, _ Action, _ Resource) bool {
	return actor.Authenticated
}

// IsAuthenticatedOrReadOnly allows reads for everyone and collection-level
// writes (create) for authenticated actors.
//
// With a concrete resource in hand the rule permits reads only: mutating an
// existing object needs ownership or staff standing, which the composite
// rules supply through their other members.
func IsAuthenticatedOrReadOnly(actor Actor, action Action, resource Resource) bool {
	if resource != nil {
		return action.IsRead()
	}
	return action.IsRead() || actor.Authenticated
}

// IsOwner allows an authenticated actor operating on a resource they
// authored. It has no meaning without a concrete resource: at list or
// create time there is no object to own, so the rule denies.
func IsOwner(actor Actor, _ Action, resource Resource) bool {
	if !actor.Authenticated || resource == nil {
		return false
	}
	return resource.OwnerID() == actor.ID
}

// IsStaff allows moderators and admins.
//
// "Staff" here means the moderation tier — distinct from any database
// superuser flag, which is folded into the admin predicate instead.
func IsStaff(actor Actor, _ Action, _ Resource) bool {
	return actor.IsAdminActor() || actor.IsModeratorActor()
}

// IsAdmin allows admins only (role admin or the superuser flag).
func IsAdmin(actor Actor, _ Action, _ Resource) bool {
	return actor.IsAdminActor()
}

// IsAdminOrReadOnly allows reads for everyone and writes for admins.
func IsAdminOrReadOnly(actor Actor, action Action, resource Resource) bool {
	return action.IsRead() || IsAdmin(actor, action, resource)
}

// # Composition

// AnyOf combines rules with logical OR: the composite allows if ANY member
// allows. Member rules are side-effect free, so evaluation order does not
// matter.
func AnyOf(rules ...Rule) Rule {
	return func(actor Actor, action Action, resource Resource) bool {
		for _, rule := range rules {
			if rule(actor, action, resource) {
				return true
			}
		}
		return false
	}
}

// ReviewMutation is the composite rule protecting review and comment
// writes: anyone may read, any authenticated user may create, and only the
// author, a moderator, or an admin may update/delete an existing object.
var ReviewMutation = AnyOf(IsStaff, IsOwner, IsAuthenticatedOrReadOnly)

// # Decisions

// Decide evaluates a rule and converts a denial into the appropriate
// transport error: Unauthorized for anonymous callers, Forbidden for
// authenticated ones. A nil return means the action may proceed.
func Decide(rule Rule, actor Actor, action Action, resource Resource) error {
	if rule(actor, action, resource) {
		return nil
	}
	if !actor.Authenticated {
		return apperr.Unauthorized("Authentication required")
	}
	return apperr.Forbidden("Insufficient permissions")
}
