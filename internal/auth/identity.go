// Package auth holds the request identity value and the pure authorization
// decisions applied to it. Nothing here touches the store or the framework;
// callers pass an Identity in explicitly and act on the returned error.
package auth

import (
	"errors"

	"github.com/jupiter-hub/jupiter-go-api/internal/models"
	"github.com/jupiter-hub/jupiter-go-api/pkg/token"
)

// Authorization failures.
var (
	// ErrUnauthenticated means no verified identity accompanied the request.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden means the identity is authenticated but not allowed.
	ErrForbidden = errors.New("access forbidden")
)

// Identity is the decoded, verified claim set for one request. It is built
// once from token claims and passed by value; StudentID is non-nil only for
// STUDENT-role identities with a linked student.
type Identity struct {
	UserID    uint
	Email     string
	Role      models.Role
	StudentID *uint
}

// FromClaims reconstructs an identity from verified token claims.
func FromClaims(claims token.Claims) (Identity, error) {
	userID, err := claims.UserID()
	if err != nil {
		return Identity{}, err
	}

	role := models.Role(claims.Role)
	if !role.Valid() {
		return Identity{}, token.ErrInvalidToken
	}

	identity := Identity{
		UserID: userID,
		Email:  claims.Email,
		Role:   role,
	}
	if role == models.RoleStudent {
		identity.StudentID = claims.StudentID
	}
	return identity, nil
}

// Authorize permits the identity when its role is in the allowed set. A nil
// identity fails ErrUnauthenticated, a role outside the set ErrForbidden.
func Authorize(identity *Identity, allowed ...models.Role) error {
	if identity == nil {
		return ErrUnauthenticated
	}
	for _, role := range allowed {
		if identity.Role == role {
			return nil
		}
	}
	return ErrForbidden
}

// OwnerOrElevated permits the owner of a resource and every elevated role.
func OwnerOrElevated(identity *Identity, ownerUserID uint) error {
	if identity == nil {
		return ErrUnauthenticated
	}
	if identity.UserID == ownerUserID || identity.Role.Elevated() {
		return nil
	}
	return ErrForbidden
}

// SelfStudentOrElevated permits elevated roles unconditionally and STUDENT
// identities only for their own linked student.
func SelfStudentOrElevated(identity *Identity, studentID uint) error {
	if identity == nil {
		return ErrUnauthenticated
	}
	if identity.Role.Elevated() {
		return nil
	}
	if identity.Role == models.RoleStudent && identity.StudentID != nil && *identity.StudentID == studentID {
		return nil
	}
	return ErrForbidden
}

// BlockStudentListing denies STUDENT identities outright. Enumeration
// endpoints are HR/ADMIN capabilities; students get single-record self
// lookups only.
func BlockStudentListing(identity *Identity) error {
	if identity == nil {
		return ErrUnauthenticated
	}
	if identity.Role == models.RoleStudent {
		return ErrForbidden
	}
	return nil
}
