package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/jupiter-hub/jupiter-go-api/internal/models"
	"github.com/jupiter-hub/jupiter-go-api/pkg/token"
)

func uintPtr(v uint) *uint { return &v }

func TestFromClaims(t *testing.T) {
	claims := token.Claims{
		Email:     "s@example.com",
		Role:      "STUDENT",
		StudentID: uintPtr(12),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "34",
		},
	}

	identity, err := FromClaims(claims)
	require.NoError(t, err)
	require.Equal(t, uint(34), identity.UserID)
	require.Equal(t, models.RoleStudent, identity.Role)
	require.NotNil(t, identity.StudentID)
	require.Equal(t, uint(12), *identity.StudentID)
}

func TestFromClaimsDropsStudentIDForElevatedRoles(t *testing.T) {
	claims := token.Claims{
		Email:     "hr@example.com",
		Role:      "HR",
		StudentID: uintPtr(12),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "2",
		},
	}

	identity, err := FromClaims(claims)
	require.NoError(t, err)
	require.Nil(t, identity.StudentID)
}

func TestFromClaimsRejectsUnknownRole(t *testing.T) {
	claims := token.Claims{
		Role:             "SUPERUSER",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "1"},
	}

	_, err := FromClaims(claims)
	require.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestAuthorize(t *testing.T) {
	admin := &Identity{UserID: 1, Role: models.RoleAdmin}
	student := &Identity{UserID: 2, Role: models.RoleStudent, StudentID: uintPtr(5)}

	require.NoError(t, Authorize(admin, models.RoleAdmin, models.RoleHR))
	require.ErrorIs(t, Authorize(student, models.RoleAdmin, models.RoleHR), ErrForbidden)
	require.ErrorIs(t, Authorize(nil, models.RoleAdmin), ErrUnauthenticated)
}

func TestOwnerOrElevated(t *testing.T) {
	hr := &Identity{UserID: 3, Role: models.RoleHR}
	owner := &Identity{UserID: 8, Role: models.RoleStudent, StudentID: uintPtr(1)}
	other := &Identity{UserID: 9, Role: models.RoleStudent, StudentID: uintPtr(2)}

	require.NoError(t, OwnerOrElevated(hr, 8))
	require.NoError(t, OwnerOrElevated(owner, 8))
	require.ErrorIs(t, OwnerOrElevated(other, 8), ErrForbidden)
	require.ErrorIs(t, OwnerOrElevated(nil, 8), ErrUnauthenticated)
}

func TestSelfStudentOrElevated(t *testing.T) {
	admin := &Identity{UserID: 1, Role: models.RoleAdmin}
	self := &Identity{UserID: 2, Role: models.RoleStudent, StudentID: uintPtr(10)}
	other := &Identity{UserID: 3, Role: models.RoleStudent, StudentID: uintPtr(11)}
	unlinked := &Identity{UserID: 4, Role: models.RoleStudent}

	require.NoError(t, SelfStudentOrElevated(admin, 10))
	require.NoError(t, SelfStudentOrElevated(self, 10))
	require.ErrorIs(t, SelfStudentOrElevated(other, 10), ErrForbidden)
	require.ErrorIs(t, SelfStudentOrElevated(unlinked, 10), ErrForbidden)
	require.ErrorIs(t, SelfStudentOrElevated(nil, 10), ErrUnauthenticated)
}

func TestBlockStudentListing(t *testing.T) {
	require.NoError(t, BlockStudentListing(&Identity{Role: models.RoleHR}))
	require.NoError(t, BlockStudentListing(&Identity{Role: models.RoleAdmin}))
	require.ErrorIs(t, BlockStudentListing(&Identity{Role: models.RoleStudent, StudentID: uintPtr(1)}), ErrForbidden)
	require.ErrorIs(t, BlockStudentListing(nil), ErrUnauthenticated)
}
