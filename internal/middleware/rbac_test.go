package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/jupiter-hub/jupiter-go-api/pkg/token"
)

func testTokens() *token.Service {
	return token.NewService(token.Config{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        "jupiter-test",
	})
}

func issueAccess(t *testing.T, tokens *token.Service, subject token.Subject) string {
	t.Helper()
	pair, err := tokens.Issue(subject)
	require.NoError(t, err)
	return pair.AccessToken
}

func okHandler(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }

func newProtectedApp(tokens *token.Service) *fiber.App {
	app := fiber.New()
	app.Use(Authenticate(tokens))
	app.Get("/admin", AdminOnly(), okHandler)
	app.Get("/elevated", AdminOrHR(), okHandler)
	app.Get("/students", BlockStudentListing(), okHandler)
	app.Get("/students/:id", StudentSelfOrElevated("id"), okHandler)
	return app
}

func doRequest(t *testing.T, app *fiber.App, path, accessToken string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if accessToken != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+accessToken)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAuthenticateRejectsMissingAndBadTokens(t *testing.T) {
	tokens := testTokens()
	app := newProtectedApp(tokens)

	resp := doRequest(t, app, "/elevated", "")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, app, "/elevated", "garbage-token")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticateAcceptsCookie(t *testing.T) {
	tokens := testTokens()
	app := newProtectedApp(tokens)
	access := issueAccess(t, tokens, token.Subject{UserID: 1, Email: "hr@example.com", Role: "HR"})

	req := httptest.NewRequest(http.MethodGet, "/elevated", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: access})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRolePresets(t *testing.T) {
	tokens := testTokens()
	app := newProtectedApp(tokens)

	admin := issueAccess(t, tokens, token.Subject{UserID: 1, Email: "admin@example.com", Role: "ADMIN"})
	hr := issueAccess(t, tokens, token.Subject{UserID: 2, Email: "hr@example.com", Role: "HR"})
	linked := uint(7)
	student := issueAccess(t, tokens, token.Subject{UserID: 3, Email: "s@example.com", Role: "STUDENT", StudentID: &linked})

	require.Equal(t, fiber.StatusOK, doRequest(t, app, "/admin", admin).StatusCode)
	require.Equal(t, fiber.StatusForbidden, doRequest(t, app, "/admin", hr).StatusCode)
	require.Equal(t, fiber.StatusForbidden, doRequest(t, app, "/admin", student).StatusCode)

	require.Equal(t, fiber.StatusOK, doRequest(t, app, "/elevated", hr).StatusCode)
	require.Equal(t, fiber.StatusForbidden, doRequest(t, app, "/elevated", student).StatusCode)
}

func TestBlockStudentListing(t *testing.T) {
	tokens := testTokens()
	app := newProtectedApp(tokens)

	hr := issueAccess(t, tokens, token.Subject{UserID: 2, Email: "hr@example.com", Role: "HR"})
	linked := uint(7)
	student := issueAccess(t, tokens, token.Subject{UserID: 3, Email: "s@example.com", Role: "STUDENT", StudentID: &linked})

	require.Equal(t, fiber.StatusOK, doRequest(t, app, "/students", hr).StatusCode)
	require.Equal(t, fiber.StatusForbidden, doRequest(t, app, "/students", student).StatusCode)
}

func TestStudentSelfOrElevatedScoping(t *testing.T) {
	tokens := testTokens()
	app := newProtectedApp(tokens)

	hr := issueAccess(t, tokens, token.Subject{UserID: 2, Email: "hr@example.com", Role: "HR"})
	linked := uint(7)
	student := issueAccess(t, tokens, token.Subject{UserID: 3, Email: "s@example.com", Role: "STUDENT", StudentID: &linked})
	unlinked := issueAccess(t, tokens, token.Subject{UserID: 4, Email: "u@example.com", Role: "STUDENT"})

	// Own record passes, any other is forbidden.
	require.Equal(t, fiber.StatusOK, doRequest(t, app, "/students/7", student).StatusCode)
	require.Equal(t, fiber.StatusForbidden, doRequest(t, app, "/students/8", student).StatusCode)
	require.Equal(t, fiber.StatusForbidden, doRequest(t, app, "/students/7", unlinked).StatusCode)

	// Elevated roles see everything.
	require.Equal(t, fiber.StatusOK, doRequest(t, app, "/students/8", hr).StatusCode)

	require.Equal(t, fiber.StatusBadRequest, doRequest(t, app, "/students/abc", hr).StatusCode)
}

func TestExpiredTokenMessage(t *testing.T) {
	tokens := testTokens()
	app := newProtectedApp(tokens)

	expired := token.NewService(token.Config{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		AccessExpiry:  -time.Minute,
		RefreshExpiry: time.Hour,
		Issuer:        "jupiter-test",
	})
	access := issueAccess(t, expired, token.Subject{UserID: 1, Email: "hr@example.com", Role: "HR"})

	resp := doRequest(t, app, "/elevated", access)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
