package middleware

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"retaildash/models"
	"retaildash/session"
)

const testSecret = "middleware-test-secret-0123456789"

func newTestApp(t *testing.T) (*fiber.App, Cookies, *session.Manager) {
	t.Helper()
	signer, err := session.NewCookieSigner(testSecret)
	require.NoError(t, err)
	sealer, err := session.NewSealer(testSecret)
	require.NoError(t, err)
	manager := session.NewManager(session.NewMemoryStorage(), sealer)
	cookies := Cookies{Name: "retaildash_session", MaxAge: time.Hour, Signer: signer}

	app := fiber.New()
	app.Use(LoadSession(cookies, manager, zap.NewNop()))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		if s := SessionFrom(c); s != nil {
			return c.SendString(s.Username + "/" + c.Locals(LocalUserRole).(string))
		}
		return c.SendString("anonymous:" + SessionIDFrom(c))
	})
	app.Get("/private", RequireSession, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/set", func(c *fiber.Ctx) error {
		return cookies.Set(c, "3b241101-e2bb-4255-8caf-4136c566a962")
	})
	return app, cookies, manager
}

func body(t *testing.T, app *fiber.App, path, cookie string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if cookie != "" {
		req.Header.Set("Cookie", "retaildash_session="+cookie)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func TestLoadSessionAnonymous(t *testing.T) {
	app, _, _ := newTestApp(t)

	_, b := body(t, app, "/whoami", "")
	assert.Equal(t, "anonymous:", b)

	_, b = body(t, app, "/whoami", "forged.cookie.value")
	assert.Equal(t, "anonymous:", b)

	status, _ := body(t, app, "/private", "")
	assert.Equal(t, fiber.StatusSeeOther, status)
}

func TestLoadSessionRestoresLogin(t *testing.T) {
	app, cookies, manager := newTestApp(t)
	sid := session.NewID()
	value, err := cookies.Signer.Issue(sid)
	require.NoError(t, err)

	// Valid cookie, nothing stored yet.
	_, b := body(t, app, "/whoami", value)
	assert.Equal(t, "anonymous:"+sid, b)

	_, err = manager.Save(context.Background(), sid, models.AuthResponse{Token: "t", Username: "alice", Role: "STORE_MANAGER"})
	require.NoError(t, err)

	_, b = body(t, app, "/whoami", value)
	assert.Equal(t, "alice/STORE_MANAGER", b)

	status, b := body(t, app, "/private", value)
	assert.Equal(t, 200, status)
	assert.Equal(t, "ok", b)
}

func TestCookiesSet(t *testing.T) {
	app, _, _ := newTestApp(t)
	resp, err := app.Test(httptest.NewRequest("GET", "/set", nil))
	require.NoError(t, err)

	setCookie := resp.Header.Get("Set-Cookie")
	assert.Contains(t, setCookie, "retaildash_session=")
	assert.Contains(t, setCookie, "max-age=3600")
	assert.Contains(t, setCookie, "HttpOnly")
}
