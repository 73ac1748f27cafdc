package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/vladimiradmaev/sweet-friend/internal/web/views"
)

const (
	authSessionName  = "sweet-friend"
	flashSessionName = "flash-session"
	flashKeySuccess  = "success"
	flashKeyError    = "error"
	flashKeyUsername = "form_username"
	userIDKey        = "user_id"
)

// logIn remembers the user in the auth cookie
func logIn(c echo.Context, userID uint) error {
	sess, _ := session.Get(authSessionName, c)
	if sess == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "session store is not configured")
	}
	// the store's options carry Secure and SameSite
	sess.Values[userIDKey] = userID
	return sess.Save(c.Request(), c.Response())
}

// logOut expires the auth cookie
func logOut(c echo.Context) error {
	sess, _ := session.Get(authSessionName, c)
	if sess == nil {
		return nil
	}
	opts := sessions.Options{Path: "/", HttpOnly: true}
	if sess.Options != nil {
		opts = *sess.Options
	}
	opts.MaxAge = -1
	sess.Options = &opts
	delete(sess.Values, userIDKey)
	return sess.Save(c.Request(), c.Response())
}

// sessionUserID returns the user stored in the auth cookie
func sessionUserID(c echo.Context) (uint, bool) {
	sess, err := session.Get(authSessionName, c)
	if err != nil || sess == nil {
		return 0, false
	}
	id, ok := sess.Values[userIDKey].(uint)
	return id, ok && id != 0
}

func setFlash(c echo.Context, key, message string) {
	sess, _ := session.Get(flashSessionName, c)
	if sess == nil {
		return
	}
	sess.AddFlash(message, key)
	_ = sess.Save(c.Request(), c.Response())
}

// SetFlashSuccess sets a success flash message
func SetFlashSuccess(c echo.Context, message string) {
	setFlash(c, flashKeySuccess, message)
}

// SetFlashError sets an error flash message
func SetFlashError(c echo.Context, message string) {
	setFlash(c, flashKeyError, message)
}

// GetFlashes retrieves and clears the pending flash messages
func GetFlashes(c echo.Context) views.Flashes {
	var out views.Flashes
	sess, _ := session.Get(flashSessionName, c)
	if sess == nil {
		return out
	}
	success := sess.Flashes(flashKeySuccess)
	failure := sess.Flashes(flashKeyError)
	if len(success) == 0 && len(failure) == 0 {
		return out
	}
	out.Success = flashStrings(success)
	out.Error = flashStrings(failure)
	_ = sess.Save(c.Request(), c.Response())
	return out
}

// takeFlashValue pops a single prefill value such as the last typed username
func takeFlashValue(c echo.Context, key string) string {
	sess, _ := session.Get(flashSessionName, c)
	if sess == nil {
		return ""
	}
	values := sess.Flashes(key)
	if len(values) == 0 {
		return ""
	}
	_ = sess.Save(c.Request(), c.Response())
	s, _ := values[0].(string)
	return s
}

func flashStrings(values []interface{}) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
