package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vladimiradmaev/sweet-friend/internal/domain"
	"github.com/vladimiradmaev/sweet-friend/internal/repository"
	"github.com/vladimiradmaev/sweet-friend/internal/services"
	"github.com/vladimiradmaev/sweet-friend/internal/state"
	"github.com/vladimiradmaev/sweet-friend/internal/storage"
	"github.com/vladimiradmaev/sweet-friend/internal/testutil"
	"github.com/vladimiradmaev/sweet-friend/internal/web"
	"github.com/vladimiradmaev/sweet-friend/internal/web/handlers"
)

const (
	testSessionSecret = "a-very-secret-key-for-testing-!"
	testPassword      = "correct horse"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type testEnv struct {
	srv   *web.Server
	ai    *testutil.FakeAI
	users *services.UserService
	logs  *services.LogService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, web.Options{Port: "0", SessionSecret: testSessionSecret, MaxUploadSize: 1 << 20})
}

func newTestEnvWith(t *testing.T, opts web.Options) *testEnv {
	t.Helper()
	repos := repository.New(testutil.NewTestDB(t))
	ai := &testutil.FakeAI{
		Reply:    "Hello from Sweet Friend",
		Analysis: &domain.FoodAnalysis{MealName: "Spaghetti", TotalCarbs: 62.5, Reason: "one plate"},
	}
	st := state.NewManager()
	env := &testEnv{
		ai:    ai,
		users: services.NewUserService(repos.Users),
		logs:  services.NewLogService(repos.LogEntries),
	}
	deps := handlers.Dependencies{
		Users:   env.users,
		Chat:    services.NewChatService(ai, st),
		Food:    services.NewFoodAnalysisService(ai, storage.NewAferoStore(afero.NewMemMapFs()), st, 1<<20),
		Logs:    env.logs,
		Glucose: services.NewGlucoseService(repos.Glucose),
		Advice:  services.NewAdviceService(ai, repos.Glucose, repos.LogEntries, nil),
		State:   st,
	}
	env.srv = web.New(opts, deps)
	return env
}

// do sends req with cookies the way a browser would: a later cookie of the same name wins
func (env *testEnv) do(req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	latest := map[string]*http.Cookie{}
	var names []string
	for _, c := range cookies {
		if _, seen := latest[c.Name]; !seen {
			names = append(names, c.Name)
		}
		latest[c.Name] = c
	}
	for _, name := range names {
		req.AddCookie(latest[name])
	}
	rec := httptest.NewRecorder()
	env.srv.E.ServeHTTP(rec, req)
	return rec
}

func formRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func htmxRequest(req *http.Request) *http.Request {
	req.Header.Set("HX-Request", "true")
	return req
}

// login registers username and returns the cookies of a logged-in browser
func (env *testEnv) login(t *testing.T, username string) (*domain.User, []*http.Cookie) {
	t.Helper()
	user, err := env.users.Register(context.Background(), username, testPassword)
	require.NoError(t, err)

	rec := env.do(formRequest(http.MethodPost, "/api/user_login", url.Values{
		"username": {username},
		"password": {testPassword},
	}), nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/app/dashboard", rec.Header().Get("Location"))
	return user, rec.Result().Cookies()
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestAPIRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/chat"},
		{http.MethodPost, "/api/analyze_image"},
		{http.MethodGet, "/api/get_glucose"},
		{http.MethodPost, "/api/glucose"},
		{http.MethodGet, "/api/get_advice"},
		{http.MethodGet, "/api/log_entries"},
		{http.MethodPost, "/api/food_entry"},
		{http.MethodPost, "/api/exercise_entry"},
		{http.MethodPost, "/api/log_entries/toggle_star"},
		{http.MethodGet, "/api/dexcom_login"},
		{http.MethodGet, "/api/dexcom_callback"},
	}
	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			rec := env.do(jsonRequest(r.method, r.path, "{}"), nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, decode(t, rec), "error")
		})
	}
}

func TestPagesRedirectWithoutSession(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/app/dashboard", "/app/logs", "/app/starred", "/app/chat"} {
		rec := env.do(httptest.NewRequest(http.MethodGet, path, nil), nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/", rec.Header().Get("Location"), path)
	}

	rec := env.do(htmxRequest(httptest.NewRequest(http.MethodGet, "/app/logs/list", nil)), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("HX-Redirect"))
}

func TestAPIIndexAndJSON(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/json", nil), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]interface{}{"message": "test", "status": float64(200)}, decode(t, rec))

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/", nil), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var routes []struct {
		Endpoint string `json:"endpoint"`
		Methods  string `json:"methods"`
		URL      string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &routes))

	byURL := map[string]string{}
	for _, r := range routes {
		byURL[r.URL] = r.Methods
		assert.True(t, strings.HasPrefix(r.URL, "/api/"), r.URL)
	}
	assert.Equal(t, "POST", byURL["/api/chat"])
	assert.Equal(t, "GET", byURL["/api/json"])
	assert.Equal(t, "POST", byURL["/api/log_entries/toggle_star"])
}

func TestLoginAndRegister(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.users.Register(context.Background(), "maria", testPassword)
	require.NoError(t, err)

	t.Run("wrong password goes back to the form with a flash", func(t *testing.T) {
		rec := env.do(formRequest(http.MethodPost, "/api/user_login", url.Values{
			"username": {"maria"},
			"password": {"not the password"},
		}), nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))

		page := env.do(httptest.NewRequest(http.MethodGet, "/", nil), rec.Result().Cookies())
		assert.Equal(t, http.StatusOK, page.Code)
		assert.Contains(t, page.Body.String(), "invalid username or password")
		assert.Contains(t, page.Body.String(), `value="maria"`)
	})

	t.Run("login opens the dashboard", func(t *testing.T) {
		rec := env.do(formRequest(http.MethodPost, "/api/user_login", url.Values{
			"username": {"maria"},
			"password": {testPassword},
		}), nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/app/dashboard", rec.Header().Get("Location"))

		page := env.do(httptest.NewRequest(http.MethodGet, "/app/dashboard", nil), rec.Result().Cookies())
		require.Equal(t, http.StatusOK, page.Code)
		assert.Contains(t, page.Body.String(), `id="glucose-chart"`)
		assert.Contains(t, page.Body.String(), "maria")
	})

	t.Run("mismatched passwords", func(t *testing.T) {
		rec := env.do(formRequest(http.MethodPost, "/api/user_register", url.Values{
			"username":         {"newbie"},
			"password":         {testPassword},
			"password_confirm": {"something else"},
		}), nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/register", rec.Header().Get("Location"))
	})

	t.Run("duplicate username", func(t *testing.T) {
		rec := env.do(formRequest(http.MethodPost, "/api/user_register", url.Values{
			"username": {"maria"},
			"password": {testPassword},
		}), nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/register", rec.Header().Get("Location"))

		page := env.do(httptest.NewRequest(http.MethodGet, "/register", nil), rec.Result().Cookies())
		assert.Contains(t, page.Body.String(), "username is already taken")
	})

	t.Run("register logs in", func(t *testing.T) {
		rec := env.do(formRequest(http.MethodPost, "/api/user_register", url.Values{
			"username":         {"newbie"},
			"password":         {testPassword},
			"password_confirm": {testPassword},
		}), nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/app/dashboard", rec.Header().Get("Location"))

		page := env.do(httptest.NewRequest(http.MethodGet, "/app/chat", nil), rec.Result().Cookies())
		assert.Equal(t, http.StatusOK, page.Code)
	})

	t.Run("logout clears the session", func(t *testing.T) {
		_, cookies := env.login(t, "leaving")
		rec := env.do(httptest.NewRequest(http.MethodGet, "/logout", nil), cookies)
		require.Equal(t, http.StatusSeeOther, rec.Code)

		page := env.do(httptest.NewRequest(http.MethodGet, "/app/dashboard", nil), rec.Result().Cookies())
		assert.Equal(t, http.StatusSeeOther, page.Code)
	})
}

func TestAPIChat(t *testing.T) {
	env := newTestEnv(t)
	_, cookies := env.login(t, "chatty")

	rec := env.do(jsonRequest(http.MethodPost, "/api/chat", `{"message":"How many carbs in an apple?"}`), cookies)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Hello from Sweet Friend", decode(t, rec)["response"])

	rec = env.do(jsonRequest(http.MethodPost, "/api/chat", `{"message":[
		{"content":"hi","sender":"user"},
		{"content":"hello","sender":"robot"},
		{"content":"and a banana?","sender":"user"}]}`), cookies)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	last := env.ai.ChatCalls[len(env.ai.ChatCalls)-1]
	require.Len(t, last, 3)
	assert.Equal(t, "and a banana?", last[2].Content)

	rec = env.do(jsonRequest(http.MethodPost, "/api/chat", `{"message":"   "}`), cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "message cannot be empty", decode(t, rec)["error"])

	env.ai.Err = errors.New("quota exceeded")
	rec = env.do(jsonRequest(http.MethodPost, "/api/chat", `{"message":"still there?"}`), cookies)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "AI API error", decode(t, rec)["error"])
}

func TestChatSendRendersTwoBubbles(t *testing.T) {
	env := newTestEnv(t)
	_, cookies := env.login(t, "bubbles")

	send := func(msg string) *httptest.ResponseRecorder {
		return env.do(htmxRequest(formRequest(http.MethodPost, "/app/chat/send", url.Values{"message": {msg}})), cookies)
	}

	rec := send("hello")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, strings.Count(rec.Body.String(), `class="chat-bubble `))
	assert.Contains(t, rec.Body.String(), `<div class="chat-bubble user">hello</div>`)
	assert.Contains(t, rec.Body.String(), `<div class="chat-bubble robot">Hello from Sweet Friend</div>`)

	env.ai.Err = errors.New("boom")
	rec = send("again")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, strings.Count(rec.Body.String(), `class="chat-bubble `))
	assert.Contains(t, rec.Body.String(), `<div class="chat-bubble robot">AI API error</div>`)

	rec = send("  ")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	page := env.do(httptest.NewRequest(http.MethodGet, "/app/chat", nil), cookies)
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), `<div class="chat-bubble user">hello</div>`)

	rec = env.do(htmxRequest(httptest.NewRequest(http.MethodPost, "/app/chat/reset", nil)), cookies)
	assert.Equal(t, http.StatusOK, rec.Code)
	page = env.do(httptest.NewRequest(http.MethodGet, "/app/chat", nil), cookies)
	assert.NotContains(t, page.Body.String(), `<div class="chat-bubble user">hello</div>`)
}

func TestLogEntriesAPI(t *testing.T) {
	env := newTestEnv(t)
	_, cookies := env.login(t, "logger")

	rec := env.do(jsonRequest(http.MethodPost, "/api/food_entry",
		`{"name":"Toast","timestamp":"2024-09-21T08:00:00Z","details":{"total_carbs":12.5}}`), cookies)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "success", body["status"])
	toast := body["entry"].(map[string]interface{})
	assert.Equal(t, "food", toast["type"])
	assert.Equal(t, 12.5, toast["details"].(map[string]interface{})["total_carbs"])

	rec = env.do(jsonRequest(http.MethodPost, "/api/exercise_entry",
		`{"name":"Cycling","timestamp":"2024-09-21T18:00:00Z","details":{"time_spent":45,"intensity_level":"Medium"}}`), cookies)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(jsonRequest(http.MethodPost, "/api/exercise_entry", `{"name":"Nap"}`), cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(jsonRequest(http.MethodPost, "/api/food_entry", `{"name":"Run","type":"exercise"}`), cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	list := func(query string) []string {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/api/log_entries?"+query, nil), cookies)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var names []string
		for _, e := range decode(t, rec)["entries"].([]interface{}) {
			names = append(names, e.(map[string]interface{})["name"].(string))
		}
		return names
	}
	assert.Equal(t, []string{"Cycling", "Toast"}, list(""))
	assert.Equal(t, []string{"Toast"}, list("type=food"))
	assert.Equal(t, []string{"Cycling", "Toast"}, list("sort=name"))
	assert.Equal(t, []string{"Toast", "Cycling"}, list("sort=name&order=desc"))
	assert.Empty(t, list("starred=true"))

	id := uint(toast["id"].(float64))
	rec = env.do(jsonRequest(http.MethodPost, "/api/log_entries/toggle_star",
		`{"entry_id":`+jsonNumber(id)+`,"starred":true}`), cookies)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, decode(t, rec)["entry"].(map[string]interface{})["starred"])
	assert.Equal(t, []string{"Toast"}, list("starred=true"))

	rec = env.do(jsonRequest(http.MethodPost, "/api/log_entries/toggle_star", `{"entry_id":9999,"starred":true}`), cookies)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(jsonRequest(http.MethodPost, "/api/log_entries/toggle_star", `{"entry_id":1}`), cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func jsonNumber(n uint) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestLogPages(t *testing.T) {
	env := newTestEnv(t)
	user, cookies := env.login(t, "pages")

	rec := env.do(htmxRequest(formRequest(http.MethodPost, "/app/logs", url.Values{
		"type":        {"food"},
		"name":        {"Oatmeal"},
		"total_carbs": {"27.5"},
	})), cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "logs-changed", rec.Header().Get("HX-Trigger"))

	all, err := env.logs.Since(context.Background(), user.ID, time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 27.5, all[0].Details.Carbs())

	rec = env.do(htmxRequest(formRequest(http.MethodPost, "/app/logs", url.Values{
		"type":        {"food"},
		"name":        {"Soup"},
		"total_carbs": {"lots"},
	})), cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("HX-Trigger"))
	assert.Contains(t, rec.Body.String(), "total carbs must be a number")

	for _, carbs := range []string{"Inf", "NaN", "-Inf"} {
		rec = env.do(htmxRequest(formRequest(http.MethodPost, "/app/logs", url.Values{
			"type":        {"food"},
			"name":        {"Cake"},
			"total_carbs": {carbs},
		})), cookies)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("HX-Trigger"), carbs)
	}
	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/log_entries", nil), cookies)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decode(t, rec)["entries"], 1)

	id := jsonNumber(all[0].ID)
	rec = env.do(htmxRequest(httptest.NewRequest(http.MethodGet, "/app/logs/"+id, nil)), cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "27.5g")

	rec = env.do(htmxRequest(formRequest(http.MethodPost, "/app/logs/"+id+"/star", url.Values{"starred": {"true"}})), cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "★")
	assert.Contains(t, rec.Body.String(), `aria-label="Unstar"`)

	page := env.do(httptest.NewRequest(http.MethodGet, "/app/starred", nil), cookies)
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Oatmeal")

	rec = env.do(htmxRequest(httptest.NewRequest(http.MethodGet, "/app/logs/list?type=exercise", nil)), cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No entries yet.")

	rec = env.do(htmxRequest(httptest.NewRequest(http.MethodGet, "/app/logs/new", nil)), cookies)
	assert.Contains(t, rec.Body.String(), "Select Log Type:")
	rec = env.do(htmxRequest(httptest.NewRequest(http.MethodGet, "/app/logs/new?type=exercise", nil)), cookies)
	assert.Contains(t, rec.Body.String(), `name="intensity_level"`)
}

func multipartRequest(t *testing.T, target, filename string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestAnalyzeImage(t *testing.T) {
	env := newTestEnv(t)
	_, cookies := env.login(t, "photos")

	rec := env.do(multipartRequest(t, "/api/analyze_image", "lunch.png", pngHeader), cookies)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, map[string]interface{}{
		"meal_name":   "Spaghetti",
		"total_carbs": 62.5,
		"reason":      "one plate",
	}, decode(t, rec))

	// the pending analysis prefills the food form
	rec = env.do(htmxRequest(httptest.NewRequest(http.MethodGet, "/app/logs/new?type=food", nil)), cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Spaghetti"`)
	assert.Contains(t, rec.Body.String(), `value="62.5"`)

	rec = env.do(multipartRequest(t, "/api/analyze_image", "notes.txt", []byte("just some text")), cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "uploaded file is not an image", decode(t, rec)["error"])

	rec = env.do(jsonRequest(http.MethodPost, "/api/analyze_image", "{}"), cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(htmxRequest(multipartRequest(t, "/app/logs/analyze", "dinner.png", pngHeader)), cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Spaghetti"`)
	assert.Contains(t, rec.Body.String(), "one plate")
}

func TestGlucoseAndDashboard(t *testing.T) {
	env := newTestEnv(t)
	_, cookies := env.login(t, "sugar")

	// with no readings the chart shows sample data and markers snap to its labels
	rec := env.do(formRequest(http.MethodPost, "/app/markers", url.Values{"type": {"food"}, "x": {"1.6"}, "y": {"130"}}), cookies)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, map[string]interface{}{"type": "food", "x": "08:00", "y": 138.0}, decode(t, rec))

	rec = env.do(formRequest(http.MethodPost, "/app/markers", url.Values{"type": {"nap"}, "x": {"1"}, "y": {"1"}}), cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.do(formRequest(http.MethodPost, "/app/markers", url.Values{"type": {"food"}, "x": {"Inf"}, "y": {"1"}}), cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(jsonRequest(http.MethodPost, "/api/glucose", `{"value":5}`), cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(jsonRequest(http.MethodPost, "/api/glucose", `{"value":126}`), cookies)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/get_glucose", nil), cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	var readings []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &readings))
	require.Len(t, readings, 1)
	assert.Equal(t, 126.0, readings[0]["value"])
	assert.Contains(t, readings[0], "systemTime")

	rec = env.do(formRequest(http.MethodPost, "/app/glucose", url.Values{"value": {"abc"}}), cookies)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	page := env.do(httptest.NewRequest(http.MethodGet, "/app/dashboard", nil), append(cookies, rec.Result().Cookies()...))
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Glucose value must be a number.")
	assert.NotContains(t, page.Body.String(), "Sample data")

	rec = env.do(formRequest(http.MethodPost, "/app/glucose", url.Values{"value": {"NaN"}}), cookies)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	page = env.do(httptest.NewRequest(http.MethodGet, "/app/dashboard", nil), append(cookies, rec.Result().Cookies()...))
	assert.Contains(t, page.Body.String(), "glucose value must be between 10 and 1000 mg/dL")
	assert.NotContains(t, page.Body.String(), "Reading saved.")

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/get_glucose", nil), cookies)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &readings))
	assert.Len(t, readings, 1)
}

func TestSessionCookieHonoursSecureOption(t *testing.T) {
	env := newTestEnvWith(t, web.Options{Port: "0", SessionSecret: testSessionSecret, SecureCookies: true})
	_, cookies := env.login(t, "secure")

	var auth *http.Cookie
	for _, c := range cookies {
		if c.Name == "sweet-friend" {
			auth = c
		}
	}
	require.NotNil(t, auth)
	assert.True(t, auth.Secure)
	assert.True(t, auth.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, auth.SameSite)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/logout", nil), cookies)
	for _, c := range rec.Result().Cookies() {
		if c.Name == "sweet-friend" {
			assert.True(t, c.Secure)
			assert.Negative(t, c.MaxAge)
		}
	}
}

func TestAdvice(t *testing.T) {
	env := newTestEnv(t)
	_, cookies := env.login(t, "advised")
	env.ai.Reply = "**Eat** a snack before your run."

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/get_advice", nil), cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, env.ai.Reply, decode(t, rec)["response"])

	rec = env.do(htmxRequest(httptest.NewRequest(http.MethodGet, "/app/advice", nil)), cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<strong>Eat</strong>")

	env.ai.Err = errors.New("down")
	rec = env.do(htmxRequest(httptest.NewRequest(http.MethodGet, "/app/advice", nil)), cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "form-error")
}

func TestDexcomDisabled(t *testing.T) {
	env := newTestEnv(t)
	_, cookies := env.login(t, "nocgm")

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/dexcom_login", nil), cookies)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode(t, rec), "error")

	page := env.do(httptest.NewRequest(http.MethodGet, "/app/dashboard", nil), cookies)
	assert.NotContains(t, page.Body.String(), "/api/dexcom_login")
}
