package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/config"
	"portfolio/internal/memstore"
	"portfolio/internal/metrics"
	"portfolio/internal/service"
	"portfolio/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Environment: "test",
		Security: config.SecurityConfig{
			JWTSecret:     "handler-test-secret",
			SessionTTL:    time.Hour,
			AdminUsername: "admin",
			AdminPassword: "admin123",
		},
		Storage: config.StorageConfig{MaxResumeBytes: 1 << 20},
	}
}

func newEngine(t *testing.T, checks ...HealthCheck) *gin.Engine {
	t.Helper()
	cfg := testConfig()
	log := zerolog.Nop()
	services := service.NewServices(memstore.NewBackends(), cfg, log)
	sessions := session.NewManager(cfg.Security, false, log)

	engine := gin.New()
	NewHandlerSet(log, cfg, services, sessions, metrics.New(), checks...).Register(engine)
	return engine
}

func do(r http.Handler, method, path, contentType string, body io.Reader, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doJSON(r http.Handler, method, path string, payload any, cookie *http.Cookie) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(payload)
	return do(r, method, path, "application/json", bytes.NewReader(raw), cookie)
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func login(t *testing.T, r http.Handler) *http.Cookie {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/auth/login", map[string]string{"username": "admin", "password": "admin123"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	return cookie
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestPublicReadsStartEmpty(t *testing.T) {
	r := newEngine(t)

	for _, path := range []string{"/api/skills", "/api/experience", "/api/projects", "/api/admin/skills"} {
		w := do(r, http.MethodGet, path, "", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.JSONEq(t, `[]`, w.Body.String(), path)
	}

	w := do(r, http.MethodGet, "/api/hero", "", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/resume", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Resume not found", w.Body.String())
}

func TestMutationsRequireSession(t *testing.T) {
	r := newEngine(t)
	forged := &http.Cookie{Name: session.CookieName, Value: "not.a.token"}

	for _, cookie := range []*http.Cookie{nil, forged} {
		w := doJSON(r, http.MethodPost, "/api/admin/skills", map[string]any{
			"category": "Languages", "name": "Go", "items": []string{"generics"}, "icon": "go",
		}, cookie)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())

		w = doJSON(r, http.MethodPut, "/api/admin/projects", map[string]any{"_id": "x"}, cookie)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = do(r, http.MethodDelete, "/api/admin/hero?id=x", "", nil, cookie)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := do(r, http.MethodGet, "/api/skills", "", nil, nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestLoginAndSession(t *testing.T) {
	r := newEngine(t)

	for _, creds := range []map[string]string{
		{"username": "admin", "password": "wrong"},
		{"username": "Admin", "password": "admin123"},
		{"username": "admin", "password": "ADMIN123"},
	} {
		w := doJSON(r, http.MethodPost, "/api/auth/login", creds, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Nil(t, sessionCookie(w))
	}

	w := doJSON(r, http.MethodPost, "/api/auth/login", map[string]string{"username": "admin"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	cookie := login(t, r)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)

	w = do(r, http.MethodGet, "/api/auth/session", "", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	state := decode[map[string]any](t, w)
	assert.Equal(t, true, state["authenticated"])
	assert.Equal(t, "admin", state["username"])

	w = do(r, http.MethodGet, "/api/auth/session", "", nil, nil)
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())

	w = do(r, http.MethodPost, "/api/auth/logout", "", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	cleared := sessionCookie(w)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.True(t, cleared.MaxAge < 0)
}

func TestLoginFormRedirects(t *testing.T) {
	r := newEngine(t)
	form := "application/x-www-form-urlencoded"

	bad := url.Values{"username": {"admin"}, "password": {"nope"}}
	w := do(r, http.MethodPost, "/api/auth/login", form, strings.NewReader(bad.Encode()), nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/login?error=invalid", w.Header().Get("Location"))

	good := url.Values{"username": {"admin"}, "password": {"admin123"}}
	w = do(r, http.MethodPost, "/api/auth/login", form, strings.NewReader(good.Encode()), nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/dashboard", w.Header().Get("Location"))
	assert.NotNil(t, sessionCookie(w))
}

func TestSkillCRUD(t *testing.T) {
	r := newEngine(t)
	cookie := login(t, r)

	w := doJSON(r, http.MethodPost, "/api/admin/skills", map[string]any{
		"category": "Backend", "name": "Databases", "items": []string{"Postgres"}, "icon": "db", "order": 2,
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	second := decode[map[string]any](t, w)
	require.NotEmpty(t, second["_id"])

	w = doJSON(r, http.MethodPost, "/api/admin/skills", map[string]any{
		"category": "Languages", "name": "Go", "items": []string{"generics", "channels"}, "icon": "go", "order": 1,
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	first := decode[map[string]any](t, w)

	w = do(r, http.MethodGet, "/api/skills", "", nil, nil)
	list := decode[[]map[string]any](t, w)
	require.Len(t, list, 2)
	assert.Equal(t, first["_id"], list[0]["_id"])
	assert.Equal(t, second["_id"], list[1]["_id"])

	t.Run("create validation failure", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/admin/skills", map[string]any{"category": "x"}, cookie)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.True(t, strings.HasPrefix(decode[map[string]string](t, w)["error"], "Failed to create skill: "))
	})

	t.Run("malformed body", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/admin/skills", "application/json", strings.NewReader("{"), cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		w := doJSON(r, http.MethodPut, "/api/admin/skills", map[string]any{"_id": first["_id"], "name": "Golang"}, cookie)
		require.Equal(t, http.StatusOK, w.Code)
		updated := decode[map[string]any](t, w)
		assert.Equal(t, "Golang", updated["name"])
		assert.Equal(t, "Languages", updated["category"])
		assert.Equal(t, []any{"generics", "channels"}, updated["items"])
		assert.Equal(t, first["createdAt"], updated["createdAt"])
	})

	t.Run("update revalidates merged record", func(t *testing.T) {
		w := doJSON(r, http.MethodPut, "/api/admin/skills", map[string]any{"_id": first["_id"], "name": ""}, cookie)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.True(t, strings.HasPrefix(decode[map[string]string](t, w)["error"], "Failed to update skill: "))
	})

	t.Run("rejected update leaves stored slices untouched", func(t *testing.T) {
		w := doJSON(r, http.MethodPut, "/api/admin/skills", map[string]any{
			"_id": first["_id"], "items": []string{"x", "y"}, "name": "",
		}, cookie)
		assert.Equal(t, http.StatusInternalServerError, w.Code)

		w = doJSON(r, http.MethodPut, "/api/admin/skills", map[string]any{"_id": first["_id"], "items": nil}, cookie)
		assert.Equal(t, http.StatusInternalServerError, w.Code)

		w = do(r, http.MethodGet, "/api/skills", "", nil, nil)
		for _, item := range decode[[]map[string]any](t, w) {
			if item["_id"] == first["_id"] {
				assert.Equal(t, []any{"generics", "channels"}, item["items"])
			}
		}
	})

	t.Run("update errors", func(t *testing.T) {
		w := doJSON(r, http.MethodPut, "/api/admin/skills", map[string]any{"name": "x"}, cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"ID is required"}`, w.Body.String())

		w = doJSON(r, http.MethodPut, "/api/admin/skills", map[string]any{"_id": "missing", "name": "x"}, cookie)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Skill not found"}`, w.Body.String())
	})

	t.Run("delete", func(t *testing.T) {
		w := do(r, http.MethodDelete, "/api/admin/skills", "", nil, cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = do(r, http.MethodDelete, "/api/admin/skills?id=missing", "", nil, cookie)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = do(r, http.MethodDelete, "/api/admin/skills?id="+second["_id"].(string), "", nil, cookie)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"message":"Skill deleted"}`, w.Body.String())

		w = do(r, http.MethodGet, "/api/skills", "", nil, nil)
		assert.Len(t, decode[[]map[string]any](t, w), 1)
	})
}

func TestExperienceAndProjectMessages(t *testing.T) {
	r := newEngine(t)
	cookie := login(t, r)

	w := doJSON(r, http.MethodPost, "/api/admin/experience", map[string]any{
		"title": "Engineer", "company": "Acme", "period": "2020 - Present", "borderColor": "blue",
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[map[string]any](t, w)["_id"].(string)

	w = do(r, http.MethodDelete, "/api/admin/experience?id="+id, "", nil, cookie)
	assert.JSONEq(t, `{"success":true,"message":"Experience deleted"}`, w.Body.String())

	w = doJSON(r, http.MethodPut, "/api/admin/projects", map[string]any{"_id": "nope", "title": "x"}, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Project not found"}`, w.Body.String())
}

func heroForm(t *testing.T, fields map[string]string, resume []byte) (string, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if resume != nil {
		part, err := mw.CreateFormFile("resume", "cv.pdf")
		require.NoError(t, err)
		_, err = part.Write(resume)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return mw.FormDataContentType(), &buf
}

func TestHeroWithResume(t *testing.T) {
	r := newEngine(t)
	cookie := login(t, r)
	pdf := []byte("%PDF-1.4\nresume body")

	contentType, body := heroForm(t, map[string]string{
		"title": "Hi", "subtitle": "I build things", "description": "About me",
		"ctaText": "Contact", "ctaLink": "#contact",
	}, pdf)
	w := do(r, http.MethodPost, "/api/admin/hero", contentType, body, cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[map[string]any](t, w)
	assert.Equal(t, "cv.pdf", created["resumeFileName"])
	assert.NotContains(t, created, "resumeObjectKey")

	w = do(r, http.MethodGet, "/api/resume", "", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pdf, w.Body.Bytes())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="cv.pdf"`, w.Header().Get("Content-Disposition"))

	w = do(r, http.MethodGet, "/api/hero", "", nil, nil)
	assert.Equal(t, "Hi", decode[map[string]any](t, w)["title"])

	contentType, body = heroForm(t, map[string]string{
		"_id": created["_id"].(string), "title": "Hello", "removeResume": "true",
	}, nil)
	w = do(r, http.MethodPut, "/api/admin/hero", contentType, body, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[map[string]any](t, w)
	assert.Equal(t, "Hello", updated["title"])
	assert.Equal(t, "I build things", updated["subtitle"])
	assert.NotContains(t, updated, "resumeFileName")

	w = do(r, http.MethodGet, "/api/resume", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodPut, "/api/admin/hero", map[string]any{"_id": created["_id"], "ctaText": ""}, cookie)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.True(t, strings.HasPrefix(decode[map[string]string](t, w)["error"], "Failed to update hero content: "))

	w = do(r, http.MethodDelete, "/api/admin/hero?id="+created["_id"].(string), "", nil, cookie)
	assert.JSONEq(t, `{"success":true,"message":"Hero content deleted"}`, w.Body.String())
}

func TestHeroJSONCreate(t *testing.T) {
	r := newEngine(t)
	cookie := login(t, r)

	w := doJSON(r, http.MethodPost, "/api/admin/hero", map[string]any{
		"title": "Hi", "subtitle": "s", "description": "d", "ctaText": "c", "ctaLink": "/l",
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/api/admin/hero", map[string]any{"title": "missing fields"}, cookie)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.True(t, strings.HasPrefix(decode[map[string]string](t, w)["error"], "Failed to create hero content: "))
}

func TestAdminPages(t *testing.T) {
	r := newEngine(t)

	w := do(r, http.MethodGet, "/admin", "", nil, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))

	w = do(r, http.MethodGet, "/admin/dashboard", "", nil, nil)
	assert.Equal(t, http.StatusFound, w.Code)

	w = do(r, http.MethodGet, "/admin/login?error=invalid", "", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials.")

	cookie := login(t, r)

	w = do(r, http.MethodGet, "/admin", "", nil, cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/dashboard", w.Header().Get("Location"))

	w = do(r, http.MethodGet, "/admin/dashboard", "", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Signed in as admin")
}

func TestHealth(t *testing.T) {
	r := newEngine(t,
		HealthCheck{Name: "database", Ping: func(context.Context) error { return nil }},
		HealthCheck{Name: "cache", Ping: func(context.Context) error { return errors.New("down") }},
	)

	w := do(r, http.MethodGet, "/api/healthz", "", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[healthResponse](t, w)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, map[string]string{"database": "ok", "cache": "error"}, resp.Checks)
	assert.Equal(t, "test", resp.Environment)
}

func TestUpdateOrderMovesRecord(t *testing.T) {
	r := newEngine(t)
	cookie := login(t, r)

	ids := map[int]string{}
	for _, order := range []int{0, 3, 5} {
		w := doJSON(r, http.MethodPost, "/api/admin/experience", map[string]any{
			"title": "Role", "company": "Acme", "period": "2020", "borderColor": "blue", "order": order,
		}, cookie)
		require.Equal(t, http.StatusCreated, w.Code)
		ids[order] = decode[map[string]any](t, w)["_id"].(string)
	}

	orders := func() []float64 {
		w := do(r, http.MethodGet, "/api/experience", "", nil, nil)
		var out []float64
		for _, item := range decode[[]map[string]any](t, w) {
			out = append(out, item["order"].(float64))
		}
		return out
	}
	require.Equal(t, []float64{0, 3, 5}, orders())

	w := doJSON(r, http.MethodPut, "/api/admin/experience", map[string]any{"_id": ids[5], "order": 1}, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []float64{0, 1, 3}, orders())

	w = do(r, http.MethodGet, "/api/experience", "", nil, nil)
	list := decode[[]map[string]any](t, w)
	assert.Equal(t, ids[5], list[1]["_id"])
}
