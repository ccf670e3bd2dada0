package kudos

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
)

const (
	testUser1 = "a3bb189e-8bf9-4888-9912-ace4e6543002"
	testUser2 = "b4cc289e-8bf9-4888-9912-ace4e6543002"
)

func setupApp(t *testing.T, cfg Config) (*App, func()) {
	t.Helper()
	app := New(cfg)
	if err := app.init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	return app, func() { app.Close() }
}

func request(app *App, method, target, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	return rec
}

func likeStatus(t *testing.T, rec *httptest.ResponseRecorder) (count int, isLiked bool) {
	t.Helper()
	var body struct {
		Count   int  `json:"count"`
		IsLiked bool `json:"isLiked"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return body.Count, body.IsLiked
}

func TestDisabledLikes(t *testing.T) {
	app, cleanup := setupApp(t, Config{ContentDir: t.TempDir()})
	defer cleanup()

	rec := request(app, http.MethodGet, "/api/likes?slug=hello-world", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET code = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"disabled":true`) {
		t.Errorf("body = %s, want disabled:true", rec.Body.String())
	}

	body := `{"slug":"hello-world","userId":"` + testUser1 + `"}`
	rec = request(app, http.MethodPost, "/api/likes", body, nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("POST code = %d, want 503", rec.Code)
	}
}

func TestLikeFlowAgainstLocalStore(t *testing.T) {
	app, cleanup := setupApp(t, Config{
		ContentDir:  t.TempDir(),
		LocalDBPath: filepath.Join(t.TempDir(), "likes.db"),
	})
	defer cleanup()

	// Fresh slug reports zero and not liked.
	rec := request(app, http.MethodGet, "/api/likes?slug=hello-world&userId="+testUser1, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET code = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if count, liked := likeStatus(t, rec); count != 0 || liked {
		t.Errorf("fresh status = %d/%v, want 0/false", count, liked)
	}

	// First user likes, unlikes, then a second user likes.
	body1 := `{"slug":"hello-world","userId":"` + testUser1 + `"}`
	rec = request(app, http.MethodPost, "/api/likes", body1, nil)
	if count, liked := likeStatus(t, rec); count != 1 || !liked {
		t.Errorf("after like = %d/%v, want 1/true", count, liked)
	}

	rec = request(app, http.MethodPost, "/api/likes", body1, nil)
	if count, liked := likeStatus(t, rec); count != 0 || liked {
		t.Errorf("after unlike = %d/%v, want 0/false", count, liked)
	}

	body2 := `{"slug":"hello-world","userId":"` + testUser2 + `"}`
	rec = request(app, http.MethodPost, "/api/likes", body2, nil)
	if count, liked := likeStatus(t, rec); count != 1 || !liked {
		t.Errorf("second user like = %d/%v, want 1/true", count, liked)
	}

	// First user sees the count but is not a liker anymore.
	rec = request(app, http.MethodGet, "/api/likes?slug=hello-world&userId="+testUser1, "", nil)
	if count, liked := likeStatus(t, rec); count != 1 || liked {
		t.Errorf("first user status = %d/%v, want 1/false", count, liked)
	}
}

func TestLikeValidationOverHTTP(t *testing.T) {
	app, cleanup := setupApp(t, Config{
		ContentDir:  t.TempDir(),
		LocalDBPath: filepath.Join(t.TempDir(), "likes.db"),
	})
	defer cleanup()

	rec := request(app, http.MethodGet, "/api/likes?slug=../etc", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("traversal slug code = %d, want 400", rec.Code)
	}

	rec = request(app, http.MethodGet, "/api/likes?slug=hello-world&userId=not-a-uuid", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad user id code = %d, want 400", rec.Code)
	}

	rec = request(app, http.MethodPost, "/api/likes", `{"slug":"hello world","userId":"`+testUser1+`"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("spaced slug code = %d, want 400", rec.Code)
	}
}

func TestPostsFeedOverHTTP(t *testing.T) {
	dir := t.TempDir()
	content := "---\ntitle: 'Hello'\ndescription: 'First'\npubDate: 2024-06-01\nauthor: Erin\ntags: [go]\n---\n"
	if err := os.WriteFile(filepath.Join(dir, "hello.md"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	app, cleanup := setupApp(t, Config{ContentDir: dir})
	defer cleanup()

	rec := request(app, http.MethodGet, "/api/posts.json", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}

	var feed []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &feed); err != nil {
		t.Fatalf("decode feed: %v", err)
	}
	if len(feed) != 1 {
		t.Fatalf("feed has %d entries, want 1", len(feed))
	}
	if feed[0]["slug"] != "hello" || feed[0]["title"] != "Hello" {
		t.Errorf("entry = %v", feed[0])
	}
}

func TestVitalsOverHTTP(t *testing.T) {
	app, cleanup := setupApp(t, Config{ContentDir: t.TempDir()})
	defer cleanup()

	beacon := `{"url":"https://example.com/post","vitals":{"LCP":2000},"timestamp":` +
		strconv.FormatInt(time.Now().UnixMilli(), 10) + `}`
	rec := request(app, http.MethodPost, "/api/analytics/vitals", beacon, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("collect code = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	rec = request(app, http.MethodGet, "/api/analytics/vitals", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats code = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"LCP"`) {
		t.Errorf("stats body = %s, want LCP entry", rec.Body.String())
	}

	rec = request(app, http.MethodPost, "/api/analytics/vitals", `{"url":"https://example.com"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("incomplete beacon code = %d, want 400", rec.Code)
	}
}

func TestAPIErrorsAreJSON(t *testing.T) {
	app, cleanup := setupApp(t, Config{ContentDir: t.TempDir()})
	defer cleanup()

	rec := request(app, http.MethodGet, "/api/nope", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("API 404 is not JSON: %s", rec.Body.String())
	}
	if body["error"] == "" {
		t.Errorf("body = %v, want an error field", body)
	}
}

func TestAPISkipsTrailingSlashRedirect(t *testing.T) {
	app, cleanup := setupApp(t, Config{ContentDir: t.TempDir()})
	defer cleanup()

	rec := request(app, http.MethodGet, "/api/likes?slug=hello-world", "", nil)
	if rec.Code == http.StatusMovedPermanently {
		t.Error("API request was redirected to a trailing slash")
	}
}

func TestCacheControlHeaders(t *testing.T) {
	app, cleanup := setupApp(t, Config{ContentDir: t.TempDir()})
	defer cleanup()

	rec := request(app, http.MethodGet, "/api/posts.json", "", nil)
	if got := rec.Header().Get("Cache-Control"); got != "public, max-age=3600" {
		t.Errorf("posts.json Cache-Control = %q", got)
	}

	rec = request(app, http.MethodGet, "/api/likes?slug=hello-world", "", nil)
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("likes Cache-Control = %q", got)
	}
}

func TestCORSAllowsSiteOrigin(t *testing.T) {
	app, cleanup := setupApp(t, Config{
		SiteURL:    "https://blog.example.com",
		ContentDir: t.TempDir(),
	})
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/api/posts.json", nil)
	req.Header.Set("Origin", "https://blog.example.com")
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://blog.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestEmbeddedScripts(t *testing.T) {
	app, cleanup := setupApp(t, Config{ContentDir: t.TempDir()})
	defer cleanup()

	for _, target := range []string{"/public/likes.js", "/public/vitals.js"} {
		rec := request(app, http.MethodGet, target, "", nil)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s: code = %d, want 200", target, rec.Code)
		}
		if got := rec.Header().Get("Cache-Control"); got != "public, max-age=31536000, immutable" {
			t.Errorf("GET %s: Cache-Control = %q", target, got)
		}
	}
}

func TestAdminHiddenWithoutCredentials(t *testing.T) {
	app, cleanup := setupApp(t, Config{ContentDir: t.TempDir()})
	defer cleanup()

	rec := request(app, http.MethodGet, "/admin/", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("code = %d, want 404 when admin is not configured", rec.Code)
	}
}

func TestAdminLoginFlow(t *testing.T) {
	app, cleanup := setupApp(t, Config{
		ContentDir:    t.TempDir(),
		LocalDBPath:   filepath.Join(t.TempDir(), "likes.db"),
		AdminPassword: "hunter2",
		SessionSecret: "0123456789abcdef0123456789abcdef",
	})
	defer cleanup()

	// The login page issues the CSRF cookie.
	rec := request(app, http.MethodGet, "/admin/", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login page code = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `name="password"`) {
		t.Fatal("login page has no password field")
	}
	cookies := rec.Result().Cookies()
	var csrf string
	for _, c := range cookies {
		if c.Name == "_csrf" {
			csrf = c.Value
		}
	}
	if csrf == "" {
		t.Fatal("no CSRF cookie issued")
	}

	postForm := func(form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/admin/login/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		app.Echo.ServeHTTP(rec, req)
		return rec
	}

	// Wrong password re-renders the login page with an error.
	rec = postForm(url.Values{"password": {"wrong"}, "_csrf": {csrf}})
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Wrong password") {
		t.Errorf("wrong password: code = %d, body %s", rec.Code, rec.Body.String())
	}

	// Right password starts a session and redirects to the dashboard.
	rec = postForm(url.Values{"password": {"hunter2"}, "_csrf": {csrf}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login code = %d, want 303", rec.Code)
	}
	cookies = append(cookies, rec.Result().Cookies()...)

	rec = request(app, http.MethodGet, "/admin/", "", cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard code = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Dashboard") {
		t.Error("authenticated /admin/ did not render the dashboard")
	}
}
