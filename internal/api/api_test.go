package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/starford/quill/internal/entry"
	"github.com/starford/quill/internal/testutil"
)

type capture struct {
	mu     sync.Mutex
	events []entry.Result
}

func (c *capture) PublishEntry(_ string, res entry.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, res)
}

// testEnv sets up a temp journal and router. An empty token disables auth.
func testEnv(t *testing.T, token string, files ...string) (http.Handler, string, *capture) {
	t.Helper()
	dir := testutil.Journal(t, files...)
	svc := entry.NewService(entry.WithClock(testutil.Clock(2024, time.March, 20)))
	events := &capture{}
	router := NewRouter(NewHandler(svc, dir, events), token != "", token, nil)
	return router, dir, events
}

func do(t *testing.T, h http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestCreateDiaryEntry(t *testing.T) {
	router, dir, events := testEnv(t, "", "202403.md")

	w := do(t, router, http.MethodPost, "/entries", CreateEntryRequest{Kind: "diary"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var res struct {
		Path string `json:"path"`
		Name string `json:"name"`
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Name != "202404.md" || res.Kind != "diary" {
		t.Errorf("response = %+v", res)
	}
	if got := testutil.Entries(t, dir); len(got) != 2 {
		t.Errorf("entries = %v", got)
	}
	if len(events.events) != 1 {
		t.Errorf("events = %d, want 1", len(events.events))
	}
}

func TestCreateNoteEntry_EmptyBody(t *testing.T) {
	router, dir, _ := testEnv(t, "")
	req := httptest.NewRequest(http.MethodPost, "/entries", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	names := testutil.Entries(t, dir)
	if len(names) != 1 || !strings.HasSuffix(names[0], ".md") || len(names[0]) != 26+3 {
		t.Errorf("entries = %v", names)
	}
}

func TestCreateEntry_BadInput(t *testing.T) {
	router, dir, _ := testEnv(t, "")
	for _, body := range []CreateEntryRequest{{Kind: "memo"}, {ID: "snowflake"}} {
		w := do(t, router, http.MethodPost, "/entries", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%+v: status = %d", body, w.Code)
		}
	}
	req := httptest.NewRequest(http.MethodPost, "/entries", strings.NewReader("{"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad json: status = %d", w.Code)
	}
	if got := testutil.Entries(t, dir); len(got) != 0 {
		t.Errorf("entries = %v", got)
	}
}

func TestNextDiary(t *testing.T) {
	router, _, _ := testEnv(t, "", "202401.md")
	w := do(t, router, http.MethodGet, "/entries/next-diary", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp NextDiaryResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.YearMonth != "202403" || resp.Name != "202403.md" {
		t.Errorf("response = %+v", resp)
	}
}

func TestGetEntry(t *testing.T) {
	router, _, _ := testEnv(t, "")
	w := do(t, router, http.MethodPost, "/entries", CreateEntryRequest{Kind: "diary"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d", w.Code)
	}

	w = do(t, router, http.MethodGet, "/entries/202403.md", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d, body = %s", w.Code, w.Body.String())
	}
	var detail EntryDetail
	_ = json.Unmarshal(w.Body.Bytes(), &detail)
	if _, ok := detail.Frontmatter["created_at"]; !ok {
		t.Errorf("frontmatter = %v", detail.Frontmatter)
	}
	if !strings.Contains(detail.Body, "###### 2024-03-01-friday") {
		t.Errorf("body missing first day")
	}
}

func TestGetEntry_NotFound(t *testing.T) {
	router, _, _ := testEnv(t, "")
	for _, p := range []string{"/entries/missing.md", "/entries/..%2Fsecret.md"} {
		w := do(t, router, http.MethodGet, p, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d", p, w.Code)
		}
	}
}

func TestAuth(t *testing.T) {
	router, _, _ := testEnv(t, "s3cret")

	w := do(t, router, http.MethodGet, "/entries/next-diary", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d", w.Code)
	}
	w = do(t, router, http.MethodGet, "/entries/next-diary", nil, "Authorization", "Bearer wrong")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token: status = %d", w.Code)
	}
	w = do(t, router, http.MethodGet, "/entries/next-diary", nil, "Authorization", "Bearer s3cret")
	if w.Code != http.StatusOK {
		t.Errorf("valid token: status = %d", w.Code)
	}
}

func TestGetEntry_KeepsTimestampText(t *testing.T) {
	router, dir, _ := testEnv(t, "")
	content := "---\ncreated_at: 2024-01-05T09:30:00+00:00\nupdated_at: 2024-01-05T09:30:00+00:00\n---\n"
	if err := os.WriteFile(filepath.Join(dir, "202401.md"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	w := do(t, router, http.MethodGet, "/entries/202401.md", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d, body = %s", w.Code, w.Body.String())
	}
	var detail EntryDetail
	if err := json.Unmarshal(w.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := detail.Frontmatter["created_at"]; got != "2024-01-05T09:30:00+00:00" {
		t.Errorf("created_at = %#v", got)
	}
}
