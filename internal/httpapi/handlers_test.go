package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"acervo.dev/internal/category"
	"acervo.dev/internal/identity"
	"acervo.dev/internal/token"
)

type apiClient struct {
	baseURL string
	client  *http.Client
	t       *testing.T
}

func newTestAPI(t *testing.T) *apiClient {
	t.Helper()

	issuer, err := token.NewIssuer("httpapi-test-secret", "acervo-api", "acervo-clients")
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	users := identity.NewService(identity.NewMemory(), issuer)
	categories := category.NewService(category.NewMemory())

	api := New(ReadyProbe{}, "test", users, categories, issuer)
	api.rateBurst = 100
	api.ratePerSec = 100

	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)

	return &apiClient{
		baseURL: srv.URL,
		client:  srv.Client(),
		t:       t,
	}
}

func (c *apiClient) do(method, path string, body any, headers map[string]string) *http.Response {
	c.t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
	}
	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.t.Fatalf("do request: %v", err)
	}
	return resp
}

func (c *apiClient) post(path string, body any, headers map[string]string) *http.Response {
	return c.do(http.MethodPost, path, body, headers)
}

func (c *apiClient) get(path string, headers map[string]string) *http.Response {
	return c.do(http.MethodGet, path, nil, headers)
}

func (c *apiClient) put(path string, body any, headers map[string]string) *http.Response {
	return c.do(http.MethodPut, path, body, headers)
}

func (c *apiClient) delete(path string, headers map[string]string) *http.Response {
	return c.do(http.MethodDelete, path, nil, headers)
}

// obtainToken registers a throwaway user and logs it in.
func (c *apiClient) obtainToken() string {
	c.t.Helper()
	resp := c.post("/v1/users/register", map[string]any{
		"name":     "Test Operator",
		"email":    "operator@acervo.dev",
		"password": "operator-pass",
	}, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		c.t.Fatalf("register operator: status %d", resp.StatusCode)
	}
	resp = c.post("/v1/users/login", map[string]any{
		"email":    "operator@acervo.dev",
		"password": "operator-pass",
	}, nil)
	env := decode[envelope](c.t, resp)
	if env.StatusCode != http.StatusOK {
		c.t.Fatalf("login operator: status %d (%s)", env.StatusCode, env.Message)
	}
	session := env.Data.(map[string]any)
	tok, _ := session["token"].(string)
	if tok == "" {
		c.t.Fatalf("empty token issued")
	}
	return tok
}

func decode[T any](t *testing.T, r *http.Response) T {
	t.Helper()
	defer r.Body.Close()
	var v T
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func bearer(tok string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + tok}
}

func TestRegisterLoginAndDeleteFlow(t *testing.T) {
	api := newTestAPI(t)

	resp := api.post("/v1/users/register", map[string]any{
		"name":     "Ana Souza",
		"email":    "ana@example.com",
		"password": "segredo123",
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc == "" {
		t.Fatalf("register: missing Location header")
	}
	env := decode[envelope](t, resp)
	if env.StatusCode != http.StatusCreated {
		t.Fatalf("register envelope: %d (%s)", env.StatusCode, env.Message)
	}
	profile := env.Data.(map[string]any)
	if profile["email"] != "ana@example.com" {
		t.Fatalf("unexpected profile email: %v", profile["email"])
	}
	if _, leaked := profile["password_hash"]; leaked {
		t.Fatalf("password hash leaked in response")
	}
	if _, leaked := profile["created_at"]; leaked {
		t.Fatalf("created_at leaked in response")
	}
	anaID := int64(profile["id"].(float64))

	// Correct credentials yield a session token.
	resp = api.post("/v1/users/login", map[string]any{
		"email":    "ana@example.com",
		"password": "segredo123",
	}, nil)
	env = decode[envelope](t, resp)
	if env.StatusCode != http.StatusOK {
		t.Fatalf("login: %d (%s)", env.StatusCode, env.Message)
	}
	session := env.Data.(map[string]any)
	tok := session["token"].(string)
	if tok == "" {
		t.Fatalf("login returned empty token")
	}

	// Wrong password and unknown email produce the same message.
	resp = api.post("/v1/users/login", map[string]any{
		"email":    "ana@example.com",
		"password": "errada",
	}, nil)
	wrongPw := decode[envelope](t, resp)
	resp = api.post("/v1/users/login", map[string]any{
		"email":    "ninguem@example.com",
		"password": "segredo123",
	}, nil)
	noUser := decode[envelope](t, resp)
	if wrongPw.StatusCode != http.StatusBadRequest || noUser.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad logins: %d / %d", wrongPw.StatusCode, noUser.StatusCode)
	}
	if wrongPw.Message != noUser.Message {
		t.Fatalf("login failures distinguishable: %q vs %q", wrongPw.Message, noUser.Message)
	}

	// Delete, then the profile is gone and login refuses.
	resp = api.delete("/v1/users/"+itoa(anaID), bearer(tok))
	env = decode[envelope](t, resp)
	if env.StatusCode != http.StatusOK {
		t.Fatalf("delete: %d (%s)", env.StatusCode, env.Message)
	}

	resp = api.get("/v1/users/"+itoa(anaID), bearer(tok))
	env = decode[envelope](t, resp)
	if env.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete: %d", env.StatusCode)
	}

	resp = api.post("/v1/users/login", map[string]any{
		"email":    "ana@example.com",
		"password": "segredo123",
	}, nil)
	env = decode[envelope](t, resp)
	if env.StatusCode != http.StatusBadRequest {
		t.Fatalf("login after delete: %d", env.StatusCode)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	api := newTestAPI(t)

	body := map[string]any{
		"name":     "Ana Souza",
		"email":    "ana@example.com",
		"password": "segredo123",
	}
	resp := api.post("/v1/users/register", body, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first register: %d", resp.StatusCode)
	}

	resp = api.post("/v1/users/register", body, nil)
	env := decode[envelope](t, resp)
	if env.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate register: %d", env.StatusCode)
	}
	if env.Message != "email already in use" {
		t.Fatalf("unexpected message: %q", env.Message)
	}
}

func TestRegisterValidation(t *testing.T) {
	api := newTestAPI(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"email": "a@b.com", "password": "x"}},
		{"missing email", map[string]any{"name": "A", "password": "x"}},
		{"missing password", map[string]any{"name": "A", "email": "a@b.com"}},
		{"malformed email", map[string]any{"name": "A", "email": "not-an-email", "password": "x"}},
		{"empty body", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := api.post("/v1/users/register", tc.body, nil)
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestUpdateUser(t *testing.T) {
	api := newTestAPI(t)
	tok := api.obtainToken()

	resp := api.post("/v1/users/register", map[string]any{
		"name":     "Bruno Lima",
		"email":    "bruno@example.com",
		"password": "senha",
	}, nil)
	env := decode[envelope](t, resp)
	id := int64(env.Data.(map[string]any)["id"].(float64))

	resp = api.put("/v1/users/"+itoa(id), map[string]any{
		"name":   "Bruno A. Lima",
		"email":  "bruno.lima@example.com",
		"active": true,
	}, bearer(tok))
	env = decode[envelope](t, resp)
	if env.StatusCode != http.StatusOK {
		t.Fatalf("update: %d (%s)", env.StatusCode, env.Message)
	}
	updated := env.Data.(map[string]any)
	if updated["email"] != "bruno.lima@example.com" {
		t.Fatalf("email not updated: %v", updated["email"])
	}

	// Taking the operator's email must fail.
	resp = api.put("/v1/users/"+itoa(id), map[string]any{
		"name":   "Bruno A. Lima",
		"email":  "operator@acervo.dev",
		"active": true,
	}, bearer(tok))
	env = decode[envelope](t, resp)
	if env.StatusCode != http.StatusBadRequest {
		t.Fatalf("conflicting update: %d", env.StatusCode)
	}

	// Unknown id is a 404.
	resp = api.put("/v1/users/9999", map[string]any{
		"name":   "Ghost",
		"email":  "ghost@example.com",
		"active": true,
	}, bearer(tok))
	env = decode[envelope](t, resp)
	if env.StatusCode != http.StatusNotFound {
		t.Fatalf("update missing: %d", env.StatusCode)
	}
}

func TestCategoryCRUDFlow(t *testing.T) {
	api := newTestAPI(t)
	tok := api.obtainToken()

	resp := api.post("/v1/categories", map[string]any{
		"name":        "Livros",
		"description": "Obras impressas",
	}, bearer(tok))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", resp.StatusCode)
	}
	env := decode[envelope](t, resp)
	created := env.Data.(map[string]any)
	id := int64(created["id"].(float64))
	if created["name"] != "Livros" {
		t.Fatalf("unexpected name: %v", created["name"])
	}

	// Duplicate active name is refused.
	resp = api.post("/v1/categories", map[string]any{"name": "Livros"}, bearer(tok))
	env = decode[envelope](t, resp)
	if env.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate create: %d", env.StatusCode)
	}
	if env.Message != "category name already in use" {
		t.Fatalf("unexpected message: %q", env.Message)
	}

	resp = api.put("/v1/categories/"+itoa(id), map[string]any{
		"name":        "Livros Raros",
		"description": "Edições raras",
		"active":      true,
	}, bearer(tok))
	env = decode[envelope](t, resp)
	if env.StatusCode != http.StatusOK {
		t.Fatalf("update: %d (%s)", env.StatusCode, env.Message)
	}

	resp = api.get("/v1/categories", bearer(tok))
	env = decode[envelope](t, resp)
	if env.StatusCode != http.StatusOK {
		t.Fatalf("list: %d", env.StatusCode)
	}
	list := env.Data.([]any)
	if len(list) != 1 {
		t.Fatalf("expected 1 category, got %d", len(list))
	}

	resp = api.delete("/v1/categories/"+itoa(id), bearer(tok))
	env = decode[envelope](t, resp)
	if env.StatusCode != http.StatusOK {
		t.Fatalf("delete: %d", env.StatusCode)
	}

	resp = api.get("/v1/categories/"+itoa(id), bearer(tok))
	env = decode[envelope](t, resp)
	if env.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete: %d", env.StatusCode)
	}

	// The name is reusable once its holder is inactive.
	resp = api.post("/v1/categories", map[string]any{"name": "Livros Raros"}, bearer(tok))
	env = decode[envelope](t, resp)
	if env.StatusCode != http.StatusCreated {
		t.Fatalf("recreate: %d (%s)", env.StatusCode, env.Message)
	}
}

func TestAPIEnforcesAuth(t *testing.T) {
	api := newTestAPI(t)

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/v1/users"},
		{http.MethodGet, "/v1/users/1"},
		{http.MethodDelete, "/v1/users/1"},
		{http.MethodGet, "/v1/categories"},
		{http.MethodPost, "/v1/categories"},
	}
	for _, tc := range protected {
		resp := api.do(tc.method, tc.path, nil, nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", tc.method, tc.path, resp.StatusCode)
		}
		if resp.Header.Get("WWW-Authenticate") == "" {
			t.Fatalf("%s %s: missing WWW-Authenticate", tc.method, tc.path)
		}
	}

	// Garbage token is refused as well.
	resp := api.get("/v1/users", bearer("not.a.token"))
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("garbage token: expected 401, got %d", resp.StatusCode)
	}
}

func TestHealthAndInfoArePublic(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/healthz", "/readyz", "/v1/info", "/metrics"} {
		resp := api.get(path, nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}

func TestUnknownRouteAndBadID(t *testing.T) {
	api := newTestAPI(t)
	tok := api.obtainToken()

	resp := api.get("/v1/users/abc", bearer(tok))
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("non-numeric id: expected 404, got %d", resp.StatusCode)
	}

	resp = api.do(http.MethodPatch, "/v1/users/1", nil, bearer(tok))
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("patch: expected 405, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Allow") == "" {
		t.Fatalf("missing Allow header")
	}
	resp.Body.Close()
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
