package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                          "/",
		"/metrics":                  "/metrics",
		"/healthz":                  "/healthz",
		"/v1/users":                 "/v1/users",
		"/v1/users/42":              "/v1/users/:id",
		"/v1/users/42?verbose=true": "/v1/users/:id",
		"/v1/users/register":        "/v1/users/register",
		"/v1/users/login":           "/v1/users/login",
		"/v1/categories":            "/v1/categories",
		"/v1/categories/7":          "/v1/categories/:id",
		"/v1/categories/stationery": "/v1/categories/stationery",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
