package outcome

import (
	"net/http"
	"testing"
)

func TestSuccessBoundaries(t *testing.T) {
	if !OK(1, "ok").Success() {
		t.Fatal("OK should be a success")
	}
	if !Created("x", "created").Success() {
		t.Fatal("Created should be a success")
	}
	if BadRequest[int]("bad").Success() {
		t.Fatal("BadRequest should not be a success")
	}
	if NotFound[int]("missing").Success() {
		t.Fatal("NotFound should not be a success")
	}
	if Internal[int]("boom").Success() {
		t.Fatal("Internal should not be a success")
	}
}

func TestCodesAndMessages(t *testing.T) {
	cases := []struct {
		res  Result[string]
		code int
		msg  string
	}{
		{OK("a", "retrieved"), http.StatusOK, "retrieved"},
		{Created("b", "stored"), http.StatusCreated, "stored"},
		{BadRequest[string]("invalid"), http.StatusBadRequest, "invalid"},
		{NotFound[string]("gone"), http.StatusNotFound, "gone"},
		{Internal[string]("broken"), http.StatusInternalServerError, "broken"},
	}
	for _, c := range cases {
		if c.res.Code != c.code {
			t.Fatalf("expected code %d, got %d", c.code, c.res.Code)
		}
		if c.res.Message != c.msg {
			t.Fatalf("expected message %q, got %q", c.msg, c.res.Message)
		}
	}
	if d := BadRequest[string]("invalid").Data; d != "" {
		t.Fatalf("failure results must carry zero data, got %q", d)
	}
}
