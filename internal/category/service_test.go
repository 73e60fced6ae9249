package category

import (
	"context"
	"net/http"
	"testing"
)

func TestCreateAndDuplicateName(t *testing.T) {
	svc := NewService(NewMemory())
	ctx := context.Background()

	res := svc.Create(ctx, "Livros", "Obras impressas e digitais")
	if res.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", res.Code, res.Message)
	}
	if res.Data.ID == 0 || !res.Data.Active {
		t.Fatalf("unexpected view: %+v", res.Data)
	}

	dup := svc.Create(ctx, "Livros", "")
	if dup.Code != http.StatusBadRequest || dup.Message != "category name already in use" {
		t.Fatalf("expected name conflict, got %d %q", dup.Code, dup.Message)
	}
}

func TestNameReusableAfterDelete(t *testing.T) {
	svc := NewService(NewMemory())
	ctx := context.Background()

	first := svc.Create(ctx, "Livros", "")
	if res := svc.Delete(ctx, first.Data.ID); res.Code != http.StatusOK || !res.Data {
		t.Fatalf("delete: expected Ok(true), got %d %v", res.Code, res.Data)
	}
	if res := svc.Create(ctx, "Livros", ""); res.Code != http.StatusCreated {
		t.Fatalf("re-create after delete: expected 201, got %d", res.Code)
	}
}

func TestGetByIDLifecycle(t *testing.T) {
	svc := NewService(NewMemory())
	ctx := context.Background()

	created := svc.Create(ctx, "Revistas", "")
	id := created.Data.ID

	if res := svc.GetByID(ctx, id); res.Code != http.StatusOK || res.Data.Name != "Revistas" {
		t.Fatalf("get: expected 200 Revistas, got %d %+v", res.Code, res.Data)
	}
	if res := svc.Delete(ctx, id); res.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", res.Code)
	}
	if res := svc.GetByID(ctx, id); res.Code != http.StatusNotFound || res.Message != "category not found" {
		t.Fatalf("get after delete: expected 404, got %d %q", res.Code, res.Message)
	}
	if res := svc.Delete(ctx, id); res.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", res.Code)
	}
}

func TestUpdateNameConflictAndSelf(t *testing.T) {
	svc := NewService(NewMemory())
	ctx := context.Background()

	livros := svc.Create(ctx, "Livros", "")
	revistas := svc.Create(ctx, "Revistas", "")

	if res := svc.Update(ctx, revistas.Data.ID, "Livros", "", true); res.Code != http.StatusBadRequest {
		t.Fatalf("expected conflict, got %d", res.Code)
	}
	res := svc.Update(ctx, livros.Data.ID, "Livros", "Atualizada", true)
	if res.Code != http.StatusOK || res.Data.Description != "Atualizada" {
		t.Fatalf("self update: expected 200, got %d %+v", res.Code, res.Data)
	}
	if res := svc.Update(ctx, 999, "Jornais", "", true); res.Code != http.StatusNotFound {
		t.Fatalf("missing id: expected 404, got %d", res.Code)
	}
}

func TestGetAllActiveOrdered(t *testing.T) {
	svc := NewService(NewMemory())
	ctx := context.Background()

	svc.Create(ctx, "revistas", "")
	svc.Create(ctx, "Livros", "")
	deleted := svc.Create(ctx, "Jornais", "")
	svc.Delete(ctx, deleted.Data.ID)

	res := svc.GetAll(ctx)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if len(res.Data) != 2 || res.Data[0].Name != "Livros" || res.Data[1].Name != "revistas" {
		t.Fatalf("unexpected listing: %+v", res.Data)
	}
}
