package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/cookassist/internal/middleware"
	"github.com/hitoshi/cookassist/internal/model"
	"github.com/hitoshi/cookassist/internal/recipe"
	"github.com/hitoshi/cookassist/internal/repository"
)

type mockRecipeService struct {
	listFunc   func(ctx context.Context) ([]repository.RecipeWithCreator, error)
	getFunc    func(ctx context.Context, id string) (*repository.RecipeWithCreator, error)
	createFunc func(ctx context.Context, actorID string, input recipe.Input) (*repository.RecipeWithCreator, error)
	updateFunc func(ctx context.Context, actorID, id string, input recipe.Input) (*repository.RecipeWithCreator, error)
	deleteFunc func(ctx context.Context, actorID, id string) error
}

func (m *mockRecipeService) List(ctx context.Context) ([]repository.RecipeWithCreator, error) {
	return m.listFunc(ctx)
}

func (m *mockRecipeService) Get(ctx context.Context, id string) (*repository.RecipeWithCreator, error) {
	return m.getFunc(ctx, id)
}

func (m *mockRecipeService) Create(ctx context.Context, actorID string, input recipe.Input) (*repository.RecipeWithCreator, error) {
	return m.createFunc(ctx, actorID, input)
}

func (m *mockRecipeService) Update(ctx context.Context, actorID, id string, input recipe.Input) (*repository.RecipeWithCreator, error) {
	return m.updateFunc(ctx, actorID, id, input)
}

func (m *mockRecipeService) Delete(ctx context.Context, actorID, id string) error {
	return m.deleteFunc(ctx, actorID, id)
}

func sampleRecipe(id string) *repository.RecipeWithCreator {
	return &repository.RecipeWithCreator{
		Recipe: model.Recipe{
			ID:          id,
			Title:       "Omelette",
			Description: "Simple",
			Ingredients: "eggs, butter",
			Steps:       "Beat. Fry.",
			CreatedBy:   "user-1",
			CreatedAt:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		CreatorUsername: "alice",
	}
}

func TestRecipeList_AnonymousAllowed(t *testing.T) {
	service := &mockRecipeService{
		listFunc: func(ctx context.Context) ([]repository.RecipeWithCreator, error) {
			return []repository.RecipeWithCreator{*sampleRecipe("r-1")}, nil
		},
	}
	h := NewRecipeHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/recipes/", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp []recipeResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp) != 1 || resp[0].CreatedBy != "alice" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestRecipeGet_NotFound(t *testing.T) {
	service := &mockRecipeService{
		getFunc: func(ctx context.Context, id string) (*repository.RecipeWithCreator, error) {
			return nil, model.NewRecipeNotFoundError()
		},
	}
	h := NewRecipeHandler(service)

	r := chi.NewRouter()
	r.Get("/recipes/{id}/", h.Get)

	req := httptest.NewRequest(http.MethodGet, "/recipes/missing/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestRecipeCreate_PassesActorID(t *testing.T) {
	var gotActorID string
	var gotInput recipe.Input
	service := &mockRecipeService{
		createFunc: func(ctx context.Context, actorID string, input recipe.Input) (*repository.RecipeWithCreator, error) {
			gotActorID, gotInput = actorID, input
			return sampleRecipe("r-1"), nil
		},
	}
	h := NewRecipeHandler(service)

	body := `{"title":"Omelette","description":"Simple","ingredients":"eggs, butter","steps":"Beat. Fry."}`
	req := httptest.NewRequest(http.MethodPost, "/recipes/", strings.NewReader(body))
	req = req.WithContext(middleware.ContextWithUserID(req.Context(), "user-1"))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if gotActorID != "user-1" {
		t.Errorf("actorID = %q", gotActorID)
	}
	if gotInput.Title != "Omelette" || gotInput.Steps != "Beat. Fry." {
		t.Errorf("input = %+v", gotInput)
	}
}

func TestRecipeCreate_Unauthenticated(t *testing.T) {
	h := NewRecipeHandler(&mockRecipeService{})

	req := httptest.NewRequest(http.MethodPost, "/recipes/", strings.NewReader(`{"title":"X"}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRecipeUpdate_NonOwnerReturns404(t *testing.T) {
	service := &mockRecipeService{
		updateFunc: func(ctx context.Context, actorID, id string, input recipe.Input) (*repository.RecipeWithCreator, error) {
			return nil, model.NewRecipeNotFoundError()
		},
	}
	h := NewRecipeHandler(service)

	r := chi.NewRouter()
	r.Put("/recipes/{id}/", h.Update)

	req := httptest.NewRequest(http.MethodPut, "/recipes/r-1/", strings.NewReader(`{"title":"Mine now"}`))
	req = req.WithContext(middleware.ContextWithUserID(req.Context(), "user-2"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestRecipeDelete_Returns204(t *testing.T) {
	service := &mockRecipeService{
		deleteFunc: func(ctx context.Context, actorID, id string) error {
			return nil
		},
	}
	h := NewRecipeHandler(service)

	r := chi.NewRouter()
	r.Delete("/recipes/{id}/", h.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/recipes/r-1/", nil)
	req = req.WithContext(middleware.ContextWithUserID(req.Context(), "user-1"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}
