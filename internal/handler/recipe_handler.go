package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/cookassist/internal/middleware"
	"github.com/hitoshi/cookassist/internal/model"
	"github.com/hitoshi/cookassist/internal/recipe"
	"github.com/hitoshi/cookassist/internal/repository"
)

// RecipeServiceInterface はレシピハンドラーが必要とするサービスインターフェース。
type RecipeServiceInterface interface {
	// List は全レシピを新しい順に返す。
	List(ctx context.Context) ([]repository.RecipeWithCreator, error)
	// Get は指定IDのレシピを返す。
	Get(ctx context.Context, id string) (*repository.RecipeWithCreator, error)
	// Create はレシピを作成する。所有者はactorIDから設定される。
	Create(ctx context.Context, actorID string, input recipe.Input) (*repository.RecipeWithCreator, error)
	// Update は所有者本人のレシピを更新する。
	Update(ctx context.Context, actorID, id string, input recipe.Input) (*repository.RecipeWithCreator, error)
	// Delete は所有者本人のレシピを削除する。
	Delete(ctx context.Context, actorID, id string) error
}

// RecipeHandler はレシピCRUDのHTTPハンドラー。
type RecipeHandler struct {
	service RecipeServiceInterface
}

// NewRecipeHandler はRecipeHandlerを生成する。
func NewRecipeHandler(service RecipeServiceInterface) *RecipeHandler {
	return &RecipeHandler{service: service}
}

// recipeRequest はレシピ作成・更新リクエストのボディ。
type recipeRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Ingredients string `json:"ingredients"`
	Steps       string `json:"steps"`
}

// recipeResponse はレシピのAPIレスポンス。created_byはユーザー名で返す。
type recipeResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Ingredients string    `json:"ingredients"`
	Steps       string    `json:"steps"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func toRecipeResponse(r *repository.RecipeWithCreator) recipeResponse {
	return recipeResponse{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Ingredients: r.Ingredients,
		Steps:       r.Steps,
		CreatedBy:   r.CreatorUsername,
		CreatedAt:   r.CreatedAt,
	}
}

// List は全レシピを取得する。認証不要。
// GET /recipes/
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]recipeResponse, 0, len(recipes))
	for i := range recipes {
		resp = append(resp, toRecipeResponse(&recipes[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get は指定IDのレシピを取得する。認証不要。
// GET /recipes/{id}/
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	got, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecipeResponse(got))
}

// Create はレシピを作成する。
// POST /recipes/
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req recipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("malformed JSON body"))
		return
	}

	created, err := h.service.Create(r.Context(), userID, recipe.Input{
		Title:       req.Title,
		Description: req.Description,
		Ingredients: req.Ingredients,
		Steps:       req.Steps,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecipeResponse(created))
}

// Update は所有者本人のレシピを更新する。
// PUT /recipes/{id}/
func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req recipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("malformed JSON body"))
		return
	}

	updated, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), recipe.Input{
		Title:       req.Title,
		Description: req.Description,
		Ingredients: req.Ingredients,
		Steps:       req.Steps,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecipeResponse(updated))
}

// Delete は所有者本人のレシピを削除する。
// DELETE /recipes/{id}/
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
