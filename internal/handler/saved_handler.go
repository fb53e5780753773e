package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/cookassist/internal/middleware"
	"github.com/hitoshi/cookassist/internal/model"
	"github.com/hitoshi/cookassist/internal/repository"
)

// SavedServiceInterface はブックマークハンドラーが必要とするサービスインターフェース。
type SavedServiceInterface interface {
	// Save は指定レシピをブックマークに追加する。
	Save(ctx context.Context, userID, recipeID string) (*repository.SavedRecipeWithRecipe, error)
	// List はユーザーのブックマーク一覧を返す。
	List(ctx context.Context, userID string) ([]repository.SavedRecipeWithRecipe, error)
	// Remove は所有者本人のブックマークを削除する。
	Remove(ctx context.Context, userID, id string) error
}

// SavedHandler はブックマークのHTTPハンドラー。
type SavedHandler struct {
	service SavedServiceInterface
}

// NewSavedHandler はSavedHandlerを生成する。
func NewSavedHandler(service SavedServiceInterface) *SavedHandler {
	return &SavedHandler{service: service}
}

// saveRequest はブックマーク追加リクエストのボディ。
type saveRequest struct {
	RecipeID string `json:"recipe_id"`
}

// savedResponse はブックマークのAPIレスポンス。対象レシピ情報を含む。
type savedResponse struct {
	ID      string         `json:"id"`
	Recipe  recipeResponse `json:"recipe"`
	SavedAt time.Time      `json:"saved_at"`
}

func toSavedResponse(s *repository.SavedRecipeWithRecipe) savedResponse {
	return savedResponse{
		ID:      s.SavedRecipe.ID,
		Recipe:  toRecipeResponse(&s.Recipe),
		SavedAt: s.SavedAt,
	}
}

// List は呼び出しユーザーのブックマーク一覧を返す。
// 匿名リクエストには空の一覧を返す（他ユーザーのブックマークは漏らさない）。
// GET /saved/
func (h *SavedHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, []savedResponse{})
		return
	}

	bookmarks, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]savedResponse, 0, len(bookmarks))
	for i := range bookmarks {
		resp = append(resp, toSavedResponse(&bookmarks[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Save は指定レシピをブックマークに追加する。
// POST /saved/
func (h *SavedHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("malformed JSON body"))
		return
	}
	if req.RecipeID == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("recipe_id is required"))
		return
	}

	saved, err := h.service.Save(r.Context(), userID, req.RecipeID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSavedResponse(saved))
}

// Remove は所有者本人のブックマークを削除する。レシピ自体は削除しない。
// DELETE /saved/{id}/
func (h *SavedHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	if err := h.service.Remove(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
