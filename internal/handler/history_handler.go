package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/cookassist/internal/middleware"
	"github.com/hitoshi/cookassist/internal/model"
)

// HistoryServiceInterface は履歴ハンドラーが必要とするサービスインターフェース。
type HistoryServiceInterface interface {
	// List はユーザーの生成履歴を新しい順に返す。
	List(ctx context.Context, userID string) ([]*model.RecipeHistory, error)
	// Delete は所有者本人の履歴エントリを削除する。
	Delete(ctx context.Context, userID, id string) error
}

// HistoryHandler はレシピ生成履歴のHTTPハンドラー。
type HistoryHandler struct {
	service HistoryServiceInterface
}

// NewHistoryHandler はHistoryHandlerを生成する。
func NewHistoryHandler(service HistoryServiceInterface) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// historyResponse は履歴エントリのAPIレスポンス。
type historyResponse struct {
	ID          string    `json:"id"`
	Ingredients string    `json:"ingredients"`
	Recipe      string    `json:"recipe"`
	CreatedAt   time.Time `json:"created_at"`
}

// historyListResponse は履歴一覧のAPIレスポンス。
type historyListResponse struct {
	History []historyResponse `json:"history"`
	Count   int               `json:"count"`
}

// List はユーザーの生成履歴を返す。
// GET /history/
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	entries, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	history := make([]historyResponse, 0, len(entries))
	for _, entry := range entries {
		history = append(history, historyResponse{
			ID:          entry.ID,
			Ingredients: entry.Ingredients,
			Recipe:      entry.RecipeText,
			CreatedAt:   entry.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, historyListResponse{
		History: history,
		Count:   len(history),
	})
}

// Delete は所有者本人の履歴エントリを削除する。
// DELETE /history/{id}/
func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "History item deleted"})
}
