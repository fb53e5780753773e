package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/cookassist/internal/middleware"
	"github.com/hitoshi/cookassist/internal/model"
)

// GenerationServiceInterface は生成ハンドラーが必要とするサービスインターフェース。
type GenerationServiceInterface interface {
	// Generate は材料リストからレシピを生成する。
	// actorIDが空でない場合は生成成功時に履歴を追記する。
	Generate(ctx context.Context, ingredients, actorID string) (string, error)
}

// GenerateHandler はレシピ生成のHTTPハンドラー。
type GenerateHandler struct {
	service GenerationServiceInterface
}

// NewGenerateHandler はGenerateHandlerを生成する。
func NewGenerateHandler(service GenerationServiceInterface) *GenerateHandler {
	return &GenerateHandler{service: service}
}

// generateRequest はレシピ生成リクエストのボディ。
type generateRequest struct {
	Ingredients string `json:"ingredients"`
}

// Generate は材料リストからレシピを生成する。
// 認証は任意。認証済みの場合のみ履歴に追記される。
// POST /generate_recipe/
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("malformed JSON body"))
		return
	}

	// 匿名リクエストではactorIDは空のまま
	actorID, _ := middleware.UserIDFromContext(r.Context())

	recipe, err := h.service.Generate(r.Context(), req.Ingredients, actorID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"recipe": recipe})
}
