// Package generation は材料からのレシピ生成ワークフローを提供する。
package generation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/cookassist/internal/model"
	"github.com/hitoshi/cookassist/internal/repository"
)

// promptTemplate はAI補完サービスに渡すプロンプトのテンプレート。
// 材料テキストはそのまま埋め込み、追加の加工は行わない。
const promptTemplate = "Create a detailed cooking recipe using these ingredients: %s. " +
	"Include a title, short description, ingredient list, and step-by-step instructions. " +
	"Format it nicely with clear sections."

// Completer はテキスト補完の実行インターフェース。
// gemini.Clientの部分集合として定義する。
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// MetricsRecorder は生成メトリクスの記録インターフェース。
type MetricsRecorder interface {
	RecordGenerationSuccess()
	RecordGenerationFailure()
	RecordCompletionLatency(d time.Duration)
}

// Service はレシピ生成ワークフローのサービス層。
// 入力検証、プロンプト構築、AI呼び出し、履歴の条件付き追記を行う。
type Service struct {
	completer   Completer
	historyRepo repository.HistoryRepository
	metrics     MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnilでもよい。
func NewService(completer Completer, historyRepo repository.HistoryRepository, metrics MetricsRecorder) *Service {
	return &Service{
		completer:   completer,
		historyRepo: historyRepo,
		metrics:     metrics,
	}
}

// Generate は材料テキストからレシピを生成する。
// actorIDが空でない（認証済み）場合、生成成功後に履歴を1件追記する。
// 生成失敗時には履歴は追記されない。
// 同じ入力でも呼び出しごとに新しい履歴エントリが作られる（冪等ではない）。
func (s *Service) Generate(ctx context.Context, ingredients, actorID string) (string, error) {
	trimmed := strings.TrimSpace(ingredients)
	if trimmed == "" {
		return "", model.NewIngredientsRequiredError()
	}

	prompt := fmt.Sprintf(promptTemplate, trimmed)

	start := time.Now()
	recipeText, err := s.completer.Complete(ctx, prompt)
	if s.metrics != nil {
		s.metrics.RecordCompletionLatency(time.Since(start))
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordGenerationFailure()
		}
		slog.Error("recipe generation failed",
			slog.String("error", err.Error()),
		)
		return "", model.NewUpstreamFailureError(err.Error())
	}

	if s.metrics != nil {
		s.metrics.RecordGenerationSuccess()
	}

	// 認証済みの場合のみ履歴を残す。材料は入力された生のテキストを記録する
	if actorID != "" {
		entry := &model.RecipeHistory{
			ID:          uuid.New().String(),
			UserID:      actorID,
			Ingredients: ingredients,
			RecipeText:  recipeText,
			CreatedAt:   time.Now(),
		}
		if err := s.historyRepo.Create(ctx, entry); err != nil {
			return "", fmt.Errorf("failed to record generation history: %w", err)
		}
	}

	return recipeText, nil
}
