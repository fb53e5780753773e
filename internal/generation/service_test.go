package generation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/cookassist/internal/model"
)

// --- モック定義 ---

type mockCompleter struct {
	completeFn func(ctx context.Context, prompt string) (string, error)
}

func (m *mockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if m.completeFn != nil {
		return m.completeFn(ctx, prompt)
	}
	return "", nil
}

type mockHistoryRepo struct {
	createFn          func(ctx context.Context, history *model.RecipeHistory) error
	listByUserIDFn    func(ctx context.Context, userID string, limit int) ([]*model.RecipeHistory, error)
	deleteByUserAndID func(ctx context.Context, userID, id string) (bool, error)
}

func (m *mockHistoryRepo) Create(ctx context.Context, history *model.RecipeHistory) error {
	if m.createFn != nil {
		return m.createFn(ctx, history)
	}
	return nil
}

func (m *mockHistoryRepo) ListByUserID(ctx context.Context, userID string, limit int) ([]*model.RecipeHistory, error) {
	if m.listByUserIDFn != nil {
		return m.listByUserIDFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockHistoryRepo) DeleteByUserAndID(ctx context.Context, userID, id string) (bool, error) {
	if m.deleteByUserAndID != nil {
		return m.deleteByUserAndID(ctx, userID, id)
	}
	return false, nil
}

type mockMetrics struct {
	successCount int
	failureCount int
	latencies    []time.Duration
}

func (m *mockMetrics) RecordGenerationSuccess()                 { m.successCount++ }
func (m *mockMetrics) RecordGenerationFailure()                 { m.failureCount++ }
func (m *mockMetrics) RecordCompletionLatency(d time.Duration)  { m.latencies = append(m.latencies, d) }

// --- テスト ---

func TestGenerate_BuildsPromptWithIngredients(t *testing.T) {
	var capturedPrompt string
	completer := &mockCompleter{
		completeFn: func(ctx context.Context, prompt string) (string, error) {
			capturedPrompt = prompt
			return "generated recipe", nil
		},
	}
	svc := NewService(completer, &mockHistoryRepo{}, nil)

	recipe, err := svc.Generate(context.Background(), "chicken, rice, garlic", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if recipe != "generated recipe" {
		t.Errorf("recipe = %q, want %q", recipe, "generated recipe")
	}
	if !strings.Contains(capturedPrompt, "chicken, rice, garlic") {
		t.Errorf("prompt = %q, should contain the raw ingredients", capturedPrompt)
	}
	if !strings.Contains(capturedPrompt, "step-by-step instructions") {
		t.Errorf("prompt = %q, should contain the template text", capturedPrompt)
	}
}

func TestGenerate_EmptyIngredients_ReturnsValidationError(t *testing.T) {
	called := false
	completer := &mockCompleter{
		completeFn: func(ctx context.Context, prompt string) (string, error) {
			called = true
			return "x", nil
		},
	}
	svc := NewService(completer, &mockHistoryRepo{}, nil)

	tests := []struct {
		name        string
		ingredients string
		actorID     string
	}{
		{"空文字・匿名", "", ""},
		{"空白のみ・匿名", "   \t\n", ""},
		{"空文字・認証済み", "", "user-1"},
		{"空白のみ・認証済み", "  ", "user-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Generate(context.Background(), tt.ingredients, tt.actorID)
			var apiErr *model.APIError
			if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeIngredientsRequired {
				t.Errorf("error = %v, want code %s", err, model.ErrCodeIngredientsRequired)
			}
		})
	}

	// 検証失敗時はAI呼び出しが行われないこと
	if called {
		t.Error("completer was called despite empty ingredients")
	}
}

func TestGenerate_AuthenticatedActor_AppendsHistory(t *testing.T) {
	var savedEntries []*model.RecipeHistory
	historyRepo := &mockHistoryRepo{
		createFn: func(ctx context.Context, history *model.RecipeHistory) error {
			savedEntries = append(savedEntries, history)
			return nil
		},
	}
	completer := &mockCompleter{
		completeFn: func(ctx context.Context, prompt string) (string, error) {
			return "a tasty recipe", nil
		},
	}
	svc := NewService(completer, historyRepo, nil)

	if _, err := svc.Generate(context.Background(), "chicken, rice, garlic", "user-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(savedEntries) != 1 {
		t.Fatalf("len(savedEntries) = %d, want 1", len(savedEntries))
	}
	entry := savedEntries[0]
	if entry.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", entry.UserID, "user-1")
	}
	if entry.Ingredients != "chicken, rice, garlic" {
		t.Errorf("Ingredients = %q, want raw input", entry.Ingredients)
	}
	if entry.RecipeText != "a tasty recipe" {
		t.Errorf("RecipeText = %q, want raw output", entry.RecipeText)
	}
	if entry.ID == "" {
		t.Error("entry.ID should be set")
	}
}

func TestGenerate_HistoryKeepsRawInput_PromptUsesTrimmed(t *testing.T) {
	var savedEntries []*model.RecipeHistory
	historyRepo := &mockHistoryRepo{
		createFn: func(ctx context.Context, history *model.RecipeHistory) error {
			savedEntries = append(savedEntries, history)
			return nil
		},
	}
	var capturedPrompt string
	completer := &mockCompleter{
		completeFn: func(ctx context.Context, prompt string) (string, error) {
			capturedPrompt = prompt
			return "a recipe", nil
		},
	}
	svc := NewService(completer, historyRepo, nil)

	rawInput := "  chicken, rice \n"
	if _, err := svc.Generate(context.Background(), rawInput, "user-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// プロンプトには前後の空白を除去した材料が埋め込まれること
	if !strings.Contains(capturedPrompt, "ingredients: chicken, rice.") {
		t.Errorf("prompt = %q, should embed trimmed ingredients", capturedPrompt)
	}
	// 履歴には入力された生のテキストがそのまま残ること
	if len(savedEntries) != 1 {
		t.Fatalf("len(savedEntries) = %d, want 1", len(savedEntries))
	}
	if savedEntries[0].Ingredients != rawInput {
		t.Errorf("Ingredients = %q, want %q", savedEntries[0].Ingredients, rawInput)
	}
}

func TestGenerate_AnonymousActor_SkipsHistory(t *testing.T) {
	created := false
	historyRepo := &mockHistoryRepo{
		createFn: func(ctx context.Context, history *model.RecipeHistory) error {
			created = true
			return nil
		},
	}
	completer := &mockCompleter{
		completeFn: func(ctx context.Context, prompt string) (string, error) {
			return "a recipe", nil
		},
	}
	svc := NewService(completer, historyRepo, nil)

	if _, err := svc.Generate(context.Background(), "tofu", ""); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created {
		t.Error("history was written for anonymous actor")
	}
}

func TestGenerate_UpstreamFailure_ReturnsErrorAndSkipsHistory(t *testing.T) {
	created := false
	historyRepo := &mockHistoryRepo{
		createFn: func(ctx context.Context, history *model.RecipeHistory) error {
			created = true
			return nil
		},
	}
	completer := &mockCompleter{
		completeFn: func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("quota exceeded")
		},
	}
	svc := NewService(completer, historyRepo, nil)

	_, err := svc.Generate(context.Background(), "beef", "user-1")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUpstreamFailure {
		t.Fatalf("error = %v, want code %s", err, model.ErrCodeUpstreamFailure)
	}
	// 失敗理由がメッセージに含まれること
	if !strings.Contains(apiErr.Message, "quota exceeded") {
		t.Errorf("Message = %q, should contain upstream reason", apiErr.Message)
	}
	// 失敗時は履歴を追記しないこと
	if created {
		t.Error("history was written despite upstream failure")
	}
}

func TestGenerate_EachCallAppendsNewEntry(t *testing.T) {
	count := 0
	historyRepo := &mockHistoryRepo{
		createFn: func(ctx context.Context, history *model.RecipeHistory) error {
			count++
			return nil
		},
	}
	completer := &mockCompleter{
		completeFn: func(ctx context.Context, prompt string) (string, error) {
			return "same recipe", nil
		},
	}
	svc := NewService(completer, historyRepo, nil)

	// 同一入力の繰り返しでも毎回追記されること
	for i := 0; i < 3; i++ {
		if _, err := svc.Generate(context.Background(), "rice", "user-1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}
	if count != 3 {
		t.Errorf("history count = %d, want 3", count)
	}
}

func TestGenerate_HistoryWriteFailure_ReturnsError(t *testing.T) {
	historyRepo := &mockHistoryRepo{
		createFn: func(ctx context.Context, history *model.RecipeHistory) error {
			return errors.New("db down")
		},
	}
	completer := &mockCompleter{
		completeFn: func(ctx context.Context, prompt string) (string, error) {
			return "a recipe", nil
		},
	}
	svc := NewService(completer, historyRepo, nil)

	if _, err := svc.Generate(context.Background(), "rice", "user-1"); err == nil {
		t.Error("expected error when history write fails")
	}
}

func TestGenerate_RecordsMetrics(t *testing.T) {
	metrics := &mockMetrics{}
	completer := &mockCompleter{
		completeFn: func(ctx context.Context, prompt string) (string, error) {
			return "a recipe", nil
		},
	}
	svc := NewService(completer, &mockHistoryRepo{}, metrics)

	if _, err := svc.Generate(context.Background(), "rice", ""); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if metrics.successCount != 1 {
		t.Errorf("successCount = %d, want 1", metrics.successCount)
	}
	if len(metrics.latencies) != 1 {
		t.Errorf("len(latencies) = %d, want 1", len(metrics.latencies))
	}

	failing := NewService(&mockCompleter{
		completeFn: func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("boom")
		},
	}, &mockHistoryRepo{}, metrics)

	if _, err := failing.Generate(context.Background(), "rice", ""); err == nil {
		t.Fatal("expected error")
	}
	if metrics.failureCount != 1 {
		t.Errorf("failureCount = %d, want 1", metrics.failureCount)
	}
}
