// Package recipe はユーザー投稿レシピのドメインロジックを提供する。
package recipe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/cookassist/internal/model"
	"github.com/hitoshi/cookassist/internal/repository"
)

// Input はレシピの作成・更新で受け付けるフィールド。
type Input struct {
	Title       string
	Description string
	Ingredients string
	Steps       string
}

// Service はレシピCRUDのサービス層。
// 所有者の強制設定と所有者スコープの書き込み制御を行う。
type Service struct {
	recipeRepo repository.RecipeRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(recipeRepo repository.RecipeRepository) *Service {
	return &Service{recipeRepo: recipeRepo}
}

// List は全レシピを作成日時の降順で返す。認証は不要。
func (s *Service) List(ctx context.Context) ([]repository.RecipeWithCreator, error) {
	recipes, err := s.recipeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// Get は指定IDのレシピを返す。認証は不要。
func (s *Service) Get(ctx context.Context, id string) (*repository.RecipeWithCreator, error) {
	recipe, err := s.recipeRepo.FindByIDWithCreator(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	if recipe == nil {
		return nil, model.NewRecipeNotFoundError()
	}
	return recipe, nil
}

// Create はレシピを作成する。
// 所有者はリクエストユーザーから設定し、クライアントの指定は受け付けない。
func (s *Service) Create(ctx context.Context, actorID string, input Input) (*repository.RecipeWithCreator, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, model.NewInvalidRequestError("title is required")
	}

	recipe := &model.Recipe{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Description: input.Description,
		Ingredients: input.Ingredients,
		Steps:       input.Steps,
		CreatedBy:   actorID,
		CreatedAt:   time.Now(),
	}
	if err := s.recipeRepo.Create(ctx, recipe); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	created, err := s.recipeRepo.FindByIDWithCreator(ctx, recipe.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load created recipe: %w", err)
	}
	if created == nil {
		return nil, fmt.Errorf("created recipe not found: %s", recipe.ID)
	}
	return created, nil
}

// Update は所有者本人のレシピを更新する。
// 他ユーザー所有のレシピには未検出エラーを返し、存在有無を漏らさない。
func (s *Service) Update(ctx context.Context, actorID, id string, input Input) (*repository.RecipeWithCreator, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, model.NewInvalidRequestError("title is required")
	}

	existing, err := s.recipeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find recipe: %w", err)
	}
	if existing == nil || existing.CreatedBy != actorID {
		return nil, model.NewRecipeNotFoundError()
	}

	existing.Title = input.Title
	existing.Description = input.Description
	existing.Ingredients = input.Ingredients
	existing.Steps = input.Steps
	if err := s.recipeRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}

	updated, err := s.recipeRepo.FindByIDWithCreator(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load updated recipe: %w", err)
	}
	if updated == nil {
		return nil, model.NewRecipeNotFoundError()
	}
	return updated, nil
}

// Delete は所有者本人のレシピを削除する。
// 関連するブックマークはCASCADE削除される。
func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	existing, err := s.recipeRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find recipe: %w", err)
	}
	if existing == nil || existing.CreatedBy != actorID {
		return model.NewRecipeNotFoundError()
	}

	if err := s.recipeRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return nil
}
