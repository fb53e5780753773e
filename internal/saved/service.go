// Package saved はレシピのブックマーク管理を提供する。
package saved

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/cookassist/internal/model"
	"github.com/hitoshi/cookassist/internal/repository"
)

// Service はブックマークのサービス層。
// 重複保存の防止と所有者スコープの削除制御を行う。
type Service struct {
	savedRepo  repository.SavedRecipeRepository
	recipeRepo repository.RecipeRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(savedRepo repository.SavedRecipeRepository, recipeRepo repository.RecipeRepository) *Service {
	return &Service{savedRepo: savedRepo, recipeRepo: recipeRepo}
}

// Save は指定レシピをブックマークに追加する。
// レシピが存在しない場合は未検出エラー、保存済みの場合は重複エラーを返す。
func (s *Service) Save(ctx context.Context, userID, recipeID string) (*repository.SavedRecipeWithRecipe, error) {
	recipe, err := s.recipeRepo.FindByIDWithCreator(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find recipe: %w", err)
	}
	if recipe == nil {
		return nil, model.NewRecipeNotFoundError()
	}

	existing, err := s.savedRepo.FindByUserAndRecipe(ctx, userID, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing bookmark: %w", err)
	}
	if existing != nil {
		return nil, model.NewAlreadySavedError()
	}

	bookmark := &model.SavedRecipe{
		ID:       uuid.New().String(),
		UserID:   userID,
		RecipeID: recipeID,
		SavedAt:  time.Now(),
	}
	if err := s.savedRepo.Create(ctx, bookmark); err != nil {
		// 事前チェック後に同じブックマークが挿入された場合も重複として扱う
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, model.NewAlreadySavedError()
		}
		return nil, fmt.Errorf("failed to create bookmark: %w", err)
	}

	return &repository.SavedRecipeWithRecipe{
		SavedRecipe: *bookmark,
		Recipe:      *recipe,
	}, nil
}

// List はユーザーのブックマーク一覧をレシピ情報付きで保存日時の降順で返す。
func (s *Service) List(ctx context.Context, userID string) ([]repository.SavedRecipeWithRecipe, error) {
	bookmarks, err := s.savedRepo.ListByUserIDWithRecipe(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	return bookmarks, nil
}

// Remove は所有者本人のブックマークを削除する。レシピ自体は削除しない。
// 他ユーザー所有のブックマークには未検出エラーを返す。
func (s *Service) Remove(ctx context.Context, userID, id string) error {
	existing, err := s.savedRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find bookmark: %w", err)
	}
	if existing == nil || existing.UserID != userID {
		return model.NewBookmarkNotFoundError()
	}

	if err := s.savedRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	return nil
}
