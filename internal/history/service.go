// Package history はレシピ生成履歴の参照と削除を提供する。
// 履歴の追記は生成処理側で行う。
package history

import (
	"context"
	"fmt"

	"github.com/hitoshi/cookassist/internal/model"
	"github.com/hitoshi/cookassist/internal/repository"
)

// Service は生成履歴のサービス層。
type Service struct {
	historyRepo repository.HistoryRepository
	limit       int
}

// NewService はServiceの新しいインスタンスを生成する。
// limitは一覧で返す最大件数。
func NewService(historyRepo repository.HistoryRepository, limit int) *Service {
	return &Service{historyRepo: historyRepo, limit: limit}
}

// List はユーザーの生成履歴を作成日時の降順で最大limit件返す。
func (s *Service) List(ctx context.Context, userID string) ([]*model.RecipeHistory, error) {
	entries, err := s.historyRepo.ListByUserID(ctx, userID, s.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return entries, nil
}

// Delete は所有者本人の履歴エントリを削除する。
// 他ユーザー所有の履歴には未検出エラーを返す。
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	deleted, err := s.historyRepo.DeleteByUserAndID(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete history: %w", err)
	}
	if !deleted {
		return model.NewHistoryNotFoundError()
	}
	return nil
}
