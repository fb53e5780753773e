package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/cookassist/internal/model"
)

// PostgresHistoryRepo はPostgreSQLを使用したレシピ生成履歴リポジトリ。
type PostgresHistoryRepo struct {
	db *sql.DB
}

// NewPostgresHistoryRepo はPostgresHistoryRepoを生成する。
func NewPostgresHistoryRepo(db *sql.DB) *PostgresHistoryRepo {
	return &PostgresHistoryRepo{db: db}
}

// Create は履歴を追記する。
func (r *PostgresHistoryRepo) Create(ctx context.Context, history *model.RecipeHistory) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO recipe_history (id, user_id, ingredients, recipe_text, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		history.ID, history.UserID, history.Ingredients, history.RecipeText, history.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert history: %w", err)
	}
	return nil
}

// ListByUserID はユーザーの履歴を作成日時の降順で最大limit件返す。
func (r *PostgresHistoryRepo) ListByUserID(ctx context.Context, userID string, limit int) ([]*model.RecipeHistory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, ingredients, recipe_text, created_at
		 FROM recipe_history WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []*model.RecipeHistory
	for rows.Next() {
		entry := &model.RecipeHistory{}
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Ingredients,
			&entry.RecipeText, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}

	return entries, nil
}

// DeleteByUserAndID は指定ユーザー所有の履歴を削除する。
// 削除対象が存在しない（または他ユーザー所有の）場合はfalseを返す。
func (r *PostgresHistoryRepo) DeleteByUserAndID(ctx context.Context, userID, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM recipe_history WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete history: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// compile-time interface check
var _ HistoryRepository = (*PostgresHistoryRepo)(nil)
