package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/cookassist/internal/model"
)

// PostgresSavedRecipeRepo はPostgreSQLを使用したブックマークリポジトリ。
type PostgresSavedRecipeRepo struct {
	db *sql.DB
}

// NewPostgresSavedRecipeRepo はPostgresSavedRecipeRepoを生成する。
func NewPostgresSavedRecipeRepo(db *sql.DB) *PostgresSavedRecipeRepo {
	return &PostgresSavedRecipeRepo{db: db}
}

// FindByID は指定IDのブックマークを取得する。見つからない場合はnilを返す。
func (r *PostgresSavedRecipeRepo) FindByID(ctx context.Context, id string) (*model.SavedRecipe, error) {
	saved := &model.SavedRecipe{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, recipe_id, saved_at FROM saved_recipes WHERE id = $1`,
		id,
	).Scan(&saved.ID, &saved.UserID, &saved.RecipeID, &saved.SavedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find saved recipe by ID: %w", err)
	}

	return saved, nil
}

// FindByUserAndRecipe はユーザーIDとレシピIDでブックマークを検索する。
// 見つからない場合はnilを返す。
func (r *PostgresSavedRecipeRepo) FindByUserAndRecipe(ctx context.Context, userID, recipeID string) (*model.SavedRecipe, error) {
	saved := &model.SavedRecipe{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, recipe_id, saved_at FROM saved_recipes
		 WHERE user_id = $1 AND recipe_id = $2`,
		userID, recipeID,
	).Scan(&saved.ID, &saved.UserID, &saved.RecipeID, &saved.SavedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find saved recipe: %w", err)
	}

	return saved, nil
}

// ListByUserID はユーザーのブックマーク一覧を保存日時の降順で返す。
func (r *PostgresSavedRecipeRepo) ListByUserID(ctx context.Context, userID string) ([]*model.SavedRecipe, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, recipe_id, saved_at FROM saved_recipes
		 WHERE user_id = $1 ORDER BY saved_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved recipes: %w", err)
	}
	defer rows.Close()

	var savedList []*model.SavedRecipe
	for rows.Next() {
		saved := &model.SavedRecipe{}
		if err := rows.Scan(&saved.ID, &saved.UserID, &saved.RecipeID, &saved.SavedAt); err != nil {
			return nil, fmt.Errorf("failed to scan saved recipe: %w", err)
		}
		savedList = append(savedList, saved)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate saved recipes: %w", err)
	}

	return savedList, nil
}

// ListByUserIDWithRecipe はユーザーのブックマーク一覧をレシピ情報付きで返す。
func (r *PostgresSavedRecipeRepo) ListByUserIDWithRecipe(ctx context.Context, userID string) ([]SavedRecipeWithRecipe, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT s.id, s.user_id, s.recipe_id, s.saved_at,
		        r.id, r.title, r.description, r.ingredients, r.steps, r.created_by, r.created_at, u.username
		 FROM saved_recipes s
		 JOIN recipes r ON r.id = s.recipe_id
		 JOIN users u ON u.id = r.created_by
		 WHERE s.user_id = $1 ORDER BY s.saved_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved recipes with recipe info: %w", err)
	}
	defer rows.Close()

	var savedList []SavedRecipeWithRecipe
	for rows.Next() {
		var saved SavedRecipeWithRecipe
		if err := rows.Scan(&saved.ID, &saved.UserID, &saved.RecipeID, &saved.SavedAt,
			&saved.Recipe.ID, &saved.Recipe.Title, &saved.Recipe.Description,
			&saved.Recipe.Ingredients, &saved.Recipe.Steps, &saved.Recipe.CreatedBy,
			&saved.Recipe.CreatedAt, &saved.Recipe.CreatorUsername); err != nil {
			return nil, fmt.Errorf("failed to scan saved recipe with recipe info: %w", err)
		}
		savedList = append(savedList, saved)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate saved recipes: %w", err)
	}

	return savedList, nil
}

// Create はブックマークを作成する。
// 同一ユーザー・同一レシピのブックマークが既に存在する場合はErrDuplicateを返す。
func (r *PostgresSavedRecipeRepo) Create(ctx context.Context, saved *model.SavedRecipe) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO saved_recipes (id, user_id, recipe_id, saved_at)
		 VALUES ($1, $2, $3, $4)`,
		saved.ID, saved.UserID, saved.RecipeID, saved.SavedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("bookmark for recipe %s: %w", saved.RecipeID, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to insert saved recipe: %w", err)
	}
	return nil
}

// DeleteByID は指定IDのブックマークを削除する。
func (r *PostgresSavedRecipeRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM saved_recipes WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete saved recipe: %w", err)
	}
	return nil
}

// compile-time interface check
var _ SavedRecipeRepository = (*PostgresSavedRecipeRepo)(nil)
