package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/cookassist/internal/model"
)

// PostgresRecipeRepo はPostgreSQLを使用したレシピリポジトリ。
type PostgresRecipeRepo struct {
	db *sql.DB
}

// NewPostgresRecipeRepo はPostgresRecipeRepoを生成する。
func NewPostgresRecipeRepo(db *sql.DB) *PostgresRecipeRepo {
	return &PostgresRecipeRepo{db: db}
}

// FindByID は指定IDのレシピを取得する。見つからない場合はnilを返す。
func (r *PostgresRecipeRepo) FindByID(ctx context.Context, id string) (*model.Recipe, error) {
	recipe := &model.Recipe{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, description, ingredients, steps, created_by, created_at
		 FROM recipes WHERE id = $1`,
		id,
	).Scan(&recipe.ID, &recipe.Title, &recipe.Description, &recipe.Ingredients,
		&recipe.Steps, &recipe.CreatedBy, &recipe.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find recipe by ID: %w", err)
	}

	return recipe, nil
}

// FindByIDWithCreator は指定IDのレシピを作成者のユーザー名付きで取得する。
// 見つからない場合はnilを返す。
func (r *PostgresRecipeRepo) FindByIDWithCreator(ctx context.Context, id string) (*RecipeWithCreator, error) {
	recipe := &RecipeWithCreator{}
	err := r.db.QueryRowContext(ctx,
		`SELECT r.id, r.title, r.description, r.ingredients, r.steps, r.created_by, r.created_at, u.username
		 FROM recipes r JOIN users u ON u.id = r.created_by
		 WHERE r.id = $1`,
		id,
	).Scan(&recipe.ID, &recipe.Title, &recipe.Description, &recipe.Ingredients,
		&recipe.Steps, &recipe.CreatedBy, &recipe.CreatedAt, &recipe.CreatorUsername)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find recipe with creator: %w", err)
	}

	return recipe, nil
}

// List は全レシピを作成者のユーザー名付きで作成日時の降順で返す。
func (r *PostgresRecipeRepo) List(ctx context.Context) ([]RecipeWithCreator, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.id, r.title, r.description, r.ingredients, r.steps, r.created_by, r.created_at, u.username
		 FROM recipes r JOIN users u ON u.id = r.created_by
		 ORDER BY r.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []RecipeWithCreator
	for rows.Next() {
		var recipe RecipeWithCreator
		if err := rows.Scan(&recipe.ID, &recipe.Title, &recipe.Description,
			&recipe.Ingredients, &recipe.Steps, &recipe.CreatedBy, &recipe.CreatedAt,
			&recipe.CreatorUsername); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipes: %w", err)
	}

	return recipes, nil
}

// Create はレシピを作成する。
func (r *PostgresRecipeRepo) Create(ctx context.Context, recipe *model.Recipe) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO recipes (id, title, description, ingredients, steps, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		recipe.ID, recipe.Title, recipe.Description, recipe.Ingredients,
		recipe.Steps, recipe.CreatedBy, recipe.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert recipe: %w", err)
	}
	return nil
}

// Update はレシピのタイトル・説明・材料・手順を更新する。
// created_byとcreated_atは変更しない。
func (r *PostgresRecipeRepo) Update(ctx context.Context, recipe *model.Recipe) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE recipes SET title = $2, description = $3, ingredients = $4, steps = $5
		 WHERE id = $1`,
		recipe.ID, recipe.Title, recipe.Description, recipe.Ingredients, recipe.Steps,
	)
	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("recipe not found: %s", recipe.ID)
	}
	return nil
}

// DeleteByID は指定IDのレシピを削除する。
// 関連するsaved_recipesはCASCADE削除される。
func (r *PostgresRecipeRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM recipes WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("recipe not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ RecipeRepository = (*PostgresRecipeRepo)(nil)
