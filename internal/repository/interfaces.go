// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/cookassist/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByUsername はユーザー名でユーザーを検索する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// Create はユーザーを作成する。
	// ユーザー名が既に存在する場合はErrDuplicateを返す。
	Create(ctx context.Context, user *model.User) error

	// DeleteByID は指定IDのユーザーを削除する。
	// 関連するtokens、recipes、saved_recipes、recipe_historyはCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error
}

// TokenRepository はアクセストークンの永続化インターフェース。
type TokenRepository interface {
	// FindByKey はトークンキーでトークンを検索する。見つからない場合はnilを返す。
	FindByKey(ctx context.Context, key string) (*model.Token, error)

	// FindByUserID は指定ユーザーのトークンを取得する。見つからない場合はnilを返す。
	FindByUserID(ctx context.Context, userID string) (*model.Token, error)

	// Create はトークンを作成する。
	Create(ctx context.Context, token *model.Token) error

	// DeleteByUserID は指定ユーザーのトークンを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// RecipeRepository はレシピデータの永続化インターフェース。
type RecipeRepository interface {
	// FindByID は指定IDのレシピを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Recipe, error)

	// FindByIDWithCreator は指定IDのレシピを作成者のユーザー名付きで取得する。
	// 見つからない場合はnilを返す。
	FindByIDWithCreator(ctx context.Context, id string) (*RecipeWithCreator, error)

	// List は全レシピを作成者のユーザー名付きで作成日時の降順で返す。
	List(ctx context.Context) ([]RecipeWithCreator, error)

	// Create はレシピを作成する。
	Create(ctx context.Context, recipe *model.Recipe) error

	// Update はレシピのタイトル・説明・材料・手順を更新する。
	// created_byとcreated_atは変更しない。
	Update(ctx context.Context, recipe *model.Recipe) error

	// DeleteByID は指定IDのレシピを削除する。
	// 関連するsaved_recipesはCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error
}

// SavedRecipeRepository はブックマークデータの永続化インターフェース。
type SavedRecipeRepository interface {
	// FindByID は指定IDのブックマークを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.SavedRecipe, error)

	// FindByUserAndRecipe はユーザーIDとレシピIDでブックマークを検索する。
	// 見つからない場合はnilを返す。
	FindByUserAndRecipe(ctx context.Context, userID, recipeID string) (*model.SavedRecipe, error)

	// ListByUserID はユーザーのブックマーク一覧を保存日時の降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.SavedRecipe, error)

	// ListByUserIDWithRecipe はユーザーのブックマーク一覧をレシピ情報付きで返す。
	ListByUserIDWithRecipe(ctx context.Context, userID string) ([]SavedRecipeWithRecipe, error)

	// Create はブックマークを作成する。
	// 同一ユーザー・同一レシピの組が既に存在する場合はErrDuplicateを返す。
	Create(ctx context.Context, saved *model.SavedRecipe) error

	// DeleteByID は指定IDのブックマークを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// HistoryRepository はレシピ生成履歴の永続化インターフェース。
type HistoryRepository interface {
	// Create は履歴を追記する。
	Create(ctx context.Context, history *model.RecipeHistory) error

	// ListByUserID はユーザーの履歴を作成日時の降順で最大limit件返す。
	ListByUserID(ctx context.Context, userID string, limit int) ([]*model.RecipeHistory, error)

	// DeleteByUserAndID は指定ユーザー所有の履歴を削除する。
	// 削除対象が存在しない（または他ユーザー所有の）場合はfalseを返す。
	DeleteByUserAndID(ctx context.Context, userID, id string) (bool, error)
}

// RecipeWithCreator はレシピと作成者のユーザー名を結合した構造体。
type RecipeWithCreator struct {
	model.Recipe
	CreatorUsername string
}

// SavedRecipeWithRecipe はブックマークと対象レシピ情報を結合した構造体。
type SavedRecipeWithRecipe struct {
	model.SavedRecipe
	Recipe RecipeWithCreator
}
