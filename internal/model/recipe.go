// Package model はドメインモデルを定義する。
package model

import "time"

// Recipe はユーザーが投稿したレシピを表す。
// CreatedByは作成時にリクエストユーザーから設定され、以後変更されない。
type Recipe struct {
	ID          string
	Title       string
	Description string
	Ingredients string // カンマ区切りの材料リスト
	Steps       string
	CreatedBy   string
	CreatedAt   time.Time
}

// SavedRecipe はユーザーとレシピのブックマーク関係を表す。
type SavedRecipe struct {
	ID       string
	UserID   string
	RecipeID string
	SavedAt  time.Time
}

// RecipeHistory は材料からのレシピ生成履歴を表す。
// 生成成功ごとに1件追記され、更新されることはない。
type RecipeHistory struct {
	ID          string
	UserID      string
	Ingredients string // 入力された材料テキストそのまま
	RecipeText  string // AIが生成したレシピテキストそのまま
	CreatedAt   time.Time
}
