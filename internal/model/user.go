// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// PasswordHashはbcryptハッシュを保持し、APIレスポンスには含めない。
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Token はユーザーに発行されるアクセストークンを表す。
// ユーザーごとに1件を使い回し、ログアウトで削除されるまで有効。
type Token struct {
	Key       string
	UserID    string
	CreatedAt time.Time
}
