// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// クライアントにはMessageのみを返し、CodeはHTTPステータスへのマッピングに使う。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, recipe, upstream, system
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeIngredientsRequired = "INGREDIENTS_REQUIRED"
	ErrCodeInvalidRequest      = "INVALID_REQUEST"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodeUsernameTaken       = "USERNAME_TAKEN"
	ErrCodeRecipeNotFound      = "RECIPE_NOT_FOUND"
	ErrCodeHistoryNotFound     = "HISTORY_NOT_FOUND"
	ErrCodeBookmarkNotFound    = "BOOKMARK_NOT_FOUND"
	ErrCodeAlreadySaved        = "ALREADY_SAVED"
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
	ErrCodeUpstreamFailure     = "UPSTREAM_FAILURE"
)

// NewIngredientsRequiredError は材料未入力エラーを生成する。
func NewIngredientsRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeIngredientsRequired,
		Message:  "Ingredients are required.",
		Category: "validation",
	}
}

// NewInvalidRequestError はリクエストボディ不正エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("Invalid request: %s", reason),
		Category: "validation",
	}
}

// NewUnauthorizedError は認証が必要なエラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Authentication required.",
		Category: "auth",
	}
}

// NewInvalidCredentialsError は認証情報不正エラーを生成する。
// ユーザー名の存在有無を区別しない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "Invalid credentials",
		Category: "auth",
	}
}

// NewUsernameTakenError はユーザー名重複エラーを生成する。
func NewUsernameTakenError() *APIError {
	return &APIError{
		Code:     ErrCodeUsernameTaken,
		Message:  "Username already taken",
		Category: "validation",
	}
}

// NewRecipeNotFoundError はレシピ未検出エラーを生成する。
// 他ユーザー所有のレシピへの書き込みでも同じエラーを返し、存在有無を漏らさない。
func NewRecipeNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeRecipeNotFound,
		Message:  "Recipe not found",
		Category: "recipe",
	}
}

// NewHistoryNotFoundError は履歴未検出エラーを生成する。
// 他ユーザー所有の履歴でも同じエラーを返し、存在有無を漏らさない。
func NewHistoryNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeHistoryNotFound,
		Message:  "History item not found",
		Category: "recipe",
	}
}

// NewBookmarkNotFoundError はブックマーク未検出エラーを生成する。
func NewBookmarkNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeBookmarkNotFound,
		Message:  "Saved recipe not found",
		Category: "recipe",
	}
}

// NewAlreadySavedError はブックマーク重複エラーを生成する。
func NewAlreadySavedError() *APIError {
	return &APIError{
		Code:     ErrCodeAlreadySaved,
		Message:  "Recipe is already saved",
		Category: "validation",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "User not found",
		Category: "auth",
	}
}

// NewUpstreamFailureError はAI補完サービス呼び出し失敗のエラーを生成する。
// 失敗理由はそのままメッセージに載せる。本番で秘匿したい場合はハンドラー側でログのみに落とす。
func NewUpstreamFailureError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeUpstreamFailure,
		Message:  reason,
		Category: "upstream",
	}
}
