package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/cookassist/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Authenticator     middleware.TokenAuthenticator
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	StatusRecorder    middleware.HTTPStatusRecorder // nil可

	// サービス
	AuthService       AuthServiceInterface
	UserService       UserServiceInterface
	GenerationService GenerationServiceInterface
	HistoryService    HistoryServiceInterface
	RecipeService     RecipeServiceInterface
	SavedService      SavedServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → Metrics → (TokenAuth) → RateLimit
//
// 認証ミドルウェアはルートごとに必須・任意・なしを使い分ける。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewMetricsMiddleware(deps.StatusRecorder))

	authHandler := NewAuthHandler(deps.AuthService, deps.UserService)
	generateHandler := NewGenerateHandler(deps.GenerationService)
	historyHandler := NewHistoryHandler(deps.HistoryService)
	recipeHandler := NewRecipeHandler(deps.RecipeService)
	savedHandler := NewSavedHandler(deps.SavedService)

	requiredAuth := middleware.NewTokenAuthMiddleware(deps.Authenticator)
	optionalAuth := middleware.NewOptionalTokenAuthMiddleware(deps.Authenticator)
	generalLimit := deps.RateLimiter.GeneralMiddleware()
	generateLimit := deps.RateLimiter.GenerateMiddleware()

	// 死活確認
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Cooking Assistant Backend Running!"})
	})

	// --- 認証不要のルート ---
	r.Group(func(r chi.Router) {
		r.Use(generalLimit)
		r.Post("/auth/signup/", authHandler.Signup)
		r.Post("/auth/login/", authHandler.Login)
	})

	// --- 認証必須のルート ---
	r.Group(func(r chi.Router) {
		r.Use(requiredAuth)
		r.Use(generalLimit)

		r.Post("/auth/logout/", authHandler.Logout)
		r.Get("/auth/profile/", authHandler.Profile)
		r.Delete("/auth/account/", authHandler.DeleteAccount)

		r.Get("/history/", historyHandler.List)
		r.Delete("/history/{id}/", historyHandler.Delete)

		r.Post("/recipes/", recipeHandler.Create)
		r.Put("/recipes/{id}/", recipeHandler.Update)
		r.Delete("/recipes/{id}/", recipeHandler.Delete)

		r.Post("/saved/", savedHandler.Save)
		r.Delete("/saved/{id}/", savedHandler.Remove)
	})

	// --- 認証任意のルート ---
	r.Group(func(r chi.Router) {
		r.Use(optionalAuth)
		r.Use(generalLimit)

		// レシピ生成は専用のレート制限を重ねる
		r.With(generateLimit).Post("/generate_recipe/", generateHandler.Generate)

		// 読み取りは誰でも可能
		r.Get("/recipes/", recipeHandler.List)
		r.Get("/recipes/{id}/", recipeHandler.Get)

		// ブックマーク一覧は呼び出しユーザーにスコープされる（匿名は空）
		r.Get("/saved/", savedHandler.List)
	})

	return r
}
