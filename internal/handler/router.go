package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/tripman/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionResolver   middleware.SessionResolver
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	HTTPMetrics       middleware.HTTPMetricsRecorder

	// サービス
	AuthService AuthServiceInterface
	TripService TripServiceInterface

	// メトリクス（nil可）
	RegistrationMetrics RegistrationRecorder
	TripMetrics         TripCreationRecorder

	// デバッグモード。デバッグ専用ルートの公開を制御する。
	Debug bool
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを
// 構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Metrics → SessionMiddleware → RateLimit(General)
//
// 登録・ログインなどの未認証ルートはセッションミドルウェアの外に配置し、
// 登録にはIP単位のレート制限を適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.HTTPMetrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.HTTPMetrics))
	}

	userHandler := NewUserHandler(deps.AuthService, deps.TripService, deps.RegistrationMetrics)
	tripHandler := NewTripHandler(deps.TripService, deps.TripMetrics)

	// --- 認証不要のルート ---

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api/users", func(r chi.Router) {
		// POST /api/users/ - ユーザー登録（IP単位のレート制限を追加）
		r.With(deps.RateLimiter.RegistrationMiddleware()).Post("/", userHandler.Register)

		// デバッグ専用ルート
		if deps.Debug {
			r.Get("/", userHandler.ListUsers)
			r.Delete("/delete_all/", userHandler.DeleteAllUsers)
		}
	})

	r.Post("/api/login/", userHandler.Login)
	r.Post("/api/session/", userHandler.RefreshSession)
	r.Get("/api/user/{id}/", userHandler.GetUser)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionResolver))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Route("/api/trip", func(r chi.Router) {
			r.Post("/", tripHandler.CreateTrip)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", tripHandler.GetTrip)
				r.Put("/", tripHandler.UpdateTrip)
				r.Delete("/", tripHandler.DeleteTrip)
			})
		})

		r.Get("/api/trips/", tripHandler.ListTrips)

		// セッショントークンの有効性確認
		r.Get("/secret/", CheckSession)
	})

	return r
}
