package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/tripman/internal/middleware"
	"github.com/hitoshi/tripman/internal/model"
	"github.com/hitoshi/tripman/internal/trip"
)

// AuthServiceInterface はユーザーハンドラーが必要とする認証サービスのインターフェース。
type AuthServiceInterface interface {
	Register(ctx context.Context, username, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (*model.User, error)
	RefreshSession(ctx context.Context, updateToken string) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	DeleteAllUsers(ctx context.Context) error
}

// TripLister はユーザーのシリアライズに必要な旅行一覧のインターフェース。
type TripLister interface {
	ListTrips(ctx context.Context, userID string) ([]*trip.Contents, error)
}

// RegistrationRecorder はユーザー登録のメトリクス記録に必要なインターフェース。
type RegistrationRecorder interface {
	RecordUserRegistered()
}

// sessionInfoView はセッション情報のAPI表現。登録・ログイン・更新の
// レスポンスに使う。
type sessionInfoView struct {
	SessionToken      string `json:"session_token"`
	SessionExpiration string `json:"session_expiration"`
	UpdateToken       string `json:"update_token"`
}

// userView はユーザーのAPI表現。所有する旅行をフラットモードで含む。
type userView struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Trips    []trip.View `json:"trips"`
}

func newSessionInfoView(user *model.User) sessionInfoView {
	return sessionInfoView{
		SessionToken:      user.SessionToken,
		SessionExpiration: user.SessionExpiration.Format(time.RFC3339),
		UpdateToken:       user.UpdateToken,
	}
}

// credentialsBody は登録・ログインのリクエストボディ。
type credentialsBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserHandler はユーザー管理と認証のHTTPハンドラー。
type UserHandler struct {
	auth    AuthServiceInterface
	trips   TripLister
	metrics RegistrationRecorder
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(auth AuthServiceInterface, trips TripLister, metrics RegistrationRecorder) *UserHandler {
	return &UserHandler{
		auth:    auth,
		trips:   trips,
		metrics: metrics,
	}
}

// Register は新規ユーザーを登録し、発行されたセッション情報を返す。
// POST /api/users/
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	user, err := h.auth.Register(r.Context(), body.Username, body.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordUserRegistered()
	}

	writeSuccess(w, http.StatusOK, newSessionInfoView(user))
}

// Login は資格情報を検証し、新しいセッション情報を返す。
// POST /api/login/
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	user, err := h.auth.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, newSessionInfoView(user))
}

// RefreshSession は更新トークンでセッションを更新し、新しいセッション情報を返す。
// POST /api/session/
func (h *UserHandler) RefreshSession(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.BearerToken(r)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing or malformed Authorization header")
		return
	}

	user, err := h.auth.RefreshSession(r.Context(), token)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, newSessionInfoView(user))
}

// GetUser は単一ユーザーを所有する旅行込みで返す。
// GET /api/user/{id}/
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	user, err := h.auth.GetUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	view, err := h.buildUserView(r.Context(), user)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, view)
}

// ListUsers は全ユーザーの一覧を返す。デバッグモードでのみ公開される。
// GET /api/users/
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.auth.ListUsers(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	views := make([]userView, 0, len(users))
	for _, user := range users {
		view, err := h.buildUserView(r.Context(), user)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		views = append(views, view)
	}

	writeSuccess(w, http.StatusOK, views)
}

// DeleteAllUsers は全ユーザーと所有データを削除する。デバッグモードでのみ公開される。
// DELETE /api/users/delete_all/
func (h *UserHandler) DeleteAllUsers(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.DeleteAllUsers(r.Context()); err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil)
}

// buildUserView はユーザーと所有する旅行からAPI表現を構築する。
func (h *UserHandler) buildUserView(ctx context.Context, user *model.User) (userView, error) {
	contents, err := h.trips.ListTrips(ctx, user.ID)
	if err != nil {
		return userView{}, err
	}

	tripViews := make([]trip.View, 0, len(contents))
	for _, c := range contents {
		tripViews = append(tripViews, trip.NewView(c.Trip, c.Entries))
	}

	return userView{
		ID:       user.ID,
		Username: user.Username,
		Trips:    tripViews,
	}, nil
}
