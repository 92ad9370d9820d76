package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/tripman/internal/middleware"
	"github.com/hitoshi/tripman/internal/trip"
)

// TripServiceInterface は旅行ハンドラーが必要とするサービスインターフェース。
type TripServiceInterface interface {
	CreateTrip(ctx context.Context, userID string, payload trip.ContentPayload) (*trip.Contents, error)
	UpdateTrip(ctx context.Context, userID, tripID string, payload trip.ContentPayload) (*trip.Contents, error)
	GetTrip(ctx context.Context, userID, tripID string) (*trip.Contents, error)
	ListTrips(ctx context.Context, userID string) ([]*trip.Contents, error)
	DeleteTrip(ctx context.Context, userID, tripID string) error
}

// TripCreationRecorder は旅行作成のメトリクス記録に必要なインターフェース。
type TripCreationRecorder interface {
	RecordTripCreated()
}

// TripHandler は旅行管理のHTTPハンドラー。
type TripHandler struct {
	service TripServiceInterface
	metrics TripCreationRecorder
}

// NewTripHandler はTripHandlerを生成する。
func NewTripHandler(service TripServiceInterface, metrics TripCreationRecorder) *TripHandler {
	return &TripHandler{
		service: service,
		metrics: metrics,
	}
}

// CreateTrip は認証済みユーザーの旅行を作成する。
// POST /api/trip/
func (h *TripHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing or malformed Authorization header")
		return
	}

	var payload trip.ContentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	contents, err := h.service.CreateTrip(r.Context(), userID, payload)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordTripCreated()
	}

	writeSuccess(w, http.StatusOK, trip.NewView(contents.Trip, contents.Entries))
}

// UpdateTrip は旅行の内容をペイロードで丸ごと置き換える。
// PUT /api/trip/{id}/
func (h *TripHandler) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing or malformed Authorization header")
		return
	}

	tripID := chi.URLParam(r, "id")

	var payload trip.ContentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	contents, err := h.service.UpdateTrip(r.Context(), userID, tripID, payload)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, trip.NewView(contents.Trip, contents.Entries))
}

// GetTrip は旅行を取得する。group_by_days=trueクエリで日別モードになる。
// GET /api/trip/{id}/
func (h *TripHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing or malformed Authorization header")
		return
	}

	tripID := chi.URLParam(r, "id")

	contents, err := h.service.GetTrip(r.Context(), userID, tripID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if r.URL.Query().Get("group_by_days") == "true" {
		writeSuccess(w, http.StatusOK, trip.NewGroupedView(contents.Trip, contents.Entries))
		return
	}
	writeSuccess(w, http.StatusOK, trip.NewView(contents.Trip, contents.Entries))
}

// ListTrips は認証済みユーザーの旅行一覧を返す。
// GET /api/trips/
func (h *TripHandler) ListTrips(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing or malformed Authorization header")
		return
	}

	contents, err := h.service.ListTrips(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	views := make([]trip.View, 0, len(contents))
	for _, c := range contents {
		views = append(views, trip.NewView(c.Trip, c.Entries))
	}

	writeSuccess(w, http.StatusOK, views)
}

// DeleteTrip は旅行とそのエントリを削除する。
// DELETE /api/trip/{id}/
func (h *TripHandler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing or malformed Authorization header")
		return
	}

	tripID := chi.URLParam(r, "id")

	if err := h.service.DeleteTrip(r.Context(), userID, tripID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil)
}

// CheckSession はセッショントークンの有効性確認エンドポイント。
// セッションミドルウェアを通過できた時点で有効なので、常に200を返す。
// GET /secret/
func CheckSession(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, "Valid session token")
}
