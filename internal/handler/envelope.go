// Package handler はHTTP APIのハンドラーを提供する。
// すべてのレスポンスは {success, data} または {success, error} のエンベロープで
// 返し、値がnullのキーはエンベロープから省略する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/tripman/internal/middleware"
	"github.com/hitoshi/tripman/internal/model"
)

// successEnvelope は成功レスポンスの統一フォーマット。
// Dataがnilの場合、dataキー自体が省略される。
type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// writeSuccess は成功エンベロープでレスポンスを書き込む。
func writeSuccess(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(successEnvelope{
		Success: true,
		Data:    data,
	})
}

// handleServiceError はサービス層から返されたエラーをエンベロープに変換する。
// APIError以外のエラーは詳細をログにのみ記録し、クライアントには
// 一般的なメッセージを返す。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteAPIError(w, apiErr)
		return
	}

	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}
