package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/hitoshi/tripman/internal/model"
)

// errorEnvelope はAPIエラーレスポンスの統一フォーマット。
// 成功時の {success: true, data: ...} と対になる。
type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// WriteError は統一エンベロープでHTTPエラーレスポンスを書き込む。
// すべてのAPIエンドポイントで一貫したエラーレスポンスを提供する。
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errorEnvelope{
		Success: false,
		Error:   message,
	})
}

// WriteAPIError はAPIErrorをカテゴリに応じたステータスコードで書き込む。
func WriteAPIError(w http.ResponseWriter, apiErr *model.APIError) {
	WriteError(w, StatusForCategory(apiErr.Category), apiErr.Message)
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、クライアントには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, "Internal server error")
}

// StatusForCategory はAPIErrorのカテゴリをHTTPステータスコードに対応付ける。
func StatusForCategory(category string) int {
	switch category {
	case "validation":
		return http.StatusBadRequest
	case "notfound":
		return http.StatusNotFound
	case "auth":
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
