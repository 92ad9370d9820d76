// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// Messageはそのままクライアントへ返すため、内部情報を含めてはならない。
// 内部エラーの詳細はログにのみ記録する。
type APIError struct {
	Code     string // エラーコード
	Message  string // クライアント向けメッセージ
	Category string // カテゴリ: auth, validation, notfound, system
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeUserExists     = "USER_EXISTS"
	ErrCodeUserNotFound   = "USER_NOT_FOUND"
	ErrCodeTripNotFound   = "TRIP_NOT_FOUND"
	ErrCodeInvalidSession = "INVALID_SESSION"
	ErrCodeInvalidLogin   = "INVALID_CREDENTIALS"
	ErrCodeInvalidUpdate  = "INVALID_UPDATE_TOKEN"
	ErrCodeForbiddenTrip  = "FORBIDDEN_TRIP"
)

// NewValidationError は必須フィールド欠落などの入力エラーを生成する。
func NewValidationError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  message,
		Category: "validation",
	}
}

// NewUserExistsError はユーザー名重複エラーを生成する。
// 同時登録はDBのユニーク制約違反として検出され、このエラーに変換される。
func NewUserExistsError() *APIError {
	return &APIError{
		Code:     ErrCodeUserExists,
		Message:  "User already exists",
		Category: "validation",
	}
}

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "User not found",
		Category: "notfound",
	}
}

// NewTripNotFoundError は旅行未検出エラーを生成する。
func NewTripNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeTripNotFound,
		Message:  "Trip not found",
		Category: "notfound",
	}
}

// NewInvalidSessionError はセッショントークン不正エラーを生成する。
// 期限切れと不一致を区別しない単一のエラーを返す。
func NewInvalidSessionError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidSession,
		Message:  "Invalid session token",
		Category: "auth",
	}
}

// NewInvalidCredentialsError はログイン失敗エラーを生成する。
// 未知のユーザー名と誤ったパスワードを区別しない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidLogin,
		Message:  "Invalid username or password",
		Category: "auth",
	}
}

// NewInvalidUpdateTokenError は更新トークン不正エラーを生成する。
func NewInvalidUpdateTokenError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidUpdate,
		Message:  "Invalid update token",
		Category: "auth",
	}
}

// NewForbiddenTripError は他ユーザーの旅行への操作エラーを生成する。
func NewForbiddenTripError() *APIError {
	return &APIError{
		Code:     ErrCodeForbiddenTrip,
		Message:  "Trip belongs to another user",
		Category: "auth",
	}
}
