// Package security はアプリケーションのセキュリティ機能を提供する。
//
// FieldSanitizerService はユーザー入力フィールド（旅行名・場所・エントリ説明など）を
// サニタイズし、格納型XSSからフロントエンドを保護する。
// これらのフィールドはプレーンテキストとして扱うため、
// bluemondayのStrictPolicyで全HTMLタグを除去する。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// FieldSanitizerService はユーザー入力フィールドのサニタイズ機能のインターフェースを定義する。
// 旅行・エントリの保存前に使用される。
type FieldSanitizerService interface {
	// Sanitize は入力文字列から全HTMLタグを除去し、前後の空白を落とした
	// プレーンテキストを返す。空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// fieldSanitizer はFieldSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type fieldSanitizer struct {
	policy *bluemonday.Policy
}

// NewFieldSanitizer はFieldSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyは許可タグを一切持たないため、scriptタグやon*属性を含む
// あらゆるHTMLが除去される。
func NewFieldSanitizer() *fieldSanitizer {
	return &fieldSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力文字列から全HTMLタグを除去したプレーンテキストを返す。
func (s *fieldSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.TrimSpace(s.policy.Sanitize(raw))
}

// compile-time interface check
var _ FieldSanitizerService = (*fieldSanitizer)(nil)
