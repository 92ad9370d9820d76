// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// セッション情報（セッショントークン・更新トークン・有効期限）はユーザー行に直接保持する。
// session_tokenとupdate_tokenはDBのユニーク制約により全ユーザー間で一意が保証される。
type User struct {
	ID                string
	Username          string
	PasswordDigest    string
	SessionToken      string
	SessionExpiration time.Time
	UpdateToken       string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsSessionTokenValid はセッショントークンが一致し、かつ有効期限内かを検証する。
// 期限切れとトークン不一致は戻り値からは区別できない（ログでのみ区別する）。
func (u *User) IsSessionTokenValid(token string, now time.Time) bool {
	return token == u.SessionToken && now.Before(u.SessionExpiration)
}

// IsUpdateTokenValid は更新トークンの一致を検証する。有効期限は持たない。
func (u *User) IsUpdateTokenValid(token string) bool {
	return token == u.UpdateToken
}
