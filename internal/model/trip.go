// Package model はドメインモデルを定義する。
package model

import "time"

// DefaultTripName はリクエストに名前が含まれない場合の旅行名。
const DefaultTripName = "Untitled trip"

// Trip はユーザーが所有する旅行計画を表す。
// ImageDataは外部画像検索APIの生JSONレスポンスのキャッシュで、
// 取得失敗時や未取得時はnil。
type Trip struct {
	ID        string
	UserID    string
	Name      string
	Location  *string
	Start     *int64
	ImageData []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Entry は旅行内の特定の日の予定項目を表す。
// DayIndexは一意ではなく、複数のエントリが同じ日を共有できる。
// Positionはリクエストペイロードでの出現順を保持する。
type Entry struct {
	ID          string
	TripID      string
	Description string
	Kind        string
	Completed   bool
	DayIndex    int
	Position    int
	CreatedAt   time.Time
}
