// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/hitoshi/tripman/internal/model"
)

// ErrUniqueViolation はユニーク制約違反を表す。
// ユーザー名やトークンの一意性はストレージ層の制約で強制され、
// 同時登録の競合はこのエラーとして表面化する。
var ErrUniqueViolation = errors.New("unique constraint violation")

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。username・各トークンの重複時はErrUniqueViolationを返す。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByUsername はユーザー名でユーザーを検索する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// FindBySessionToken はセッショントークンでユーザーを検索する。
	// ユニークインデックスによる索引検索で、有効期限の判定は呼び出し側が行う。
	// 見つからない場合はnilを返す。
	FindBySessionToken(ctx context.Context, token string) (*model.User, error)

	// FindByUpdateToken は更新トークンでユーザーを検索する。見つからない場合はnilを返す。
	FindByUpdateToken(ctx context.Context, token string) (*model.User, error)

	// UpdateSession はユーザーのセッション情報（トークンペアと有効期限）を更新する。
	// 新トークンが既存ユーザーのものと衝突した場合はErrUniqueViolationを返す。
	UpdateSession(ctx context.Context, userID, sessionToken string, expiration time.Time, updateToken string) error

	// ListAll は全ユーザーを作成日時順で返す。デバッグ用途。
	ListAll(ctx context.Context) ([]*model.User, error)

	// DeleteAll は全ユーザーと所有する旅行・エントリを同一トランザクションで削除する。
	// デバッグ用途。
	DeleteAll(ctx context.Context) error
}

// TripRepository は旅行データの永続化インターフェース。
type TripRepository interface {
	// FindByID は指定IDの旅行を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Trip, error)

	// ListByUserID はユーザーが所有する旅行一覧を作成日時順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Trip, error)

	// ListEntries は旅行のエントリをペイロード出現順（position昇順）で返す。
	ListEntries(ctx context.Context, tripID string) ([]*model.Entry, error)

	// Create は旅行とそのエントリを同一トランザクションで作成する。
	Create(ctx context.Context, trip *model.Trip, entries []*model.Entry) error

	// ReplaceContents は旅行のスカラー更新・既存エントリ全削除・新エントリ挿入を
	// 同一トランザクションで適用する。途中で失敗した場合は全変更がロールバックされ、
	// 他のリーダーから部分的な状態は見えない。
	ReplaceContents(ctx context.Context, trip *model.Trip, entries []*model.Entry) error

	// Delete は旅行とそのエントリを同一トランザクションで削除する。
	// 旅行が存在しない場合もエラーにはならない（存在確認は呼び出し側が行う）。
	Delete(ctx context.Context, tripID string) error

	// ListMissingImages はlocationを持つが画像キャッシュが空の旅行を返す。
	// 画像バックフィルワーカー用。
	ListMissingImages(ctx context.Context, limit int) ([]*model.Trip, error)

	// UpdateImageData は旅行の画像キャッシュのみを更新する。
	UpdateImageData(ctx context.Context, tripID string, data []byte) error
}
