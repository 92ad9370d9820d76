package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/hitoshi/tripman/internal/model"
)

// pqUniqueViolation はPostgreSQLのunique_violationエラーコード。
const pqUniqueViolation = "23505"

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

const userColumns = `id, username, password_digest, session_token, session_expiration, update_token, created_at, updated_at`

// scanUser は1行分のユーザーをスキャンする。
func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.PasswordDigest,
		&user.SessionToken, &user.SessionExpiration, &user.UpdateToken,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create はユーザーを作成する。username・各トークンの重複時はErrUniqueViolationを返す。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_digest, session_token, session_expiration, update_token, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.Username, user.PasswordDigest,
		user.SessionToken, user.SessionExpiration, user.UpdateToken,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUniqueViolation
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// FindByUsername はユーザー名でユーザーを検索する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	return user, nil
}

// FindBySessionToken はセッショントークンでユーザーを検索する。見つからない場合はnilを返す。
// session_tokenのユニークインデックスによる索引検索で、全件走査は発生しない。
func (r *PostgresUserRepo) FindBySessionToken(ctx context.Context, token string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE session_token = $1`, token,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by session token: %w", err)
	}
	return user, nil
}

// FindByUpdateToken は更新トークンでユーザーを検索する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByUpdateToken(ctx context.Context, token string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE update_token = $1`, token,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by update token: %w", err)
	}
	return user, nil
}

// UpdateSession はユーザーのセッション情報を更新する。
func (r *PostgresUserRepo) UpdateSession(ctx context.Context, userID, sessionToken string, expiration time.Time, updateToken string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET session_token = $2, session_expiration = $3, update_token = $4, updated_at = now()
		 WHERE id = $1`,
		userID, sessionToken, expiration, updateToken,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUniqueViolation
		}
		return fmt.Errorf("failed to update session: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}
	return nil
}

// ListAll は全ユーザーを作成日時順で返す。
func (r *PostgresUserRepo) ListAll(ctx context.Context) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user := &model.User{}
		if err := rows.Scan(
			&user.ID, &user.Username, &user.PasswordDigest,
			&user.SessionToken, &user.SessionExpiration, &user.UpdateToken,
			&user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// DeleteAll は全ユーザーと所有データを同一トランザクションで削除する。
// 所有関係の削除はFKのCASCADEに頼らず明示的に行う。
func (r *PostgresUserRepo) DeleteAll(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, query := range []string{
		`DELETE FROM entries`,
		`DELETE FROM trips`,
		`DELETE FROM users`,
	} {
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to delete all users: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// isUniqueViolation はPostgreSQLのユニーク制約違反かを判定する。
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
