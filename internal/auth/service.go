// Package auth はユーザー登録・ログイン・セッション管理のビジネスロジックを提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/tripman/internal/credential"
	"github.com/hitoshi/tripman/internal/model"
	"github.com/hitoshi/tripman/internal/repository"
)

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service は認証とユーザー管理に関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	config   ServiceConfig

	// now はテストで時計を差し替えるためのフック。
	now func() time.Time
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, config ServiceConfig) *Service {
	return &Service{
		userRepo: userRepo,
		config:   config,
		now:      time.Now,
	}
}

// Register は新規ユーザーを作成し、初期セッションを発行する。
// ユーザー名の重複はストレージ層のユニーク制約違反として検出され、
// 「User already exists」エラーに変換される（2人目のユーザーは作成されない）。
func (s *Service) Register(ctx context.Context, username, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, model.NewValidationError("Missing username or password")
	}

	digest, err := credential.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	sessionToken, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}
	updateToken, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate update token: %w", err)
	}

	now := s.now()
	user := &model.User{
		ID:                uuid.New().String(),
		Username:          username,
		PasswordDigest:    digest,
		SessionToken:      sessionToken,
		SessionExpiration: now.Add(s.sessionTTL()),
		UpdateToken:       updateToken,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, model.NewUserExistsError()
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("new user registered",
		slog.String("user_id", user.ID),
		slog.String("username", username),
	)

	return user, nil
}

// Login はユーザー名とパスワードを検証し、セッションを更新する。
// 未知のユーザー名と誤ったパスワードは区別せず同一のエラーを返す。
func (s *Service) Login(ctx context.Context, username, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, model.NewValidationError("Missing username or password")
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil || !credential.Verify(password, user.PasswordDigest) {
		return nil, model.NewInvalidCredentialsError()
	}

	if err := s.RenewSession(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("user logged in", slog.String("user_id", user.ID))
	return user, nil
}

// RenewSession は新しいトークンペアを生成し、有効期限をリセットして永続化する。
// 生成されるトークンは160bitの暗号乱数で、衝突確率は無視できる。
// それでも衝突した場合はストレージ層のユニーク制約が挿入を拒否する。
func (s *Service) RenewSession(ctx context.Context, user *model.User) error {
	sessionToken, err := generateToken()
	if err != nil {
		return fmt.Errorf("failed to generate session token: %w", err)
	}
	updateToken, err := generateToken()
	if err != nil {
		return fmt.Errorf("failed to generate update token: %w", err)
	}

	expiration := s.now().Add(s.sessionTTL())
	if err := s.userRepo.UpdateSession(ctx, user.ID, sessionToken, expiration, updateToken); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	user.SessionToken = sessionToken
	user.SessionExpiration = expiration
	user.UpdateToken = updateToken
	return nil
}

// ResolveSessionToken はセッショントークンから認証済みユーザーを解決する。
// トークンがどのユーザーにも一致しない場合はUserNotFound、
// 一致したが期限切れの場合はInvalidSessionを返す。
// 期限切れはログにのみ区別して記録する。
func (s *Service) ResolveSessionToken(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, model.NewInvalidSessionError()
	}

	user, err := s.userRepo.FindBySessionToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by session token: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	if !user.IsSessionTokenValid(token, s.now()) {
		slog.Warn("expired session token used", slog.String("user_id", user.ID))
		return nil, model.NewInvalidSessionError()
	}

	return user, nil
}

// RefreshSession は更新トークンを検証し、新しいセッションを発行する。
// 更新トークンの検証は単純な一致比較で、有効期限を持たない。
func (s *Service) RefreshSession(ctx context.Context, updateToken string) (*model.User, error) {
	if updateToken == "" {
		return nil, model.NewInvalidUpdateTokenError()
	}

	user, err := s.userRepo.FindByUpdateToken(ctx, updateToken)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by update token: %w", err)
	}
	if user == nil || !user.IsUpdateTokenValid(updateToken) {
		return nil, model.NewInvalidUpdateTokenError()
	}

	if err := s.RenewSession(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("session refreshed", slog.String("user_id", user.ID))
	return user, nil
}

// GetUser は指定IDのユーザーを取得する。見つからない場合はUserNotFoundを返す。
func (s *Service) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// ListUsers は全ユーザーを返す。デバッグ用途。
func (s *Service) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.userRepo.ListAll(ctx)
}

// DeleteAllUsers は全ユーザーと所有データを削除する。デバッグ用途。
func (s *Service) DeleteAllUsers(ctx context.Context) error {
	if err := s.userRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to delete all users: %w", err)
	}
	slog.Warn("all users deleted")
	return nil
}

func (s *Service) sessionTTL() time.Duration {
	return time.Duration(s.config.SessionMaxAge) * time.Second
}

// generateToken は160bitの暗号乱数をhexエンコードしたトークンを生成する。
func generateToken() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
