// Package trip は旅行と旅程エントリのビジネスロジックを提供する。
// 内容の置き換えは全削除＋再挿入の全置換方式で、部分更新は存在しない。
package trip

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/tripman/internal/imagesearch"
	"github.com/hitoshi/tripman/internal/model"
	"github.com/hitoshi/tripman/internal/repository"
	"github.com/hitoshi/tripman/internal/security"
)

// Contents は旅行とそのエントリの組。
type Contents struct {
	Trip    *model.Trip
	Entries []*model.Entry
}

// Service は旅行のCRUDと内容置き換えを提供する。
type Service struct {
	tripRepo  repository.TripRepository
	searcher  imagesearch.Searcher
	sanitizer security.FieldSanitizerService
	logger    *slog.Logger
}

// NewService はServiceを生成する。
func NewService(tripRepo repository.TripRepository, searcher imagesearch.Searcher, sanitizer security.FieldSanitizerService, logger *slog.Logger) *Service {
	return &Service{
		tripRepo:  tripRepo,
		searcher:  searcher,
		sanitizer: sanitizer,
		logger:    logger,
	}
}

// CreateTrip は空の旅行を作成し、ペイロードの内容を反映して永続化する。
func (s *Service) CreateTrip(ctx context.Context, userID string, payload ContentPayload) (*Contents, error) {
	now := time.Now()
	trip := &model.Trip{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	entries, err := s.applyPayload(ctx, trip, payload)
	if err != nil {
		return nil, err
	}

	if err := s.tripRepo.Create(ctx, trip, entries); err != nil {
		s.logger.Error("failed to create trip",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.logger.Info("trip created",
		slog.String("trip_id", trip.ID),
		slog.String("user_id", userID),
		slog.Int("entry_count", len(entries)))

	return &Contents{Trip: trip, Entries: entries}, nil
}

// UpdateTrip は旅行の内容をペイロードで丸ごと置き換える。
// 既存エントリは全削除され、ペイロードのエントリが与えられた順に挿入される。
// 一連の変更は単一トランザクションで適用され、失敗時は一切反映されない。
func (s *Service) UpdateTrip(ctx context.Context, userID, tripID string, payload ContentPayload) (*Contents, error) {
	trip, err := s.findOwnedTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	entries, err := s.applyPayload(ctx, trip, payload)
	if err != nil {
		return nil, err
	}

	if err := s.tripRepo.ReplaceContents(ctx, trip, entries); err != nil {
		s.logger.Error("failed to replace trip contents",
			slog.String("trip_id", tripID),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.logger.Info("trip contents replaced",
		slog.String("trip_id", tripID),
		slog.Int("entry_count", len(entries)))

	return &Contents{Trip: trip, Entries: entries}, nil
}

// GetTrip は旅行とそのエントリを取得する。所有者以外のアクセスは拒否される。
func (s *Service) GetTrip(ctx context.Context, userID, tripID string) (*Contents, error) {
	trip, err := s.findOwnedTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	entries, err := s.tripRepo.ListEntries(ctx, tripID)
	if err != nil {
		return nil, err
	}

	return &Contents{Trip: trip, Entries: entries}, nil
}

// ListTrips はユーザーが所有する旅行の一覧をエントリ込みで返す。
func (s *Service) ListTrips(ctx context.Context, userID string) ([]*Contents, error) {
	trips, err := s.tripRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]*Contents, 0, len(trips))
	for _, trip := range trips {
		entries, err := s.tripRepo.ListEntries(ctx, trip.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, &Contents{Trip: trip, Entries: entries})
	}
	return result, nil
}

// DeleteTrip は旅行とそのエントリを削除する。
func (s *Service) DeleteTrip(ctx context.Context, userID, tripID string) error {
	if _, err := s.findOwnedTrip(ctx, userID, tripID); err != nil {
		return err
	}

	if err := s.tripRepo.Delete(ctx, tripID); err != nil {
		s.logger.Error("failed to delete trip",
			slog.String("trip_id", tripID),
			slog.String("error", err.Error()))
		return err
	}

	s.logger.Info("trip deleted", slog.String("trip_id", tripID))
	return nil
}

// findOwnedTrip は旅行を取得し、userIDが所有者であることを確認する。
func (s *Service) findOwnedTrip(ctx context.Context, userID, tripID string) (*model.Trip, error) {
	trip, err := s.tripRepo.FindByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, model.NewTripNotFoundError()
	}
	if trip.UserID != userID {
		s.logger.Warn("trip access denied",
			slog.String("trip_id", tripID),
			slog.String("user_id", userID))
		return nil, model.NewForbiddenTripError()
	}
	return trip, nil
}

// applyPayload はペイロードをtripに反映し、挿入すべきエントリ列を構築する。
// name は未指定・空ならデフォルト名になり、start は検証なしでそのまま反映される。
// location は非空で指定された場合のみ更新され、そのとき画像検索が実行される。
// location 未指定なら既存のlocationと画像キャッシュは変更されない。
func (s *Service) applyPayload(ctx context.Context, trip *model.Trip, payload ContentPayload) ([]*model.Entry, error) {
	name := ""
	if payload.Name != nil {
		name = s.sanitizer.Sanitize(*payload.Name)
	}
	if name == "" {
		name = model.DefaultTripName
	}
	trip.Name = name
	trip.Start = payload.Start

	now := time.Now()
	entries := make([]*model.Entry, 0, len(payload.Entries))
	for i, e := range payload.Entries {
		if e.Description == nil || e.Kind == nil || e.DayIndex == nil {
			return nil, model.NewValidationError("Entry requires description, kind and day_index")
		}
		entries = append(entries, &model.Entry{
			ID:          uuid.New().String(),
			TripID:      trip.ID,
			Description: s.sanitizer.Sanitize(*e.Description),
			Kind:        s.sanitizer.Sanitize(*e.Kind),
			Completed:   false,
			DayIndex:    *e.DayIndex,
			Position:    i,
			CreatedAt:   now,
		})
	}

	if payload.Location != nil {
		location := s.sanitizer.Sanitize(*payload.Location)
		if location != "" {
			trip.Location = &location
			trip.ImageData = s.lookupImage(ctx, location)
		}
	}

	return entries, nil
}

// lookupImage は画像検索を実行し、生のJSONレスポンスを返す。
// 画像は装飾であり必須コンテンツではないため、失敗はnilとして扱い
// リクエスト全体を失敗させない。
func (s *Service) lookupImage(ctx context.Context, location string) []byte {
	if s.searcher == nil {
		return nil
	}
	blob, err := s.searcher.Search(ctx, location)
	if err != nil {
		s.logger.Warn("image search failed",
			slog.String("location", location),
			slog.String("error", err.Error()))
		return nil
	}
	return blob
}
