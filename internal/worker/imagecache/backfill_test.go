package imagecache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/hitoshi/tripman/internal/model"
)

type mockTripRepo struct {
	listMissingImagesFn func(ctx context.Context, limit int) ([]*model.Trip, error)
	updateImageDataFn   func(ctx context.Context, tripID string, data []byte) error
}

func (m *mockTripRepo) FindByID(ctx context.Context, id string) (*model.Trip, error) {
	return nil, nil
}
func (m *mockTripRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Trip, error) {
	return nil, nil
}
func (m *mockTripRepo) ListEntries(ctx context.Context, tripID string) ([]*model.Entry, error) {
	return nil, nil
}
func (m *mockTripRepo) Create(ctx context.Context, trip *model.Trip, entries []*model.Entry) error {
	return nil
}
func (m *mockTripRepo) ReplaceContents(ctx context.Context, trip *model.Trip, entries []*model.Entry) error {
	return nil
}
func (m *mockTripRepo) Delete(ctx context.Context, tripID string) error {
	return nil
}
func (m *mockTripRepo) ListMissingImages(ctx context.Context, limit int) ([]*model.Trip, error) {
	return m.listMissingImagesFn(ctx, limit)
}
func (m *mockTripRepo) UpdateImageData(ctx context.Context, tripID string, data []byte) error {
	return m.updateImageDataFn(ctx, tripID, data)
}

type mockSearcher struct {
	searchFn func(ctx context.Context, query string) ([]byte, error)
}

func (m *mockSearcher) Search(ctx context.Context, query string) ([]byte, error) {
	return m.searchFn(ctx, query)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func locPtr(s string) *string { return &s }

// TestBackfillJob_FillsMissingImages は画像キャッシュが空の旅行に
// 検索結果が書き込まれることを検証する。
func TestBackfillJob_FillsMissingImages(t *testing.T) {
	blob := []byte(`{"urls":{"regular":"https://example.com/a.jpg"},"user":{"name":"Aiko"}}`)
	updated := map[string][]byte{}

	repo := &mockTripRepo{
		listMissingImagesFn: func(ctx context.Context, limit int) ([]*model.Trip, error) {
			return []*model.Trip{
				{ID: "trip-1", Location: locPtr("Kyoto")},
				{ID: "trip-2", Location: locPtr("Osaka")},
			}, nil
		},
		updateImageDataFn: func(ctx context.Context, tripID string, data []byte) error {
			updated[tripID] = data
			return nil
		},
	}
	searcher := &mockSearcher{
		searchFn: func(ctx context.Context, query string) ([]byte, error) {
			return blob, nil
		},
	}

	job := NewBackfillJob(repo, searcher, testLogger())
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(updated) != 2 {
		t.Fatalf("updated %d trips, want 2", len(updated))
	}
	if string(updated["trip-1"]) != string(blob) {
		t.Errorf("trip-1 image data = %s", updated["trip-1"])
	}
}

// TestBackfillJob_SearchFailureContinues は個々の検索失敗がバッチ全体を
// 失敗させないことを検証する。
func TestBackfillJob_SearchFailureContinues(t *testing.T) {
	updated := map[string][]byte{}

	repo := &mockTripRepo{
		listMissingImagesFn: func(ctx context.Context, limit int) ([]*model.Trip, error) {
			return []*model.Trip{
				{ID: "trip-1", Location: locPtr("Kyoto")},
				{ID: "trip-2", Location: locPtr("Osaka")},
			}, nil
		},
		updateImageDataFn: func(ctx context.Context, tripID string, data []byte) error {
			updated[tripID] = data
			return nil
		},
	}
	searcher := &mockSearcher{
		searchFn: func(ctx context.Context, query string) ([]byte, error) {
			if query == "Kyoto" {
				return nil, errors.New("timeout")
			}
			return []byte(`{"urls":{"regular":"u"},"user":{"name":"n"}}`), nil
		},
	}

	job := NewBackfillJob(repo, searcher, testLogger())
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if _, exists := updated["trip-1"]; exists {
		t.Error("failed search must not update image data")
	}
	if _, exists := updated["trip-2"]; !exists {
		t.Error("trip-2 should still be backfilled")
	}
}

// TestBackfillJob_DisabledSearchStopsEarly は検索無効時（APIキー未設定で
// nilが返る）にバッチを打ち切ることを検証する。
func TestBackfillJob_DisabledSearchStopsEarly(t *testing.T) {
	repo := &mockTripRepo{
		listMissingImagesFn: func(ctx context.Context, limit int) ([]*model.Trip, error) {
			return []*model.Trip{{ID: "trip-1", Location: locPtr("Kyoto")}}, nil
		},
		updateImageDataFn: func(ctx context.Context, tripID string, data []byte) error {
			t.Error("UpdateImageData must not be called when search is disabled")
			return nil
		},
	}
	searcher := &mockSearcher{
		searchFn: func(ctx context.Context, query string) ([]byte, error) {
			return nil, nil
		},
	}

	job := NewBackfillJob(repo, searcher, testLogger())
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
}

// TestBackfillJob_NoCandidates は対象がない場合に何もせず成功することを検証する。
func TestBackfillJob_NoCandidates(t *testing.T) {
	repo := &mockTripRepo{
		listMissingImagesFn: func(ctx context.Context, limit int) ([]*model.Trip, error) {
			if limit != defaultBatchSize {
				t.Errorf("limit = %d, want %d", limit, defaultBatchSize)
			}
			return nil, nil
		},
	}
	searcher := &mockSearcher{
		searchFn: func(ctx context.Context, query string) ([]byte, error) {
			t.Error("Search must not be called without candidates")
			return nil, nil
		},
	}

	job := NewBackfillJob(repo, searcher, testLogger())
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
}
