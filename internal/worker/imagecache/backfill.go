// Package imagecache は旅行の画像キャッシュをバックフィルするジョブを提供する。
// locationを持つが画像検索に失敗した（または検索が無効だった）旅行を
// 定期バッチで拾い直し、画像検索の結果をキャッシュする。
package imagecache

import (
	"context"
	"log/slog"
	"time"

	"github.com/hitoshi/tripman/internal/imagesearch"
	"github.com/hitoshi/tripman/internal/repository"
)

// defaultBatchSize は1回のバックフィルで処理する旅行数の上限。
const defaultBatchSize = 50

// BackfillJob は画像キャッシュのバックフィルジョブ。
// 定期実行のバッチジョブとして設計されており、冪等な処理を保証する。
type BackfillJob struct {
	tripRepo  repository.TripRepository
	searcher  imagesearch.Searcher
	logger    *slog.Logger
	BatchSize int
}

// NewBackfillJob は新しいBackfillJobを生成する。
func NewBackfillJob(tripRepo repository.TripRepository, searcher imagesearch.Searcher, logger *slog.Logger) *BackfillJob {
	return &BackfillJob{
		tripRepo:  tripRepo,
		searcher:  searcher,
		logger:    logger,
		BatchSize: defaultBatchSize,
	}
}

// Start は指定間隔のティッカーでジョブを起動する。
// コンテキストがキャンセルされるまで実行を継続する。
func (j *BackfillJob) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	j.logger.Info("image backfill job started",
		slog.Duration("interval", interval),
		slog.Int("batch_size", j.BatchSize),
	)

	// 起動直後に1回実行
	if err := j.Run(ctx); err != nil {
		j.logger.Error("image backfill run failed", slog.String("error", err.Error()))
	}

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("image backfill job stopped")
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Error("image backfill run failed", slog.String("error", err.Error()))
			}
		}
	}
}

// Run は画像キャッシュが空の旅行を1バッチ処理する。
// 個々の検索失敗はログに記録して続行し、バッチ全体は失敗させない。
// 冪等: 対象がない場合でもエラーにならない。
func (j *BackfillJob) Run(ctx context.Context) error {
	start := time.Now()

	trips, err := j.tripRepo.ListMissingImages(ctx, j.BatchSize)
	if err != nil {
		return err
	}

	if len(trips) == 0 {
		return nil
	}

	filled := 0
	for _, trip := range trips {
		if trip.Location == nil || *trip.Location == "" {
			continue
		}

		blob, err := j.searcher.Search(ctx, *trip.Location)
		if err != nil {
			j.logger.Warn("image backfill search failed",
				slog.String("trip_id", trip.ID),
				slog.String("location", *trip.Location),
				slog.String("error", err.Error()),
			)
			continue
		}
		if blob == nil {
			// 検索が無効（APIキー未設定）の場合は以降の旅行も埋まらない
			j.logger.Info("image search is disabled, skipping backfill")
			return nil
		}

		if err := j.tripRepo.UpdateImageData(ctx, trip.ID, blob); err != nil {
			j.logger.Error("failed to cache image data",
				slog.String("trip_id", trip.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		filled++
	}

	j.logger.Info("image backfill run completed",
		slog.Int("candidate_count", len(trips)),
		slog.Int("filled_count", filled),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)

	return nil
}
