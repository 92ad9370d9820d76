// Package imagesearch はUnsplash画像検索APIとの連携を提供する。
// 旅行の場所文字列から代表画像を検索し、生のJSONレスポンスを返す。
// 画像検索はベストエフォートの装飾であり、失敗してもリクエスト全体を失敗させない
// 判断は呼び出し側が行う。
package imagesearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/doyensec/safeurl"
)

// defaultEndpoint はUnsplashのランダム画像検索APIのエンドポイント。
const defaultEndpoint = "https://api.unsplash.com/photos/random"

// maxResponseSize はレスポンスボディの読み取り上限（1MB）。
const maxResponseSize = 1 << 20

// Searcher は場所文字列による画像検索のインターフェース。
type Searcher interface {
	// Search はqueryで画像を検索し、APIの生JSONレスポンスを返す。
	// 検索が無効（アクセスキー未設定）の場合はnilデータとnilエラーを返す。
	Search(ctx context.Context, query string) ([]byte, error)
}

// MetricsRecorder は画像検索の結果を記録するインターフェース。
type MetricsRecorder interface {
	RecordImageSearchSuccess()
	RecordImageSearchFailure(reason string)
	RecordImageSearchLatency(duration time.Duration)
}

// Client はUnsplash APIのクライアント。
type Client struct {
	httpClient *http.Client
	accessKey  string
	logger     *slog.Logger
	metrics    MetricsRecorder
	endpoint   string // テスト用にエンドポイントを差し替え可能
}

// NewClient はClientの新しいインスタンスを生成する。
// accessKeyが空の場合、検索は無効として扱われる（起動時に1回ログに残す）。
// metricsはnilを許容する。
func NewClient(httpClient *http.Client, accessKey string, logger *slog.Logger, metrics MetricsRecorder) *Client {
	if accessKey == "" {
		logger.Warn("UNSPLASH_ACCESS_KEY is not set, image search is disabled")
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Client{
		httpClient: httpClient,
		accessKey:  accessKey,
		logger:     logger,
		metrics:    metrics,
		endpoint:   defaultEndpoint,
	}
}

// NewSafeClient は外部APIアクセス用のHTTPクライアントを生成する。
// safeurlによりプライベートIP・ループバック・メタデータIPへのリクエストが
// ブロックされ、タイムアウトが強制される。
func NewSafeClient(timeout time.Duration) *http.Client {
	config := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("https").
		SetAllowedPorts(443).
		Build()

	return safeurl.Client(config).Client
}

// Search はqueryで画像を検索し、APIの生JSONレスポンスを返す。
// タイムアウトを含む失敗はエラーとして返す（呼び出し元が「画像なし」への縮退を判断する）。
func (c *Client) Search(ctx context.Context, query string) ([]byte, error) {
	if c.accessKey == "" {
		return nil, nil
	}

	start := time.Now()
	data, err := c.search(ctx, query)
	c.metrics.RecordImageSearchLatency(time.Since(start))

	if err != nil {
		c.metrics.RecordImageSearchFailure(failureReason(err))
		c.logger.Warn("image search failed",
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.metrics.RecordImageSearchSuccess()
	return data, nil
}

func (c *Client) search(ctx context.Context, query string) ([]byte, error) {
	reqURL, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse endpoint URL: %w", err)
	}

	q := reqURL.Query()
	q.Set("query", query)
	q.Set("per_page", "1")
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept-Version", "v1")
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image search API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// 生JSONとしてそのままキャッシュするため、妥当なJSONであることだけを確認する
	if !json.Valid(body) {
		return nil, fmt.Errorf("image search API returned invalid JSON")
	}

	return body, nil
}

// failureReason はメトリクスラベル用の失敗分類を返す。
func failureReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "error"
}

// nopMetrics はメトリクス未接続時のフォールバック。
type nopMetrics struct{}

func (nopMetrics) RecordImageSearchSuccess()                    {}
func (nopMetrics) RecordImageSearchFailure(reason string)       {}
func (nopMetrics) RecordImageSearchLatency(time.Duration)       {}

// compile-time interface check
var _ Searcher = (*Client)(nil)
