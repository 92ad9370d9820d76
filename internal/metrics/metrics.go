// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラー・サービス層・ワーカーから利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordUserRegistered()
	RecordTripCreated()
	RecordImageSearchSuccess()
	RecordImageSearchFailure(reason string)
	RecordImageSearchLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus         *prometheus.CounterVec
	requestLatency     prometheus.Histogram
	usersRegistered    prometheus.Counter
	tripsCreated       prometheus.Counter
	imageSearchOK      prometheus.Counter
	imageSearchFail    *prometheus.CounterVec
	imageSearchLatency prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tripman_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tripman_request_latency_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		usersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tripman_users_registered_total",
			Help: "登録されたユーザーの合計数",
		}),
		tripsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tripman_trips_created_total",
			Help: "作成された旅行の合計数",
		}),
		imageSearchOK: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tripman_image_search_success_total",
			Help: "画像検索成功の合計数",
		}),
		imageSearchFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tripman_image_search_fail_total",
			Help: "画像検索失敗の理由別合計数",
		}, []string{"reason"}),
		imageSearchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tripman_image_search_latency_seconds",
			Help:    "画像検索のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.usersRegistered,
		c.tripsCreated,
		c.imageSearchOK,
		c.imageSearchFail,
		c.imageSearchLatency,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordUserRegistered はユーザー登録を記録する。
func (c *Collector) RecordUserRegistered() {
	c.usersRegistered.Inc()
}

// RecordTripCreated は旅行作成を記録する。
func (c *Collector) RecordTripCreated() {
	c.tripsCreated.Inc()
}

// RecordImageSearchSuccess は画像検索成功を記録する。
func (c *Collector) RecordImageSearchSuccess() {
	c.imageSearchOK.Inc()
}

// RecordImageSearchFailure は画像検索失敗を理由付きで記録する。
func (c *Collector) RecordImageSearchFailure(reason string) {
	c.imageSearchFail.WithLabelValues(reason).Inc()
}

// RecordImageSearchLatency は画像検索のレイテンシを記録する。
func (c *Collector) RecordImageSearchLatency(duration time.Duration) {
	c.imageSearchLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
