package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string) (float64, bool) {
	t.Helper()
	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() == name {
			total := 0.0
			for _, m := range mf.GetMetric() {
				total += m.GetCounter().GetValue()
			}
			return total, true
		}
	}
	return 0, false
}

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestRecordHTTPStatus_IncrementsCounterWithLabel はHTTPステータスカウンタがラベル付きで増加することを検証する。
func TestRecordHTTPStatus_IncrementsCounterWithLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(404)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "tripman_http_status_total" {
			found = true
			if len(mf.GetMetric()) != 2 {
				t.Fatalf("expected 2 labeled metrics, got %d", len(mf.GetMetric()))
			}
			for _, m := range mf.GetMetric() {
				label := m.GetLabel()[0].GetValue()
				val := m.GetCounter().GetValue()
				switch label {
				case "200":
					if val != 2 {
						t.Errorf("status 200 count = %v, want 2", val)
					}
				case "404":
					if val != 1 {
						t.Errorf("status 404 count = %v, want 1", val)
					}
				default:
					t.Errorf("unexpected status label %q", label)
				}
			}
		}
	}
	if !found {
		t.Error("tripman_http_status_total metric not found")
	}
}

// TestRecordUserRegistered_IncrementsCounter はユーザー登録カウンタが増加することを検証する。
func TestRecordUserRegistered_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordUserRegistered()
	c.RecordUserRegistered()

	val, found := counterValue(t, reg, "tripman_users_registered_total")
	if !found {
		t.Fatal("tripman_users_registered_total metric not found")
	}
	if val != 2 {
		t.Errorf("users_registered_total = %v, want 2", val)
	}
}

// TestRecordTripCreated_IncrementsCounter は旅行作成カウンタが増加することを検証する。
func TestRecordTripCreated_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordTripCreated()

	val, found := counterValue(t, reg, "tripman_trips_created_total")
	if !found {
		t.Fatal("tripman_trips_created_total metric not found")
	}
	if val != 1 {
		t.Errorf("trips_created_total = %v, want 1", val)
	}
}

// TestRecordImageSearch_Counters は画像検索の成功・失敗カウンタを検証する。
func TestRecordImageSearch_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordImageSearchSuccess()
	c.RecordImageSearchFailure("timeout")
	c.RecordImageSearchFailure("http_error")

	ok, found := counterValue(t, reg, "tripman_image_search_success_total")
	if !found || ok != 1 {
		t.Errorf("image_search_success_total = %v (found=%v), want 1", ok, found)
	}
	fail, found := counterValue(t, reg, "tripman_image_search_fail_total")
	if !found || fail != 2 {
		t.Errorf("image_search_fail_total = %v (found=%v), want 2", fail, found)
	}
}

// TestRecordLatencies_ObserveHistograms はレイテンシのヒストグラムに値が記録されることを検証する。
func TestRecordLatencies_ObserveHistograms(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequestLatency(100 * time.Millisecond)
	c.RecordImageSearchLatency(2 * time.Second)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	for _, name := range []string{"tripman_request_latency_seconds", "tripman_image_search_latency_seconds"} {
		found := false
		for _, mf := range metrics {
			if mf.GetName() == name {
				found = true
				count := mf.GetMetric()[0].GetHistogram().GetSampleCount()
				if count != 1 {
					t.Errorf("%s sample count = %d, want 1", name, count)
				}
			}
		}
		if !found {
			t.Errorf("%s metric not found", name)
		}
	}
}

// TestHandler_ServesMetrics は/metricsエンドポイントがPrometheus形式で
// メトリクスを公開することを検証する。
func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordHTTPStatus(200)

	server := httptest.NewServer(SetupMetricsRoute(reg))
	defer server.Close()

	resp, err := http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatalf("failed to scrape metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if !strings.Contains(string(body), "tripman_http_status_total") {
		t.Error("scrape output should contain tripman_http_status_total")
	}
}

// TestCollector_ImplementsMetricsCollectorInterface はCollectorが
// MetricsCollectorインターフェースを実装することを検証する。
func TestCollector_ImplementsMetricsCollectorInterface(t *testing.T) {
	reg := prometheus.NewRegistry()
	var _ MetricsCollector = NewCollector(reg)
}
