package metrics

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCronJobMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)
	job := "cart-expiry"
	m.ObserveDuration(job, 250*time.Millisecond)
	m.IncSuccess(job)
	m.IncFailure(job)
	m.AddSwept(job, 3)
	m.AddSwept(job, 0)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	expectCounter(t, mfs, "tienda_cron_job_success_total", 1, "job", job)
	expectCounter(t, mfs, "tienda_cron_job_failure_total", 1, "job", job)
	expectCounter(t, mfs, "tienda_cron_rows_swept_total", 3, "job", job)

	if got, err := fetchHistogramSum(mfs, "tienda_cron_job_duration_seconds", "job", job); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestCartMetricsCountsOutcomesAndStock(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCartMetrics(reg)
	m.Observe("increase", "ok")
	m.Observe("increase", "ok")
	m.Observe("increase", "CONFLICT")
	m.AddStock(StockDebit, 4)
	m.AddStock(StockCredit, 1)
	m.AddStock(StockCredit, -2)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	expectCounter(t, mfs, "tienda_cart_operations_total", 2, "outcome", "ok")
	expectCounter(t, mfs, "tienda_cart_operations_total", 1, "outcome", "CONFLICT")
	expectCounter(t, mfs, "tienda_cart_stock_units_total", 4, "direction", StockDebit)
	expectCounter(t, mfs, "tienda_cart_stock_units_total", 1, "direction", StockCredit)
}

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.Observe(http.MethodGet, "/api/carts/{id}", http.StatusOK, 20*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchHistogramSum(mfs, "tienda_http_request_duration_seconds", "route", "/api/carts/{id}"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected positive latency sum, got %f", got)
	}
}

func TestNilRecordersAreNoops(t *testing.T) {
	var cron *CronJobMetrics
	cron.IncSuccess("x")
	cron.ObserveDuration("x", time.Second)
	NewCronJobMetrics(nil).AddSwept("x", 1)

	var cart *CartMetrics
	cart.Observe("add", "ok")
	NewCartMetrics(nil).AddStock(StockDebit, 1)

	var h *HTTPMetrics
	h.Observe(http.MethodGet, "/", 200, time.Second)
}

func expectCounter(t *testing.T, mfs []*dto.MetricFamily, name string, want float64, label, value string) {
	t.Helper()
	got, err := fetchCounterValue(mfs, name, label, value)
	if err != nil {
		t.Fatalf("fetch %s: %v", name, err)
	}
	if got != want {
		t.Fatalf("expected %s{%s=%q}=%v, got %v", name, label, value, want, got)
	}
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
