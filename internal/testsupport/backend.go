package testsupport

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

// Fixture payloads matching the backend contract.
const (
	SummaryJSON  = `{"total_cases":12345,"avg_daily":50,"max_daily":200,"peak_date":"2022-03-03","total_recovered":10000,"total_deaths":100}`
	DailyJSON    = `{"dates":["01-01","01-02"],"cases":[5,10]}`
	RegionalJSON = `{"regions":["离岛区","中西区","沙田区"],"cases":[3,7,12]}`
	RiskJSON     = `{"risk_levels":["低风险","中风险","高风险","未知"],"counts":[10,5,2,1]}`
	MonthlyJSON  = `{"months":["2022-01","2022-02"],"new_cases":[100,300],"recovered":[80,250],"deaths":[1,4]}`
)

// Backend is a fixture statistics server whose per-endpoint responses can be
// swapped while a test runs.
type Backend struct {
	Server *httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	hits     map[string]*atomic.Int64
}

// NewBackend starts a fixture server serving the default payloads.
func NewBackend(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{
		handlers: map[string]http.HandlerFunc{},
		hits:     map[string]*atomic.Int64{},
	}
	defaults := map[string]string{
		"/api/summary_stats":       SummaryJSON,
		"/api/daily_trend":         DailyJSON,
		"/api/regional_comparison": RegionalJSON,
		"/api/risk_distribution":   RiskJSON,
		"/api/monthly_statistics":  MonthlyJSON,
	}
	for path, body := range defaults {
		b.handlers[path] = JSON(http.StatusOK, body)
		b.hits[path] = &atomic.Int64{}
	}

	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		handler, ok := b.handlers[r.URL.Path]
		counter := b.hits[r.URL.Path]
		b.mu.Unlock()
		if !ok {
			JSON(http.StatusNotFound, `{"error":"页面未找到"}`)(w, r)
			return
		}
		counter.Add(1)
		handler(w, r)
	}))
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the fixture base URL.
func (b *Backend) URL() string {
	return b.Server.URL
}

// Handle replaces the handler for path.
func (b *Backend) Handle(path string, handler http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[path] = handler
	if _, ok := b.hits[path]; !ok {
		b.hits[path] = &atomic.Int64{}
	}
}

// Hits reports how many requests path has served.
func (b *Backend) Hits(path string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if counter, ok := b.hits[path]; ok {
		return counter.Load()
	}
	return 0
}

// JSON returns a handler writing body with the given status.
func JSON(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

// Hijack returns a handler that drops the connection, simulating a network failure.
func Hijack(t testing.TB) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		hj, ok := w.(http.Hijacker)
		if !ok {
			t.Errorf("response writer does not support hijacking")
			return
		}
		conn, _, err := hj.Hijack()
		if err != nil {
			t.Errorf("hijack: %v", err)
			return
		}
		_ = conn.Close()
	}
}
