package feeds_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"epidash/internal/feeds"
	"epidash/internal/stats"
	"epidash/internal/testsupport"
)

func newClient(t *testing.T, url string) *feeds.Client {
	t.Helper()
	client, err := feeds.New(url, feeds.WithHTTPClient(&http.Client{Timeout: 2 * time.Second}))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := feeds.New("  "); err == nil {
		t.Fatal("expected error when base url missing")
	}
}

func TestLoadAllDecodesEveryDataset(t *testing.T) {
	backend := testsupport.NewBackend(t)
	client := newClient(t, backend.URL()+"/")

	batch := client.LoadAll(context.Background())
	if failed := batch.Failures(); len(failed) != 0 {
		t.Fatalf("unexpected failures: %v", failed)
	}

	want := stats.Summary{TotalCases: 12345, AvgDaily: 50, MaxDaily: 200, PeakDate: "2022-03-03", TotalRecovered: 10000, TotalDeaths: 100}
	if batch.Summary.Value != want {
		t.Fatalf("unexpected summary: %#v", batch.Summary.Value)
	}
	if got := batch.Daily.Value.Dates; len(got) != 2 || got[0] != "01-01" || got[1] != "01-02" {
		t.Fatalf("unexpected dates: %v", got)
	}
	if got := batch.Daily.Value.Cases; len(got) != 2 || got[0] != 5 || got[1] != 10 {
		t.Fatalf("unexpected cases: %v", got)
	}
	if len(batch.Regional.Value.Regions) != 3 {
		t.Fatalf("unexpected regions: %v", batch.Regional.Value.Regions)
	}
	if batch.Risk.Value.Total() != 18 {
		t.Fatalf("unexpected risk total: %d", batch.Risk.Value.Total())
	}
	if len(batch.Monthly.Value.Deaths) != 2 || batch.Monthly.Value.Deaths[1] != 4 {
		t.Fatalf("unexpected monthly deaths: %v", batch.Monthly.Value.Deaths)
	}
	if batch.Summary.Status != http.StatusOK {
		t.Fatalf("expected status 200 recorded, got %d", batch.Summary.Status)
	}
}

func TestLoadAllIsolatesFailures(t *testing.T) {
	backend := testsupport.NewBackend(t)
	backend.Handle(feeds.EndpointRegional, testsupport.Hijack(t))
	client := newClient(t, backend.URL())

	batch := client.LoadAll(context.Background())

	failed := batch.Failures()
	if len(failed) != 1 || failed[0] != feeds.EndpointRegional {
		t.Fatalf("expected only regional to fail, got %v", failed)
	}
	if batch.Regional.OK() {
		t.Fatal("expected regional result to be error-tagged")
	}
	if !batch.Summary.OK() || !batch.Daily.OK() || !batch.Risk.OK() || !batch.Monthly.OK() {
		t.Fatal("expected the other four datasets to succeed")
	}
}

func TestFetchNonSuccessStatusCarriesStatus(t *testing.T) {
	backend := testsupport.NewBackend(t)
	backend.Handle(feeds.EndpointSummary, testsupport.JSON(http.StatusServiceUnavailable, `{"status":"down"}`))
	client := newClient(t, backend.URL())

	result := client.Summary(context.Background())
	if result.OK() {
		t.Fatal("expected error-tagged result")
	}
	if result.Status != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status: %d", result.Status)
	}
	var statusErr *feeds.StatusError
	if !errors.As(result.Err, &statusErr) {
		t.Fatalf("expected StatusError, got %T", result.Err)
	}
	if feeds.StatusCode(result.Err) != http.StatusServiceUnavailable {
		t.Fatalf("StatusCode mismatch: %d", feeds.StatusCode(result.Err))
	}
	if !strings.Contains(result.Err.Error(), "status: 503") {
		t.Fatalf("unexpected message: %v", result.Err)
	}
}

func TestFetchApplicationErrorObject(t *testing.T) {
	backend := testsupport.NewBackend(t)
	backend.Handle(feeds.EndpointDailyTrend, testsupport.JSON(http.StatusOK, `{"error":"数据加载失败"}`))
	client := newClient(t, backend.URL())

	result := client.LoadAll(context.Background()).Daily
	var appErr *feeds.AppError
	if !errors.As(result.Err, &appErr) {
		t.Fatalf("expected AppError, got %v", result.Err)
	}
	if appErr.Message != "数据加载失败" {
		t.Fatalf("unexpected message: %q", appErr.Message)
	}
	if appErr.Endpoint != feeds.EndpointDailyTrend {
		t.Fatalf("unexpected endpoint: %q", appErr.Endpoint)
	}
}

func TestFetchRejectsMalformedAndInconsistentPayloads(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"malformed", `{"risk_levels":["低风险"`, nil},
		{"mismatched lengths", `{"risk_levels":["低风险","高风险"],"counts":[1]}`, stats.ErrInvalid},
		{"wrong type", `{"risk_levels":"低风险","counts":[1]}`, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			backend := testsupport.NewBackend(t)
			backend.Handle(feeds.EndpointRisk, testsupport.JSON(http.StatusOK, tc.body))
			client := newClient(t, backend.URL())

			result := client.LoadAll(context.Background()).Risk
			if result.OK() {
				t.Fatalf("expected error-tagged result, got %#v", result.Value)
			}
			if tc.want != nil && !errors.Is(result.Err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, result.Err)
			}
			if len(result.Value.RiskLevels) != 0 {
				t.Fatalf("expected zero value on failure, got %#v", result.Value)
			}
		})
	}
}

func TestFetchAcceptsCountsWrittenAsFloats(t *testing.T) {
	backend := testsupport.NewBackend(t)
	backend.Handle(feeds.EndpointDailyTrend, testsupport.JSON(http.StatusOK, `{"dates":["01-01","01-02"],"cases":[5.0,10.0]}`))
	backend.Handle(feeds.EndpointSummary, testsupport.JSON(http.StatusOK, `{"total_cases":1e3,"avg_daily":50.0,"max_daily":200.0,"total_recovered":10000,"total_deaths":100}`))
	backend.Handle(feeds.EndpointRegional, testsupport.JSON(http.StatusOK, `{"regions":["中西区"],"cases":[12.5]}`))
	client := newClient(t, backend.URL())

	batch := client.LoadAll(context.Background())
	if !batch.Daily.OK() {
		t.Fatalf("expected daily trend decoded, got %v", batch.Daily.Err)
	}
	if got := batch.Daily.Value.Cases; len(got) != 2 || got[0] != 5 || got[1] != 10 {
		t.Fatalf("unexpected cases: %v", got)
	}
	if !batch.Summary.OK() || batch.Summary.Value.TotalCases != 1000 || batch.Summary.Value.MaxDaily != 200 {
		t.Fatalf("unexpected summary: %#v err=%v", batch.Summary.Value, batch.Summary.Err)
	}
	if batch.Regional.OK() || !errors.Is(batch.Regional.Err, stats.ErrInvalid) {
		t.Fatalf("expected fractional count rejected, got %v", batch.Regional.Err)
	}
}

func TestFetchHonoursContextCancellation(t *testing.T) {
	backend := testsupport.NewBackend(t)
	client := newClient(t, backend.URL())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch := client.LoadAll(ctx)
	if len(batch.Failures()) != 5 {
		t.Fatalf("expected all fetches to fail on cancelled context, got %v", batch.Failures())
	}
	if !errors.Is(batch.Monthly.Err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", batch.Monthly.Err)
	}
}
