package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"epidash/internal/config"
	"epidash/internal/feeds"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail: %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckBackend_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != feeds.EndpointSummary {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total_cases":1}`))
	}))
	defer srv.Close()

	result := CheckBackend(context.Background(), srv.URL+"/", time.Second)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckBackend_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	result := CheckBackend(context.Background(), srv.URL, time.Second)
	if result.Passed {
		t.Fatal("expected failure for 500")
	}
	if !strings.Contains(result.Detail, "HTTP 500") {
		t.Fatalf("unexpected detail: %q", result.Detail)
	}
}

func TestCheckBackend_RejectedPayloads(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"error envelope", `{"error":"数据加载失败"}`, "backend error: 数据加载失败"},
		{"negative count", `{"total_cases":-1}`, "invalid payload"},
		{"fractional count", `{"total_cases":1.5}`, "invalid payload"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			result := CheckBackend(context.Background(), srv.URL, time.Second)
			if result.Passed {
				t.Fatal("expected failure")
			}
			if !strings.Contains(result.Detail, tc.want) {
				t.Fatalf("expected %q in detail, got %q", tc.want, result.Detail)
			}
		})
	}
}

func TestCheckBackend_MissingURL(t *testing.T) {
	result := CheckBackend(context.Background(), "  ", time.Second)
	if result.Passed || result.Detail != "missing url" {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestCheckBackend_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	url := srv.URL
	srv.Close()

	result := CheckBackend(context.Background(), url, time.Second)
	if result.Passed {
		t.Fatal("expected failure for closed server")
	}
}

func TestRunAllSkipsExportWhenDisabled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.API.BaseURL = srv.URL
	cfg.Logging.Dir = t.TempDir()
	cfg.Export.Enabled = false

	results := RunAll(context.Background(), &cfg)
	if len(results) != 2 {
		t.Fatalf("expected log dir and backend checks, got %#v", results)
	}
	for _, r := range results {
		if !r.Passed {
			t.Fatalf("expected %s to pass: %s", r.Name, r.Detail)
		}
	}

	cfg.Export.Enabled = true
	cfg.Export.Dir = filepath.Join(t.TempDir(), "missing")
	results = RunAll(context.Background(), &cfg)
	if len(results) != 3 {
		t.Fatalf("expected export check to be added, got %#v", results)
	}
	if results[1].Name != "Export directory" || results[1].Passed {
		t.Fatalf("expected failing export directory check, got %#v", results[1])
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatalf("expected nil results, got %#v", results)
	}
}
