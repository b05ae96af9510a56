package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"epidash/internal/feeds"
	"epidash/internal/stats"
)

const defaultBackendTimeout = 5 * time.Second

// CheckBackend fetches the summary dataset the same way a refresh cycle does,
// so a backend that answers with an error envelope or an invalid payload fails
// here too.
func CheckBackend(ctx context.Context, baseURL string, timeout time.Duration) Result {
	const name = "Backend"

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return Result{Name: name, Detail: "missing url"}
	}
	if timeout <= 0 {
		timeout = defaultBackendTimeout
	}

	client, err := feeds.New(base, feeds.WithHTTPClient(&http.Client{Timeout: timeout}))
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", base, err)}
	}

	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result := client.Summary(checkCtx)
	if result.OK() {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (reachable)", base)}
	}
	return Result{Name: name, Detail: fmt.Sprintf("%s (%s)", base, summarizeFetchError(result.Err))}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

func summarizeFetchError(err error) string {
	if code := feeds.StatusCode(err); code != 0 {
		return fmt.Sprintf("HTTP %d", code)
	}
	var appErr *feeds.AppError
	if errors.As(err, &appErr) {
		return "backend error: " + appErr.Message
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timed out"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timed out"
	}
	if errors.Is(err, stats.ErrInvalid) {
		return "invalid payload: " + err.Error()
	}
	return "unreachable: " + err.Error()
}
