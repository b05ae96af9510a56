package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"epidash/internal/logging"
)

const (
	scanBufferSize  = 64 * 1024
	scanMaxLineSize = 1024 * 1024

	// DefaultPollInterval is how often Follow checks the file for new lines.
	DefaultPollInterval = 250 * time.Millisecond
)

// Filter keeps lines for a single refresh cycle. An empty CycleID keeps every line.
type Filter struct {
	CycleID string
}

// Match reports whether line belongs to the filtered cycle. Console lines
// carry "#<id>" in their header; JSON lines carry a cycle_id field.
func (f Filter) Match(line string) bool {
	id := strings.TrimSpace(f.CycleID)
	if id == "" {
		return true
	}
	tag := "#" + id
	for rest := line; ; {
		i := strings.Index(rest, tag)
		if i < 0 {
			break
		}
		rest = rest[i+len(tag):]
		if rest == "" || rest[0] == ' ' || rest[0] == ':' {
			return true
		}
	}
	return strings.Contains(line, `"`+logging.FieldCycleID+`":"`+id+`"`)
}

// TailResult holds the lines read and the byte offset to resume from.
type TailResult struct {
	Lines  []string
	Offset int64
}

// Tail returns up to limit trailing lines of path that pass filter. A missing
// file is not an error; the dashboard creates it on first start.
func Tail(path string, limit int, filter Filter) (TailResult, error) {
	file, err := openLog(path)
	if err != nil || file == nil {
		return TailResult{}, err
	}
	defer file.Close()

	var ring []string
	if limit > 0 {
		ring = make([]string, 0, limit)
	}
	offset, err := scan(file, func(line string) {
		if limit <= 0 || !filter.Match(line) {
			return
		}
		if len(ring) == limit {
			copy(ring, ring[1:])
			ring = ring[:limit-1]
		}
		ring = append(ring, line)
	})
	if err != nil {
		return TailResult{}, err
	}
	return TailResult{Lines: ring, Offset: offset}, nil
}

// ReadFrom returns every filtered line written after offset. An offset past
// the end of the file means it was truncated, so reading restarts at zero.
func ReadFrom(path string, offset int64, filter Filter) (TailResult, error) {
	file, err := openLog(path)
	if err != nil || file == nil {
		return TailResult{Offset: 0}, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return TailResult{Offset: offset}, fmt.Errorf("stat log file: %w", err)
	}
	if offset < 0 || offset > info.Size() {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return TailResult{Offset: offset}, fmt.Errorf("seek log file: %w", err)
	}

	var lines []string
	read, err := scan(file, func(line string) {
		if filter.Match(line) {
			lines = append(lines, line)
		}
	})
	if err != nil {
		return TailResult{Offset: offset}, err
	}
	return TailResult{Lines: lines, Offset: offset + read}, nil
}

// Follow polls path from offset and hands each batch of new lines to emit
// until ctx is cancelled. Cancellation is a clean stop and returns nil.
func Follow(ctx context.Context, path string, offset int64, filter Filter, every time.Duration, emit func([]string)) error {
	if every <= 0 {
		every = DefaultPollInterval
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		result, err := ReadFrom(path, offset, filter)
		if err != nil {
			return err
		}
		offset = result.Offset
		if len(result.Lines) > 0 {
			emit(result.Lines)
		}
	}
}

func openLog(path string) (*os.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("log path %q is a directory", path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return file, nil
}

// scan consumes complete lines only. A trailing partial line is left for the
// next read, and the returned count covers consumed bytes.
func scan(r io.Reader, fn func(string)) (int64, error) {
	reader := bufio.NewReaderSize(r, scanBufferSize)
	var consumed int64
	for {
		line, err := reader.ReadString('\n')
		if err == nil {
			consumed += int64(len(line))
			if len(line) > scanMaxLineSize {
				line = line[:scanMaxLineSize]
			}
			fn(strings.TrimRight(line, "\r\n"))
			continue
		}
		if errors.Is(err, io.EOF) {
			return consumed, nil
		}
		return consumed, fmt.Errorf("read log file: %w", err)
	}
}
