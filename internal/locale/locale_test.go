package locale_test

import (
	"testing"
	"time"

	"epidash/internal/locale"
)

func TestIntUsesGroupingSeparators(t *testing.T) {
	tests := []struct {
		tag  string
		in   int64
		want string
	}{
		{"zh-CN", 12345, "12,345"},
		{"zh-CN", 100, "100"},
		{"en-US", 1234567, "1,234,567"},
		{"de-DE", 12345, "12.345"},
		{"zh-CN", 0, "0"},
	}
	for _, tc := range tests {
		if got := locale.New(tc.tag).Int(tc.in); got != tc.want {
			t.Fatalf("Int(%s, %d) = %q, want %q", tc.tag, tc.in, got, tc.want)
		}
	}
}

func TestFloorTruncatesFraction(t *testing.T) {
	f := locale.New("zh-CN")
	if got := f.Floor(50.9); got != "50" {
		t.Fatalf("Floor(50.9) = %q", got)
	}
	if got := f.Floor(10000.2); got != "10,000" {
		t.Fatalf("Floor(10000.2) = %q", got)
	}
}

func TestDateTimeFieldOrder(t *testing.T) {
	ts := time.Date(2025, time.March, 22, 9, 5, 7, 0, time.Local)
	tests := []struct {
		tag  string
		want string
	}{
		{"zh-CN", "2025/03/22 09:05:07"},
		{"en-US", "03/22/2025, 09:05:07"},
		{"en-GB", "22/03/2025, 09:05:07"},
		{"fr-FR", "2025-03-22 09:05:07"},
	}
	for _, tc := range tests {
		if got := locale.New(tc.tag).DateTime(ts); got != tc.want {
			t.Fatalf("DateTime(%s) = %q, want %q", tc.tag, got, tc.want)
		}
	}
}

func TestInvalidTagFallsBackToChinese(t *testing.T) {
	f := locale.New("not a tag!!")
	if base, _ := f.Tag().Base(); base.String() != "zh" {
		t.Fatalf("expected zh fallback, got %s", f.Tag())
	}
}
