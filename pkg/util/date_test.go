package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	got := ParseTimeDefault("not a time", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestClampDuration(t *testing.T) {
	if got := ClampDuration(5*time.Second, 15*time.Second, time.Minute); got != 15*time.Second {
		t.Fatalf("expected lower bound, got %v", got)
	}
	if got := ClampDuration(time.Hour, 15*time.Second, time.Minute); got != time.Minute {
		t.Fatalf("expected upper bound, got %v", got)
	}
	if got := ClampDuration(30*time.Second, 15*time.Second, time.Minute); got != 30*time.Second {
		t.Fatalf("expected unchanged, got %v", got)
	}
}
