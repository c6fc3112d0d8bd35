package clock

import (
	"testing"
	"time"
)

func TestSystemClock_UTCMillis(t *testing.T) {
	now := NewSystem().Now()
	if now.Location() != time.UTC {
		t.Errorf("expected UTC, got %s", now.Location())
	}
	if now.Nanosecond()%int(time.Millisecond) != 0 {
		t.Errorf("expected millisecond precision, got %d ns", now.Nanosecond())
	}
}

func TestManualClock(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewManual(start)

	if !c.Now().Equal(start) {
		t.Fatalf("Now() = %s, want %s", c.Now(), start)
	}

	c.Advance(90 * time.Minute)
	if want := start.Add(90 * time.Minute); !c.Now().Equal(want) {
		t.Errorf("after Advance, Now() = %s, want %s", c.Now(), want)
	}

	later := start.Add(48 * time.Hour)
	c.Set(later)
	if !c.Now().Equal(later) {
		t.Errorf("after Set, Now() = %s, want %s", c.Now(), later)
	}
}
