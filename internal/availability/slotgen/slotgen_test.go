package slotgen

import (
	"testing"
	"time"

	"procal/pkg/model"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("load location %s: %v", name, err)
	}
	return loc
}

func collect(seq func(func(model.Slot) bool)) []model.Slot {
	var out []model.Slot
	seq(func(s model.Slot) bool {
		out = append(out, s)
		return true
	})
	return out
}

func TestDayBasicStepping(t *testing.T) {
	loc := mustLoad(t, "Europe/Rome")
	date := time.Date(2025, time.June, 2, 0, 0, 0, 0, loc) // a Monday

	slots := collect(Day(date, []model.Window{{Start: "09:00", End: "12:00"}}, 30*time.Minute, loc))

	if len(slots) != 6 {
		t.Fatalf("expected 6 slots, got %d", len(slots))
	}

	first := time.Date(2025, time.June, 2, 9, 0, 0, 0, loc)
	if !slots[0].Start.Equal(first) {
		t.Errorf("first slot start = %v, want %v", slots[0].Start, first)
	}
	last := time.Date(2025, time.June, 2, 11, 30, 0, 0, loc)
	if !slots[5].Start.Equal(last) {
		t.Errorf("last slot start = %v, want %v", slots[5].Start, last)
	}
	for i, s := range slots {
		if got := s.End.Sub(s.Start); got != 30*time.Minute {
			t.Errorf("slot %d width = %v, want 30m", i, got)
		}
	}
}

func TestDayNoPartialTrailingSlot(t *testing.T) {
	loc := mustLoad(t, "Europe/Rome")
	date := time.Date(2025, time.June, 2, 0, 0, 0, 0, loc)

	// 09:00-09:50 with a 30m step leaves a 20m remainder.
	slots := collect(Day(date, []model.Window{{Start: "09:00", End: "09:50"}}, 30*time.Minute, loc))
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
}

func TestDayWindowsNeverMerge(t *testing.T) {
	loc := mustLoad(t, "Europe/Rome")
	date := time.Date(2025, time.June, 2, 0, 0, 0, 0, loc)

	// Adjacent 20m windows with a 30m step: neither can hold a slot, even
	// though the union could.
	slots := collect(Day(date, []model.Window{
		{Start: "09:00", End: "09:20"},
		{Start: "09:20", End: "09:40"},
	}, 30*time.Minute, loc))
	if len(slots) != 0 {
		t.Fatalf("expected 0 slots, got %d", len(slots))
	}
}

func TestDayWindowShorterThanStep(t *testing.T) {
	loc := mustLoad(t, "Europe/Rome")
	date := time.Date(2025, time.June, 2, 0, 0, 0, 0, loc)

	slots := collect(Day(date, []model.Window{{Start: "09:00", End: "09:15"}}, 30*time.Minute, loc))
	if len(slots) != 0 {
		t.Fatalf("expected 0 slots, got %d", len(slots))
	}
}

func TestDaySkipsNonexistentWallClock(t *testing.T) {
	loc := mustLoad(t, "Europe/Rome")
	// 2025-03-30: clocks jump 02:00 -> 03:00 in Rome; 02:30 never happens.
	date := time.Date(2025, time.March, 30, 0, 0, 0, 0, loc)

	slots := collect(Day(date, []model.Window{{Start: "02:30", End: "03:30"}}, 30*time.Minute, loc))
	if len(slots) != 0 {
		t.Fatalf("expected DST-gap window to be skipped, got %d slots", len(slots))
	}

	// A window clear of the gap on the same date is unaffected.
	slots = collect(Day(date, []model.Window{{Start: "09:00", End: "10:00"}}, 30*time.Minute, loc))
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
}

func TestDayFallBackAmbiguityStaysStepWide(t *testing.T) {
	loc := mustLoad(t, "Europe/Rome")
	// 2025-10-26: clocks fall back 03:00 -> 02:00; the 02:00-03:00 hour
	// repeats. Stepping is absolute so widths stay exact regardless of
	// which occurrence the resolver picks.
	date := time.Date(2025, time.October, 26, 0, 0, 0, 0, loc)

	slots := collect(Day(date, []model.Window{{Start: "01:00", End: "04:00"}}, 30*time.Minute, loc))
	for i, s := range slots {
		if got := s.End.Sub(s.Start); got != 30*time.Minute {
			t.Errorf("slot %d width = %v, want 30m", i, got)
		}
	}
	if len(slots) == 0 {
		t.Fatal("expected slots across the fall-back window")
	}
}

func TestDayRestartable(t *testing.T) {
	loc := mustLoad(t, "Europe/Rome")
	date := time.Date(2025, time.June, 2, 0, 0, 0, 0, loc)

	seq := Day(date, []model.Window{{Start: "09:00", End: "11:00"}}, 60*time.Minute, loc)
	first := collect(seq)
	second := collect(seq)

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected 2 slots on each pass, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Start.Equal(second[i].Start) || !first[i].End.Equal(second[i].End) {
			t.Errorf("pass mismatch at %d: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestDayEarlyBreak(t *testing.T) {
	loc := mustLoad(t, "Europe/Rome")
	date := time.Date(2025, time.June, 2, 0, 0, 0, 0, loc)

	var n int
	Day(date, []model.Window{{Start: "09:00", End: "17:00"}}, 30*time.Minute, loc)(func(model.Slot) bool {
		n++
		return n < 3
	})
	if n != 3 {
		t.Fatalf("expected iteration to stop after 3 slots, got %d", n)
	}
}
