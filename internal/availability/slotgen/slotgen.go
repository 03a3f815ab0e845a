// Package slotgen turns wall-clock windows into absolute-instant slots.
//
// All functions are pure: no clock reads, no storage. The returned
// sequences are finite and restartable, so callers may range over them
// more than once.
package slotgen

import (
	"iter"
	"time"

	"procal/pkg/model"
)

// resolveWallClock anchors minutes-from-midnight on the given date in loc.
// The second return is false when that wall-clock time does not exist on
// the date (spring-forward gap); such windows are skipped rather than
// shifted. Ambiguous fall-back times resolve to the instant time.Date
// picks, which is deterministic.
func resolveWallClock(year int, month time.Month, day int, minutes int, loc *time.Location) (time.Time, bool) {
	t := time.Date(year, month, day, minutes/60, minutes%60, 0, 0, loc)
	if t.Hour() != minutes/60 || t.Minute() != minutes%60 {
		return time.Time{}, false
	}
	return t, true
}

// Day yields the slots of one calendar date. Windows whose bounds fail to
// parse or to resolve on the date are skipped silently; the validator has
// already rejected malformed schedules, so a skip here only ever means a
// DST gap. The trailing remainder of a window shorter than step is never
// emitted, and windows are never merged even when adjacent.
func Day(date time.Time, windows []model.Window, step time.Duration, loc *time.Location) iter.Seq[model.Slot] {
	year, month, day := date.Date()

	return func(yield func(model.Slot) bool) {
		for _, w := range windows {
			startMin, err := model.ClockMinutes(w.Start)
			if err != nil {
				continue
			}
			endMin, err := model.ClockMinutes(w.End)
			if err != nil || endMin <= startMin {
				continue
			}

			start, ok := resolveWallClock(year, month, day, startMin, loc)
			if !ok {
				continue
			}
			end, ok := resolveWallClock(year, month, day, endMin, loc)
			if !ok {
				continue
			}

			// Slots step in absolute time, so a window spanning a DST
			// shift still produces slots of exactly step width.
			for cur := start; !cur.Add(step).After(end); cur = cur.Add(step) {
				if !yield(model.Slot{Start: cur, End: cur.Add(step)}) {
					return
				}
			}
		}
	}
}
