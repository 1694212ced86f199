package report

import (
	"fmt"
	"time"

	"github.com/stitchpos/backend/internal/domain/shared"
)

// Window names a reporting period relative to the current day
type Window string

const (
	WindowToday  Window = "today"
	Window7Days  Window = "7d"
	Window30Days Window = "30d"
	Window90Days Window = "90d"
	WindowAll    Window = "all"
	WindowCustom Window = "custom"
)

func (w Window) IsValid() bool {
	switch w {
	case WindowToday, Window7Days, Window30Days, Window90Days, WindowAll, WindowCustom:
		return true
	}
	return false
}

func (w Window) String() string {
	return string(w)
}

// Range resolves the window to a half-open interval [from, to) anchored at
// now. Day boundaries are midnight in now's location. Custom windows must
// be resolved by the caller; passing one here is an error.
func (w Window) Range(now time.Time) (time.Time, time.Time, error) {
	if !w.IsValid() {
		return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_WINDOW", fmt.Sprintf("unknown report window: %s", w))
	}
	if w == WindowCustom {
		return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_WINDOW", "custom windows require explicit start and end dates")
	}

	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := startOfToday.AddDate(0, 0, 1)

	switch w {
	case WindowToday:
		return startOfToday, to, nil
	case Window7Days:
		return startOfToday.AddDate(0, 0, -6), to, nil
	case Window30Days:
		return startOfToday.AddDate(0, 0, -29), to, nil
	case Window90Days:
		return startOfToday.AddDate(0, 0, -89), to, nil
	case WindowAll:
		return time.Time{}, to, nil
	}
	return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_WINDOW", fmt.Sprintf("unknown report window: %s", w))
}

// CustomRange validates an explicit interval and widens the end to the
// start of the following day so the final day is fully included.
func CustomRange(from, to time.Time) (time.Time, time.Time, error) {
	if from.IsZero() || to.IsZero() {
		return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_WINDOW", "custom windows require both start and end dates")
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_WINDOW", "window end cannot be before its start")
	}
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location()).AddDate(0, 0, 1)
	return start, end, nil
}
