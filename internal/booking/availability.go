package booking

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yousiff139-lang/aqua-dent-link-main/pkg/logging"
)

// SlotSource reads persisted slot rows for the normalized fallback tier.
type SlotSource interface {
	AvailableSlots(ctx context.Context, dentistID uuid.UUID, start time.Time, days int) ([]Slot, error)
}

// Resolver produces candidate slots for a dentist over a date range using a
// two-tier strategy: expand the dentist's weekly structured availability
// first, and only when that yields nothing, fall back to the normalized slot
// table. The first non-empty tier wins; results are never merged.
type Resolver struct {
	source SlotSource
	logger *logging.Logger
}

// NewResolver creates an availability resolver.
func NewResolver(source SlotSource, logger *logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.Default()
	}
	return &Resolver{source: source, logger: logger}
}

// Resolve returns slots for [start, start+days). Slot search is best effort:
// any failure yields an empty list, signaling "no availability to offer"
// rather than an error.
func (r *Resolver) Resolve(ctx context.Context, dentist Dentist, start time.Time, days int) []Slot {
	if slots := r.expandWeekly(dentist, start, days); len(slots) > 0 {
		r.logger.Info("resolved slots from weekly availability",
			"dentist_id", dentist.ID, "count", len(slots))
		return slots
	}

	if r.source == nil {
		return nil
	}
	slots, err := r.source.AvailableSlots(ctx, dentist.ID, start, days)
	if err != nil {
		r.logger.Error("slot lookup failed, offering no availability",
			"dentist_id", dentist.ID, "error", err)
		return nil
	}
	r.logger.Info("resolved slots from normalized table",
		"dentist_id", dentist.ID, "count", len(slots))
	return slots
}

// expandWeekly turns the day-name schedule into concrete dated slots.
// Identical times listed twice produce duplicate slots; conflicting confirmed
// appointments are not checked here.
func (r *Resolver) expandWeekly(dentist Dentist, start time.Time, days int) []Slot {
	schedule := dentist.WeeklySchedule()
	if len(schedule) == 0 {
		return nil
	}

	var slots []Slot
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		dayName := strings.ToLower(date.Weekday().String())
		for _, raw := range schedule[dayName] {
			parsed, err := parseTimeOfDay(raw)
			if err != nil {
				r.logger.Warn("skipping malformed availability time",
					"dentist_id", dentist.ID, "day", dayName, "time", raw)
				continue
			}
			slots = append(slots, Slot{
				DentistID: dentist.ID,
				Date:      date.Format("2006-01-02"),
				Time:      parsed,
				Available: true,
			})
		}
	}
	return slots
}

// parseTimeOfDay normalizes "HH:MM" or "HH:MM:SS" to "HH:MM".
func parseTimeOfDay(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("15:04"), nil
		}
	}
	_, err := time.Parse("15:04", raw)
	return "", err
}
