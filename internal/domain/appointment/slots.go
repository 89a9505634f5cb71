package appointment

import "time"

// Working window: 09:00 through 16:45 in 15-minute steps, giving 32
// bookable instants per day.
const (
	workdayStartHour = 9
	workdayEndHour   = 17
	slotMinutes      = 15

	// SlotsPerDay is the size of a full, unbooked day grid.
	SlotsPerDay = (workdayEndHour - workdayStartHour) * 60 / slotMinutes
)

// dayWindow returns the [start, end) bounds of the calendar day that
// contains date. Only the Y/M/D components matter; the location is taken
// from the input as given, with no normalization.
func dayWindow(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return start, start.AddDate(0, 0, 1)
}

// slotGrid generates every bookable instant of the day containing date,
// in ascending order.
func slotGrid(date time.Time) []time.Time {
	grid := make([]time.Time, 0, SlotsPerDay)
	for hour := workdayStartHour; hour < workdayEndHour; hour++ {
		for min := 0; min < 60; min += slotMinutes {
			grid = append(grid, time.Date(date.Year(), date.Month(), date.Day(), hour, min, 0, 0, date.Location()))
		}
	}
	return grid
}
