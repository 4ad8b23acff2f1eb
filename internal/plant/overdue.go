package plant

import "time"

// overdue reports whether the watering interval has elapsed. A plant with no
// recorded watering or a non-positive interval is never overdue. The due date
// itself is not yet overdue; only the day after.
func overdue(lastWatered *Date, frequencyDays int, now time.Time) bool {
	if lastWatered == nil || frequencyDays <= 0 {
		return false
	}
	nextDue := lastWatered.AddDays(frequencyDays)
	return DateOf(now).After(nextDue)
}

// refreshOverdue recomputes the derived overdue flag in place. Called before
// every persist and before every return so the flag is a pure function of the
// schedule and the current date.
func (p *Plant) refreshOverdue(now time.Time) {
	p.Overdue = overdue(p.LastWatered, p.WateringFrequencyDays, now)
}
