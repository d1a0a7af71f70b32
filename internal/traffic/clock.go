package traffic

// Clock maps simulation ticks onto an hour of day.
type Clock struct {
	TicksPerHour int
	StartHour    int
}

// HourAt returns the hour of day (0..23) in effect at tick.
func (c Clock) HourAt(tick uint64) int {
	per := c.TicksPerHour
	if per <= 0 {
		per = 1
	}
	start := c.StartHour % HoursPerDay
	if start < 0 {
		start += HoursPerDay
	}
	return int((uint64(start) + tick/uint64(per)) % HoursPerDay)
}
