package game

const (
	HoursPerDay   = 24
	DaysPerMonth  = 31
	MonthsPerYear = 12
)

// Calendar is the in-game date. Hour is 0-based; Day and Month start at 1.
// There are no leap years.
type Calendar struct {
	Hour  int `json:"hour"`
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

func NewCalendar() Calendar {
	return Calendar{Day: 1, Month: 1, Year: 1}
}

// Advance moves the calendar forward one hour and reports whether the day rolled over.
func (c *Calendar) Advance() bool {
	c.Hour++
	if c.Hour < HoursPerDay {
		return false
	}
	c.Hour = 0
	c.Day++
	if c.Day > DaysPerMonth {
		c.Day = 1
		c.Month++
		if c.Month > MonthsPerYear {
			c.Month = 1
			c.Year++
		}
	}
	return true
}
