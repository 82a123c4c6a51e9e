package game

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestCalendar_Advance(t *testing.T) {
	tests := map[string]struct {
		start     Calendar
		exp       Calendar
		expNewDay bool
	}{
		"hour":  {start: Calendar{Hour: 3, Day: 1, Month: 1, Year: 1}, exp: Calendar{Hour: 4, Day: 1, Month: 1, Year: 1}},
		"day":   {start: Calendar{Hour: 23, Day: 4, Month: 2, Year: 1}, exp: Calendar{Hour: 0, Day: 5, Month: 2, Year: 1}, expNewDay: true},
		"month": {start: Calendar{Hour: 23, Day: 31, Month: 2, Year: 1}, exp: Calendar{Hour: 0, Day: 1, Month: 3, Year: 1}, expNewDay: true},
		"year":  {start: Calendar{Hour: 23, Day: 31, Month: 12, Year: 7}, exp: Calendar{Hour: 0, Day: 1, Month: 1, Year: 8}, expNewDay: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := tt.start
			newDay := c.Advance()
			testutil.AssertEqual(t, "calendar", c, tt.exp)
			testutil.AssertEqual(t, "new day", newDay, tt.expNewDay)
		})
	}
}
