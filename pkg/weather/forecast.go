package weather

import (
	"math"
	"time"

	"micampo/entities"
)

var shortWeekdays = [...]string{"dom", "lun", "mar", "mié", "jue", "vie", "sáb"}

// Slot is one 3-hour forecast entry.
type Slot struct {
	At          time.Time
	TempMin     float64
	TempMax     float64
	Description string
	Icon        string
	Pop         float64 // 0..1
}

// CollapseDaily keeps the first slot seen for each calendar day in loc,
// up to ForecastDays days, in input order.
func CollapseDaily(slots []Slot, loc *time.Location) []entities.ForecastDay {
	if loc == nil {
		loc = time.Local
	}
	out := make([]entities.ForecastDay, 0, ForecastDays)
	seen := make(map[string]bool, ForecastDays)
	for _, s := range slots {
		t := s.At.In(loc)
		day := t.Format("2006-01-02")
		if seen[day] {
			continue
		}
		seen[day] = true
		out = append(out, entities.ForecastDay{
			Label:       shortWeekdays[t.Weekday()],
			Day:         day,
			TempMin:     math.Round(s.TempMin),
			TempMax:     math.Round(s.TempMax),
			Description: s.Description,
			Icon:        s.Icon,
			RainProb:    math.Round(s.Pop * 100),
		})
		if len(out) == ForecastDays {
			break
		}
	}
	return out
}
