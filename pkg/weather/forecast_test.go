package weather

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"micampo/entities"
)

func TestCollapseDailyKeepsFirstSlotPerDay(t *testing.T) {
	start := time.Date(2024, 2, 19, 9, 0, 0, 0, time.UTC) // Monday
	var slots []Slot
	for i := 0; i < 48; i++ { // six days of 3-hour slots
		at := start.Add(time.Duration(i) * 3 * time.Hour)
		slots = append(slots, Slot{At: at, TempMin: 17.6 + float64(i), TempMax: 27.4, Description: "x", Icon: "01d", Pop: 0.234})
	}

	days := CollapseDaily(slots, time.UTC)
	require.Len(t, days, ForecastDays)

	assert.Equal(t, "lun", days[0].Label)
	assert.Equal(t, "2024-02-19", days[0].Day)
	assert.Equal(t, 18.0, days[0].TempMin) // first slot, rounded
	assert.Equal(t, 27.0, days[0].TempMax)
	assert.Equal(t, 23.0, days[0].RainProb)

	// second day starts at slot 5 (00:00 on the 20th)
	assert.Equal(t, "mar", days[1].Label)
	assert.Equal(t, 23.0, days[1].TempMin)

	labels := map[string]bool{}
	for _, d := range days {
		assert.False(t, labels[d.Label], "duplicate label %s", d.Label)
		labels[d.Label] = true
	}
}

func TestCollapseDailyShortInput(t *testing.T) {
	at := time.Date(2024, 2, 21, 12, 0, 0, 0, time.UTC)
	days := CollapseDaily([]Slot{{At: at}, {At: at.Add(3 * time.Hour)}}, time.UTC)
	require.Len(t, days, 1)
	assert.Equal(t, "mié", days[0].Label)
	assert.Empty(t, CollapseDaily(nil, time.UTC))
}

func TestCollapseDailyUsesLocation(t *testing.T) {
	art := time.FixedZone("ART", -3*3600)
	// 01:00 UTC on the 20th is still the 19th in Buenos Aires
	days := CollapseDaily([]Slot{{At: time.Date(2024, 2, 20, 1, 0, 0, 0, time.UTC)}}, art)
	require.Len(t, days, 1)
	assert.Equal(t, "2024-02-19", days[0].Day)
}

func TestDemoForecast(t *testing.T) {
	d := NewDemo("Buenos Aires")
	d.Now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	days, err := d.Forecast(context.Background(), entities.Coords{})
	require.NoError(t, err)
	require.Len(t, days, 5)
	labels := map[string]bool{}
	for _, day := range days {
		labels[day.Label] = true
	}
	assert.Len(t, labels, 5)

	cur, err := d.Current(context.Background(), entities.Coords{})
	require.NoError(t, err)
	assert.Equal(t, 24.0, cur.Temp)
	assert.Equal(t, "Buenos Aires", cur.City)
	assert.Equal(t, int64(1_700_000_000-21600), cur.Sunrise)
	assert.Equal(t, int64(1_700_000_000+21600), cur.Sunset)
}
