package serviceImp

import (
	"math"
	"strings"

	"micampo/entities"
)

// urgentTasks is how many pending tasks the dashboard headline lists.
const urgentTasks = 3

func (s *farmSvc) Summary() entities.FarmSummary {
	return summarize(s.Snapshot())
}

func (s *farmSvc) Animals(q string) []entities.Animal {
	all := s.Snapshot().Animals
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return all
	}
	out := make([]entities.Animal, 0, len(all))
	for _, a := range all {
		if strings.Contains(strings.ToLower(a.RFID), q) ||
			(a.Name != nil && strings.Contains(strings.ToLower(*a.Name), q)) {
			out = append(out, a)
		}
	}
	return out
}

func summarize(snap entities.FarmSnapshot) entities.FarmSummary {
	sum := entities.FarmSummary{
		Animals:     len(snap.Animals),
		LowStock:    []entities.Supply{},
		UrgentTasks: []entities.Task{},
	}

	var ndvi float64
	for _, p := range snap.Plots {
		sum.TotalHectares += p.Hectares
		if p.NDVI != nil {
			ndvi += *p.NDVI
		}
	}
	if n := len(snap.Plots); n > 0 {
		sum.AverageNDVI = math.Round(ndvi/float64(n)*100) / 100
	}

	var weight float64
	for _, a := range snap.Animals {
		weight += a.WeightKg
		if a.MilkYield != nil {
			sum.TotalMilk += *a.MilkYield
		}
	}
	if n := len(snap.Animals); n > 0 {
		sum.AverageWeight = weight / float64(n)
	}

	for _, sup := range snap.Supplies {
		if sup.BelowMinimum() {
			sum.LowStock = append(sum.LowStock, sup)
		}
	}
	for _, t := range snap.Tasks {
		if t.Status != entities.TaskCompleted {
			sum.OpenTasks++
		}
		if t.Status == entities.TaskPending && len(sum.UrgentTasks) < urgentTasks {
			sum.UrgentTasks = append(sum.UrgentTasks, t)
		}
	}
	return sum
}
