package serviceImp

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"micampo/entities"
	"micampo/pkg/farm/service"
	"micampo/pkg/metrics"
	"micampo/pkg/storage/repository"
)

type farmSvc struct {
	mu   sync.Mutex
	kv   repository.KVRepository
	log  *zap.Logger
	m    *metrics.Metrics
	data entities.FarmSnapshot
}

// NewFarmService hydrates the store from kv, falling back to the seed data
// when nothing usable is stored.
func NewFarmService(kv repository.KVRepository, log *zap.Logger, m *metrics.Metrics) service.FarmService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &farmSvc{kv: kv, log: log.Named("farm"), m: m}
	s.data = s.load()
	s.mu.Lock()
	s.persistLocked()
	s.mu.Unlock()
	return s
}

func (s *farmSvc) load() entities.FarmSnapshot {
	raw, ok, err := s.kv.Get(repository.KeyFarmData)
	if err != nil {
		s.log.Warn("read snapshot failed, using seed data", zap.Error(err))
		return Seed()
	}
	if !ok {
		s.log.Info("no stored snapshot, using seed data")
		return Seed()
	}
	var snap entities.FarmSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		s.log.Warn("stored snapshot unreadable, using seed data", zap.Error(err))
		return Seed()
	}
	normalize(&snap)
	if n := clampStock(&snap); n > 0 {
		s.log.Warn("negative supply stock clamped to zero", zap.Int("supplies", n))
	}
	if err := validateSnapshot(snap); err != nil {
		s.log.Warn("stored snapshot inconsistent, using seed data", zap.Error(err))
		return Seed()
	}
	s.log.Info("snapshot loaded",
		zap.Int("plots", len(snap.Plots)),
		zap.Int("animals", len(snap.Animals)),
		zap.Int("supplies", len(snap.Supplies)),
		zap.Int("tasks", len(snap.Tasks)))
	return snap
}

// normalize replaces nil collections so they serialise as [] not null.
func normalize(s *entities.FarmSnapshot) {
	if s.Plots == nil {
		s.Plots = []entities.Plot{}
	}
	if s.Animals == nil {
		s.Animals = []entities.Animal{}
	}
	if s.Supplies == nil {
		s.Supplies = []entities.Supply{}
	}
	if s.Tasks == nil {
		s.Tasks = []entities.Task{}
	}
}

// clampStock raises negative quantities and minimums to zero and reports
// how many supplies were touched.
func clampStock(snap *entities.FarmSnapshot) int {
	n := 0
	for i := range snap.Supplies {
		sup := &snap.Supplies[i]
		if sup.Quantity < 0 || sup.MinStock < 0 {
			sup.Quantity = math.Max(0, sup.Quantity)
			sup.MinStock = math.Max(0, sup.MinStock)
			n++
		}
	}
	return n
}

// validateSnapshot applies the per-entity rules plus id and RFID uniqueness.
func validateSnapshot(snap entities.FarmSnapshot) error {
	ids := func(kind, id string, seen map[string]bool) error {
		if id == "" {
			return invalid("%s without id", kind)
		}
		if seen[id] {
			return invalid("duplicate %s id %q", kind, id)
		}
		seen[id] = true
		return nil
	}

	seen := map[string]bool{}
	for _, p := range snap.Plots {
		if err := ids("plot", p.ID, seen); err != nil {
			return err
		}
		if err := validatePlot(p); err != nil {
			return fmt.Errorf("plot %s: %w", p.ID, err)
		}
	}
	seen = map[string]bool{}
	rfids := map[string]bool{}
	for _, a := range snap.Animals {
		if err := ids("animal", a.ID, seen); err != nil {
			return err
		}
		if err := validateAnimal(a); err != nil {
			return fmt.Errorf("animal %s: %w", a.ID, err)
		}
		key := strings.ToLower(a.RFID)
		if rfids[key] {
			return fmt.Errorf("%s: %w", a.RFID, service.ErrDuplicateRFID)
		}
		rfids[key] = true
	}
	seen = map[string]bool{}
	for _, sup := range snap.Supplies {
		if err := ids("supply", sup.ID, seen); err != nil {
			return err
		}
		if err := validateSupply(sup); err != nil {
			return fmt.Errorf("supply %s: %w", sup.ID, err)
		}
	}
	seen = map[string]bool{}
	for _, t := range snap.Tasks {
		if err := ids("task", t.ID, seen); err != nil {
			return err
		}
		if err := validateTask(t); err != nil {
			return fmt.Errorf("task %s: %w", t.ID, err)
		}
	}
	return nil
}

// persistLocked writes the whole snapshot. Failures are logged and counted;
// the in-memory state stays authoritative.
func (s *farmSvc) persistLocked() {
	b, err := json.Marshal(s.data)
	if err == nil {
		err = s.kv.Set(repository.KeyFarmData, b)
	}
	if err != nil {
		s.log.Error("persist snapshot", zap.Error(err))
		s.m.StoreWriteFailed(repository.KeyFarmData)
	}
}

func (s *farmSvc) commitLocked(op string) {
	s.persistLocked()
	s.m.FarmMutation(op)
	s.log.Debug("mutation", zap.String("op", op))
}

func (s *farmSvc) Snapshot() entities.FarmSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

// ---- plots ----

func (s *farmSvc) AddPlot(in entities.Plot) (entities.Plot, error) {
	in.ID = uuid.NewString()
	if err := validatePlot(in); err != nil {
		return entities.Plot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Plots = append(s.data.Plots, in)
	s.commitLocked("add_plot")
	return in, nil
}

func (s *farmSvc) UpdatePlot(id string, p service.PlotPatch) (entities.Plot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.data.Plots, func(x entities.Plot) bool { return x.ID == id })
	if i < 0 {
		return entities.Plot{}, fmt.Errorf("plot %s: %w", id, service.ErrNotFound)
	}
	cur := s.data.Plots[i]
	if p.Name != nil {
		cur.Name = *p.Name
	}
	if p.Hectares != nil {
		cur.Hectares = *p.Hectares
	}
	if p.Crop != nil {
		cur.Crop = p.Crop
	}
	if p.NDVI != nil {
		cur.NDVI = p.NDVI
	}
	if p.LastIrrigation != nil {
		cur.LastIrrigation = p.LastIrrigation
	}
	if err := validatePlot(cur); err != nil {
		return entities.Plot{}, err
	}
	s.data.Plots[i] = cur
	s.commitLocked("update_plot")
	return cur, nil
}

// DeletePlot also detaches tasks that referenced the plot.
func (s *farmSvc) DeletePlot(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.data.Plots, func(x entities.Plot) bool { return x.ID == id })
	if i < 0 {
		return fmt.Errorf("plot %s: %w", id, service.ErrNotFound)
	}
	s.data.Plots = slices.Delete(s.data.Plots, i, i+1)
	for j := range s.data.Tasks {
		if t := s.data.Tasks[j].PlotID; t != nil && *t == id {
			s.data.Tasks[j].PlotID = nil
		}
	}
	s.commitLocked("delete_plot")
	return nil
}

// ---- animals ----

func (s *farmSvc) AddAnimal(in entities.Animal) (entities.Animal, error) {
	in.ID = uuid.NewString()
	if err := validateAnimal(in); err != nil {
		return entities.Animal{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRFIDLocked(in.ID, in.RFID); err != nil {
		return entities.Animal{}, err
	}
	s.data.Animals = append(s.data.Animals, in)
	s.commitLocked("add_animal")
	return in, nil
}

func (s *farmSvc) UpdateAnimal(id string, p service.AnimalPatch) (entities.Animal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.data.Animals, func(x entities.Animal) bool { return x.ID == id })
	if i < 0 {
		return entities.Animal{}, fmt.Errorf("animal %s: %w", id, service.ErrNotFound)
	}
	cur := s.data.Animals[i]
	if p.RFID != nil {
		cur.RFID = *p.RFID
	}
	if p.Name != nil {
		cur.Name = p.Name
	}
	if p.Type != nil {
		cur.Type = *p.Type
	}
	if p.WeightKg != nil {
		cur.WeightKg = *p.WeightKg
	}
	if p.MilkYield != nil {
		cur.MilkYield = p.MilkYield
	}
	if p.LastVaccination != nil {
		cur.LastVaccination = p.LastVaccination
	}
	if err := validateAnimal(cur); err != nil {
		return entities.Animal{}, err
	}
	if err := s.checkRFIDLocked(id, cur.RFID); err != nil {
		return entities.Animal{}, err
	}
	s.data.Animals[i] = cur
	s.commitLocked("update_animal")
	return cur, nil
}

func (s *farmSvc) DeleteAnimal(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.data.Animals, func(x entities.Animal) bool { return x.ID == id })
	if i < 0 {
		return fmt.Errorf("animal %s: %w", id, service.ErrNotFound)
	}
	s.data.Animals = slices.Delete(s.data.Animals, i, i+1)
	s.commitLocked("delete_animal")
	return nil
}

func (s *farmSvc) checkRFIDLocked(selfID, rfid string) error {
	for _, a := range s.data.Animals {
		if a.ID != selfID && strings.EqualFold(a.RFID, rfid) {
			return fmt.Errorf("%s: %w", rfid, service.ErrDuplicateRFID)
		}
	}
	return nil
}

// ---- supplies ----

func (s *farmSvc) AddSupply(in entities.Supply) (entities.Supply, error) {
	in.ID = uuid.NewString()
	if err := validateSupply(in); err != nil {
		return entities.Supply{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Supplies = append(s.data.Supplies, in)
	s.commitLocked("add_supply")
	return in, nil
}

func (s *farmSvc) UpdateSupply(id string, p service.SupplyPatch) (entities.Supply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.data.Supplies, func(x entities.Supply) bool { return x.ID == id })
	if i < 0 {
		return entities.Supply{}, fmt.Errorf("supply %s: %w", id, service.ErrNotFound)
	}
	cur := s.data.Supplies[i]
	if p.Name != nil {
		cur.Name = *p.Name
	}
	if p.Category != nil {
		cur.Category = *p.Category
	}
	if p.Quantity != nil {
		cur.Quantity = *p.Quantity
	}
	if p.Unit != nil {
		cur.Unit = *p.Unit
	}
	if p.MinStock != nil {
		cur.MinStock = *p.MinStock
	}
	if err := validateSupply(cur); err != nil {
		return entities.Supply{}, err
	}
	s.data.Supplies[i] = cur
	s.commitLocked("update_supply")
	return cur, nil
}

func (s *farmSvc) DeleteSupply(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.data.Supplies, func(x entities.Supply) bool { return x.ID == id })
	if i < 0 {
		return fmt.Errorf("supply %s: %w", id, service.ErrNotFound)
	}
	s.data.Supplies = slices.Delete(s.data.Supplies, i, i+1)
	s.commitLocked("delete_supply")
	return nil
}

// ConsumeSupply subtracts amount, clamping the quantity at zero.
func (s *farmSvc) ConsumeSupply(id string, amount float64) (entities.Supply, error) {
	if amount < 0 || math.IsNaN(amount) {
		return entities.Supply{}, service.ErrNegativeAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.data.Supplies, func(x entities.Supply) bool { return x.ID == id })
	if i < 0 {
		return entities.Supply{}, fmt.Errorf("supply %s: %w", id, service.ErrNotFound)
	}
	s.data.Supplies[i].Quantity = math.Max(0, s.data.Supplies[i].Quantity-amount)
	s.commitLocked("consume_supply")
	if sup := s.data.Supplies[i]; sup.BelowMinimum() {
		s.log.Info("supply below minimum stock",
			zap.String("supply", sup.Name),
			zap.Float64("quantity", sup.Quantity),
			zap.Float64("min", sup.MinStock))
	}
	return s.data.Supplies[i], nil
}

// ---- tasks ----

func (s *farmSvc) AddTask(in entities.Task) (entities.Task, error) {
	in.ID = uuid.NewString()
	if in.Status == "" {
		in.Status = entities.TaskPending
	}
	if err := validateTask(in); err != nil {
		return entities.Task{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Tasks = append(s.data.Tasks, in)
	s.commitLocked("add_task")
	return in, nil
}

// UpdateTask accepts any status change; transitions are not constrained.
func (s *farmSvc) UpdateTask(id string, p service.TaskPatch) (entities.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.data.Tasks, func(x entities.Task) bool { return x.ID == id })
	if i < 0 {
		return entities.Task{}, fmt.Errorf("task %s: %w", id, service.ErrNotFound)
	}
	cur := s.data.Tasks[i]
	if p.Title != nil {
		cur.Title = *p.Title
	}
	if p.Description != nil {
		cur.Description = *p.Description
	}
	if p.Status != nil {
		cur.Status = *p.Status
	}
	if p.Date != nil {
		cur.Date = *p.Date
	}
	if p.PlotID != nil {
		if *p.PlotID == "" {
			cur.PlotID = nil
		} else {
			cur.PlotID = p.PlotID
		}
	}
	if err := validateTask(cur); err != nil {
		return entities.Task{}, err
	}
	s.data.Tasks[i] = cur
	s.commitLocked("update_task")
	return cur, nil
}

func (s *farmSvc) DeleteTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.data.Tasks, func(x entities.Task) bool { return x.ID == id })
	if i < 0 {
		return fmt.Errorf("task %s: %w", id, service.ErrNotFound)
	}
	s.data.Tasks = slices.Delete(s.data.Tasks, i, i+1)
	s.commitLocked("delete_task")
	return nil
}

// ---- weather ----

func (s *farmSvc) SetWeatherCache(w *entities.WeatherCache) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w != nil {
		c := *w
		c.Forecast = append([]entities.ForecastDay(nil), w.Forecast...)
		w = &c
	}
	s.data.Weather = w
	s.commitLocked("set_weather")
}

// ---- validation ----

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{service.ErrInvalid}, args...)...)
}

func validatePlot(p entities.Plot) error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("nombre is required")
	}
	if p.Hectares < 0 {
		return invalid("hectareas must be >= 0")
	}
	if p.NDVI != nil && (*p.NDVI < 0 || *p.NDVI > 1) {
		return invalid("ndvi must be within 0..1")
	}
	return nil
}

func validateAnimal(a entities.Animal) error {
	if strings.TrimSpace(a.RFID) == "" {
		return invalid("rfid is required")
	}
	if !a.Type.Valid() {
		return invalid("tipo %q", a.Type)
	}
	if a.WeightKg < 0 {
		return invalid("peso must be >= 0")
	}
	if a.MilkYield != nil && *a.MilkYield < 0 {
		return invalid("produccionLeche must be >= 0")
	}
	return nil
}

func validateSupply(s entities.Supply) error {
	if strings.TrimSpace(s.Name) == "" {
		return invalid("nombre is required")
	}
	if !s.Category.Valid() {
		return invalid("categoria %q", s.Category)
	}
	if s.Quantity < 0 || s.MinStock < 0 {
		return invalid("cantidad and stockMinimo must be >= 0")
	}
	return nil
}

func validateTask(t entities.Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return invalid("titulo is required")
	}
	if !t.Status.Valid() {
		return invalid("estado %q", t.Status)
	}
	if t.Date != "" {
		if _, err := time.Parse("2006-01-02", t.Date); err != nil {
			return invalid("fecha %q is not YYYY-MM-DD", t.Date)
		}
	}
	return nil
}
