package entities

// JSON keys match the snapshot the MiCampo dashboard keeps under
// micampo_farm_data, so data saved by the web client loads unchanged.

type AnimalType string

const (
	AnimalBovine  AnimalType = "bovino"
	AnimalOvine   AnimalType = "ovino"
	AnimalPorcine AnimalType = "porcino"
)

func (t AnimalType) Valid() bool {
	switch t {
	case AnimalBovine, AnimalOvine, AnimalPorcine:
		return true
	}
	return false
}

type SupplyCategory string

const (
	SupplySeed       SupplyCategory = "semilla"
	SupplyFertilizer SupplyCategory = "fertilizante"
	SupplyChemical   SupplyCategory = "quimico"
	SupplyFuel       SupplyCategory = "combustible"
)

func (c SupplyCategory) Valid() bool {
	switch c {
	case SupplySeed, SupplyFertilizer, SupplyChemical, SupplyFuel:
		return true
	}
	return false
}

type TaskStatus string

const (
	TaskPending    TaskStatus = "pendiente"
	TaskInProgress TaskStatus = "en-progreso"
	TaskCompleted  TaskStatus = "completada"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

// Plot is a "lote": a bounded unit of farmland.
type Plot struct {
	ID             string   `json:"id"`
	Name           string   `json:"nombre"`
	Hectares       float64  `json:"hectareas"`
	Crop           *string  `json:"cultivo,omitempty"`
	NDVI           *float64 `json:"ndvi,omitempty"` // 0..1
	LastIrrigation *string  `json:"ultimoRiego,omitempty"`
}

type Animal struct {
	ID              string     `json:"id"`
	RFID            string     `json:"rfid"`
	Name            *string    `json:"nombre,omitempty"`
	Type            AnimalType `json:"tipo"`
	WeightKg        float64    `json:"peso"`
	MilkYield       *float64   `json:"produccionLeche,omitempty"` // L/day
	LastVaccination *string    `json:"ultimaVacuna,omitempty"`
}

// Supply is an "insumo". Quantity never goes below zero.
type Supply struct {
	ID       string         `json:"id"`
	Name     string         `json:"nombre"`
	Category SupplyCategory `json:"categoria"`
	Quantity float64        `json:"cantidad"`
	Unit     string         `json:"unidad"`
	MinStock float64        `json:"stockMinimo"`
}

func (s Supply) BelowMinimum() bool { return s.Quantity < s.MinStock }

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"titulo"`
	Description string     `json:"descripcion"`
	Status      TaskStatus `json:"estado"`
	Date        string     `json:"fecha"` // YYYY-MM-DD
	PlotID      *string    `json:"loteId,omitempty"`
}

// WeatherCache is the weather summary stored alongside farm entities.
type WeatherCache struct {
	Temp        float64       `json:"temp"`
	Humidity    float64       `json:"humedad"`
	Description string        `json:"descripcion"`
	Icon        string        `json:"icono"`
	Forecast    []ForecastDay `json:"pronostico"`
}

// FarmSnapshot is the unit of persistence: every mutation rewrites it whole.
type FarmSnapshot struct {
	Plots    []Plot        `json:"lotes"`
	Animals  []Animal      `json:"animales"`
	Supplies []Supply      `json:"insumos"`
	Tasks    []Task        `json:"tareas"`
	Weather  *WeatherCache `json:"clima"`
}

// FarmSummary holds the dashboard figures derived from a snapshot.
type FarmSummary struct {
	TotalHectares float64  `json:"totalHectareas"`
	AverageNDVI   float64  `json:"ndviPromedio"`
	OpenTasks     int      `json:"tareasPendientes"`
	Animals       int      `json:"totalAnimales"`
	TotalMilk     float64  `json:"produccionTotal"`
	AverageWeight float64  `json:"pesoPromedio"`
	LowStock      []Supply `json:"alertasStock"`
	UrgentTasks   []Task   `json:"tareasUrgentes"`
}

// Clone returns a deep copy so callers cannot alias store internals.
func (s FarmSnapshot) Clone() FarmSnapshot {
	out := FarmSnapshot{
		Plots:    make([]Plot, len(s.Plots)),
		Animals:  make([]Animal, len(s.Animals)),
		Supplies: make([]Supply, len(s.Supplies)),
		Tasks:    make([]Task, len(s.Tasks)),
	}
	for i, p := range s.Plots {
		p.Crop = cloneStr(p.Crop)
		p.NDVI = cloneFloat(p.NDVI)
		p.LastIrrigation = cloneStr(p.LastIrrigation)
		out.Plots[i] = p
	}
	for i, a := range s.Animals {
		a.Name = cloneStr(a.Name)
		a.MilkYield = cloneFloat(a.MilkYield)
		a.LastVaccination = cloneStr(a.LastVaccination)
		out.Animals[i] = a
	}
	copy(out.Supplies, s.Supplies)
	for i, t := range s.Tasks {
		t.PlotID = cloneStr(t.PlotID)
		out.Tasks[i] = t
	}
	if s.Weather != nil {
		w := *s.Weather
		w.Forecast = append([]ForecastDay(nil), s.Weather.Forecast...)
		out.Weather = &w
	}
	return out
}

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
