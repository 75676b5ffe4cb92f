package service

import (
	"errors"

	"micampo/entities"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalid        = errors.New("invalid value")
	ErrNegativeAmount = errors.New("amount must not be negative")
	ErrDuplicateRFID  = errors.New("rfid already registered")
)

// FarmService is the single source of truth for farm entities. Every
// mutation is persisted before it returns.
type FarmService interface {
	Snapshot() entities.FarmSnapshot
	Summary() entities.FarmSummary
	// Animals lists animals whose RFID or name contains q (case-insensitive).
	Animals(q string) []entities.Animal

	AddPlot(in entities.Plot) (entities.Plot, error)
	UpdatePlot(id string, p PlotPatch) (entities.Plot, error)
	DeletePlot(id string) error

	AddAnimal(in entities.Animal) (entities.Animal, error)
	UpdateAnimal(id string, p AnimalPatch) (entities.Animal, error)
	DeleteAnimal(id string) error

	AddSupply(in entities.Supply) (entities.Supply, error)
	UpdateSupply(id string, p SupplyPatch) (entities.Supply, error)
	DeleteSupply(id string) error
	ConsumeSupply(id string, amount float64) (entities.Supply, error)

	AddTask(in entities.Task) (entities.Task, error)
	UpdateTask(id string, p TaskPatch) (entities.Task, error)
	DeleteTask(id string) error

	SetWeatherCache(w *entities.WeatherCache)
}

// Patches carry only the fields to change (nil = keep).

type PlotPatch struct {
	Name           *string  `json:"nombre"`
	Hectares       *float64 `json:"hectareas"`
	Crop           *string  `json:"cultivo"`
	NDVI           *float64 `json:"ndvi"`
	LastIrrigation *string  `json:"ultimoRiego"`
}

type AnimalPatch struct {
	RFID            *string              `json:"rfid"`
	Name            *string              `json:"nombre"`
	Type            *entities.AnimalType `json:"tipo"`
	WeightKg        *float64             `json:"peso"`
	MilkYield       *float64             `json:"produccionLeche"`
	LastVaccination *string              `json:"ultimaVacuna"`
}

type SupplyPatch struct {
	Name     *string                  `json:"nombre"`
	Category *entities.SupplyCategory `json:"categoria"`
	Quantity *float64                 `json:"cantidad"`
	Unit     *string                  `json:"unidad"`
	MinStock *float64                 `json:"stockMinimo"`
}

type TaskPatch struct {
	Title       *string              `json:"titulo"`
	Description *string              `json:"descripcion"`
	Status      *entities.TaskStatus `json:"estado"`
	Date        *string              `json:"fecha"`
	PlotID      *string              `json:"loteId"`
}
