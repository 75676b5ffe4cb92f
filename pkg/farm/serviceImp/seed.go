package serviceImp

import "micampo/entities"

func strp(s string) *string     { return &s }
func f64p(f float64) *float64 { return &f }

// Seed is the dataset a fresh install starts from.
func Seed() entities.FarmSnapshot {
	return entities.FarmSnapshot{
		Plots: []entities.Plot{
			{ID: "1", Name: "Lote 1 - Norte", Hectares: 150, Crop: strp("Soja"), NDVI: f64p(0.82)},
			{ID: "2", Name: "Lote 2 - Sur", Hectares: 200, Crop: strp("Maíz"), NDVI: f64p(0.75)},
			{ID: "3", Name: "Lote 3 - Este", Hectares: 120, Crop: strp("Trigo"), NDVI: f64p(0.68)},
		},
		Animals: []entities.Animal{
			{ID: "1", RFID: "AR-001-234", Type: entities.AnimalBovine, WeightKg: 450, MilkYield: f64p(25)},
			{ID: "2", RFID: "AR-001-235", Type: entities.AnimalBovine, WeightKg: 420, MilkYield: f64p(22)},
			{ID: "3", RFID: "AR-001-236", Type: entities.AnimalBovine, WeightKg: 380},
		},
		Supplies: []entities.Supply{
			{ID: "1", Name: "Semilla de Soja", Category: entities.SupplySeed, Quantity: 5000, Unit: "kg", MinStock: 1000},
			{ID: "2", Name: "Fertilizante NPK", Category: entities.SupplyFertilizer, Quantity: 2000, Unit: "kg", MinStock: 500},
			{ID: "3", Name: "Gasoil", Category: entities.SupplyFuel, Quantity: 3000, Unit: "L", MinStock: 1000},
		},
		Tasks: []entities.Task{
			{ID: "1", Title: "Fumigar Lote 1", Description: "Aplicar herbicida", Status: entities.TaskPending, Date: "2024-02-20", PlotID: strp("1")},
			{ID: "2", Title: "Cosechar Lote 3", Description: "Maquinaria lista", Status: entities.TaskInProgress, Date: "2024-02-18", PlotID: strp("3")},
		},
	}
}
