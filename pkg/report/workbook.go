package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"micampo/entities"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	SheetPlots    = "Lotes"
	SheetAnimals  = "Animales"
	SheetSupplies = "Insumos"
	SheetTasks    = "Tareas"
)

// Workbook renders the snapshot as one sheet per collection.
func Workbook(s entities.FarmSnapshot) (*bytes.Buffer, error) {
	x := excelize.NewFile()
	defer x.Close()

	if err := x.SetSheetName("Sheet1", SheetPlots); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetAnimals, SheetSupplies, SheetTasks} {
		if _, err := x.NewSheet(name); err != nil {
			return nil, err
		}
	}

	plots := [][]any{{"ID", "Nombre", "Hectáreas", "Cultivo", "NDVI", "Último riego"}}
	for _, p := range s.Plots {
		plots = append(plots, []any{p.ID, p.Name, p.Hectares, str(p.Crop), num(p.NDVI), str(p.LastIrrigation)})
	}
	animals := [][]any{{"ID", "RFID", "Nombre", "Tipo", "Peso (kg)", "Leche (L/día)", "Última vacuna"}}
	for _, a := range s.Animals {
		animals = append(animals, []any{a.ID, a.RFID, str(a.Name), string(a.Type), a.WeightKg, num(a.MilkYield), str(a.LastVaccination)})
	}
	supplies := [][]any{{"ID", "Nombre", "Categoría", "Cantidad", "Unidad", "Stock mínimo", "Bajo mínimo"}}
	for _, in := range s.Supplies {
		low := ""
		if in.BelowMinimum() {
			low = "SI"
		}
		supplies = append(supplies, []any{in.ID, in.Name, string(in.Category), in.Quantity, in.Unit, in.MinStock, low})
	}
	tasks := [][]any{{"ID", "Título", "Descripción", "Estado", "Fecha", "Lote"}}
	for _, t := range s.Tasks {
		tasks = append(tasks, []any{t.ID, t.Title, t.Description, string(t.Status), t.Date, str(t.PlotID)})
	}

	for sheet, rows := range map[string][][]any{
		SheetPlots: plots, SheetAnimals: animals, SheetSupplies: supplies, SheetTasks: tasks,
	} {
		if err := writeRows(x, sheet, rows); err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}
	return x.WriteToBuffer()
}

func writeRows(x *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := x.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func str(p *string) any {
	if p == nil {
		return ""
	}
	return *p
}

func num(p *float64) any {
	if p == nil {
		return ""
	}
	return *p
}
