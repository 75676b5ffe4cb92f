package ai

import (
	"fmt"
	"strconv"
	"strings"

	"micampo/entities"
)

const SystemPrompt = "Eres un asistente experto en agricultura y ganadería llamado MiCampo AI. " +
	"Tienes acceso a los datos de la finca del usuario. Responde de manera concisa y práctica, " +
	"enfocándote en ayudar con decisiones operativas."

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// FarmContext summarises the snapshot for the completion prompt.
func FarmContext(s entities.FarmSnapshot) string {
	plots := make([]string, 0, len(s.Plots))
	for _, p := range s.Plots {
		crop := "Sin cultivo"
		if p.Crop != nil && *p.Crop != "" {
			crop = *p.Crop
		}
		ndvi := "N/A"
		if p.NDVI != nil {
			ndvi = num(*p.NDVI)
		}
		plots = append(plots, fmt.Sprintf("%s (%s ha, %s, NDVI: %s)", p.Name, num(p.Hectares), crop, ndvi))
	}
	supplies := make([]string, 0, len(s.Supplies))
	for _, in := range s.Supplies {
		supplies = append(supplies, fmt.Sprintf("%s: %s %s", in.Name, num(in.Quantity), in.Unit))
	}

	var b strings.Builder
	b.WriteString("Datos de la finca:\n")
	fmt.Fprintf(&b, "- Lotes: %s\n", strings.Join(plots, ", "))
	fmt.Fprintf(&b, "- Animales: %d registrados\n", len(s.Animals))
	fmt.Fprintf(&b, "- Insumos: %s\n", strings.Join(supplies, ", "))
	fmt.Fprintf(&b, "- Tareas pendientes: %d", len(openTasks(s)))
	if w := s.Weather; w != nil {
		fmt.Fprintf(&b, "\n- Clima actual: %s°C, %s, humedad %s%%", num(w.Temp), w.Description, num(w.Humidity))
	}
	return b.String()
}

// BuildMessages prepends the system prompt with the farm context.
func BuildMessages(s entities.FarmSnapshot, transcript []entities.ChatMessage) []Message {
	out := make([]Message, 0, len(transcript)+1)
	out = append(out, Message{Role: string(entities.RoleSystem), Content: SystemPrompt + "\n\n" + FarmContext(s)})
	for _, m := range transcript {
		out = append(out, Message{Role: string(m.Role), Content: m.Content})
	}
	return out
}

func openTasks(s entities.FarmSnapshot) []entities.Task {
	var out []entities.Task
	for _, t := range s.Tasks {
		if t.Status != entities.TaskCompleted {
			out = append(out, t)
		}
	}
	return out
}
