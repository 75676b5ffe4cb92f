// pkg/ai/mock_client.go

package ai

import (
	"context"
	"fmt"
	"math"
	"strings"

	"micampo/entities"
)

// Rule answers when Match accepts the lowercased message. Rules are tried
// in order and the first match wins.
type Rule struct {
	Name  string
	Match func(msg string) bool
	Reply func(msg string, s entities.FarmSnapshot) string
}

func containsAll(words ...string) func(string) bool {
	return func(msg string) bool {
		for _, w := range words {
			if !strings.Contains(msg, w) {
				return false
			}
		}
		return true
	}
}

func containsAny(words ...string) func(string) bool {
	return func(msg string) bool {
		for _, w := range words {
			if strings.Contains(msg, w) {
				return true
			}
		}
		return false
	}
}

// DefaultRules is the built-in assistant used when no completion API is
// configured.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "plot_yield", Match: containsAll("lote", "rendimiento"), Reply: replyYield},
		{Name: "animals", Match: containsAny("animal", "vaca"), Reply: replyAnimals},
		{Name: "supplies", Match: containsAny("insumo", "stock"), Reply: replySupplies},
		{Name: "tasks", Match: containsAny("tarea", "pendiente"), Reply: replyTasks},
		{Name: "weather", Match: containsAny("clima", "pronostico", "pronóstico"), Reply: replyWeather},
		{Name: "greeting", Match: containsAny("hola", "buenos"), Reply: func(string, entities.FarmSnapshot) string {
			return "¡Hola! ¿En qué puedo ayudarte hoy con tu campo?"
		}},
	}
}

// Answer runs the rules over msg and falls back to a generic reply.
func Answer(rules []Rule, msg string, s entities.FarmSnapshot) (rule, reply string) {
	lower := strings.ToLower(msg)
	for _, r := range rules {
		if r.Match(lower) {
			return r.Name, r.Reply(msg, s)
		}
	}
	return "fallback", fmt.Sprintf("Entiendo tu consulta sobre \"%s\". Puedo ayudarte con información sobre "+
		"tus lotes, animales, insumos, tareas y el clima. ¿Podrías darme más detalles?", msg)
}

func replyYield(_ string, s entities.FarmSnapshot) string {
	if len(s.Plots) == 0 {
		return "Todavía no tenés lotes cargados. Agregá uno para estimar su rendimiento."
	}
	p := s.Plots[0]
	ndvi := 0.7
	if p.NDVI != nil {
		ndvi = *p.NDVI
	}
	est := math.Round(p.Hectares * ndvi * 35)
	return fmt.Sprintf("Según el NDVI actual (%s), el rendimiento estimado de %s (%s ha) es de unos %s kg. "+
		"Mantener el monitoreo del índice ayuda a anticipar problemas de cultivo.", num(ndvi), p.Name, num(p.Hectares), num(est))
}

func replyAnimals(_ string, s entities.FarmSnapshot) string {
	total := 0.0
	for _, a := range s.Animals {
		if a.MilkYield != nil {
			total += *a.MilkYield
		}
	}
	text := fmt.Sprintf("Tenés %d animales registrados. La producción total de leche es de %s litros por día.",
		len(s.Animals), num(total))
	if len(s.Animals) > 0 {
		a := s.Animals[0]
		milk := 0.0
		if a.MilkYield != nil {
			milk = *a.MilkYield
		}
		text += fmt.Sprintf(" El animal %s produce %s L/día.", a.RFID, num(milk))
	}
	return text
}

func replySupplies(_ string, s entities.FarmSnapshot) string {
	var low, listed []string
	for _, in := range s.Supplies {
		listed = append(listed, fmt.Sprintf("%s: %s %s", in.Name, num(in.Quantity), in.Unit))
		if in.BelowMinimum() {
			low = append(low, fmt.Sprintf("%s (%s %s, mínimo %s)", in.Name, num(in.Quantity), in.Unit, num(in.MinStock)))
		}
	}
	if len(low) > 0 {
		return "Atención: estos insumos están por debajo del stock mínimo: " + strings.Join(low, ", ") +
			". Te recomiendo reponerlos pronto."
	}
	if len(listed) == 0 {
		return "No tenés insumos registrados."
	}
	return "Todos los insumos tienen stock adecuado: " + strings.Join(listed, ", ") + "."
}

func replyTasks(_ string, s entities.FarmSnapshot) string {
	open := openTasks(s)
	if len(open) == 0 {
		return "No tenés tareas pendientes. ¡Buen trabajo!"
	}
	items := make([]string, 0, len(open))
	for _, t := range open {
		items = append(items, fmt.Sprintf("%s (%s)", t.Title, t.Status))
	}
	return fmt.Sprintf("Tenés %d tareas pendientes: %s.", len(open), strings.Join(items, ", "))
}

func replyWeather(_ string, s entities.FarmSnapshot) string {
	text := "Podés ver el pronóstico extendido de 5 días en el módulo de Clima."
	if w := s.Weather; w != nil {
		text = fmt.Sprintf("Ahora hay %s°C, %s, con humedad del %s%%. ", num(w.Temp), strings.ToLower(w.Description), num(w.Humidity)) + text
	}
	return text
}

// mockClient answers from the farm snapshot with the rule list.
type mockClient struct {
	src   SnapshotSource
	rules []Rule
}

func NewMock(src SnapshotSource) Client { return &mockClient{src: src, rules: DefaultRules()} }

func (m *mockClient) Complete(_ context.Context, msgs []Message) (string, error) {
	last := ""
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == string(entities.RoleUser) {
			last = msgs[i].Content
			break
		}
	}
	_, reply := Answer(m.rules, last, m.src.Snapshot())
	return reply, nil
}
