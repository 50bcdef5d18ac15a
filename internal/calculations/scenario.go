package calculations

// ScenarioKind определяет сценарий изменения ставок
type ScenarioKind string

const (
	Optimistic  ScenarioKind = "optimistic"
	Realistic   ScenarioKind = "realistic"
	Pessimistic ScenarioKind = "pessimistic"
)

// Scenario описывает сценарий симуляции
type Scenario struct {
	Name        string       `json:"name"`
	Kind        ScenarioKind `json:"type"`
	Multiplier  float64      `json:"multiplier"`
	Description string       `json:"description"`
}

// Scenarios перечисляет доступные сценарии симуляции
var Scenarios = []Scenario{
	{Name: "Optimista", Kind: Optimistic, Multiplier: 1.2, Description: "Tasas aumentan 20%"},
	{Name: "Realista", Kind: Realistic, Multiplier: 1.0, Description: "Tasas actuales"},
	{Name: "Pesimista", Kind: Pessimistic, Multiplier: 0.8, Description: "Tasas disminuyen 20%"},
}

// ScenarioMultiplier возвращает множитель сценария, 1 для неизвестного сценария
func ScenarioMultiplier(kind ScenarioKind) float64 {
	for _, s := range Scenarios {
		if s.Kind == kind {
			return s.Multiplier
		}
	}
	return 1
}

// ApplyScenario возвращает копии банков со ставками, умноженными на множитель сценария
func ApplyScenario(banks []Bank, kind ScenarioKind) []Bank {
	multiplier := ScenarioMultiplier(kind)

	out := make([]Bank, 0, len(banks))
	for _, bank := range banks {
		scaled := bank.Clone()
		for i := range scaled.Rates {
			scaled.Rates[i] *= multiplier
		}
		out = append(out, scaled)
	}
	return out
}
