package calculations

// ModalityKind определяет схему реинвестирования вклада
type ModalityKind string

const (
	Annual    ModalityKind = "annual"
	Quarterly ModalityKind = "quarterly"
	Monthly   ModalityKind = "monthly"
)

// Modalities задает фиксированный порядок обхода модальностей.
// Порядок определяет разрешение ничьих: побеждает более ранняя модальность.
var Modalities = []ModalityKind{Annual, Quarterly, Monthly}

// Periods возвращает количество периодов капитализации за год
func (k ModalityKind) Periods() int {
	switch k {
	case Quarterly:
		return 4
	case Monthly:
		return 12
	default:
		return 1
	}
}

// DisplayName возвращает название модальности для отображения
func (k ModalityKind) DisplayName() string {
	switch k {
	case Quarterly:
		return "Trimestral"
	case Monthly:
		return "Mensual"
	default:
		return "Anual"
	}
}

// Valid сообщает, является ли значение известной модальностью
func (k ModalityKind) Valid() bool {
	return k == Annual || k == Quarterly || k == Monthly
}

// Bank описывает банк и его исторические годовые ставки
type Bank struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ShortName string    `json:"shortName"`
	Logo      string    `json:"logo"`
	Rates     []float64 `json:"rates"`
	Color     string    `json:"color"`
}

// Clone возвращает копию банка, не разделяющую срез ставок
func (b Bank) Clone() Bank {
	out := b
	if b.Rates != nil {
		out.Rates = append([]float64(nil), b.Rates...)
	}
	return out
}

// ModalityResult представляет результат одной модальности вклада
type ModalityResult struct {
	Name          string       `json:"name"`
	Kind          ModalityKind `json:"type"`
	FinalAmount   float64      `json:"finalAmount"`
	Profit        float64      `json:"profit"`
	EffectiveRate float64      `json:"effectiveRate"`
	Periods       int          `json:"periods"`
	PeriodRate    float64      `json:"periodRate"`
}

// BankEvaluation представляет результаты расчета по одному банку
type BankEvaluation struct {
	Bank         Bank           `json:"bank"`
	AverageRate  float64        `json:"averageRate"`
	Annual       ModalityResult `json:"annual"`
	Quarterly    ModalityResult `json:"quarterly"`
	Monthly      ModalityResult `json:"monthly"`
	BestModality ModalityResult `json:"bestModality"`
}

// Results возвращает результаты модальностей в фиксированном порядке
func (e BankEvaluation) Results() []ModalityResult {
	return []ModalityResult{e.Annual, e.Quarterly, e.Monthly}
}

// Clone возвращает глубокую копию оценки
func (e BankEvaluation) Clone() BankEvaluation {
	out := e
	out.Bank = e.Bank.Clone()
	return out
}

// BestInvestment представляет лучшую комбинацию банк × модальность
type BestInvestment struct {
	Bank       Bank           `json:"bank"`
	Modality   ModalityResult `json:"modality"`
	Evaluation BankEvaluation `json:"bankResults"`
}

// RankingEntry представляет одну позицию общего рейтинга
type RankingEntry struct {
	Bank     string  `json:"bank"`
	Modality string  `json:"modality"`
	Amount   float64 `json:"amount"`
	Rank     int     `json:"rank"`
}

// Recommendation представляет итоговую рекомендацию по результатам сравнения
type Recommendation struct {
	BankID            string  `json:"bank_id"`
	BankName          string  `json:"bank_name"`
	Modality          string  `json:"modality"`
	FinalAmount       float64 `json:"final_amount"`
	Profit            float64 `json:"profit"`
	EffectiveRate     float64 `json:"effective_rate"`
	RunnerUpBank      string  `json:"runner_up_bank,omitempty"`
	RunnerUpModality  string  `json:"runner_up_modality,omitempty"`
	AdvantageAmount   float64 `json:"advantage_amount"`
	AdvantagePercent  float64 `json:"advantage_percent"`
	RecommendationMsg string  `json:"recommendation"`
}
