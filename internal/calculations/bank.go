package calculations

// NewBank создает банк с копией переданных ставок
func NewBank(id, name, shortName, logo, color string, rates ...float64) Bank {
	return Bank{
		ID:        id,
		Name:      name,
		ShortName: shortName,
		Logo:      logo,
		Rates:     append([]float64(nil), rates...),
		Color:     color,
	}
}

// EvaluateBank рассчитывает все модальности для одного банка и выбирает лучшую
func EvaluateBank(bank Bank, capital float64) BankEvaluation {
	averageRate := AverageRate(bank.Rates)

	eval := BankEvaluation{
		Bank:        bank.Clone(),
		AverageRate: averageRate,
		Annual:      AnnualReturn(capital, averageRate),
		Quarterly:   QuarterlyReturn(capital, averageRate),
		Monthly:     MonthlyReturn(capital, averageRate),
	}
	eval.BestModality = bestOf(eval.Results())

	return eval
}

// Calculate рассчитывает результаты для всех банков в исходном порядке
func Calculate(banks []Bank, capital float64) []BankEvaluation {
	out := make([]BankEvaluation, 0, len(banks))
	for _, bank := range banks {
		out = append(out, EvaluateBank(bank, capital))
	}
	return out
}

// bestOf выбирает результат с наибольшей итоговой суммой.
// При равенстве остается результат, встреченный раньше.
func bestOf(results []ModalityResult) ModalityResult {
	best := results[0]
	for _, r := range results[1:] {
		if r.FinalAmount > best.FinalAmount {
			best = r
		}
	}
	return best
}
