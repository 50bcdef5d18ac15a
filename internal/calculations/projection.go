package calculations

// DefaultEvolutionMonths задает горизонт помесячной проекции по умолчанию
const DefaultEvolutionMonths = 12

// Evolution рассчитывает помесячную динамику капитала при ежемесячной капитализации.
// Возвращает months+1 значений, первое из которых равно исходному капиталу.
func Evolution(capital, monthlyRate float64, months int) []float64 {
	if months < 0 {
		months = 0
	}

	evolution := make([]float64, 0, months+1)
	evolution = append(evolution, capital)
	for i := 1; i <= months; i++ {
		evolution = append(evolution, evolution[i-1]*(1+monthlyRate/100))
	}
	return evolution
}

// RealReturn рассчитывает реальную доходность с учетом инфляции (уравнение Фишера)
func RealReturn(nominalRate, inflationRate float64) float64 {
	return ((1+nominalRate/100)/(1+inflationRate/100) - 1) * 100
}

// DifferencePercentage возвращает относительную разницу value1 к value2 в процентах
func DifferencePercentage(value1, value2 float64) float64 {
	if value2 == 0 {
		return 0
	}
	return (value1 - value2) / value2 * 100
}
