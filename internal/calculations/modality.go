package calculations

import (
	"fmt"
	"math"
)

// AnnualReturn рассчитывает доход при размещении на один год без капитализации
func AnnualReturn(capital, averageRate float64) ModalityResult {
	finalAmount := capital * (1 + averageRate/100)

	return ModalityResult{
		Name:          Annual.DisplayName(),
		Kind:          Annual,
		FinalAmount:   finalAmount,
		Profit:        finalAmount - capital,
		EffectiveRate: averageRate,
		Periods:       1,
		PeriodRate:    averageRate,
	}
}

// QuarterlyReturn рассчитывает доход при реинвестировании каждый квартал
func QuarterlyReturn(capital, averageRate float64) ModalityResult {
	return compoundReturn(Quarterly, capital, averageRate)
}

// MonthlyReturn рассчитывает доход при реинвестировании каждый месяц
func MonthlyReturn(capital, averageRate float64) ModalityResult {
	return compoundReturn(Monthly, capital, averageRate)
}

// Project рассчитывает результат для произвольной модальности
func Project(kind ModalityKind, capital, averageRate float64) (ModalityResult, error) {
	switch kind {
	case Annual:
		return AnnualReturn(capital, averageRate), nil
	case Quarterly:
		return QuarterlyReturn(capital, averageRate), nil
	case Monthly:
		return MonthlyReturn(capital, averageRate), nil
	default:
		return ModalityResult{}, fmt.Errorf("неизвестная модальность: %q", kind)
	}
}

func compoundReturn(kind ModalityKind, capital, averageRate float64) ModalityResult {
	n := kind.Periods()
	periodRate := averageRate / float64(n)
	finalAmount := capital * math.Pow(1+periodRate/100, float64(n))

	// При нулевом капитале эффективная ставка не определена, считаем ее нулевой
	effectiveRate := 0.0
	if capital != 0 {
		effectiveRate = (finalAmount/capital - 1) * 100
	}

	return ModalityResult{
		Name:          kind.DisplayName(),
		Kind:          kind,
		FinalAmount:   finalAmount,
		Profit:        finalAmount - capital,
		EffectiveRate: effectiveRate,
		Periods:       n,
		PeriodRate:    periodRate,
	}
}
