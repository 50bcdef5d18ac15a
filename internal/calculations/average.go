package calculations

import "gonum.org/v1/gonum/stat"

// AverageRate рассчитывает среднюю ставку по историческим данным.
// Для пустого набора возвращает 0.
func AverageRate(rates []float64) float64 {
	if len(rates) == 0 {
		return 0
	}
	return stat.Mean(rates, nil)
}
