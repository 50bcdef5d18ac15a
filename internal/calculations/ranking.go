package calculations

import (
	"errors"
	"sort"
)

// ErrNoEvaluations возвращается при попытке выбрать лучший вариант из пустого набора
var ErrNoEvaluations = errors.New("нет результатов для сравнения")

// FindBest находит лучшую комбинацию банк × модальность.
// Банки просматриваются в исходном порядке, ничья сохраняет более ранний вариант.
func FindBest(evaluations []BankEvaluation) (BestInvestment, error) {
	if len(evaluations) == 0 {
		return BestInvestment{}, ErrNoEvaluations
	}

	bestIdx := 0
	for i := 1; i < len(evaluations); i++ {
		if evaluations[i].BestModality.FinalAmount > evaluations[bestIdx].BestModality.FinalAmount {
			bestIdx = i
		}
	}

	best := evaluations[bestIdx].Clone()
	return BestInvestment{
		Bank:       best.Bank,
		Modality:   best.BestModality,
		Evaluation: best,
	}, nil
}

// RankAll строит рейтинг всех комбинаций банк × модальность по убыванию итоговой суммы
func RankAll(evaluations []BankEvaluation) []RankingEntry {
	entries := make([]RankingEntry, 0, len(evaluations)*len(Modalities))
	for _, eval := range evaluations {
		for _, result := range eval.Results() {
			entries = append(entries, RankingEntry{
				Bank:     eval.Bank.Name,
				Modality: result.Name,
				Amount:   result.FinalAmount,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Amount > entries[j].Amount
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries
}
