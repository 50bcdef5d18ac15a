package calculations

import (
	"fmt"

	"github.com/cloud-ru/mcp-deposits-go/pkg/utils"
)

// Recommend формирует рекомендацию: лучший вариант, ближайший конкурент
// среди других банков и преимущество победителя
func Recommend(evaluations []BankEvaluation) (*Recommendation, error) {
	best, err := FindBest(evaluations)
	if err != nil {
		return nil, err
	}

	rec := &Recommendation{
		BankID:        best.Bank.ID,
		BankName:      best.Bank.Name,
		Modality:      best.Modality.Name,
		FinalAmount:   utils.Round2(best.Modality.FinalAmount),
		Profit:        utils.Round2(best.Modality.Profit),
		EffectiveRate: utils.Round2(best.Modality.EffectiveRate),
	}

	// Ближайший конкурент: лучший вариант среди остальных банков
	var runnerUp *BankEvaluation
	for i := range evaluations {
		if evaluations[i].Bank.ID == best.Bank.ID {
			continue
		}
		if runnerUp == nil || evaluations[i].BestModality.FinalAmount > runnerUp.BestModality.FinalAmount {
			runnerUp = &evaluations[i]
		}
	}

	if runnerUp == nil {
		rec.RecommendationMsg = fmt.Sprintf(
			"%s con modalidad %s ofrece un rendimiento efectivo anual de %s.",
			best.Bank.Name, best.Modality.Name, utils.FormatPercentage(best.Modality.EffectiveRate, 2),
		)
		return rec, nil
	}

	advantage := best.Modality.FinalAmount - runnerUp.BestModality.FinalAmount
	advantagePercent := DifferencePercentage(best.Modality.FinalAmount, runnerUp.BestModality.FinalAmount)

	rec.RunnerUpBank = runnerUp.Bank.Name
	rec.RunnerUpModality = runnerUp.BestModality.Name
	rec.AdvantageAmount = utils.Round2(advantage)
	rec.AdvantagePercent = utils.Round2(advantagePercent)

	if advantage == 0 {
		rec.RecommendationMsg = fmt.Sprintf(
			"%s (%s) y %s (%s) ofrecen el mismo monto final.",
			best.Bank.Name, best.Modality.Name, runnerUp.Bank.Name, runnerUp.BestModality.Name,
		)
	} else {
		rec.RecommendationMsg = fmt.Sprintf(
			"%s con modalidad %s es la mejor opción: supera a %s (%s) en %s.",
			best.Bank.Name, best.Modality.Name, runnerUp.Bank.Name, runnerUp.BestModality.Name,
			utils.FormatPercentage(advantagePercent, 2),
		)
	}

	return rec, nil
}
