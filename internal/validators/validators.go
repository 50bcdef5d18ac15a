package validators

import (
	"fmt"

	"github.com/cloud-ru/mcp-deposits-go/internal/calculations"
	"github.com/cloud-ru/mcp-deposits-go/internal/config"
	"github.com/cloud-ru/mcp-deposits-go/pkg/utils"
)

// ValidatePositiveNumber проверяет, что число конечное и в допустимом диапазоне
func ValidatePositiveNumber(name string, value float64, minInclusive, maxInclusive float64) error {
	if !utils.IsFinite(value) {
		return fmt.Errorf("%s: значение не является конечным числом", name)
	}
	if value < minInclusive {
		return fmt.Errorf("%s: значение должно быть ≥ %.0f", name, minInclusive)
	}
	if value > maxInclusive {
		return fmt.Errorf("%s: значение слишком велико (>%.0f)", name, maxInclusive)
	}
	return nil
}

// ValidateRate сообщает, допустима ли ставка: конечное число в диапазоне [0; MaxRate]
func ValidateRate(cfg *config.Config, rate float64) bool {
	return CheckRate(cfg, rate) == nil
}

// CheckRate проверяет процентную ставку
func CheckRate(cfg *config.Config, rate float64) error {
	return ValidatePositiveNumber("rate", rate, 0.0, cfg.RateCeiling())
}

// CheckCapital проверяет сумму вклада
func CheckCapital(cfg *config.Config, capital float64) error {
	maxCapital := 1e12
	if cfg != nil && cfg.MaxCapital > 0 {
		maxCapital = cfg.MaxCapital
	}
	return ValidatePositiveNumber("capital", capital, 0.0, maxCapital)
}

// CheckBank проверяет идентификатор, название и ставки банка
func CheckBank(cfg *config.Config, bank calculations.Bank) error {
	if bank.ID == "" {
		return fmt.Errorf("bank: не указан идентификатор")
	}
	if bank.Name == "" {
		return fmt.Errorf("bank %s: не указано название", bank.ID)
	}
	if len(bank.Rates) != config.RateYears {
		return fmt.Errorf("bank %s: ожидается %d ставок, получено %d", bank.ID, config.RateYears, len(bank.Rates))
	}
	for i, rate := range bank.Rates {
		if err := CheckRate(cfg, rate); err != nil {
			return fmt.Errorf("bank %s, год %d: %w", bank.ID, i+1, err)
		}
	}
	return nil
}

// CheckBanks проверяет список банков и уникальность идентификаторов
func CheckBanks(cfg *config.Config, banks []calculations.Bank) error {
	if len(banks) == 0 {
		return fmt.Errorf("banks: список пуст")
	}
	seen := make(map[string]struct{}, len(banks))
	for _, bank := range banks {
		if err := CheckBank(cfg, bank); err != nil {
			return err
		}
		if _, dup := seen[bank.ID]; dup {
			return fmt.Errorf("bank %s: идентификатор повторяется", bank.ID)
		}
		seen[bank.ID] = struct{}{}
	}
	return nil
}

// IsBankDataComplete сообщает, заполнены ли все ставки банка положительными допустимыми значениями
func IsBankDataComplete(cfg *config.Config, bank calculations.Bank) bool {
	if len(bank.Rates) != config.RateYears {
		return false
	}
	for _, rate := range bank.Rates {
		if rate <= 0 || !ValidateRate(cfg, rate) {
			return false
		}
	}
	return true
}

// AreAllBanksComplete сообщает, заполнены ли данные всех банков
func AreAllBanksComplete(cfg *config.Config, banks []calculations.Bank) bool {
	for _, bank := range banks {
		if !IsBankDataComplete(cfg, bank) {
			return false
		}
	}
	return true
}
