package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloud-ru/mcp-deposits-go/internal/calculations"
	"github.com/cloud-ru/mcp-deposits-go/internal/config"
	"github.com/cloud-ru/mcp-deposits-go/internal/metrics"
	"github.com/cloud-ru/mcp-deposits-go/internal/session"
	"github.com/cloud-ru/mcp-deposits-go/internal/validators"
	"github.com/cloud-ru/mcp-deposits-go/pkg/utils"
)

// ToolHandler представляет обработчик инструмента MCP
type ToolHandler func(ctx context.Context, params map[string]interface{}) (interface{}, error)

var (
	// ErrUnknownTool возвращается при обращении к незарегистрированному инструменту
	ErrUnknownTool = errors.New("неизвестный инструмент")
	// ErrInvalidParams оборачивает ошибки валидации входных данных
	ErrInvalidParams = errors.New("неверные параметры")
	// ErrCalculation оборачивает ошибки расчета
	ErrCalculation = errors.New("ошибка при выполнении расчета")
	// ErrHistory оборачивает ошибки работы с историей
	ErrHistory = errors.New("ошибка при работе с историей")
)

// CalculationResponse представляет результат сравнения вкладов
type CalculationResponse struct {
	Capital     float64                       `json:"capital"`
	Evaluations []calculations.BankEvaluation `json:"evaluations"`
	Best        calculations.BestInvestment   `json:"best"`
	Ranking     []calculations.RankingEntry   `json:"ranking"`
}

// EvolutionResponse представляет помесячную проекцию капитала
type EvolutionResponse struct {
	Capital     float64   `json:"capital"`
	AnnualRate  float64   `json:"annual_rate"`
	MonthlyRate float64   `json:"monthly_rate"`
	Months      int       `json:"months"`
	Evolution   []float64 `json:"evolution"`
}

// Registry хранит зарегистрированные инструменты по имени
type Registry struct {
	handlers map[string]ToolHandler
}

// NewRegistry регистрирует все инструменты сервиса
func NewRegistry(cfg *config.Config, tracer trace.Tracer, sess *session.Session) *Registry {
	return &Registry{handlers: map[string]ToolHandler{
		"calculate_deposits":   CalculateDepositsHandler(cfg, tracer),
		"best_investment":      BestInvestmentHandler(cfg, tracer),
		"rank_options":         RankOptionsHandler(cfg, tracer),
		"recommend_investment": RecommendInvestmentHandler(cfg, tracer),
		"simulate_scenario":    SimulateScenarioHandler(cfg, tracer),
		"project_evolution":    ProjectEvolutionHandler(cfg, tracer),
		"real_return":          RealReturnHandler(cfg, tracer),
		"session_set_inputs":   SessionSetInputsHandler(sess, tracer),
		"session_update_rate":  SessionUpdateRateHandler(sess, tracer),
		"session_load_example": SessionLoadExampleHandler(sess, tracer),
		"session_calculate":    SessionCalculateHandler(sess, tracer),
		"history_save":         HistorySaveHandler(sess, tracer),
		"history_list":         HistoryListHandler(sess, tracer),
		"history_load":         HistoryLoadHandler(sess, tracer),
		"history_delete":       HistoryDeleteHandler(sess, tracer),
		"history_clear":        HistoryClearHandler(sess, tracer),
	}}
}

// Names возвращает отсортированный список инструментов
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call вызывает инструмент по имени
func (r *Registry) Call(ctx context.Context, name string, params map[string]interface{}) (interface{}, error) {
	handler, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if params == nil {
		params = map[string]interface{}{}
	}
	return handler(ctx, params)
}

// CalculateDepositsHandler обрабатывает запрос на сравнение вкладов по всем банкам
func CalculateDepositsHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, c := begin(ctx, tracer, "calculate_deposits")
		defer c.end()

		capital, banks, err := depositInputs(cfg, params)
		if err != nil {
			return nil, c.validationError(err)
		}
		c.span.SetAttributes(
			attribute.Float64("capital", capital),
			attribute.Int("banks", len(banks)),
		)

		evaluations := calculations.Calculate(banks, capital)
		best, err := calculations.FindBest(evaluations)
		if err != nil {
			return nil, c.calculationError(err)
		}

		metrics.RecordBest(string(best.Modality.Kind), best.Modality.FinalAmount)
		c.success(
			attribute.String("best_bank", best.Bank.ID),
			attribute.String("best_modality", string(best.Modality.Kind)),
			attribute.Float64("best_final_amount", best.Modality.FinalAmount),
		)

		return &CalculationResponse{
			Capital:     capital,
			Evaluations: evaluations,
			Best:        best,
			Ranking:     calculations.RankAll(evaluations),
		}, nil
	}
}

// BestInvestmentHandler обрабатывает запрос на выбор лучшего варианта
func BestInvestmentHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, c := begin(ctx, tracer, "best_investment")
		defer c.end()

		capital, banks, err := depositInputs(cfg, params)
		if err != nil {
			return nil, c.validationError(err)
		}

		best, err := calculations.FindBest(calculations.Calculate(banks, capital))
		if err != nil {
			return nil, c.calculationError(err)
		}

		c.success(attribute.String("best_bank", best.Bank.ID))
		return best, nil
	}
}

// RankOptionsHandler обрабатывает запрос на построение рейтинга всех вариантов
func RankOptionsHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, c := begin(ctx, tracer, "rank_options")
		defer c.end()

		capital, banks, err := depositInputs(cfg, params)
		if err != nil {
			return nil, c.validationError(err)
		}

		ranking := calculations.RankAll(calculations.Calculate(banks, capital))

		c.success(attribute.Int("entries", len(ranking)))
		return ranking, nil
	}
}

// RecommendInvestmentHandler обрабатывает запрос на формирование рекомендации
func RecommendInvestmentHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, c := begin(ctx, tracer, "recommend_investment")
		defer c.end()

		capital, banks, err := depositInputs(cfg, params)
		if err != nil {
			return nil, c.validationError(err)
		}

		rec, err := calculations.Recommend(calculations.Calculate(banks, capital))
		if err != nil {
			return nil, c.calculationError(err)
		}

		c.success(attribute.String("best_bank", rec.BankID))
		return rec, nil
	}
}

// SimulateScenarioHandler обрабатывает запрос на расчет по сценарию изменения ставок
func SimulateScenarioHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, c := begin(ctx, tracer, "simulate_scenario")
		defer c.end()

		capital, banks, err := depositInputs(cfg, params)
		if err != nil {
			return nil, c.validationError(err)
		}
		scenario, _ := params["scenario"].(string)
		if scenario == "" {
			scenario = string(calculations.Realistic)
		}
		c.span.SetAttributes(attribute.String("scenario", scenario))

		evaluations := calculations.Calculate(calculations.ApplyScenario(banks, calculations.ScenarioKind(scenario)), capital)
		best, err := calculations.FindBest(evaluations)
		if err != nil {
			return nil, c.calculationError(err)
		}

		c.success(attribute.String("best_bank", best.Bank.ID))
		return &CalculationResponse{
			Capital:     capital,
			Evaluations: evaluations,
			Best:        best,
			Ranking:     calculations.RankAll(evaluations),
		}, nil
	}
}

// ProjectEvolutionHandler обрабатывает запрос на помесячную проекцию капитала
func ProjectEvolutionHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, c := begin(ctx, tracer, "project_evolution")
		defer c.end()

		capital, ok := params["capital"].(float64)
		if !ok {
			return nil, c.validationError(fmt.Errorf("invalid parameter: capital"))
		}
		annualRate, ok := params["annual_rate"].(float64)
		if !ok {
			return nil, c.validationError(fmt.Errorf("invalid parameter: annual_rate"))
		}
		months, present, err := intParam(params, "months")
		if err != nil {
			return nil, c.validationError(err)
		}
		if !present {
			months = calculations.DefaultEvolutionMonths
		}

		if err := validators.CheckCapital(cfg, capital); err != nil {
			return nil, c.validationError(err)
		}
		if err := validators.CheckRate(cfg, annualRate); err != nil {
			return nil, c.validationError(err)
		}
		if months < 1 || months > 600 {
			return nil, c.validationError(fmt.Errorf("months: значение должно быть в диапазоне [1; 600]"))
		}

		monthlyRate := annualRate / 12
		evolution := calculations.Evolution(capital, monthlyRate, months)

		c.success(attribute.Int("months", months))
		return &EvolutionResponse{
			Capital:     capital,
			AnnualRate:  annualRate,
			MonthlyRate: monthlyRate,
			Months:      months,
			Evolution:   evolution,
		}, nil
	}
}

// RealReturnHandler обрабатывает запрос на расчет реальной доходности
func RealReturnHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, c := begin(ctx, tracer, "real_return")
		defer c.end()

		nominal, ok := params["nominal_rate"].(float64)
		if !ok {
			return nil, c.validationError(fmt.Errorf("invalid parameter: nominal_rate"))
		}
		inflation, ok := params["inflation_rate"].(float64)
		if !ok {
			return nil, c.validationError(fmt.Errorf("invalid parameter: inflation_rate"))
		}
		if err := validators.CheckRate(cfg, nominal); err != nil {
			return nil, c.validationError(err)
		}
		if err := validators.ValidatePositiveNumber("inflation_rate", inflation, -99, 10000); err != nil {
			return nil, c.validationError(err)
		}

		realRate := calculations.RealReturn(nominal, inflation)

		c.success(attribute.Float64("real_rate", realRate))
		return map[string]interface{}{
			"nominal_rate":   nominal,
			"inflation_rate": inflation,
			"real_rate":      realRate,
		}, nil
	}
}

// SessionSetInputsHandler задает капитал и банки текущей сессии
func SessionSetInputsHandler(sess *session.Session, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, c := begin(ctx, tracer, "session_set_inputs")
		defer c.end()

		if capital, ok := params["capital"].(float64); ok {
			if err := sess.SetCapital(capital); err != nil {
				return nil, c.validationError(err)
			}
		}
		if _, ok := params["banks"]; ok {
			banks, err := banksParam(params)
			if err != nil {
				return nil, c.validationError(err)
			}
			if err := sess.SetBanks(banks); err != nil {
				return nil, c.validationError(err)
			}
		}

		c.success()
		return sessionState(sess), nil
	}
}

// SessionUpdateRateHandler изменяет одну ставку в текущей сессии
func SessionUpdateRateHandler(sess *session.Session, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, c := begin(ctx, tracer, "session_update_rate")
		defer c.end()

		bankIndex, present, err := intParam(params, "bank_index")
		if err != nil || !present {
			return nil, c.validationError(fmt.Errorf("invalid parameter: bank_index"))
		}
		yearIndex, present, err := intParam(params, "year_index")
		if err != nil || !present {
			return nil, c.validationError(fmt.Errorf("invalid parameter: year_index"))
		}
		rate, ok := params["rate"].(float64)
		if !ok {
			return nil, c.validationError(fmt.Errorf("invalid parameter: rate"))
		}

		if err := sess.UpdateBankRate(bankIndex, yearIndex, rate); err != nil {
			return nil, c.validationError(err)
		}

		c.success()
		return sessionState(sess), nil
	}
}

// SessionLoadExampleHandler загружает пример ставок в текущую сессию
func SessionLoadExampleHandler(sess *session.Session, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, c := begin(ctx, tracer, "session_load_example")
		defer c.end()

		sess.LoadExampleData()

		c.success()
		return sessionState(sess), nil
	}
}

// SessionCalculateHandler выполняет расчет по данным текущей сессии
func SessionCalculateHandler(sess *session.Session, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, c := begin(ctx, tracer, "session_calculate")
		defer c.end()

		capital, evaluations, err := sess.CalculateWithCapital()
		if err != nil {
			return nil, c.validationError(err)
		}
		best, err := calculations.FindBest(evaluations)
		if err != nil {
			return nil, c.calculationError(err)
		}

		metrics.RecordBest(string(best.Modality.Kind), best.Modality.FinalAmount)
		c.success(attribute.String("best_bank", best.Bank.ID))
		return &CalculationResponse{
			Capital:     capital,
			Evaluations: evaluations,
			Best:        best,
			Ranking:     calculations.RankAll(evaluations),
		}, nil
	}
}

// HistorySaveHandler сохраняет последний расчет в историю
func HistorySaveHandler(sess *session.Session, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, c := begin(ctx, tracer, "history_save")
		defer c.end()

		snap, err := sess.SaveToHistory(ctx)
		if errors.Is(err, session.ErrNoResults) {
			return nil, c.validationError(err)
		}
		if err != nil {
			return nil, c.historyError("save", err)
		}

		c.historySuccess(ctx, sess, "save")
		c.success(attribute.String("snapshot_id", snap.ID))
		return snap, nil
	}
}

// HistoryListHandler возвращает сохраненные расчеты
func HistoryListHandler(sess *session.Session, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, c := begin(ctx, tracer, "history_list")
		defer c.end()

		list := sess.History(ctx)

		metrics.HistoryOperations.WithLabelValues("list", "success").Inc()
		metrics.HistorySnapshots.Set(float64(len(list)))
		c.success(attribute.Int("count", len(list)))
		return list, nil
	}
}

// HistoryLoadHandler загружает расчет из истории в текущую сессию и пересчитывает его
func HistoryLoadHandler(sess *session.Session, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, c := begin(ctx, tracer, "history_load")
		defer c.end()

		id, _ := params["id"].(string)
		if id == "" {
			return nil, c.validationError(fmt.Errorf("invalid parameter: id"))
		}
		c.span.SetAttributes(attribute.String("snapshot_id", id))

		capital, evaluations, err := sess.LoadFromHistory(ctx, id)
		if err != nil {
			return nil, c.historyError("load", err)
		}
		best, err := calculations.FindBest(evaluations)
		if err != nil {
			return nil, c.calculationError(err)
		}

		metrics.HistoryOperations.WithLabelValues("load", "success").Inc()
		c.success()
		return &CalculationResponse{
			Capital:     capital,
			Evaluations: evaluations,
			Best:        best,
			Ranking:     calculations.RankAll(evaluations),
		}, nil
	}
}

// HistoryDeleteHandler удаляет расчет из истории
func HistoryDeleteHandler(sess *session.Session, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, c := begin(ctx, tracer, "history_delete")
		defer c.end()

		id, _ := params["id"].(string)
		if id == "" {
			return nil, c.validationError(fmt.Errorf("invalid parameter: id"))
		}

		if err := sess.DeleteHistoryItem(ctx, id); err != nil {
			return nil, c.historyError("delete", err)
		}

		c.historySuccess(ctx, sess, "delete")
		c.success(attribute.String("snapshot_id", id))
		return map[string]interface{}{"deleted": id}, nil
	}
}

// HistoryClearHandler очищает историю расчетов
func HistoryClearHandler(sess *session.Session, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, c := begin(ctx, tracer, "history_clear")
		defer c.end()

		if err := sess.ClearHistory(ctx); err != nil {
			return nil, c.historyError("clear", err)
		}

		c.historySuccess(ctx, sess, "clear")
		c.success()
		return map[string]interface{}{"cleared": true}, nil
	}
}

// SessionState представляет текущие входные данные сессии
type SessionState struct {
	Capital        float64             `json:"capital"`
	Banks          []calculations.Bank `json:"banks"`
	IsDataComplete bool                `json:"is_data_complete"`
	HasResults     bool                `json:"has_results"`
}

func sessionState(sess *session.Session) *SessionState {
	return &SessionState{
		Capital:        sess.Capital(),
		Banks:          sess.Banks(),
		IsDataComplete: sess.IsDataComplete(),
		HasResults:     sess.HasResults(),
	}
}

// depositInputs извлекает и проверяет капитал и банки для расчета
func depositInputs(cfg *config.Config, params map[string]interface{}) (float64, []calculations.Bank, error) {
	capital, ok := params["capital"].(float64)
	if !ok {
		return 0, nil, fmt.Errorf("invalid parameter: capital")
	}
	banks, err := banksParam(params)
	if err != nil {
		return 0, nil, err
	}

	if err := validators.CheckCapital(cfg, capital); err != nil {
		return 0, nil, err
	}
	if err := validators.CheckBanks(cfg, banks); err != nil {
		return 0, nil, err
	}
	if !validators.AreAllBanksComplete(cfg, banks) {
		return 0, nil, session.ErrIncompleteData
	}
	return capital, banks, nil
}

// intParam читает целочисленный параметр. Дробные и нечисловые значения
// отклоняются, отсутствие параметра ошибкой не считается.
func intParam(params map[string]interface{}, key string) (int, bool, error) {
	raw, ok := params[key]
	if !ok {
		return 0, false, nil
	}
	value, ok := raw.(float64)
	if !ok || !utils.IsFinite(value) || value != math.Trunc(value) || math.Abs(value) > math.MaxInt32 {
		return 0, true, fmt.Errorf("invalid parameter: %s: ожидается целое число", key)
	}
	return int(value), true, nil
}

func banksParam(params map[string]interface{}) ([]calculations.Bank, error) {
	raw, ok := params["banks"]
	if !ok {
		return nil, fmt.Errorf("invalid parameter: banks")
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid parameter: banks: %w", err)
	}
	var banks []calculations.Bank
	if err := json.Unmarshal(data, &banks); err != nil {
		return nil, fmt.Errorf("invalid parameter: banks: %w", err)
	}
	return banks, nil
}

// call отслеживает один вызов инструмента: спан и метрики
type call struct {
	name string
	span trace.Span
}

func begin(ctx context.Context, tracer trace.Tracer, toolName string) (context.Context, *call) {
	ctx, span := tracer.Start(ctx, toolName)
	metrics.APICalls.WithLabelValues("mcp", toolName, "started").Inc()
	return ctx, &call{name: toolName, span: span}
}

func (c *call) end() {
	c.span.End()
}

func (c *call) validationError(err error) error {
	c.span.SetAttributes(attribute.String("error", "validation_error"))
	metrics.ToolCalls.WithLabelValues(c.name, "validation_error").Inc()
	metrics.CalculationErrors.WithLabelValues(c.name, "validation").Inc()
	metrics.APICalls.WithLabelValues("mcp", c.name, "error").Inc()
	return fmt.Errorf("%w: %w", ErrInvalidParams, err)
}

func (c *call) calculationError(err error) error {
	c.span.SetAttributes(attribute.String("error", "calculation_error"))
	metrics.ToolCalls.WithLabelValues(c.name, "error").Inc()
	metrics.CalculationErrors.WithLabelValues(c.name, "calculation").Inc()
	metrics.APICalls.WithLabelValues("mcp", c.name, "error").Inc()
	return fmt.Errorf("%w: %w", ErrCalculation, err)
}

func (c *call) historyError(operation string, err error) error {
	c.span.SetAttributes(attribute.String("error", "history_error"))
	metrics.ToolCalls.WithLabelValues(c.name, "error").Inc()
	metrics.HistoryOperations.WithLabelValues(operation, "error").Inc()
	metrics.APICalls.WithLabelValues("mcp", c.name, "error").Inc()
	return fmt.Errorf("%w: %w", ErrHistory, err)
}

func (c *call) historySuccess(ctx context.Context, sess *session.Session, operation string) {
	metrics.HistoryOperations.WithLabelValues(operation, "success").Inc()
	metrics.HistorySnapshots.Set(float64(len(sess.History(ctx))))
}

func (c *call) success(attrs ...attribute.KeyValue) {
	c.span.SetAttributes(append(attrs, attribute.Bool("success", true))...)
	metrics.ToolCalls.WithLabelValues(c.name, "success").Inc()
	metrics.APICalls.WithLabelValues("mcp", c.name, "success").Inc()
}
