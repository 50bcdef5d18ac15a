package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ToolCalls счетчик вызовов инструментов
	ToolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tool_calls_total",
			Help: "Общее количество вызовов инструментов",
		},
		[]string{"tool_name", "status"},
	)

	// CalculationErrors счетчик ошибок расчетов
	CalculationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calculation_errors_total",
			Help: "Количество ошибок расчетов",
		},
		[]string{"tool_name", "error_type"},
	)

	// APICalls счетчик вызовов API
	APICalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_calls_total",
			Help: "Вызовы API инструментов",
		},
		[]string{"service", "endpoint", "status"},
	)

	// HistoryOperations счетчик операций с историей расчетов
	HistoryOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "history_operations_total",
			Help: "Операции с историей расчетов",
		},
		[]string{"operation", "status"},
	)

	// HistorySnapshots количество сохраненных расчетов
	HistorySnapshots = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "history_snapshots",
			Help: "Количество расчетов в истории",
		},
	)

	// BestFinalAmount итоговая сумма лучшего варианта последнего расчета.
	// Метка modality принимает только annual, quarterly или monthly.
	BestFinalAmount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "best_final_amount",
			Help: "Итоговая сумма лучшего варианта последнего расчета",
		},
		[]string{"modality"},
	)

	bestMu sync.Mutex
)

// RecordBest заменяет значение BestFinalAmount результатом последнего расчета
func RecordBest(modality string, amount float64) {
	bestMu.Lock()
	defer bestMu.Unlock()
	BestFinalAmount.Reset()
	BestFinalAmount.WithLabelValues(modality).Set(amount)
}
