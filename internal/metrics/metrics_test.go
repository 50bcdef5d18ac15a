package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordBestKeepsSingleSeries(t *testing.T) {
	RecordBest("monthly", 142576.09)
	RecordBest("annual", 150000)

	assert.Equal(t, 1, testutil.CollectAndCount(BestFinalAmount))
	assert.Equal(t, 150000.0, testutil.ToFloat64(BestFinalAmount.WithLabelValues("annual")))
}
