package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()

	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestRecordCommand_DefaultsLabels(t *testing.T) {
	before := counterValue(t, botCommandsTotal.WithLabelValues("unknown", "unknown"))

	RecordCommand("", "", 5*time.Millisecond)

	assert.Equal(t, before+1, counterValue(t, botCommandsTotal.WithLabelValues("unknown", "unknown")))
}

func TestRecordAdjustmentAndExpel(t *testing.T) {
	inc := counterValue(t, creditAdjustmentsTotal.WithLabelValues("increment"))
	failed := counterValue(t, expelAttemptsTotal.WithLabelValues("failed"))
	errs := counterValue(t, errorsTotal.WithLabelValues("E300", "medium"))

	RecordAdjustment("increment")
	RecordExpel("failed")
	RecordError("E300", "medium")

	assert.Equal(t, inc+1, counterValue(t, creditAdjustmentsTotal.WithLabelValues("increment")))
	assert.Equal(t, failed+1, counterValue(t, expelAttemptsTotal.WithLabelValues("failed")))
	assert.Equal(t, errs+1, counterValue(t, errorsTotal.WithLabelValues("E300", "medium")))
}
