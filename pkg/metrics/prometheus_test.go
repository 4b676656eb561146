package metrics

import (
	"testing"

	"MarketRegime/internal/domain/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordEvaluation(models.LevelWarning)
	r.RecordEvaluation(models.LevelWarning)
	r.RecordFlags(models.TriggerFlags{TriggerC: true})
	r.RecordSnapshot(models.IndicatorSnapshot{Distortion: models.DistortionReading{Gap: 0.18}})
	r.RecordError("data_unavailable")
	r.RecordLatency("fetch", 0.2)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.evaluations.WithLabelValues("WARNING")))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.level))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.triggers.WithLabelValues("c")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.triggers.WithLabelValues("a")))
	assert.Equal(t, 0.18, testutil.ToFloat64(r.indicators.WithLabelValues("distortion_gap")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("data_unavailable")))
}

func TestNewOnSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
