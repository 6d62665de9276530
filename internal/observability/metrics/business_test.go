package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPriceCheck(t *testing.T) {
	before := testutil.ToFloat64(PriceChecksTotal.WithLabelValues("success"))

	RecordPriceCheck("success", 120*time.Millisecond)

	after := testutil.ToFloat64(PriceChecksTotal.WithLabelValues("success"))
	assert.Equal(t, before+1, after)
}

func TestRecordAlertTriggered(t *testing.T) {
	before := testutil.ToFloat64(AlertsTriggeredTotal)

	RecordAlertTriggered()

	var m dto.Metric
	require.NoError(t, AlertsTriggeredTotal.Write(&m))
	assert.Equal(t, before+1, m.GetCounter().GetValue())
}

func TestRecordAlertSinkFailure(t *testing.T) {
	before := testutil.ToFloat64(AlertSinkFailures.WithLabelValues("webhook"))

	RecordAlertSinkFailure("webhook")

	assert.Equal(t, before+1, testutil.ToFloat64(AlertSinkFailures.WithLabelValues("webhook")))
}

func TestRecordDBQuery(t *testing.T) {
	RecordDBQuery("product.List", 3*time.Millisecond)

	// One labelled child per recorded operation name.
	assert.GreaterOrEqual(t, testutil.CollectAndCount(DBQueryDuration, "db_query_duration_seconds"), 1)
}

func TestUpdateGauges(t *testing.T) {
	UpdateProductsTotal(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(ProductsTotal))

	UpdateObservationsTotal(128)
	assert.Equal(t, 128.0, testutil.ToFloat64(ObservationsTotal))
}
