package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordSourceFetch(t *testing.T) {
	before := testutil.ToFloat64(sourceFetchTotal.WithLabelValues("taxon", "unavailable"))
	RecordSourceFetch("taxon", 0, true, 10*time.Millisecond)
	after := testutil.ToFloat64(sourceFetchTotal.WithLabelValues("taxon", "unavailable"))
	assert.Equal(t, before+1, after)

	before = testutil.ToFloat64(sourceFetchTotal.WithLabelValues("taxon", "empty"))
	RecordSourceFetch("taxon", 0, false, time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(sourceFetchTotal.WithLabelValues("taxon", "empty")))
}

func TestRecordGraft(t *testing.T) {
	before := testutil.ToFloat64(graftItemsTotal.WithLabelValues("accepted"))
	RecordGraft("accepted", 7)
	assert.Equal(t, before+7, testutil.ToFloat64(graftItemsTotal.WithLabelValues("accepted")))
}
