package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.DoiResolutions.WithLabelValues(Outcome(nil)).Inc()
	m.ArchiveRequests.WithLabelValues("create", Outcome(errors.New("boom"))).Inc()
	m.ArchiveUp.Set(1)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.DoiResolutions.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ArchiveRequests.WithLabelValues("create", "failure")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ArchiveUp))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "prereview_archive_up")
	assert.Contains(t, names, "prereview_doi_resolutions_total")
}

func TestNopDoesNotPanicOnRepeat(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop()
		Nop()
	})
}
