package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewRecorder(reg)

	rec.Observe(nil, 10*time.Millisecond, 3)
	rec.Observe(nil, 20*time.Millisecond, 2)
	rec.Observe(errors.New("boom"), time.Millisecond, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.QueriesTotal.WithLabelValues(StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.QueriesTotal.WithLabelValues(StatusError)))
	assert.Equal(t, 5.0, testutil.ToFloat64(rec.RowsReturned))
	assert.Equal(t, 1, testutil.CollectAndCount(rec.QueryDuration))
}

func TestRecorder_Nil(t *testing.T) {
	var rec *Recorder
	assert.NotPanics(t, func() { rec.Observe(nil, time.Second, 1) })
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewRecorder(reg)
	rec.Observe(nil, time.Millisecond, 1)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `csvql_queries_total{status="ok"} 1`)
}
