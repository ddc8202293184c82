package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersUpGauge(t *testing.T) {
	server, err := New("trusty-lib", "127.0.0.1:0")
	require.NoError(t, err)

	families, err := server.Registry().Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "trusty_lib_up", families[0].GetName())
	require.Len(t, families[0].GetMetric(), 1)
	assert.Equal(t, float64(1), families[0].GetMetric()[0].GetGauge().GetValue())
}

func TestMetricsEndpoint(t *testing.T) {
	server, err := New("trusty-lib", "127.0.0.1:0")
	require.NoError(t, err)

	ts := httptest.NewServer(server.srv.Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "trusty_lib_up 1")
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "trusty_lib", sanitizeName("trusty-lib"))
	assert.Equal(t, "abc123", sanitizeName("abc123"))
	assert.Equal(t, "a_b_c", sanitizeName("a.b/c"))
}
