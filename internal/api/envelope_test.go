package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeTransformer_Success(t *testing.T) {
	data := map[string]string{"id": "test-123", "name": "Test Item"}

	result, err := EnvelopeTransformer(nil, "200", data)
	require.NoError(t, err)

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.Equal(t, float64(envelopeVersion), out["v"])
	assert.Equal(t, true, out["success"])
	assert.Contains(t, out, "data")
	assert.NotContains(t, out, "error")
}

func TestEnvelopeTransformer_NilData(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "204", nil)
	require.NoError(t, err)

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.Equal(t, true, out["success"])
	assert.NotContains(t, out, "data")
}

func TestEnvelopeTransformer_SimpleError(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "404", &APIError{Message: "Resource not found"})
	require.NoError(t, err)

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.Equal(t, false, out["success"])
	assert.Equal(t, "Resource not found", out["error"])
	assert.NotContains(t, out, "data")
}

func TestEnvelopeTransformer_DetailedError(t *testing.T) {
	apiErr := &APIError{
		status:  http.StatusBadRequest,
		Code:    "VALIDATION",
		Message: "validation failed",
		Details: map[string]string{"email": "email must be a valid email address"},
	}

	result, err := EnvelopeTransformer(nil, "400", apiErr)
	require.NoError(t, err)

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.Equal(t, false, out["success"])
	assert.Equal(t, "validation failed", out["error"])
	assert.Equal(t, "VALIDATION", out["code"])

	details, ok := out["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "email must be a valid email address", details["email"])
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[HealthResponse](t, resp)
	assert.True(t, envelope.Success)
	assert.Equal(t, "healthy", envelope.Data.Status)
	assert.Equal(t, "healthy", envelope.Data.Components["catalog"].Status)
	assert.Equal(t, "healthy", envelope.Data.Components["sessions"].Status)
}
