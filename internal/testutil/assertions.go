package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v and verifies success
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// AssertErrorResponse verifies error response with expected status and message
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	assert.Contains(t, string(body), expectedMessage, "error message mismatch")
}

// AssertContainsPlayer verifies a player ID exists in a slice
func AssertContainsPlayer(t *testing.T, ids []uuid.UUID, playerID uuid.UUID) {
	t.Helper()
	assert.Contains(t, ids, playerID, "player %s not found", playerID)
}

// AssertNotContainsPlayer verifies a player ID does not exist in a slice
func AssertNotContainsPlayer(t *testing.T, ids []uuid.UUID, playerID uuid.UUID) {
	t.Helper()
	assert.NotContains(t, ids, playerID, "player %s should not be present", playerID)
}
