package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

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

	// Error responses are plain text in this API
	assert.Contains(t, string(body), expectedMessage, "error message mismatch")
}

// CookieByName returns the named cookie from a response, or nil.
func CookieByName(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// AssertAuthCookiesSet verifies both token cookies are present, httpOnly and
// secure.
func AssertAuthCookiesSet(t *testing.T, resp *http.Response) {
	t.Helper()

	for _, name := range []string{"accessToken", "refreshToken"} {
		cookie := CookieByName(resp, name)
		require.NotNil(t, cookie, "missing %s cookie", name)
		assert.NotEmpty(t, cookie.Value, "%s cookie is empty", name)
		assert.True(t, cookie.HttpOnly, "%s cookie should be httpOnly", name)
		assert.True(t, cookie.Secure, "%s cookie should be secure", name)
	}
}

// AssertAuthCookiesCleared verifies both token cookies are expired.
func AssertAuthCookiesCleared(t *testing.T, resp *http.Response) {
	t.Helper()

	for _, name := range []string{"accessToken", "refreshToken"} {
		cookie := CookieByName(resp, name)
		require.NotNil(t, cookie, "missing %s cookie", name)
		assert.Empty(t, cookie.Value, "%s cookie should be cleared", name)
		assert.Negative(t, cookie.MaxAge, "%s cookie should be expired", name)
	}
}
