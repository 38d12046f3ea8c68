package logs

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mslogs/mslogs-sdk-go/model"
)

// captureThroughMux routes r through a ServeMux so that Pattern and PathValue are populated.
func captureThroughMux(t *testing.T, pattern string, r *http.Request, trustProxy bool) *model.RequestData {
	t.Helper()

	var data *model.RequestData
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		data = CaptureRequest(r, trustProxy)
	})
	mux.ServeHTTP(httptest.NewRecorder(), r)

	require.NotNil(t, data, "pattern %q did not match", pattern)
	return data
}

func newTestRequest() *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/users/42/files/docs/a.txt?x=1&tag=a&tag=b", nil)
	r.Host = "api.tenant.example.com:8080"
	r.RemoteAddr = "192.0.2.10:5123"
	r.Header.Set("Accept", "application/json")
	r.Header.Add("X-Trace", "one")
	r.Header.Add("X-Trace", "two")
	r.Header.Set("Cookie", "sid=abc; theme=dark")
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	r.Header.Set("X-Forwarded-Proto", "https")
	r.Header.Set("X-Forwarded-Host", "edge.example.com")
	return r
}

func TestCaptureRequest(t *testing.T) {
	const pattern = "GET /users/{id}/files/{path...}"

	data := captureThroughMux(t, pattern, newTestRequest(), false)

	assert.Equal(t, http.MethodGet, data.Method)
	assert.Equal(t, map[string]string{
		"host":              "api.tenant.example.com:8080",
		"accept":            "application/json",
		"x-trace":           "one, two",
		"cookie":            "sid=abc; theme=dark",
		"x-forwarded-for":   "203.0.113.7, 10.0.0.1",
		"x-forwarded-proto": "https",
		"x-forwarded-host":  "edge.example.com",
	}, data.Headers)
	assert.Equal(t, map[string]string{"id": "42", "path": "docs/a.txt"}, data.Params)
	assert.Equal(t, map[string]interface{}{"x": "1", "tag": []string{"a", "b"}}, data.Query)
	assert.Nil(t, data.Body)
	require.NotNil(t, data.Route)
	assert.Equal(t, pattern, *data.Route)
	assert.Equal(t, map[string]string{"sid": "abc", "theme": "dark"}, data.Cookies)
	assert.Equal(t, "http", data.Protocol)
	assert.Equal(t, "", data.BaseURL)
	assert.Equal(t, "/users/42/files/docs/a.txt?x=1&tag=a&tag=b", data.OriginalURL)
	assert.Equal(t, "192.0.2.10", data.IP)
	assert.Equal(t, []string{}, data.IPs)
	assert.False(t, data.Secure)
	assert.Equal(t, []string{"tenant", "api"}, data.Subdomains)
}

func TestCaptureRequestTrustProxy(t *testing.T) {
	data := captureThroughMux(t, "/users/", newTestRequest(), true)

	assert.Equal(t, "https", data.Protocol)
	assert.True(t, data.Secure)
	assert.Equal(t, []string{"203.0.113.7", "10.0.0.1"}, data.IPs)
	assert.Equal(t, "203.0.113.7", data.IP)
	assert.Equal(t, []string{"edge"}, data.Subdomains)
	assert.Equal(t, map[string]string{}, data.Params)
}

func TestCaptureRequestBodyAndBaseURL(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/orders", nil)
	r = WithRequestBody(r, map[string]interface{}{"qty": 2})
	r = WithBaseURL(r, "/api")

	data := CaptureRequest(r, false)
	assert.Equal(t, map[string]interface{}{"qty": 2}, data.Body)
	assert.Equal(t, "/api", data.BaseURL)
	assert.Nil(t, data.Route)
}

func TestCaptureRequestTLS(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.TLS = &tls.ConnectionState{}
	r.Host = "127.0.0.1:443"

	data := CaptureRequest(r, false)
	assert.Equal(t, "https", data.Protocol)
	assert.True(t, data.Secure)
	assert.Equal(t, []string{}, data.Subdomains)
}

func TestSubdomains(t *testing.T) {
	tests := []struct {
		host string
		want []string
	}{
		{host: "example.com", want: []string{}},
		{host: "localhost", want: []string{}},
		{host: "tobi.ferrets.example.com", want: []string{"ferrets", "tobi"}},
		{host: "10.1.2.3", want: []string{}},
		{host: "::1", want: []string{}},
		{host: "", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.want, subdomains(tt.host))
		})
	}
}
