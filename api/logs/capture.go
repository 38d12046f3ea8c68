package logs

import (
	"context"
	"net"
	"net/http"
	"regexp"
	"strings"

	"github.com/mslogs/mslogs-sdk-go/model"
)

type contextKey int

const (
	requestBodyKey contextKey = iota
	baseURLKey
)

const subdomainOffset = 2

var patternWildcard = regexp.MustCompile(`\{([^}]+?)(?:\.\.\.)?\}`)

// WithRequestBody attaches the decoded request body to r so that it is
// included in the log record. The returned request must be passed to Send.
func WithRequestBody(r *http.Request, body interface{}) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), requestBodyKey, body))
}

// WithBaseURL attaches the path prefix the handler is mounted under.
func WithBaseURL(r *http.Request, baseURL string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), baseURLKey, baseURL))
}

// CaptureRequest takes the snapshot of r that is sent as the record's data section.
// With trustProxy the X-Forwarded-* headers decide the client address, protocol and host.
func CaptureRequest(r *http.Request, trustProxy bool) *model.RequestData {
	data := &model.RequestData{
		Method:      r.Method,
		Headers:     captureHeaders(r.Host, r.Header),
		Params:      captureParams(r),
		Query:       captureQuery(r),
		Body:        r.Context().Value(requestBodyKey),
		Cookies:     captureCookies(r),
		Protocol:    requestProtocol(r, trustProxy),
		OriginalURL: r.RequestURI,
		IPs:         []string{},
	}

	if r.Pattern != "" {
		route := r.Pattern
		data.Route = &route
	}
	if baseURL, ok := r.Context().Value(baseURLKey).(string); ok {
		data.BaseURL = baseURL
	}
	if data.OriginalURL == "" && r.URL != nil {
		data.OriginalURL = r.URL.RequestURI()
	}

	if trustProxy {
		data.IPs = forwardedFor(r.Header)
	}
	if len(data.IPs) > 0 {
		data.IP = data.IPs[0]
	} else {
		data.IP = remoteIP(r.RemoteAddr)
	}

	data.Secure = data.Protocol == "https"
	data.Subdomains = subdomains(requestHost(r, trustProxy))
	return data
}

// captureHeaders lower-cases header names and folds repeated values. The
// host travels outside r.Header in net/http and is put back here.
func captureHeaders(host string, header http.Header) map[string]string {
	headers := make(map[string]string, len(header)+1)
	if host != "" {
		headers["host"] = host
	}
	for name, values := range header {
		key := strings.ToLower(name)
		sep := ", "
		if key == "cookie" {
			sep = "; "
		}
		headers[key] = strings.Join(values, sep)
	}
	return headers
}

func captureParams(r *http.Request) map[string]string {
	params := make(map[string]string)
	for _, match := range patternWildcard.FindAllStringSubmatch(r.Pattern, -1) {
		name := match[1]
		if name == "$" {
			continue
		}
		params[name] = r.PathValue(name)
	}
	return params
}

func captureQuery(r *http.Request) map[string]interface{} {
	query := make(map[string]interface{})
	if r.URL == nil {
		return query
	}
	for key, values := range r.URL.Query() {
		if len(values) == 1 {
			query[key] = values[0]
		} else {
			query[key] = values
		}
	}
	return query
}

func captureCookies(r *http.Request) map[string]string {
	cookies := make(map[string]string)
	for _, cookie := range r.Cookies() {
		cookies[cookie.Name] = cookie.Value
	}
	return cookies
}

func requestProtocol(r *http.Request, trustProxy bool) string {
	if r.TLS != nil {
		return "https"
	}
	if trustProxy {
		if proto := firstHeaderValue(r.Header, "X-Forwarded-Proto"); proto != "" {
			return strings.ToLower(proto)
		}
	}
	return "http"
}

func requestHost(r *http.Request, trustProxy bool) string {
	host := r.Host
	if trustProxy {
		if forwarded := firstHeaderValue(r.Header, "X-Forwarded-Host"); forwarded != "" {
			host = forwarded
		}
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return strings.Trim(host, "[]")
}

// subdomains lists the host labels left of the registrable domain, nearest first.
func subdomains(host string) []string {
	result := []string{}
	if host == "" || net.ParseIP(host) != nil {
		return result
	}
	labels := strings.Split(host, ".")
	for i := len(labels) - subdomainOffset - 1; i >= 0; i-- {
		result = append(result, labels[i])
	}
	return result
}

func forwardedFor(header http.Header) []string {
	ips := []string{}
	for _, value := range header.Values("X-Forwarded-For") {
		for _, part := range strings.Split(value, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				ips = append(ips, ip)
			}
		}
	}
	return ips
}

func remoteIP(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}

func firstHeaderValue(header http.Header, name string) string {
	value, _, _ := strings.Cut(header.Get(name), ",")
	return strings.TrimSpace(value)
}
