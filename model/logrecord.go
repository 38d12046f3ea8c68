package model

// LogRecord is the document posted to the logs service for one request/response event.
// The request method travels inside data; the legacy JavaScript client sent it
// as a top-level "method" key instead.
type LogRecord struct {
	ObjectID   string        `json:"objectId" validate:"required,objectid"`
	ObjectType string        `json:"objectType" validate:"required"`
	Data       *RequestData  `json:"data" validate:"required"`
	Response   *ResponseData `json:"response" validate:"required"`
}

// RequestData is the snapshot of the inbound request being logged.
type RequestData struct {
	Method      string                 `json:"method"`
	Headers     map[string]string      `json:"headers"`
	Params      map[string]string      `json:"params"`
	Query       map[string]interface{} `json:"query"`
	Body        interface{}            `json:"body"`
	Route       *string                `json:"route"`
	Cookies     map[string]string      `json:"cookies"`
	Protocol    string                 `json:"protocol"`
	BaseURL     string                 `json:"baseUrl"`
	OriginalURL string                 `json:"originalUrl"`
	IP          string                 `json:"ip"`
	IPs         []string               `json:"ips"`
	Secure      bool                   `json:"secure"`
	Subdomains  []string               `json:"subdomains"`
}

// ResponseData is the snapshot of the response returned for the logged request.
type ResponseData struct {
	StatusCode int         `json:"statusCode"`
	Success    bool        `json:"success"`
	Result     interface{} `json:"result"`
}

// Response is the outbound response as seen by the handler that produced it.
type Response struct {
	StatusCode int
	Result     interface{}
}
