package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
)

const requestIDHeader = "x-request-id"

// Response will contain the reply of the logs service
type Response struct {
	StatusCode int         `json:"statusCode"`
	Body       interface{} `json:"body"`
	RequestID  uuid.UUID   `json:"requestId"`
}

// ConvertHTTPToIngestResponse reads the whole reply and parses it as JSON.
// The status code is recorded but not interpreted.
func ConvertHTTPToIngestResponse(resp *http.Response) (*Response, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error while reading response body: %w", err)
	}

	ingestResponse := &Response{StatusCode: resp.StatusCode}
	if err = json.Unmarshal(body, &ingestResponse.Body); err != nil {
		return ingestResponse, fmt.Errorf("invalid response, status code: %d, body: %q: %w", resp.StatusCode, string(body), err)
	}
	ingestResponse.RequestID, _ = uuid.Parse(resp.Header.Get(requestIDHeader))
	return ingestResponse, nil
}
