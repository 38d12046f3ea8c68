package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strconv"

	"github.com/mslogs/mslogs-sdk-go/model"
	"github.com/mslogs/mslogs-sdk-go/utils"
)

type RequestConfig struct {
	Client  *http.Client
	Url     string
	Body    []byte
	Uri     string
	Method  string
	Gzip    bool
	Headers map[string]string
}

// Client returns the HTTP client used when the caller does not provide one.
// Every request owns its connection and redirects are not followed.
func Client() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: false, MinVersion: tls.VersionTLS12}
	transport.DisableKeepAlives = true
	return &http.Client{
		Transport: transport,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// MakeRequest performs a single request to the logs service and parses its JSON reply
func MakeRequest(ctx context.Context, reqConfig RequestConfig) (*utils.Response, error) {
	fullURL := reqConfig.Url + reqConfig.Uri

	payloadBody := reqConfig.Body
	var err error
	if reqConfig.Gzip {
		payloadBody, err = utils.Gzip(payloadBody)
		if err != nil {
			return nil, fmt.Errorf("error while compressing body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, reqConfig.Method, fullURL, bytes.NewReader(payloadBody))
	if err != nil {
		return nil, &model.TransportError{URL: fullURL, Err: err}
	}

	for key, value := range reqConfig.Headers {
		req.Header.Set(key, value)
	}

	req.ContentLength = int64(len(payloadBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Length", strconv.Itoa(len(payloadBody)))
	req.Header.Set("User-Agent", utils.BuildUserAgent())

	if reqConfig.Gzip {
		req.Header.Set("Content-Encoding", "gzip")
	} else {
		req.Header.Del("Content-Encoding")
	}

	httpClient := reqConfig.Client
	if httpClient == nil {
		httpClient = Client()
	}

	httpResp, err := httpClient.Do(req)
	if err != nil {
		return nil, &model.TransportError{URL: fullURL, Err: err}
	}

	resp, err := utils.ConvertHTTPToIngestResponse(httpResp)
	if err != nil {
		return resp, &model.TransportError{URL: fullURL, Err: err}
	}
	return resp, nil
}
