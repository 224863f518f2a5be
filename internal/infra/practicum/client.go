// internal/infra/practicum/client.go
package practicum

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"homework_status_bot/internal/domain/homework"

	"github.com/sirupsen/logrus"
)

const DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"

// maxBodyBytes bounds how much of a response body is kept.
const maxBodyBytes = 1 << 20

// Client fetches homework statuses. It performs exactly one request per call.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	logger     *logrus.Entry
}

func NewClient(endpoint, token string, timeout time.Duration, logger *logrus.Entry) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Fetch requests all status changes since cursor and returns the raw body.
// The body is not decoded here; the validator owns its shape.
func (c *Client) Fetch(ctx context.Context, cursor homework.Cursor) ([]byte, error) {
	params := url.Values{}
	params.Set("from_date", strconv.FormatInt(int64(cursor), 10))

	logCtx := c.logger.WithFields(logrus.Fields{
		"endpoint":  c.endpoint,
		"from_date": int64(cursor),
	})
	logCtx.Info("Requesting homework statuses")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, homework.NewNetworkError("failed to build request", err)
	}
	req.URL.RawQuery = params.Encode()
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, homework.NewNetworkError("request to "+c.endpoint+" failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, homework.NewNetworkError("failed to read response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		logCtx.WithField("status_code", resp.StatusCode).Debug("API returned non-OK status")
		return nil, homework.NewEndpointError(resp.StatusCode, reasonPhrase(resp), strings.TrimSpace(string(body)))
	}

	logCtx.WithField("bytes", len(body)).Debug("Homework statuses received")
	return body, nil
}

// reasonPhrase extracts the phrase from "500 Internal Server Error".
func reasonPhrase(resp *http.Response) string {
	if _, phrase, ok := strings.Cut(resp.Status, " "); ok && phrase != "" {
		return phrase
	}
	return http.StatusText(resp.StatusCode)
}
