package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/go-arrower/hrsuite/contexts/attendance/internal/domain"
)

var _ domain.ReverseGeocoder = (*Nominatim)(nil)

var errServerUnavailable = errors.New("geocoding server unavailable")

const (
	defaultAttempts     = 3
	defaultInitialDelay = 200 * time.Millisecond
	defaultMaxDelay     = 2 * time.Second
)

// NominatimOpt allows to initialise a Nominatim with custom options.
type NominatimOpt func(*Nominatim)

func WithHTTPClient(client *http.Client) NominatimOpt {
	return func(n *Nominatim) {
		n.client = client
	}
}

// WithRetry sets how often a failed lookup is attempted, and the delay before the first retry.
func WithRetry(attempts uint, delay time.Duration) NominatimOpt {
	return func(n *Nominatim) {
		n.attempts = attempts
		n.delay = delay
	}
}

// NewNominatim returns a ReverseGeocoder using the reverse endpoint of an OpenStreetMap Nominatim server.
// The usage policy of the public server requires an identifying userAgent.
// timeout bounds one call of ResolveAddress, including all retries.
func NewNominatim(baseURL string, userAgent string, timeout time.Duration, opts ...NominatimOpt) *Nominatim {
	n := &Nominatim{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: userAgent,
		timeout:   timeout,
		client:    &http.Client{}, //nolint:exhaustruct // the timeout is applied per call via the context
		attempts:  defaultAttempts,
		delay:     defaultInitialDelay,
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

type Nominatim struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	client    *http.Client
	attempts  uint
	delay     time.Duration
}

type nominatimResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

func (n *Nominatim) ResolveAddress(ctx context.Context, point domain.GeoPoint) (string, error) {
	if n.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	address, err := retry.DoWithData(
		func() (string, error) { return n.reverse(ctx, point) },
		retry.Context(ctx),
		retry.Attempts(n.attempts),
		retry.Delay(n.delay),
		retry.MaxDelay(defaultMaxDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGeocodingUnavailable, err)
	}

	return address, nil
}

func (n *Nominatim) reverse(ctx context.Context, point domain.GeoPoint) (string, error) {
	query := url.Values{}
	query.Set("format", "jsonv2")
	query.Set("lat", strconv.FormatFloat(point.Latitude, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(point.Longitude, 'f', -1, 64))
	query.Set("zoom", "18")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/reverse?"+query.Encode(), nil)
	if err != nil {
		return "", retry.Unrecoverable(fmt.Errorf("could not create request: %w", err))
	}

	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("could not reach server: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return "", fmt.Errorf("%w: status %d", errServerUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return "", retry.Unrecoverable(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var body nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", retry.Unrecoverable(fmt.Errorf("could not decode response: %w", err))
	}

	if body.Error != "" {
		return "", retry.Unrecoverable(fmt.Errorf("server error: %s", body.Error)) //nolint:err113 // message is dynamic
	}

	return body.DisplayName, nil
}
