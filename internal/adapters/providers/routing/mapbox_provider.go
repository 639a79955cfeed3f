package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/savoraeats/savora-backend/internal/domain/entities"
	"github.com/savoraeats/savora-backend/internal/domain/providers"
	apperrors "github.com/savoraeats/savora-backend/pkg/errors"
	"github.com/savoraeats/savora-backend/pkg/retry"
)

const (
	mapboxMatrixURL    = "https://api.mapbox.com/directions-matrix/v1/mapbox"
	defaultHTTPTimeout = 8 * time.Second

	// Mapbox caps a matrix request at 25 coordinates, one of which is
	// the origin.
	maxDestinationsPerCall = 24
)

// MapboxRoutingProvider implements the RoutingProvider using the
// Mapbox Matrix API.
type MapboxRoutingProvider struct {
	accessToken string
	profile     string
	httpClient  *http.Client
	baseURL     string
}

// NewMapboxRoutingProvider creates a new Mapbox routing provider.
func NewMapboxRoutingProvider(accessToken, profile string) providers.RoutingProvider {
	return NewMapboxRoutingProviderWithOptions(accessToken, profile, mapboxMatrixURL, nil)
}

// NewMapboxRoutingProviderWithOptions allows overriding base URL and HTTP client (used for tests).
func NewMapboxRoutingProviderWithOptions(accessToken, profile, baseURL string, httpClient *http.Client) providers.RoutingProvider {
	if strings.TrimSpace(profile) == "" {
		profile = "driving"
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = mapboxMatrixURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &MapboxRoutingProvider{
		accessToken: accessToken,
		profile:     profile,
		httpClient:  httpClient,
		baseURL:     baseURL,
	}
}

type matrixResponse struct {
	Code      string       `json:"code"`
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
	Message   string       `json:"message"`
}

// Matrix computes driving distance and duration from the origin to
// every destination, batching when the destination count exceeds the
// provider's per-request coordinate limit.
func (p *MapboxRoutingProvider) Matrix(ctx context.Context, origin entities.GeoPoint, destinations []entities.GeoPoint) (*providers.MatrixResult, error) {
	result := &providers.MatrixResult{
		Distances: make([]float64, 0, len(destinations)),
		Durations: make([]float64, 0, len(destinations)),
	}

	for start := 0; start < len(destinations); start += maxDestinationsPerCall {
		end := start + maxDestinationsPerCall
		if end > len(destinations) {
			end = len(destinations)
		}

		batch, err := p.matrixCallWithRetry(ctx, origin, destinations[start:end])
		if err != nil {
			return nil, err
		}

		result.Distances = append(result.Distances, batch.Distances...)
		result.Durations = append(result.Durations, batch.Durations...)
	}

	return result, nil
}

// matrixCallWithRetry retries transient matrix failures with a short
// backoff. The caller's context deadline still bounds the whole call,
// so a timed-out request surfaces as the context error, not as an
// exhausted retry.
func (p *MapboxRoutingProvider) matrixCallWithRetry(ctx context.Context, origin entities.GeoPoint, destinations []entities.GeoPoint) (*providers.MatrixResult, error) {
	retryConfig := retry.Config{
		MaxAttempts:   3,
		InitialDelay:  200 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		BackoffFactor: 2.0,
		OnRetry: func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().
				Int("attempt", attempt).
				Err(err).
				Dur("next_delay", nextDelay).
				Msg("Matrix request failed, retrying")
		},
	}

	var result *providers.MatrixResult
	err := retry.Do(ctx, retryConfig, func() error {
		batch, callErr := p.matrixCall(ctx, origin, destinations)
		if callErr != nil {
			return callErr
		}
		result = batch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (p *MapboxRoutingProvider) matrixCall(ctx context.Context, origin entities.GeoPoint, destinations []entities.GeoPoint) (*providers.MatrixResult, error) {
	coords := make([]string, 0, len(destinations)+1)
	coords = append(coords, formatCoordinate(origin))
	for _, d := range destinations {
		coords = append(coords, formatCoordinate(d))
	}

	endpoint := fmt.Sprintf("%s/%s/%s", p.baseURL, p.profile, strings.Join(coords, ";"))

	params := url.Values{}
	params.Set("sources", "0")
	params.Set("annotations", "distance,duration")
	params.Set("access_token", p.accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to build matrix request", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError("matrix request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewExternalError(fmt.Sprintf("matrix request returned status %d", resp.StatusCode), nil)
	}

	var body matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, apperrors.NewExternalError("failed to decode matrix response", err)
	}

	if body.Code != "Ok" {
		return nil, apperrors.NewExternalError(fmt.Sprintf("matrix request rejected: %s", body.Message), nil)
	}
	if len(body.Distances) == 0 || len(body.Durations) == 0 {
		return nil, apperrors.NewExternalError("matrix response missing annotation rows", nil)
	}

	// Row 0 runs from the origin through every coordinate, starting
	// with the origin itself. Skip that leading cell.
	distRow := body.Distances[0]
	durRow := body.Durations[0]
	if len(distRow) != len(destinations)+1 || len(durRow) != len(destinations)+1 {
		return nil, apperrors.NewExternalError("matrix response row length mismatch", nil)
	}

	result := &providers.MatrixResult{
		Distances: make([]float64, len(destinations)),
		Durations: make([]float64, len(destinations)),
	}
	for i := 0; i < len(destinations); i++ {
		if distRow[i+1] != nil {
			result.Distances[i] = *distRow[i+1]
		}
		if durRow[i+1] != nil {
			result.Durations[i] = *durRow[i+1]
		}
	}

	return result, nil
}

func formatCoordinate(p entities.GeoPoint) string {
	return strconv.FormatFloat(p.Longitude, 'f', 6, 64) + "," + strconv.FormatFloat(p.Latitude, 'f', 6, 64)
}
