package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Houeta/transitlink/internal/models"
)

// YandexBaseURL -- Yandex Geocoder HTTP API base URL.
const YandexBaseURL = "https://geocode-maps.yandex.ru/1.x/"

// YandexProvider implements geocoding using the Yandex Geocoder HTTP API.
// It requires an API key with geocoding access.
type YandexProvider struct {
	client  HTTPClient   // HTTP client for making requests
	baseURL string       // Base URL for the Yandex Geocoder API
	apiKey  string       // API key with geocoding access
	lang    string       // Response language, e.g. "ru_RU"
	log     *slog.Logger // Logger for logging operations
}

// Common errors for Yandex provider.
var (
	ErrYandexEmptyResponse = errors.New("yandex API returned empty response")
	ErrYandexEmptyAddress  = errors.New("yandex provider got empty address")
	ErrYandexInvalidCoords = errors.New("yandex API returned invalid coordinates")
	ErrYandexUnauthorized  = errors.New("yandex API unauthorized (invalid API key)")
)

// Yandex Geocoder API response (simplified for geocoding use-case).
// Coordinates are delivered as a "lon lat" string in Point.pos.
type yandexResponse struct {
	Response struct {
		GeoObjectCollection struct {
			FeatureMember []struct {
				GeoObject struct {
					Point struct {
						Pos string `json:"pos"`
					} `json:"Point"`
				} `json:"GeoObject"`
			} `json:"featureMember"`
		} `json:"GeoObjectCollection"`
	} `json:"response"`
}

// NewYandexProvider creates a new Yandex geocoding provider.
func NewYandexProvider(apiKey, lang string, log *slog.Logger) *YandexProvider {
	const timeout = 15

	return &YandexProvider{
		client: &http.Client{
			Timeout: timeout * time.Second,
		},
		baseURL: YandexBaseURL,
		apiKey:  apiKey,
		lang:    lang,
		log:     log,
	}
}

// NewYandexProviderWithClient allows injecting custom HTTP client.
func NewYandexProviderWithClient(client HTTPClient, apiKey, lang string, log *slog.Logger) *YandexProvider {
	return &YandexProvider{
		client:  client,
		baseURL: YandexBaseURL,
		apiKey:  apiKey,
		lang:    lang,
		log:     log,
	}
}

// Geocode converts an address into geographic coordinates using the Yandex
// Geocoder API.
func (yp *YandexProvider) Geocode(ctx context.Context, address string) (*models.Coordinates, error) {
	yp.log.DebugContext(ctx, "Geocoding using Yandex", "address", address)

	if address == "" {
		return nil, ErrYandexEmptyAddress
	}

	reqURL, err := url.Parse(yp.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	query := reqURL.Query()
	query.Set("apikey", yp.apiKey)
	query.Set("geocode", address)
	query.Set("format", "json")
	query.Set("results", "1")
	query.Set("lang", yp.lang)
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent(""))

	resp, err := yp.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute geocoding request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// continue
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrYandexUnauthorized
	default:
		body, _ := io.ReadAll(resp.Body)
		yp.log.ErrorContext(ctx, "Yandex API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("yandex API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	yp.log.DebugContext(ctx, "Yandex raw response", "body", string(body))

	var result yandexResponse
	if err = json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode yandex response: %w", err)
	}

	members := result.Response.GeoObjectCollection.FeatureMember
	if len(members) == 0 {
		return nil, ErrYandexEmptyResponse
	}

	pos := members[0].GeoObject.Point.Pos
	if pos == "" {
		return nil, ErrYandexEmptyResponse
	}

	// Yandex returns "lon lat".
	fields := strings.Fields(pos)
	const posFields = 2
	if len(fields) != posFields {
		return nil, fmt.Errorf("%w: unexpected pos %q", ErrYandexInvalidCoords, pos)
	}

	lon, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid longitude: %s", ErrYandexInvalidCoords, fields[0])
	}
	lat, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid latitude: %s", ErrYandexInvalidCoords, fields[1])
	}

	yp.log.InfoContext(ctx, "Yandex found result", "address", address, "lat", lat, "lon", lon)

	return &models.Coordinates{
		Latitude:  lat,
		Longitude: lon,
	}, nil
}
