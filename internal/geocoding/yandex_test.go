package geocoding_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/Houeta/transitlink/internal/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yandexSampleResponse = `{
	"response": {
		"GeoObjectCollection": {
			"featureMember": [
				{"GeoObject": {"Point": {"pos": "37.60 55.76"}}}
			]
		}
	}
}`

func TestYandexProvider_Geocode(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("successful geocoding", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, "GET", req.Method)
				assert.Contains(t, req.URL.String(), "geocode-maps.yandex.ru")
				assert.Equal(t, "test-key", req.URL.Query().Get("apikey"))
				assert.Equal(t, "Тверской бульвар, 20с4", req.URL.Query().Get("geocode"))
				assert.Equal(t, "json", req.URL.Query().Get("format"))
				assert.Equal(t, "1", req.URL.Query().Get("results"))
				assert.Equal(t, "ru_RU", req.URL.Query().Get("lang"))

				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(yandexSampleResponse)),
				}, nil
			},
		}

		provider := geocoding.NewYandexProviderWithClient(mockClient, "test-key", "ru_RU", logger)
		coords, err := provider.Geocode(ctx, "Тверской бульвар, 20с4")

		require.NoError(t, err)
		require.NotNil(t, coords)
		// pos is "lon lat"; make sure the axes are not swapped.
		assert.InEpsilon(t, 55.76, coords.Latitude, 0.0001)
		assert.InEpsilon(t, 37.60, coords.Longitude, 0.0001)
	})

	t.Run("empty address", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				t.Fatal("no request expected for empty address")
				return nil, assert.AnError
			},
		}

		provider := geocoding.NewYandexProviderWithClient(mockClient, "test-key", "ru_RU", logger)
		coords, err := provider.Geocode(ctx, "")

		require.ErrorIs(t, err, geocoding.ErrYandexEmptyAddress)
		require.Nil(t, coords)
	})

	t.Run("no feature members", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				body := `{"response":{"GeoObjectCollection":{"featureMember":[]}}}`
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(body)),
				}, nil
			},
		}

		provider := geocoding.NewYandexProviderWithClient(mockClient, "test-key", "ru_RU", logger)
		coords, err := provider.Geocode(ctx, "nowhere")

		require.ErrorIs(t, err, geocoding.ErrYandexEmptyResponse)
		require.Nil(t, coords)
	})

	t.Run("missing pos", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				body := `{"response":{"GeoObjectCollection":{"featureMember":[{"GeoObject":{"Point":{}}}]}}}`
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(body)),
				}, nil
			},
		}

		provider := geocoding.NewYandexProviderWithClient(mockClient, "test-key", "ru_RU", logger)
		coords, err := provider.Geocode(ctx, "somewhere")

		require.ErrorIs(t, err, geocoding.ErrYandexEmptyResponse)
		require.Nil(t, coords)
	})

	t.Run("malformed pos", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				body := `{"response":{"GeoObjectCollection":{"featureMember":` +
					`[{"GeoObject":{"Point":{"pos":"not coordinates here"}}}]}}}`
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(body)),
				}, nil
			},
		}

		provider := geocoding.NewYandexProviderWithClient(mockClient, "test-key", "ru_RU", logger)
		coords, err := provider.Geocode(ctx, "somewhere")

		require.ErrorIs(t, err, geocoding.ErrYandexInvalidCoords)
		require.Nil(t, coords)
	})

	t.Run("unauthorized", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusForbidden,
					Body:       io.NopCloser(bytes.NewBufferString(`{}`)),
				}, nil
			},
		}

		provider := geocoding.NewYandexProviderWithClient(mockClient, "bad-key", "ru_RU", logger)
		coords, err := provider.Geocode(ctx, "somewhere")

		require.ErrorIs(t, err, geocoding.ErrYandexUnauthorized)
		require.Nil(t, coords)
	})

	t.Run("server error status", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusInternalServerError,
					Body:       io.NopCloser(bytes.NewBufferString(`oops`)),
				}, nil
			},
		}

		provider := geocoding.NewYandexProviderWithClient(mockClient, "test-key", "ru_RU", logger)
		coords, err := provider.Geocode(ctx, "somewhere")

		require.Error(t, err)
		require.Nil(t, coords)
		assert.Contains(t, err.Error(), "yandex API returned status 500")
	})

	t.Run("HTTP client returns error", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return nil, assert.AnError
			},
		}

		provider := geocoding.NewYandexProviderWithClient(mockClient, "test-key", "ru_RU", logger)
		coords, err := provider.Geocode(ctx, "somewhere")

		require.Error(t, err)
		require.Nil(t, coords)
		assert.Contains(t, err.Error(), "failed to execute geocoding request")
	})
}
