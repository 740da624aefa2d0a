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

func photonBody(features string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewBufferString(`{"features":[` + features + `]}`)),
	}
}

func TestPhotonProvider_Geocode(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("exact house number match short-circuits", func(t *testing.T) {
		requestCount := 0
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				requestCount++
				assert.Contains(t, req.URL.String(), "photon.komoot.io")
				assert.Equal(t, "15", req.URL.Query().Get("limit"))
				assert.Equal(t, "default", req.URL.Query().Get("lang"))

				return photonBody(`{
					"geometry":{"coordinates":[37.6011978,55.7649838]},
					"properties":{"housenumber":"20 с4","street":"Тверской бульвар","osm_value":"yes"}
				}`), nil
			},
		}

		provider := geocoding.NewPhotonProviderWithClient(mockClient, "ru", logger)
		coords, err := provider.Geocode(ctx, "Тверской бульвар, 20с4")

		require.NoError(t, err)
		require.NotNil(t, coords)
		assert.InEpsilon(t, 55.7649838, coords.Latitude, 0.0001)
		assert.InEpsilon(t, 37.6011978, coords.Longitude, 0.0001)
		assert.Equal(t, 1, requestCount, "exact house match should stop after the first variant")
	})

	t.Run("query variants are tried in order", func(t *testing.T) {
		var queries []string
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				queries = append(queries, req.URL.Query().Get("q"))
				return photonBody(``), nil
			},
		}

		provider := geocoding.NewPhotonProviderWithClient(mockClient, "ru", logger)
		coords, err := provider.Geocode(ctx, "Тверской бульвар, 20с4")

		require.ErrorIs(t, err, geocoding.ErrPhotonEmptyResponse)
		require.Nil(t, coords)
		assert.Equal(t, []string{
			"Тверской бульвар 20с4",
			"Тверской бульвар 20 с 4",
			"20с4 Тверской бульвар",
			"20 с 4 Тверской бульвар",
		}, queries)
	})

	t.Run("best positive score wins over earlier weak match", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return photonBody(`{
					"geometry":{"coordinates":[30.0,50.0]},
					"properties":{"street":"невский проспект","osm_value":"street"}
				},{
					"geometry":{"coordinates":[30.1,50.1]},
					"properties":{"name":"невский проспект","city":"санкт-петербург","osm_value":"yes"}
				}`), nil
			},
		}

		provider := geocoding.NewPhotonProviderWithClient(mockClient, "ru", logger)
		coords, err := provider.Geocode(ctx, "Санкт-Петербург, Невский проспект")

		require.NoError(t, err)
		require.NotNil(t, coords)
		// The street candidate scores 1.0 - 1.0 = 0 (street penalty) and is
		// rejected; the named place scores 0.5 + 0.25 and wins.
		assert.InEpsilon(t, 50.1, coords.Latitude, 0.0001)
		assert.InEpsilon(t, 30.1, coords.Longitude, 0.0001)
	})

	t.Run("no positive score yields empty result", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return photonBody(`{
					"geometry":{"coordinates":[10.0,20.0]},
					"properties":{"street":"unrelated street","osm_value":"street"}
				}`), nil
			},
		}

		provider := geocoding.NewPhotonProviderWithClient(mockClient, "ru", logger)
		coords, err := provider.Geocode(ctx, "Тверской бульвар, 20с4")

		require.ErrorIs(t, err, geocoding.ErrPhotonEmptyResponse)
		require.Nil(t, coords)
	})

	t.Run("failed variants are skipped", func(t *testing.T) {
		requestCount := 0
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				requestCount++
				if requestCount == 1 {
					return &http.Response{
						StatusCode: http.StatusBadGateway,
						Body:       io.NopCloser(bytes.NewBufferString(`oops`)),
					}, nil
				}
				return photonBody(`{
					"geometry":{"coordinates":[37.6,55.76]},
					"properties":{"housenumber":"20с4"}
				}`), nil
			},
		}

		provider := geocoding.NewPhotonProviderWithClient(mockClient, "ru", logger)
		coords, err := provider.Geocode(ctx, "Тверской бульвар, 20с4")

		require.NoError(t, err)
		require.NotNil(t, coords)
		assert.Equal(t, 2, requestCount)
	})

	t.Run("unsupported language falls back to default", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, "default", req.URL.Query().Get("lang"))
				return photonBody(``), nil
			},
		}

		provider := geocoding.NewPhotonProviderWithClient(mockClient, "ru", logger)
		_, err := provider.Geocode(ctx, "anywhere")
		require.Error(t, err)
	})

	t.Run("supported language is passed through", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, "de", req.URL.Query().Get("lang"))
				return photonBody(``), nil
			},
		}

		provider := geocoding.NewPhotonProviderWithClient(mockClient, "de", logger)
		_, err := provider.Geocode(ctx, "Berlin")
		require.Error(t, err)
	})
}
