package geocoding

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ProviderType represents the type of geocoding provider.
type ProviderType string

const (
	// ProviderTypeYandex represents the Yandex Geocoder HTTP API provider.
	ProviderTypeYandex ProviderType = "yandex"
	// ProviderTypeNominatim represents OpenStreetMap Nominatim geocoding provider.
	ProviderTypeNominatim ProviderType = "nominatim"
	// ProviderTypePhoton represents the komoot Photon geocoding provider.
	ProviderTypePhoton ProviderType = "photon"
)

// ErrYandexMissingKey is returned when the Yandex provider is requested
// without an API key.
var ErrYandexMissingKey = errors.New("API key is required for Yandex provider")

// ProviderConfig holds configuration for creating a geocoding provider.
type ProviderConfig struct {
	Type    ProviderType // Type of provider to create
	APIKey  string       // API key (used by the Yandex provider)
	Lang    string       // Geocoder language, e.g. "ru_RU"
	Contact string       // Contact address for politeness headers (Nominatim)
	Logger  *slog.Logger // Logger for the provider
}

// NewProvider creates a geocoding provider based on the provided configuration.
// It applies the Factory pattern to decouple provider instantiation from business logic.
//
// Supported provider types:
// - "yandex": Yandex Geocoder HTTP API (requires API key)
// - "nominatim": OpenStreetMap Nominatim API (free, no API key required)
// - "photon": komoot Photon API (free, no API key required)
//
// Returns an error if the provider type is unsupported or if provider creation fails.
func NewProvider(config ProviderConfig) (Provider, error) {
	switch config.Type {
	case ProviderTypeYandex:
		if config.APIKey == "" {
			return nil, ErrYandexMissingKey
		}
		return NewYandexProvider(config.APIKey, config.Lang, config.Logger), nil
	case ProviderTypeNominatim:
		// Nominatim is free and doesn't require an API key
		return NewNominatimProvider(shortLang(config.Lang), config.Contact, config.Logger), nil
	case ProviderTypePhoton:
		return NewPhotonProvider(shortLang(config.Lang), config.Logger), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}

// FallbackOrder returns the full provider order for a run: the configured
// primary first, then the remaining providers in the fixed order
// yandex, nominatim, photon.
func FallbackOrder(primary ProviderType) []ProviderType {
	order := []ProviderType{primary}
	for _, pt := range []ProviderType{ProviderTypeYandex, ProviderTypeNominatim, ProviderTypePhoton} {
		if pt != primary {
			order = append(order, pt)
		}
	}
	return order
}

// shortLang reduces a locale like "ru_RU" to the bare language code the
// keyless providers expect.
func shortLang(lang string) string {
	if lang == "" {
		return "en"
	}
	if idx := strings.IndexByte(lang, '_'); idx >= 0 {
		return lang[:idx]
	}
	return lang
}
