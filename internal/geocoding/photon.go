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
	"regexp"
	"strings"
	"time"

	"github.com/Houeta/transitlink/internal/models"
)

// PhotonBaseURL -- komoot Photon search endpoint.
const PhotonBaseURL = "https://photon.komoot.io/api/"

// PhotonProvider implements the Provider interface using the komoot Photon
// API. Photon is keyless but weak on Cyrillic building suffixes ("20с4",
// "к2", "стр 1"), so the provider generates several spellings of the query
// and scores the returned candidates against the original address instead of
// trusting the first hit.
type PhotonProvider struct {
	client  HTTPClient   // HTTP client for making requests
	baseURL string       // Base URL for the Photon API
	lang    string       // Requested language, reduced to what Photon supports
	log     *slog.Logger // Logger for logging operations
	// userAgent identifies the tool to the public endpoint
	userAgent string
}

// Common errors for Photon provider.
var (
	ErrPhotonEmptyResponse = errors.New("photon API returned no usable candidates")
)

// photonResponse represents the JSON response from the Photon API.
type photonResponse struct {
	Features []photonFeature `json:"features"`
}

type photonFeature struct {
	Geometry struct {
		Coordinates []float64 `json:"coordinates"` // [lon, lat]
	} `json:"geometry"`
	Properties struct {
		HouseNumber string `json:"housenumber"`
		Street      string `json:"street"`
		Name        string `json:"name"`
		City        string `json:"city"`
		Postcode    string `json:"postcode"`
		OsmValue    string `json:"osm_value"`
	} `json:"properties"`
}

// Photon only understands these language codes; anything else must be sent
// as "default".
var photonLangs = map[string]bool{
	"default": true,
	"en":      true,
	"de":      true,
	"fr":      true,
}

var (
	// buildingAfterNumber splits "20с4" into "20 с4" (Cyrillic or Latin "с").
	buildingAfterNumber = regexp.MustCompile(`(?i)(\d[^\s,]*)\s*([сc])(\d)`)
	// buildingSuffix splits "с4" / "к2" into "с 4" / "к 2".
	buildingSuffix = regexp.MustCompile(`(?i)([сc])\s*(\d+)`)
	corpusSuffix   = regexp.MustCompile(`(?i)([кk])\s*(\d+)`)
	// stroyenie normalizes "стр." / "строение" to the bare "стр" form.
	stroyenie = regexp.MustCompile(`(?i)(стр(?:\.|оение)?)\s*(\d+)`)

	houseToken   = regexp.MustCompile(`\d+[^\s,]*`)
	nonHouseChar = regexp.MustCompile(`[^0-9a-zа-я]`)
)

// NewPhotonProvider creates a new Photon geocoding provider.
func NewPhotonProvider(lang string, log *slog.Logger) *PhotonProvider {
	const timeout = 20
	return &PhotonProvider{
		client: &http.Client{
			Timeout: timeout * time.Second,
		},
		baseURL:   PhotonBaseURL,
		lang:      photonLang(lang),
		log:       log,
		userAgent: UserAgent(""),
	}
}

// NewPhotonProviderWithClient creates a Photon provider with a custom HTTP
// client. Useful for testing with mocked HTTP clients.
func NewPhotonProviderWithClient(client HTTPClient, lang string, log *slog.Logger) *PhotonProvider {
	return &PhotonProvider{
		client:    client,
		baseURL:   PhotonBaseURL,
		lang:      photonLang(lang),
		log:       log,
		userAgent: UserAgent(""),
	}
}

func photonLang(lang string) string {
	if photonLangs[lang] {
		return lang
	}
	return "default"
}

// Geocode converts an address into geographic coordinates using the Photon
// API. It tries every query variant, scores all returned candidates and
// keeps the best positive match; an exact house-number hit wins immediately.
func (pp *PhotonProvider) Geocode(ctx context.Context, address string) (*models.Coordinates, error) {
	pp.log.DebugContext(ctx, "Geocoding using Photon", "address", address)

	variants := queryVariants(address)
	addressLower := strings.ToLower(normalizeVariant(address))
	houseTokens := houseNumberTokens(address)

	var best *models.Coordinates
	bestScore := -1.0

	for _, variant := range variants {
		features, err := pp.search(ctx, variant)
		if err != nil {
			// A failed variant is not fatal, the next spelling may work.
			pp.log.DebugContext(ctx, "Photon variant failed", "variant", variant, "error", err)
			continue
		}

		for _, feature := range features {
			coords := feature.Geometry.Coordinates
			const coordsListLength = 2
			if len(coords) < coordsListLength {
				continue
			}

			score := scoreCandidate(feature, address, addressLower, houseTokens)
			if score > bestScore && score > 0 {
				best = &models.Coordinates{Latitude: coords[1], Longitude: coords[0]}
				bestScore = score

				const exactHouseScore = 5.0
				if score >= exactHouseScore {
					pp.log.InfoContext(ctx, "Photon exact house match",
						"address", address, "variant", variant, "score", score)
					return best, nil
				}
			}
		}
	}

	if best == nil {
		return nil, ErrPhotonEmptyResponse
	}

	pp.log.InfoContext(ctx, "Photon found result",
		"address", address, "lat", best.Latitude, "lon", best.Longitude, "score", bestScore)

	return best, nil
}

// search performs a single Photon query and returns the raw candidates.
func (pp *PhotonProvider) search(ctx context.Context, variant string) ([]photonFeature, error) {
	reqURL, err := url.Parse(pp.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	query := reqURL.Query()
	query.Set("q", variant)
	query.Set("limit", "15")
	query.Set("lang", pp.lang)
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", pp.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := pp.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("photon API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var result photonResponse
	if err = json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode photon response: %w", err)
	}

	return result.Features, nil
}

// queryVariants builds the ordered, de-duplicated list of spellings tried
// against Photon: the raw address, the address with building suffixes
// separated, and (for comma-separated addresses) the components reordered so
// the street comes first.
func queryVariants(address string) []string {
	seen := make(map[string]bool)
	variants := []string{}

	addVariant := func(text string) {
		norm := normalizeVariant(text)
		if norm != "" && !seen[norm] {
			seen[norm] = true
			variants = append(variants, norm)
		}
	}

	addVariant(address)
	addVariant(separateSuffixes(address))

	if strings.Contains(address, ",") {
		parts := []string{}
		for _, part := range strings.Split(address, ",") {
			if p := strings.TrimSpace(part); p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) > 1 {
			reordered := strings.Join(append(parts[1:], parts[0]), " ")
			addVariant(reordered)
			addVariant(separateSuffixes(reordered))
		}
	}

	return variants
}

// normalizeVariant collapses commas and runs of whitespace into single
// spaces.
func normalizeVariant(text string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(text, ",", " ")), " ")
}

// separateSuffixes rewrites compact building designators ("20с4", "к2",
// "стр.1") into space-separated forms Photon is more likely to tokenize.
func separateSuffixes(text string) string {
	tmp := buildingAfterNumber.ReplaceAllString(text, "$1 $2$3")
	tmp = buildingSuffix.ReplaceAllString(tmp, "$1 $2")
	tmp = corpusSuffix.ReplaceAllString(tmp, "$1 $2")
	tmp = stroyenie.ReplaceAllString(tmp, "стр $2")
	return tmp
}

// normalizedHouse strips everything but digits and letters so "20с4",
// "20 с 4" and "20C4" compare equal.
func normalizedHouse(value string) string {
	return nonHouseChar.ReplaceAllString(strings.ToLower(value), "")
}

// houseNumberTokens extracts the normalized house-number-like tokens from
// the original address.
func houseNumberTokens(address string) map[string]bool {
	tokens := make(map[string]bool)
	for _, token := range houseToken.FindAllString(address, -1) {
		if norm := normalizedHouse(token); norm != "" {
			tokens[norm] = true
		}
	}
	return tokens
}

// scoreCandidate weighs one Photon candidate against the original address.
// House numbers dominate, street/name/city/postcode matches break ties, and
// results that are whole streets or bridges are demoted.
func scoreCandidate(
	feature photonFeature,
	address, addressLower string,
	houseTokens map[string]bool,
) float64 {
	props := feature.Properties
	score := 0.0

	if props.HouseNumber != "" {
		norm := normalizedHouse(props.HouseNumber)
		if houseTokens[norm] {
			score += 5.0
		} else {
			for token := range houseTokens {
				if token != "" && strings.Contains(norm, token) {
					score += 3.0
					break
				}
			}
		}
	}

	if street := strings.ToLower(props.Street); street != "" && strings.Contains(addressLower, street) {
		score += 1.0
	}
	if name := strings.ToLower(props.Name); name != "" && strings.Contains(addressLower, name) {
		score += 0.5
	}
	if city := strings.ToLower(props.City); city != "" && strings.Contains(addressLower, city) {
		score += 0.25
	}
	if props.Postcode != "" && strings.Contains(address, props.Postcode) {
		score += 0.25
	}

	switch strings.ToLower(props.OsmValue) {
	case "bridge", "street":
		score -= 1.0
	}

	return score
}
