package geocoding

import (
	"context"
	"net/http"
	"strings"

	"github.com/Houeta/transitlink/internal/models"
)

// Provider is an interface that defines a method for geocoding an address.
// The Geocode method takes a context and an address string as input,
// and returns the corresponding coordinates and an error if any occurs.
// A lookup that produced no match is reported as an error; callers that
// treat absence as a normal outcome are expected to swallow it.
type Provider interface {
	Geocode(ctx context.Context, address string) (*models.Coordinates, error)
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// UserAgent builds the User-Agent header sent to the open geocoding
// services. A contact address is attached when one is configured, per the
// Nominatim usage policy.
func UserAgent(contact string) string {
	const base = "transitlink/1.1"

	contact = strings.TrimSpace(contact)
	if contact != "" && !strings.ContainsRune(contact, ' ') {
		return base + " (" + contact + ")"
	}
	return base
}
