// Package link builds Yandex Maps deep links that open the route planner in
// public-transport mode. Links are universal: on iOS they open the app when
// it is installed.
package link

import (
	"net/url"
	"strings"

	"github.com/Houeta/transitlink/internal/models"
)

// TransitRoute maps a route target to a transit-routing deep link.
// The target is either a "lat,lon" pair (kept verbatim, comma unescaped, so
// the maps app treats it as coordinates) or free address text, which is
// query-escaped as a degraded fallback when geocoding produced nothing.
// rtext keeps the start empty, meaning "from current location".
func TransitRoute(target, domain string) string {
	base := "https://" + domain + "/maps/"

	if models.IsCoords(target) {
		target = strings.ReplaceAll(target, " ", "")
	} else {
		target = url.QueryEscape(target)
	}

	return base + "?mode=routes&rtext=~" + target + "&rtt=masstransit"
}
