package derm

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Location is a one-shot geolocation read; read-only after capture.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate rejects coordinates outside the WGS84 range.
func (l Location) Validate() error {
	if math.IsNaN(l.Latitude) || math.IsNaN(l.Longitude) || l.Latitude < -90 || l.Latitude > 90 || l.Longitude < -180 || l.Longitude > 180 {
		return ErrInvalidInput("location out of range")
	}
	return nil
}

// MapEmbed is a read-only map view; the service never calls the provider.
type MapEmbed struct {
	Location Location `json:"location"`
	EmbedURL string   `json:"embed_url"`
	Query    string   `json:"query"`
}

// NearbyDermatologists builds the embed URL for dermatologists near loc.
func (s *Service) NearbyDermatologists(loc Location) (MapEmbed, error) {
	if err := loc.Validate(); err != nil {
		return MapEmbed{}, err
	}
	coords := formatCoord(loc.Latitude) + "," + formatCoord(loc.Longitude)
	q := "dermatologists near " + coords
	// The provider expects '+' for spaces and a literal comma.
	esc := strings.ReplaceAll(url.QueryEscape(q), "%2C", ",")
	return MapEmbed{
		Location: loc,
		Query:    q,
		EmbedURL: s.cfg.MapsBaseURL + "?q=" + esc + "&output=embed",
	}, nil
}

func formatCoord(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
