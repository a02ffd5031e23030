package derm

import (
	"math"
	"testing"
)

func TestNearbyDermatologists_EmbedURL(t *testing.T) {
	s := New(&fakeGen{}, Config{})
	m, err := s.NearbyDermatologists(Location{Latitude: 40.7128, Longitude: -74.006})
	if err != nil { t.Fatalf("maps: %v", err) }
	want := "https://www.google.com/maps?q=dermatologists+near+40.7128,-74.006&output=embed"
	if m.EmbedURL != want { t.Fatalf("url=%s want %s", m.EmbedURL, want) }
	if m.Query != "dermatologists near 40.7128,-74.006" { t.Fatalf("query=%q", m.Query) }
}

func TestNearbyDermatologists_RejectsOutOfRange(t *testing.T) {
	s := New(&fakeGen{}, Config{})
	for _, loc := range []Location{{Latitude: 91}, {Longitude: -181}, {Latitude: math.NaN()}} {
		if _, err := s.NearbyDermatologists(loc); !IsInvalidInput(err) { t.Fatalf("%+v: expected invalid input, got %v", loc, err) }
	}
}

func TestGeolocationMessages(t *testing.T) {
	if got := ErrGeolocation(GeolocationUnsupported).Error(); got != "Geolocation is not supported by your browser." { t.Fatalf("got %q", got) }
	err := ErrGeolocation(GeolocationDenied)
	if !IsGeolocation(err) || err.Error() != "Unable to retrieve your location. Please enable location services." {
		t.Fatalf("got %v", err)
	}
}
