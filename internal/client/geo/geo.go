// Package geo supplies the coverage screen: a bounded wait for the device
// position, the antennas covering a point and the static map URL.
package geo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/alcancesol/internal/client/models"
)

// DefaultLocateTimeout bounds the wait for a position fix.
const DefaultLocateTimeout = 10 * time.Second

const earthRadiusMeters = 6371000

var (
	// ErrMapsKeyMissing is returned by StaticMapURL without an API key.
	ErrMapsKeyMissing = errors.New("maps api key is not configured")
	// ErrNoPosition is returned by locators that cannot provide a fix.
	ErrNoPosition = errors.New("position unavailable")
)

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}

func (p Point) String() string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}

// DefaultCenter is used whenever the device position is unknown.
var DefaultCenter = Point{Lat: -16.6869, Lng: -49.2648}

// Locator provides the device position.
type Locator interface {
	Locate(ctx context.Context) (Point, error)
}

// Fixed is a Locator that always reports the same point.
type Fixed Point

func (f Fixed) Locate(context.Context) (Point, error) {
	return Point(f), nil
}

// Unavailable is a Locator for devices without positioning.
type Unavailable struct{}

func (Unavailable) Locate(context.Context) (Point, error) {
	return Point{}, ErrNoPosition
}

// Locate asks l for a position, waiting at most timeout. On timeout or error
// it returns DefaultCenter and ok=false.
func Locate(ctx context.Context, l Locator, timeout time.Duration) (p Point, ok bool) {
	if l == nil {
		return DefaultCenter, false
	}
	if timeout <= 0 {
		timeout = DefaultLocateTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		p   Point
		err error
	}
	ch := make(chan result, 1)
	go func() {
		p, err := l.Locate(ctx)
		ch <- result{p, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return DefaultCenter, false
		}
		return r.p, true
	case <-ctx.Done():
		return DefaultCenter, false
	}
}

// ParsePoint reads "lat,lng".
func ParsePoint(s string) (Point, error) {
	latS, lngS, found := strings.Cut(s, ",")
	if !found {
		return Point{}, fmt.Errorf("point %q: expected lat,lng", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latS), 64)
	if err != nil {
		return Point{}, fmt.Errorf("point %q: latitude: %w", s, err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngS), 64)
	if err != nil {
		return Point{}, fmt.Errorf("point %q: longitude: %w", s, err)
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Point{}, fmt.Errorf("point %q: out of range", s)
	}
	return Point{Lat: lat, Lng: lng}, nil
}

// Distance is the great-circle distance between a and b in meters.
func Distance(a, b Point) float64 {
	rad := math.Pi / 180
	dLat := (b.Lat - a.Lat) * rad
	dLng := (b.Lng - a.Lng) * rad
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*rad)*math.Cos(b.Lat*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

// Coverage is an antenna together with its distance to the queried point.
type Coverage struct {
	Antenna        models.Antenna
	DistanceMeters float64
}

// Covering returns the antennas whose radius reaches p, in input order.
func Covering(p Point, antennas []models.Antenna) []Coverage {
	var out []Coverage
	for _, a := range antennas {
		d := Distance(p, Point{Lat: a.Lat, Lng: a.Lng})
		if d <= a.RadiusMeters {
			out = append(out, Coverage{Antenna: a, DistanceMeters: d})
		}
	}
	return out
}

// StaticMapsBaseURL is the Google Static Maps endpoint.
const StaticMapsBaseURL = "https://maps.googleapis.com/maps/api/staticmap"

// StaticMapURL renders a map centred on center with one marker per antenna.
func StaticMapURL(apiKey string, center Point, antennas []models.Antenna) (string, error) {
	if apiKey == "" {
		return "", ErrMapsKeyMissing
	}

	q := url.Values{}
	q.Set("center", center.String())
	q.Set("zoom", "13")
	q.Set("size", "640x400")
	q.Add("markers", "color:blue|"+center.String())
	for _, a := range antennas {
		q.Add("markers", "color:red|label:"+a.ID+"|"+Point{Lat: a.Lat, Lng: a.Lng}.String())
	}
	q.Set("key", apiKey)
	return StaticMapsBaseURL + "?" + q.Encode(), nil
}
