package geo

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/dmitrijs2005/alcancesol/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slowLocator struct{}

func (slowLocator) Locate(ctx context.Context) (Point, error) {
	<-ctx.Done()
	return Point{}, ctx.Err()
}

type failingLocator struct{}

func (failingLocator) Locate(context.Context) (Point, error) {
	return Point{}, errors.New("permission denied")
}

func TestLocate(t *testing.T) {
	ctx := context.Background()

	p, ok := Locate(ctx, Fixed{Lat: 1, Lng: 2}, time.Second)
	assert.True(t, ok)
	assert.Equal(t, Point{Lat: 1, Lng: 2}, p)

	p, ok = Locate(ctx, failingLocator{}, time.Second)
	assert.False(t, ok)
	assert.Equal(t, DefaultCenter, p)

	p, ok = Locate(ctx, Unavailable{}, time.Second)
	assert.False(t, ok)
	assert.Equal(t, DefaultCenter, p)

	p, ok = Locate(ctx, nil, time.Second)
	assert.False(t, ok)
	assert.Equal(t, DefaultCenter, p)
}

func TestLocate_Timeout(t *testing.T) {
	start := time.Now()
	p, ok := Locate(context.Background(), slowLocator{}, 20*time.Millisecond)
	assert.False(t, ok)
	assert.Equal(t, DefaultCenter, p)
	assert.Less(t, time.Since(start), time.Second)
}

func TestParsePoint(t *testing.T) {
	p, err := ParsePoint("-16.68, -49.26")
	require.NoError(t, err)
	assert.Equal(t, Point{Lat: -16.68, Lng: -49.26}, p)

	for _, bad := range []string{"", "1", "a,b", "91,0", "0,181"} {
		_, err := ParsePoint(bad)
		assert.Error(t, err, bad)
	}
}

func TestDistance(t *testing.T) {
	assert.InDelta(t, 0, Distance(DefaultCenter, DefaultCenter), 1e-9)

	// One degree of latitude is about 111.2 km.
	d := Distance(Point{Lat: 0, Lng: 0}, Point{Lat: 1, Lng: 0})
	assert.InDelta(t, 111195, d, 10)
}

func TestCovering(t *testing.T) {
	got := Covering(DefaultCenter, models.MockAntennas)
	require.Len(t, got, 1)
	assert.Equal(t, "Antena Central", got[0].Antenna.Name)
	assert.InDelta(t, 0, got[0].DistanceMeters, 1e-6)

	north := Point{Lat: -16.6569, Lng: -49.2548}
	got = Covering(north, models.MockAntennas)
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].Antenna.ID)

	assert.Empty(t, Covering(Point{Lat: 0, Lng: 0}, models.MockAntennas))
}

func TestStaticMapURL(t *testing.T) {
	_, err := StaticMapURL("", DefaultCenter, models.MockAntennas)
	assert.ErrorIs(t, err, ErrMapsKeyMissing)

	raw, err := StaticMapURL("k3y", DefaultCenter, models.MockAntennas)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "maps.googleapis.com", u.Host)
	q := u.Query()
	assert.Equal(t, "k3y", q.Get("key"))
	assert.Equal(t, "-16.6869,-49.2648", q.Get("center"))
	assert.Len(t, q["markers"], 1+len(models.MockAntennas))
	assert.Contains(t, q["markers"], "color:red|label:3|-16.7169,-49.2748")
}
