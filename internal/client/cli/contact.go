package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/alcancesol/internal/client/geo"
	"github.com/dmitrijs2005/alcancesol/internal/client/models"
	"github.com/dmitrijs2005/alcancesol/internal/client/services"
)

func (a *App) Contact(ctx context.Context) error {
	number := a.config.SupportNumber
	fmt.Fprintf(a.out, "Support: %s\n", services.FormatPhone(number))
	fmt.Fprintln(a.out, services.ContactLink(number))
	return nil
}

// Coverage lists the antennas around the device position. Without a fix the
// default center is used.
func (a *App) Coverage(ctx context.Context) error {
	p, ok := geo.Locate(ctx, a.locator, a.config.LocateTimeout)
	if !ok {
		fmt.Fprintln(a.out, "Position unavailable, showing the default area.")
	}
	fmt.Fprintf(a.out, "Position: %s\n", p)

	covering := geo.Covering(p, models.MockAntennas)
	if len(covering) == 0 {
		fmt.Fprintln(a.out, "No antenna covers this position.")
	}
	for _, c := range covering {
		fmt.Fprintf(a.out, "  %s (%.0f m away, radius %.0f m)\n", c.Antenna.Name, c.DistanceMeters, c.Antenna.RadiusMeters)
	}

	mapURL, err := geo.StaticMapURL(a.config.MapsAPIKey, p, models.MockAntennas)
	switch {
	case errors.Is(err, geo.ErrMapsKeyMissing):
		fmt.Fprintln(a.out, "Map unavailable: GOOGLE_MAPS_API_KEY is not set.")
	case err != nil:
		return err
	default:
		fmt.Fprintf(a.out, "Map: %s\n", mapURL)
	}
	return nil
}
