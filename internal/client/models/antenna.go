package models

// Antenna is a coverage point of the provider's network.
type Antenna struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	RadiusMeters float64 `json:"radiusMeters"`
}

// MockAntennas is the fixed antenna set shown on the coverage screen.
var MockAntennas = []Antenna{
	{ID: "1", Name: "Antena Central", Lat: -16.6869, Lng: -49.2648, RadiusMeters: 2000},
	{ID: "2", Name: "Antena Norte", Lat: -16.6569, Lng: -49.2548, RadiusMeters: 1500},
	{ID: "3", Name: "Antena Sul", Lat: -16.7169, Lng: -49.2748, RadiusMeters: 1800},
}
