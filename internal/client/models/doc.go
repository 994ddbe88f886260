// Package models defines the records persisted on the device by the Alcance
// Sol client: problem reports, the single current session, and the static
// catalogues (report reasons, antennas) the UI renders.
package models
