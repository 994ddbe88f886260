package models

// Session is the single logged-in identity kept on the device.
// Its absence means "logged out"; LoggedIn is always true when stored.
type Session struct {
	// Identity is email-shaped in practice; it is not validated.
	Identity string `json:"email"`
	LoggedIn bool   `json:"loggedIn"`
	// Timestamp is the login time in epoch milliseconds.
	Timestamp int64 `json:"timestamp"`
}
