// Package cli provides the interactive Alcance Sol command-line client.
//
// It wires configuration, the on-device store, the session and report
// services and an interactive REPL. Typical flow: restore the stored
// session, prompt for credentials when there is none, then execute user
// commands until exit.
//
// Key features:
//   - Login / Logout (mock credentials, one persisted session)
//   - Report a connectivity problem and get the messaging deep-link
//   - History: list, show, copy and delete saved reports
//   - Contact link and antenna coverage for the current position
//
// Every command except help, login and exit requires a session. When the
// store cannot be opened the client still runs: history reads as empty and
// every write prints a "could not save" notice.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
