package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Report(ctx context.Context) error
	History(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Copy(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Contact(ctx context.Context) error
	Coverage(ctx context.Context) error
}

// protected lists the commands that require a session.
var protected = map[string]bool{
	"logout":   true,
	"report":   true,
	"history":  true,
	"list":     true,
	"show":     true,
	"copy":     true,
	"delete":   true,
	"contact":  true,
	"coverage": true,
}

// withID lists the commands that take a report id argument.
var withID = map[string]bool{
	"show":   true,
	"copy":   true,
	"delete": true,
}

// runREPL starts a simple read–eval–print loop for the Alcance Sol CLI.
//
// It reads a line from r, parses the first token as the command and
// dispatches to methods on 'a'. Protected commands are refused while logged
// out and the user is sent to login instead. The loop exits on end of input
// or when the user types "exit" or "quit".
//
// Prompt & Commands
//
//	Not logged in:
//	  - help             show available commands
//	  - login            start a session
//	  - exit | quit      leave the program
//
//	Logged in:
//	  - report           report a connectivity problem
//	  - history | list   list saved reports, newest first
//	  - show <id>        show one report
//	  - copy <id>        print the report message as it was sent
//	  - delete <id>      remove a report from history
//	  - contact          support number and contact link
//	  - coverage         antennas around the current position
//	  - logout           end the session
//
// Errors returned by command handlers are ignored here; handlers print their
// own notices.
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "alcance %s> ", statusFn())
		line, err := r.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if protected[cmd] && !a.isLoggedIn() {
			fmt.Fprintln(w, "Please log in first.")
			_ = a.Login(ctx)
			continue
		}
		if withID[cmd] && len(args) == 0 {
			fmt.Fprintf(w, "Usage: %s <id>\n", cmd)
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: report, history (list), show <id>, copy <id>, delete <id>, contact, coverage, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "report":
			_ = a.Report(ctx)

		case "history", "list":
			_ = a.History(ctx)

		case "show":
			_ = a.Show(ctx, args[0])

		case "copy":
			_ = a.Copy(ctx, args[0])

		case "delete":
			_ = a.Delete(ctx, args[0])

		case "contact":
			_ = a.Contact(ctx)

		case "coverage":
			_ = a.Coverage(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
