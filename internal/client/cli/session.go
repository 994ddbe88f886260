package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/alcancesol/internal/client/models"
	"github.com/dmitrijs2005/alcancesol/internal/client/services"
	"github.com/dmitrijs2005/alcancesol/internal/common"
)

func (a *App) Login(ctx context.Context) error {
	if s := a.sessions.Current(); s != nil {
		fmt.Fprintf(a.out, "Already logged in as %s\n", s.Identity)
		return nil
	}

	identity, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	err = a.sessions.Login(ctx, identity, password)
	switch {
	case err == nil:
		fmt.Fprintln(a.out, "Login successful")
	case errors.Is(err, services.ErrInvalidCredentials):
		printValidation(a, err)
	case errors.Is(err, common.ErrStorageUnavailable):
		fmt.Fprintln(a.out, "Could not save the session: local storage is unavailable.")
	default:
		fmt.Fprintf(a.out, "Login unsuccessful: %v\n", err)
	}
	return err
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.sessions.Logout(ctx); err != nil {
		fmt.Fprintf(a.out, "Could not log out: %v\n", err)
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// printValidation prints the per-field messages of a validation error.
func printValidation(a *App, err error) {
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}

	names := make([]string, 0, len(verr.Fields))
	for name := range verr.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(a.out, "  - %s\n", verr.Fields[name])
	}
}
