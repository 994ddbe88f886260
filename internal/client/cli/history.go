package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/alcancesol/internal/client/models"
	"github.com/dmitrijs2005/alcancesol/internal/common"
)

// dateLayout renders timestamps the way the pt-BR locale does.
const dateLayout = "02/01/2006 15:04"

func formatTimestamp(ms int64) string {
	return time.UnixMilli(ms).Format(dateLayout)
}

func (a *App) History(ctx context.Context) error {
	list, err := a.reports.List(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Could not load history: %v\n", err)
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No reports in history. Type 'report' to report a problem.")
		return nil
	}

	for _, r := range list {
		fmt.Fprintf(a.out, "%s  %s  %-18s [%s]\n", r.ID, formatTimestamp(r.Timestamp), r.ReasonLabel, r.Status)
	}
	return nil
}

func (a *App) Show(ctx context.Context, id string) error {
	r, err := a.lookup(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "ID:       %s\n", r.ID)
	fmt.Fprintf(a.out, "Date:     %s\n", formatTimestamp(r.Timestamp))
	fmt.Fprintf(a.out, "Status:   %s\n", r.Status)
	fmt.Fprintf(a.out, "Name:     %s\n", r.ReporterName)
	fmt.Fprintf(a.out, "Reason:   %s\n", r.ReasonLabel)
	if r.AlternateContact != "" {
		fmt.Fprintf(a.out, "Contact:  %s\n", r.AlternateContact)
	}
	fmt.Fprintf(a.out, "Message:  %s\n", r.Message)
	return nil
}

// Copy prints the stored message text byte for byte.
func (a *App) Copy(ctx context.Context, id string) error {
	r, err := a.lookup(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, r.Content)
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	if err := a.reports.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrStorageUnavailable) {
			fmt.Fprintln(a.out, "Could not delete the report: local storage is unavailable.")
		} else {
			fmt.Fprintf(a.out, "Could not delete the report: %v\n", err)
		}
		return err
	}
	fmt.Fprintln(a.out, "Report removed from history")
	return nil
}

func (a *App) lookup(ctx context.Context, id string) (*models.Report, error) {
	r, err := a.reports.Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			fmt.Fprintf(a.out, "Report %s not found\n", id)
		} else {
			fmt.Fprintf(a.out, "Could not load the report: %v\n", err)
		}
		return nil, err
	}
	return r, nil
}
