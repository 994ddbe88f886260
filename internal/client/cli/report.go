package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/alcancesol/internal/client/models"
	"github.com/dmitrijs2005/alcancesol/internal/common"
)

func reasonOptions() []Option {
	out := make([]Option, 0, len(models.Reasons))
	for _, r := range models.Reasons {
		out = append(out, Option{Value: r.Value, Label: r.Label})
	}
	return out
}

// Report asks for the form fields, saves the report and prints the link
// that forwards it to support.
func (a *App) Report(ctx context.Context) error {
	var form models.ReportForm
	var err error

	if form.Name, err = GetSimpleText(a.reader, "Name", a.out); err != nil {
		return err
	}
	if form.Reason, err = GetChoice(a.reader, "Reason", reasonOptions(), a.out); err != nil {
		return err
	}
	if form.AlternateContact, err = GetSimpleText(a.reader, "Alternate contact (optional)", a.out); err != nil {
		return err
	}
	if form.Message, err = GetMultiline(a.reader, "Message", a.out); err != nil {
		return err
	}

	r, link, err := a.reports.Submit(ctx, form)
	switch {
	case err == nil:
	case errors.Is(err, common.ErrorValidation):
		fmt.Fprintln(a.out, "The report was not sent:")
		printValidation(a, err)
		return err
	case errors.Is(err, common.ErrStorageUnavailable):
		fmt.Fprintln(a.out, "Could not save the report: local storage is unavailable.")
		return err
	default:
		fmt.Fprintf(a.out, "Could not save the report: %v\n", err)
		return err
	}

	fmt.Fprintf(a.out, "Report %s saved.\n", r.ID)
	fmt.Fprintln(a.out, "Open this link to send it:")
	fmt.Fprintln(a.out, link)
	return nil
}
