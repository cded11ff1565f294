package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/jobassist/internal/rpcapi"
)

func yes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	}
	return false
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}

func printApplication(w io.Writer, app *rpcapi.Application) {
	fmt.Fprintf(w, "ID:         %s\n", app.ID)
	fmt.Fprintf(w, "Job:        %s at %s\n", app.JobTitle, app.Company)
	fmt.Fprintf(w, "Status:     %s\n", app.Status)
	fmt.Fprintf(w, "Applied at: %s\n", formatTime(app.AppliedAt))
	if app.InterviewDate != nil {
		fmt.Fprintf(w, "Interview:  %s\n", formatTime(app.InterviewDate))
	}
	if app.Notes != "" {
		fmt.Fprintf(w, "Notes:      %s\n", app.Notes)
	}
	if app.ApplyURL != "" {
		fmt.Fprintf(w, "Apply URL:  %s\n", app.ApplyURL)
	}
	if app.CoverLetter != "" {
		fmt.Fprintf(w, "\n%s\n", app.CoverLetter)
	}
}

func printStats(w io.Writer, st rpcapi.Stats) {
	fmt.Fprintf(w, "total %d | draft %d | applied %d | interview %d | offer %d | rejected %d | withdrawn %d\n",
		st.Total, st.Draft, st.Applied, st.Interview, st.Offer, st.Rejected, st.Withdrawn)
}

// Apply records an application for a job id.
func (a *App) Apply(ctx context.Context) error {
	jobID, err := getSimpleText(a.reader, "Job id", a.out)
	if err != nil {
		return err
	}

	initial, err := getSimpleText(a.reader, "Initial status (draft/applied) [applied]", a.out)
	if err != nil {
		return err
	}
	if initial == "" {
		initial = "applied"
	}

	answer, err := getSimpleText(a.reader, "Generate a cover letter? (y/N)", a.out)
	if err != nil {
		return err
	}

	req := &rpcapi.ApplyRequest{JobID: jobID, InitialStatus: initial, GenerateCoverLetter: yes(answer)}
	if req.GenerateCoverLetter {
		if req.CustomMessage, err = getMultiline(a.reader, "Anything to add to the letter?", a.out); err != nil {
			return err
		}
	}

	resp, err := a.api.Apply(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Application %s recorded as %s\n", resp.Application.ID, resp.Application.Status)
	if resp.ApplyURL != "" {
		fmt.Fprintf(a.out, "Finish applying at %s\n", resp.ApplyURL)
	}
	if resp.Application.CoverLetter != "" {
		fmt.Fprintf(a.out, "\n%s\n", resp.Application.CoverLetter)
	}
	return nil
}

// SetStatus moves an application to a new status.
func (a *App) SetStatus(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Application id", a.out)
	if err != nil {
		return err
	}

	status, err := getSimpleText(a.reader, "New status (applied/interview/offer/rejected/withdrawn)", a.out)
	if err != nil {
		return err
	}

	req := &rpcapi.TransitionRequest{ApplicationID: id, Status: status}

	if status == "interview" {
		if req.InterviewDate, err = getSimpleText(a.reader, "Interview date (RFC 3339, empty to skip)", a.out); err != nil {
			return err
		}
	}

	if req.Notes, err = getMultiline(a.reader, "Notes", a.out); err != nil {
		return err
	}

	app, err := a.api.Transition(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Application %s is now %s\n", app.ID, app.Status)
	return nil
}

func (a *App) List(ctx context.Context) error {
	status, err := getSimpleText(a.reader, "Status filter (empty for all)", a.out)
	if err != nil {
		return err
	}

	resp, err := a.api.List(ctx, status)
	if err != nil {
		return err
	}

	if len(resp.Applications) == 0 {
		fmt.Fprintln(a.out, "No applications")
	} else {
		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSTATUS\tJOB\tCOMPANY\tUPDATED")
		for _, app := range resp.Applications {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", app.ID, app.Status, app.JobTitle, app.Company, formatTime(&app.UpdatedAt))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	printStats(a.out, resp.Stats)
	return nil
}

func (a *App) Show(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Application id", a.out)
	if err != nil {
		return err
	}

	app, err := a.api.Get(ctx, id)
	if err != nil {
		return err
	}

	printApplication(a.out, app)
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	st, err := a.api.Stats(ctx)
	if err != nil {
		return err
	}
	printStats(a.out, st)
	return nil
}

func (a *App) Reconcile(ctx context.Context) error {
	resp, err := a.api.Reconcile(ctx)
	if err != nil {
		return err
	}
	if resp.Changed {
		fmt.Fprintln(a.out, "Counts were out of date and have been rebuilt")
	} else {
		fmt.Fprintln(a.out, "Counts are up to date")
	}
	printStats(a.out, resp.Stats)
	return nil
}
