package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/trek/internal/cli/formatter"
	"github.com/alexanderramin/trek/internal/domain"
	"github.com/alexanderramin/trek/internal/trip"
)

func newTripsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "trips",
		Aliases: []string{"trip"},
		Short:   "Track planned trips",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Trips == nil {
				return fmt.Errorf("trip service is not configured")
			}
			return nil
		},
	}

	cmd.AddCommand(
		newTripsListCmd(app),
		newTripsShowCmd(app),
		newTripsSpendCmd(app),
		newTripsStatusCmd(app),
		newTripsNoteCmd(app),
		newTripsExportCmd(app),
		newTripsRemoveCmd(app),
	)
	return cmd
}

// statusValue is a --status flag that only accepts known trip statuses.
type statusValue struct {
	status domain.TripStatus
}

var _ pflag.Value = (*statusValue)(nil)

func (v *statusValue) String() string { return string(v.status) }

func (v *statusValue) Set(s string) error {
	st, err := trip.ParseStatus(s)
	if err != nil {
		return err
	}
	v.status = st
	return nil
}

func (v *statusValue) Type() string { return "status" }

func newTripsListCmd(app *App) *cobra.Command {
	var status statusValue

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List trips, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := app.Trips.List(cmd.Context(), status.status)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatTripList(recs))
			if len(recs) == 0 && !app.Persistent {
				fmt.Fprintln(out, formatter.Dim("提示：設定 TREK_DB 才能在多次執行之間保存行程。"))
			}
			return nil
		},
	}

	cmd.Flags().Var(&status, "status", "Only trips in this status (planning, ongoing, completed)")
	return cmd
}

func newTripsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a trip's full itinerary and change log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := app.Trips.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTrip(*rec))
			return nil
		},
	}
}

func newTripsSpendCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "spend <id> <amount> [note...]",
		Short: "Record money spent on a trip",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			rec, err := app.Trips.RecordSpend(cmd.Context(), args[0], amount, strings.Join(args[2:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已記錄 %s，剩餘 %s\n", formatter.Money(amount), formatter.Money(rec.Remaining()))
			return nil
		},
	}
}

func newTripsStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Move a trip to planning, ongoing or completed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := trip.ParseStatus(args[1])
			if err != nil {
				return err
			}
			rec, err := app.Trips.AdvanceStatus(cmd.Context(), args[0], to)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", rec.Name, formatter.StatusPill(rec.Status))
			return nil
		},
	}
}

func newTripsNoteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "note <id> <text...>",
		Short: "Add a note to a trip's change log",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.Trips.AddAdjustment(cmd.Context(), args[0], strings.Join(args[1:], " ")); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "已新增備註")
			return nil
		},
	}
}

func newTripsExportCmd(app *App) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a trip as an iCalendar file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			rec, err := app.Trips.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" && outPath != "-" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating %s: %w", outPath, err)
				}
				defer func() {
					if cerr := f.Close(); err == nil {
						err = cerr
					}
				}()
				w = f
			}
			if err := trip.ExportICS(w, *rec, app.now()); err != nil {
				return err
			}
			if outPath != "" && outPath != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "已匯出至 %s\n", outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func newTripsRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a trip",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Trips.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "已刪除")
			return nil
		},
	}
}

// parseAmount accepts plain digits with optional thousands separators and
// an optional NT$ prefix.
func parseAmount(s string) (int, error) {
	clean := strings.NewReplacer(",", "", "NT$", "", "$", "", " ", "").Replace(s)
	n, err := strconv.Atoi(clean)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return n, nil
}
