package cli

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/trek/internal/extract"
)

func newExtractCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <message>",
		Short: "Print the trip slots recognized in a message as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			partial := extract.Extractor{Now: app.now}.Extract(strings.Join(args, " "))
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			return enc.Encode(partial)
		},
	}
}
