package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/trek/internal/service"
)

func newPlanCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <message> [message...]",
		Short: "Run each argument as a conversation turn until a trip is planned",
		Example: `  trek plan "我想去台東玩" "一萬五，喜歡自然" "2天"
  trek plan "我想和家人去台南玩3天，預算2萬，想吃美食"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Conversation == nil {
				return fmt.Errorf("conversation service is not configured")
			}
			out := cmd.OutOrStdout()
			sess := service.NewSession()

			var last *service.TurnResult
			for _, msg := range args {
				res, err := app.Conversation.HandleTurn(cmd.Context(), sess, msg)
				if err != nil {
					return err
				}
				last = res
				if res.Complete {
					break
				}
			}
			printTurn(out, last)
			return nil
		},
	}
}
