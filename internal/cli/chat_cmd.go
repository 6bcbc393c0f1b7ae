package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/trek/internal/cli/formatter"
	"github.com/alexanderramin/trek/internal/service"
)

const chatGreeting = "你好！告訴我你想去哪裡、玩幾天，我來幫你規劃行程。(/reset 重新開始，/quit 離開)"

func newChatCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Plan a trip in a conversation, one message per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), app, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func runChat(ctx context.Context, app *App, in io.Reader, out, errOut io.Writer) error {
	if app.Conversation == nil {
		return fmt.Errorf("conversation service is not configured")
	}
	interactive := app.interactive()
	sess := service.NewSession()
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, chatGreeting)
	for {
		if interactive {
			fmt.Fprint(out, formatter.StylePurple.Render("> "))
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/reset":
			sess.Reset()
			fmt.Fprintln(out, formatter.Dim("已清除目前的需求。"))
			continue
		case "/trip":
			if sess.LastTrip == nil {
				fmt.Fprintln(out, formatter.Dim("還沒有規劃好的行程。"))
			} else {
				fmt.Fprint(out, formatter.FormatTrip(*sess.LastTrip))
			}
			continue
		}

		res, err := handleTurn(ctx, app, sess, line, errOut, interactive)
		if err != nil {
			fmt.Fprintln(errOut, formatter.StyleRed.Render("錯誤：")+err.Error())
			continue
		}
		printTurn(out, res)
	}
	return scanner.Err()
}

func handleTurn(ctx context.Context, app *App, sess *service.Session, message string, errOut io.Writer, spin bool) (*service.TurnResult, error) {
	if spin {
		stop := formatter.StartSpinner(errOut, "思考中…")
		defer stop()
	}
	return app.Conversation.HandleTurn(ctx, sess, message)
}

func printTurn(out io.Writer, res *service.TurnResult) {
	if !res.Complete || res.Trip == nil {
		fmt.Fprint(out, formatter.FormatQuestion(res.Collected, res.Question))
		return
	}
	fmt.Fprint(out, formatter.FormatTrip(*res.Trip))
	fmt.Fprintln(out, formatter.Dim("行程編號 "+formatter.ShortID(res.Trip.ID)))
}
