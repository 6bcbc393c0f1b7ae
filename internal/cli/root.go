// Package cli is the trek command line: a chat loop that plans trips and
// commands to track the trips afterwards.
package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/trek/internal/service"
)

// App holds the services the commands run against.
type App struct {
	Conversation service.ConversationService
	Trips        service.TripService

	// Persistent is false when trips live only as long as the process.
	Persistent bool

	// IsInteractive reports whether stdin is a terminal. Nil means no.
	IsInteractive func() bool

	// Now is the clock for extraction and calendar export. Nil means time.Now.
	Now func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// NewRootCmd creates the top-level "trek" command.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "trek",
		Short:         "Plan Taiwan trips by chatting",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newChatCmd(app),
		newPlanCmd(app),
		newExtractCmd(app),
		newTripsCmd(app),
	)
	return root
}
