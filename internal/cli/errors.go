package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"strategy-optimizer/internal/errors"
)

// newErrorsCmd creates the `errors` command: inspect candidate failures
// recorded by the telemetry registry during past searches.
func newErrorsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "errors",
		Short: "Show recent candidate evaluation failures",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.registry == nil {
				return errors.ErrRegistryUnavailable
			}
			events, err := app.registry.Recent(limit)
			if err != nil {
				return errors.Wrap(err, "reading failure registry")
			}
			if len(events) == 0 {
				fmt.Println("No recorded failures.")
				return nil
			}
			for _, e := range events {
				fmt.Printf("%s  [%s]  %s\n",
					e.Timestamp.Format("2006-01-02 15:04:05"), e.Operation, e.Message)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of failures to show")
	return cmd
}
