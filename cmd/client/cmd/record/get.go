// cmd/client/cmd/record/get.go
package record

import (
	"os"

	"github.com/spf13/cobra"

	"lemonpunch/internal/app/client/render"
)

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Показать запись",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		rec, err := app.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if jsonOutput(cmd) {
			return render.JSON(os.Stdout, rec)
		}
		return render.Record(os.Stdout, *rec)
	},
}
