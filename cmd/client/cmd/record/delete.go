// cmd/client/cmd/record/delete.go
package record

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Удалить запись вместе с образцами",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		if err := app.Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("ошибка удаления записи: %w", err)
		}

		fmt.Println("🗑 Запись удалена:", args[0])
		return nil
	},
}
