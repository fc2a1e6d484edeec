// cmd/client/cmd/session.go
package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lemonpunch/internal/app/client"
	"lemonpunch/internal/app/client/render"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Показать текущую сессию",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := client.FromContext(cmd.Context())
		if app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		info, err := app.Session(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return render.JSON(cmd.OutOrStdout(), info)
		}

		state := "новая"
		if info.Resumed {
			state = "продолжена"
		}
		fmt.Printf("Сервер:     %s\n", info.Server)
		fmt.Printf("Устройство: %s\n", info.DeviceID)
		fmt.Printf("Сессия:     %s (%s)\n", color.GreenString(info.SessionID.String()), state)
		return nil
	},
}
