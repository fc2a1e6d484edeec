// cmd/client/cmd/init.go
package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lemonpunch/cmd/client/cmd/record"
	"lemonpunch/cmd/client/cmd/watch"
	"lemonpunch/internal/app/client"
	"lemonpunch/internal/app/client/render"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Инициализировать устройство",
	Long: `Создает учетные данные устройства и открывает анонимную сессию на сервере.

Учетные данные хранятся в каталоге конфигурации (по умолчанию ~/.lemonpunch).
Повторный запуск использует существующее устройство; --force создает новое,
и записи прежней сессии становятся недоступны этому клиенту.`,
	Annotations: map[string]string{annotationNoApp: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, created, err := client.Init(cfg, log, forceInit)
		if err != nil {
			return err
		}

		if created {
			fmt.Println("✅ Устройство создано:", cfg.DevicePath)
		} else {
			fmt.Println("Устройство уже инициализировано:", cfg.DevicePath)
		}

		fmt.Println("Проверка соединения с сервером...")
		if err := app.CheckConnection(cmd.Context()); err != nil {
			return fmt.Errorf("сервер недоступен: %w", err)
		}

		info, err := app.Session(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return render.JSON(cmd.OutOrStdout(), info)
		}

		fmt.Printf("Сессия: %s\n", color.GreenString(info.SessionID.String()))
		fmt.Println("Дальше: lemonpunch list")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "пересоздать устройство")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(record.Commands()...)
	rootCmd.AddCommand(watch.WatchCmd)
}
