// cmd/client/cmd/record/create.go
package record

import (
	"fmt"

	"github.com/spf13/cobra"
)

var createFlags fieldFlags

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Создать запись",
	Long: `Создает запись и загружает файлы образцов в хранилище.

Тип образца определяется по расширению файла, иначе по содержимому.
Если загрузка любого файла не удалась, запись не создается.`,
	Example: `  lemonpunch create --name "Peter Kamau" --outlet-name "Thika Wines" --file shelf.jpg`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		if createFlags.name == "" {
			return fmt.Errorf("укажите --name")
		}

		id, err := app.Create(cmd.Context(), createFlags.fields(), createFlags.files)
		if err != nil {
			return fmt.Errorf("ошибка создания записи: %w", err)
		}

		fmt.Println("✅ Запись создана:", id)
		return nil
	},
}

func init() {
	createFlags.register(createCmd)
}
