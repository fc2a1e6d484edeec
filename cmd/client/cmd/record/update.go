// cmd/client/cmd/record/update.go
package record

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	updateFlags   fieldFlags
	removeSamples []string
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Изменить запись",
	Long: `Меняет переданные поля записи, добавляет новые образцы и удаляет
образцы по пути (--remove-sample). Не переданные поля остаются прежними.`,
	Example: `  lemonpunch update 0b4c... --phone-no 0700000000 --remove-sample owner/key/01H...-shelf.jpg`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		err = app.Update(cmd.Context(), args[0], updateFlags.patch(cmd), updateFlags.files, removeSamples)
		if err != nil {
			return fmt.Errorf("ошибка обновления записи: %w", err)
		}

		fmt.Println("✅ Запись обновлена:", args[0])
		return nil
	},
}

func init() {
	updateFlags.register(updateCmd)
	updateCmd.Flags().StringArrayVar(&removeSamples, "remove-sample", nil, "путь образца для удаления (можно указать несколько раз)")
}
