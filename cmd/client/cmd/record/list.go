// cmd/client/cmd/record/list.go
package record

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lemonpunch/internal/app/client/cache"
	"lemonpunch/internal/app/client/render"
)

var (
	listQuery  string
	listSort   string
	listDesc   bool
	listFormat string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать записи",
	Long: `Загружает записи с сервера и выводит их с фильтром и сортировкой.

Фильтр - подстрока без учета регистра по полям id, name, id_no, phone_no,
outlet_name, outlet_location и owner. Содержимое образцов не ищется.`,
	Example: `  lemonpunch list --query wines
  lemonpunch list --sort outlet_name --desc --format csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		key, err := SortKey(listSort, listDesc)
		if err != nil {
			return err
		}

		if err := app.Load(cmd.Context()); err != nil {
			return err
		}
		rows := app.Rows(listQuery, key)

		format := listFormat
		if jsonOutput(cmd) {
			format = "json"
		}

		switch format {
		case "table":
			return render.Table(os.Stdout, rows, key)
		case "json":
			return render.JSON(os.Stdout, rows)
		case "csv":
			return render.CSV(os.Stdout, rows)
		default:
			return fmt.Errorf("неподдерживаемый формат: %s", format)
		}
	},
}

// SortKey разбирает флаги сортировки; пустая колонка - сортировка по умолчанию
func SortKey(column string, desc bool) (cache.SortKey, error) {
	key := cache.DefaultSortKey
	if column != "" {
		c, err := cache.ParseColumn(column)
		if err != nil {
			return key, err
		}
		key.Column = c
	}
	if desc {
		key.Direction = cache.Desc
	}
	return key, nil
}

func init() {
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "строка поиска")
	listCmd.Flags().StringVar(&listSort, "sort", "", "колонка сортировки (id, name, id_no, phone_no, outlet_name, outlet_location, owner)")
	listCmd.Flags().BoolVar(&listDesc, "desc", false, "сортировать по убыванию")
	listCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "формат вывода (table, json, csv)")
}
