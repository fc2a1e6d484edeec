// cmd/client/cmd/record/records.go
package record

import (
	"fmt"

	"github.com/spf13/cobra"

	"lemonpunch/internal/app/client"
	"lemonpunch/internal/domain/record"
)

// Commands возвращает команды работы с записями
func Commands() []*cobra.Command {
	return []*cobra.Command{listCmd, getCmd, createCmd, updateCmd, deleteCmd}
}

func appFrom(cmd *cobra.Command) (*client.App, error) {
	app := client.FromContext(cmd.Context())
	if app == nil {
		return nil, fmt.Errorf("приложение не инициализировано")
	}
	return app, nil
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

// fieldFlags - флаги скалярных полей записи для create и update
type fieldFlags struct {
	name           string
	idNo           string
	phoneNo        string
	outletName     string
	outletLocation string
	files          []string
}

func (f *fieldFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "имя контакта")
	cmd.Flags().StringVar(&f.idNo, "id-no", "", "номер документа")
	cmd.Flags().StringVar(&f.phoneNo, "phone-no", "", "телефон")
	cmd.Flags().StringVar(&f.outletName, "outlet-name", "", "название точки")
	cmd.Flags().StringVar(&f.outletLocation, "outlet-location", "", "адрес точки")
	cmd.Flags().StringArrayVar(&f.files, "file", nil, "файл образца (можно указать несколько раз)")
}

func (f *fieldFlags) fields() record.Fields {
	return record.Fields{
		Name:           f.name,
		IDNo:           f.idNo,
		PhoneNo:        f.phoneNo,
		OutletName:     f.outletName,
		OutletLocation: f.outletLocation,
	}
}

// patch применяет только явно переданные флаги
func (f *fieldFlags) patch(cmd *cobra.Command) func(*record.Fields) {
	changed := cmd.Flags().Changed
	return func(dst *record.Fields) {
		if changed("name") {
			dst.Name = f.name
		}
		if changed("id-no") {
			dst.IDNo = f.idNo
		}
		if changed("phone-no") {
			dst.PhoneNo = f.phoneNo
		}
		if changed("outlet-name") {
			dst.OutletName = f.outletName
		}
		if changed("outlet-location") {
			dst.OutletLocation = f.outletLocation
		}
	}
}
