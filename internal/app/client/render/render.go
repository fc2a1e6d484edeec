// Package render выводит записи в терминал: таблица, карточка записи, JSON и CSV.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"lemonpunch/internal/app/client/cache"
	"lemonpunch/internal/domain/record"
)

const maxCell = 30

var headers = map[cache.Column]string{
	cache.ColumnID:             "ID",
	cache.ColumnName:           "Имя",
	cache.ColumnIDNo:           "ID No",
	cache.ColumnPhoneNo:        "Телефон",
	cache.ColumnOutletName:     "Точка",
	cache.ColumnOutletLocation: "Адрес",
	cache.ColumnOwner:          "Владелец",
}

// MediaIcon - значок образца по виду медиа
func MediaIcon(kind record.MediaKind) string {
	switch kind {
	case record.KindImage:
		return "🖼"
	case record.KindVideo:
		return "🎬"
	case record.KindAudio:
		return "🎵"
	default:
		return "📄"
	}
}

// Samples - значки всех образцов записи подряд
func Samples(samples []record.Sample) string {
	var b strings.Builder
	for _, s := range samples {
		b.WriteString(MediaIcon(s.Kind()))
	}
	return b.String()
}

// Header возвращает заголовок колонки; активная колонка помечается стрелкой
func Header(c cache.Column, key cache.SortKey) string {
	h := headers[c]
	if c != key.Column {
		return h
	}
	if key.Direction == cache.Desc {
		return h + " ▼"
	}
	return h + " ▲"
}

// Table печатает записи таблицей в порядке колонок cache.Columns
func Table(w io.Writer, rows []record.Record, key cache.SortKey) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "Записи не найдены")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range cache.Columns {
		fmt.Fprintf(tw, "%s\t", Header(c, key))
	}
	fmt.Fprintln(tw, "Образцы\t")

	for _, r := range rows {
		for _, c := range cache.Columns {
			fmt.Fprintf(tw, "%s\t", Truncate(c.Value(r), maxCell))
		}
		fmt.Fprintf(tw, "%s\t\n", Samples(r.Samples))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nВсего записей: %d\n", len(rows))
	return err
}

// Record печатает карточку одной записи
func Record(w io.Writer, r record.Record) error {
	label := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintf(w, "%s %s\n", label("ID:"), r.ID)
	fmt.Fprintf(w, "%s %s\n", label("Имя:"), r.Name)
	fmt.Fprintf(w, "%s %s\n", label("ID No:"), r.IDNo)
	fmt.Fprintf(w, "%s %s\n", label("Телефон:"), r.PhoneNo)
	fmt.Fprintf(w, "%s %s\n", label("Точка:"), r.OutletName)
	fmt.Fprintf(w, "%s %s\n", label("Адрес:"), r.OutletLocation)
	fmt.Fprintf(w, "%s %s\n", label("Владелец:"), r.Owner)
	if !r.CreatedAt.IsZero() {
		fmt.Fprintf(w, "%s %s\n", label("Создано:"), r.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "%s %s\n", label("Обновлено:"), r.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	if len(r.Samples) == 0 {
		_, err := fmt.Fprintf(w, "%s нет\n", label("Образцы:"))
		return err
	}
	fmt.Fprintf(w, "%s %d\n", label("Образцы:"), len(r.Samples))
	for _, s := range r.Samples {
		fmt.Fprintf(w, "  %s %s (%s)\n     %s\n", MediaIcon(s.Kind()), s.Name, s.Type, s.URL)
	}
	return nil
}

func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// CSV печатает записи со строкой заголовка; образцы - число файлов
func CSV(w io.Writer, rows []record.Record) error {
	cw := csv.NewWriter(w)
	head := make([]string, 0, len(cache.Columns)+1)
	for _, c := range cache.Columns {
		head = append(head, string(c))
	}
	if err := cw.Write(append(head, "samples")); err != nil {
		return err
	}

	for _, r := range rows {
		line := make([]string, 0, len(head)+1)
		for _, c := range cache.Columns {
			line = append(line, c.Value(r))
		}
		if err := cw.Write(append(line, fmt.Sprint(len(r.Samples)))); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Truncate обрезает строку до max рун
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
