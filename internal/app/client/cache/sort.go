package cache

import (
	"fmt"
	"slices"
	"strings"

	"lemonpunch/internal/domain/record"
)

type Column string

const (
	ColumnID             Column = "id"
	ColumnName           Column = "name"
	ColumnIDNo           Column = "id_no"
	ColumnPhoneNo        Column = "phone_no"
	ColumnOutletName     Column = "outlet_name"
	ColumnOutletLocation Column = "outlet_location"
	ColumnOwner          Column = "owner"
)

// Columns - колонки в порядке отображения таблицы
var Columns = []Column{
	ColumnID,
	ColumnName,
	ColumnIDNo,
	ColumnPhoneNo,
	ColumnOutletName,
	ColumnOutletLocation,
	ColumnOwner,
}

func ParseColumn(s string) (Column, error) {
	c := Column(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Columns, c) {
		return c, nil
	}
	return "", fmt.Errorf("unknown sort column %q", s)
}

// Value возвращает строковое значение колонки; неизвестная колонка дает "".
func (c Column) Value(r record.Record) string {
	switch c {
	case ColumnID:
		return r.ID
	case ColumnName:
		return r.Name
	case ColumnIDNo:
		return r.IDNo
	case ColumnPhoneNo:
		return r.PhoneNo
	case ColumnOutletName:
		return r.OutletName
	case ColumnOutletLocation:
		return r.OutletLocation
	case ColumnOwner:
		return r.Owner.String()
	default:
		return ""
	}
}

type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// SortKey - активная колонка и направление
type SortKey struct {
	Column    Column
	Direction Direction
}

// DefaultSortKey - сортировка по имени по возрастанию
var DefaultSortKey = SortKey{Column: ColumnName, Direction: Asc}

// Toggle: повторный выбор активной колонки меняет направление,
// выбор новой колонки включает ее по возрастанию.
func (k SortKey) Toggle(c Column) SortKey {
	if k.Column == c {
		if k.Direction == Asc {
			return SortKey{Column: c, Direction: Desc}
		}
		return SortKey{Column: c, Direction: Asc}
	}
	return SortKey{Column: c, Direction: Asc}
}

// Sort возвращает новую стабильно отсортированную последовательность.
// Сравнение побайтовое (strings.Compare), равные значения сохраняют входной порядок
// в обоих направлениях.
func Sort(records []record.Record, key SortKey) []record.Record {
	out := slices.Clone(records)
	if out == nil {
		out = []record.Record{}
	}

	slices.SortStableFunc(out, func(a, b record.Record) int {
		cmp := strings.Compare(key.Column.Value(a), key.Column.Value(b))
		if key.Direction == Desc {
			return -cmp
		}
		return cmp
	})
	return out
}
