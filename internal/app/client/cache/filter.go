package cache

import (
	"strings"

	"lemonpunch/internal/domain/record"
)

// scalarFields - строковые поля, по которым идет поиск. samples сюда не входят.
func scalarFields(r record.Record) [7]string {
	return [7]string{
		r.ID,
		r.Name,
		r.IDNo,
		r.PhoneNo,
		r.OutletName,
		r.OutletLocation,
		r.Owner.String(),
	}
}

// Filter возвращает записи, у которых хотя бы одно скалярное поле содержит
// query без учета регистра. Порядок входа сохраняется, пустой query пропускает все.
func Filter(records []record.Record, query string) []record.Record {
	out := make([]record.Record, 0, len(records))
	if query == "" {
		return append(out, records...)
	}

	q := strings.ToLower(query)
	for _, r := range records {
		if matches(r, q) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r record.Record, lowerQuery string) bool {
	for _, v := range scalarFields(r) {
		if strings.Contains(strings.ToLower(v), lowerQuery) {
			return true
		}
	}
	return false
}
