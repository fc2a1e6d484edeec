package cache

import (
	gosync "sync"

	"lemonpunch/internal/domain/record"
)

// View - модель представления: запрос поиска и сортировка поверх Cache.
// Проекция пересчитывается лениво при смене снимка, запроса или сортировки.
type View struct {
	cache *Cache

	mu    gosync.Mutex
	query string
	key   SortKey
	memo  *projection
}

type projection struct {
	version uint64
	query   string
	key     SortKey
	rows    []record.Record
}

func NewView(c *Cache) *View {
	return &View{cache: c, key: DefaultSortKey}
}

func (v *View) SetQuery(q string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query = q
}

func (v *View) Query() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query
}

// Toggle выбирает колонку сортировки по правилам SortKey.Toggle
func (v *View) Toggle(c Column) SortKey {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.key = v.key.Toggle(c)
	return v.key
}

func (v *View) SetSort(key SortKey) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.key = key
}

func (v *View) SortKey() SortKey {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.key
}

// Rows возвращает отфильтрованную и отсортированную проекцию текущего снимка.
// Вся проекция строится из одного снимка. Изменять результат нельзя.
func (v *View) Rows() []record.Record {
	snap := v.cache.Snapshot()

	v.mu.Lock()
	defer v.mu.Unlock()

	if m := v.memo; m != nil && m.version == snap.Version && m.query == v.query && m.key == v.key {
		return m.rows
	}

	rows := Sort(Filter(snap.Records, v.query), v.key)
	v.memo = &projection{
		version: snap.Version,
		query:   v.query,
		key:     v.key,
		rows:    rows,
	}
	return rows
}
