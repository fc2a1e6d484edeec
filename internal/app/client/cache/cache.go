// Package cache хранит последний снимок записей сессии и строит из него
// отфильтрованное и отсортированное представление.
package cache

import (
	"sync/atomic"

	"lemonpunch/internal/domain/record"
)

// Snapshot - неизменяемый полный набор записей, прочитанный из хранилища.
// Version растет на каждую замену и служит для инвалидации представлений.
type Snapshot struct {
	Records []record.Record
	Version uint64
}

// Cache держит текущий снимок. Писатель один (синхронизатор), читателей много.
type Cache struct {
	snap    atomic.Pointer[Snapshot]
	version atomic.Uint64
}

func New() *Cache {
	c := &Cache{}
	c.snap.Store(&Snapshot{Records: []record.Record{}})
	return c
}

// ReplaceAll целиком заменяет снимок. Читатель видит либо старый, либо новый набор.
func (c *Cache) ReplaceAll(records []record.Record) {
	cp := make([]record.Record, len(records))
	for i := range records {
		cp[i] = records[i].Clone()
	}

	c.snap.Store(&Snapshot{
		Records: cp,
		Version: c.version.Add(1),
	})
}

// Snapshot возвращает текущий снимок. Изменять его записи нельзя.
func (c *Cache) Snapshot() *Snapshot {
	return c.snap.Load()
}

func (c *Cache) IsEmpty() bool {
	return len(c.snap.Load().Records) == 0
}

func (c *Cache) Len() int {
	return len(c.snap.Load().Records)
}

// Find ищет запись по точному совпадению id
func (c *Cache) Find(id string) (record.Record, bool) {
	for _, r := range c.snap.Load().Records {
		if r.ID == id {
			return r.Clone(), true
		}
	}
	return record.Record{}, false
}
