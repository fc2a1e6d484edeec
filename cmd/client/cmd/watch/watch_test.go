package watch

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"lemonpunch/internal/app/client"
	"lemonpunch/internal/app/client/cache"
	domain "lemonpunch/internal/domain/record"
)

func newScreen(buf *bytes.Buffer, records ...domain.Record) *Screen {
	color.NoColor = true
	c := cache.New()
	c.ReplaceAll(records)
	return &Screen{
		Out:  buf,
		View: cache.NewView(c),
		Now:  func() time.Time { return time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC) },
	}
}

func TestScreen_Update(t *testing.T) {
	var buf bytes.Buffer
	screen := newScreen(&buf, domain.Record{ID: "r1", Name: "Ann", OutletName: "Thika Wines"})
	screen.Clear = true
	screen.View.SetQuery("wines")

	screen.Update(client.SyncUpdate{Records: 1, Seeded: true})

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, clearScreen))
	assert.Contains(t, out, "LemonPunch 09:30:00")
	assert.Contains(t, out, `поиск: "wines"`)
	assert.Contains(t, out, "добавлены начальные записи")
	assert.Contains(t, out, "Thika Wines")
	assert.NotContains(t, out, "q - выход")
}

func TestScreen_UpdateError(t *testing.T) {
	var buf bytes.Buffer
	screen := newScreen(&buf)

	screen.Update(client.SyncUpdate{Err: errors.New("store down")})

	out := buf.String()
	assert.NotContains(t, out, clearScreen)
	assert.Contains(t, out, "store down")
	assert.Contains(t, out, "Записи не найдены")
}

func TestScreen_Toggle(t *testing.T) {
	var buf bytes.Buffer
	screen := newScreen(&buf,
		domain.Record{ID: "r1", Name: "Bob", IDNo: "2"},
		domain.Record{ID: "r2", Name: "Ann", IDNo: "1"},
	)

	screen.Update(client.SyncUpdate{Records: 2})
	out := buf.String()
	assert.Contains(t, out, "Имя ▲")
	assert.Less(t, strings.Index(out, "Ann"), strings.Index(out, "Bob"))

	buf.Reset()
	screen.Toggle(cache.ColumnName)
	out = buf.String()
	assert.Contains(t, out, "Имя ▼")
	assert.Less(t, strings.Index(out, "Bob"), strings.Index(out, "Ann"))
	assert.Equal(t, cache.SortKey{Column: cache.ColumnName, Direction: cache.Desc}, screen.View.SortKey())
}

func TestReadCommands(t *testing.T) {
	var buf bytes.Buffer
	screen := newScreen(&buf, domain.Record{ID: "r1", Name: "Ann"})

	quit := false
	in := strings.NewReader("2\n\nbogus\n42\nid_no\nq\n5\n")
	ReadCommands(context.Background(), in, screen, func() { quit = true })

	assert.True(t, quit)
	// 2 - повторный выбор name (по умолчанию asc) дает desc, затем id_no с asc; после q ввод не читается
	assert.Equal(t, cache.SortKey{Column: cache.ColumnIDNo, Direction: cache.Asc}, screen.View.SortKey())
}

func TestParseColumn(t *testing.T) {
	c, ok := parseColumn("1")
	assert.True(t, ok)
	assert.Equal(t, cache.ColumnID, c)

	c, ok = parseColumn("Outlet_Location")
	assert.True(t, ok)
	assert.Equal(t, cache.ColumnOutletLocation, c)

	_, ok = parseColumn("0")
	assert.False(t, ok)
	_, ok = parseColumn("8")
	assert.False(t, ok)
	_, ok = parseColumn("samples")
	assert.False(t, ok)
}
