package render

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lemonpunch/internal/app/client/cache"
	"lemonpunch/internal/domain/record"
)

func rows() []record.Record {
	return []record.Record{
		{ID: "r1", Name: "Ann", OutletName: "Thika Wines", Owner: "s1",
			Samples: []record.Sample{{Type: "image/png", Name: "a.png"}, {Type: "audio/mpeg", Name: "b.mp3"}}},
		{ID: "r2", Name: "Bob", OutletName: "Kiosk", Owner: "s1"},
	}
}

func TestMediaIcon(t *testing.T) {
	assert.Equal(t, "🖼", MediaIcon(record.KindImage))
	assert.Equal(t, "🎬", MediaIcon(record.KindVideo))
	assert.Equal(t, "🎵", MediaIcon(record.KindAudio))
	assert.Equal(t, "📄", MediaIcon(record.KindFile))
	assert.Equal(t, "🖼🎵", Samples(rows()[0].Samples))
}

func TestHeader(t *testing.T) {
	assert.Equal(t, "Имя ▲", Header(cache.ColumnName, cache.DefaultSortKey))
	assert.Equal(t, "Имя ▼", Header(cache.ColumnName, cache.SortKey{Column: cache.ColumnName, Direction: cache.Desc}))
	assert.Equal(t, "Точка", Header(cache.ColumnOutletName, cache.DefaultSortKey))
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, rows(), cache.DefaultSortKey))

	out := buf.String()
	assert.Contains(t, out, "Имя ▲")
	assert.Contains(t, out, "Thika Wines")
	assert.Contains(t, out, "🖼🎵")
	assert.Contains(t, out, "Всего записей: 2")

	buf.Reset()
	require.NoError(t, Table(&buf, nil, cache.DefaultSortKey))
	assert.Equal(t, "Записи не найдены\n", buf.String())
}

func TestRecord(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	require.NoError(t, Record(&buf, rows()[0]))

	out := buf.String()
	assert.Contains(t, out, "ID: r1")
	assert.Contains(t, out, "Образцы: 2")
	assert.Contains(t, out, "a.png (image/png)")

	buf.Reset()
	require.NoError(t, Record(&buf, rows()[1]))
	assert.Contains(t, buf.String(), "Образцы: нет")
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, rows()))

	lines, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"id", "name", "id_no", "phone_no", "outlet_name", "outlet_location", "owner", "samples"}, lines[0])
	assert.Equal(t, "Ann", lines[1][1])
	assert.Equal(t, "2", lines[1][7])
	assert.Equal(t, "0", lines[2][7])
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, rows()[1]))
	assert.Contains(t, buf.String(), `"name": "Bob"`)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab...", Truncate("abcdefgh", 5))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
	assert.Equal(t, "Най...", Truncate("Найробский", 6))
}
