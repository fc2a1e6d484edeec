package cache

import (
	gosync "sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lemonpunch/internal/domain/record"
)

func TestCache_ReplaceAll(t *testing.T) {
	c := New()
	assert.True(t, c.IsEmpty())
	v0 := c.Snapshot().Version

	in := sampleRecords()
	c.ReplaceAll(in)
	assert.False(t, c.IsEmpty())
	assert.Equal(t, 4, c.Len())
	assert.Greater(t, c.Snapshot().Version, v0)

	// снимок не зависит от входного слайса
	in[0].Name = "changed"
	in[3].Samples[0].Name = "changed"
	rec, ok := c.Find("r1")
	require.True(t, ok)
	assert.Equal(t, "Maureen Wanjiru", rec.Name)
	rec, _ = c.Find("r4")
	assert.Equal(t, "wines.jpg", rec.Samples[0].Name)

	c.ReplaceAll(nil)
	assert.True(t, c.IsEmpty())
	_, ok = c.Find("r1")
	assert.False(t, ok)
}

func TestCache_FindStrictID(t *testing.T) {
	c := New()
	c.ReplaceAll([]record.Record{{ID: "10", Name: "Ten"}})

	_, ok := c.Find("010")
	assert.False(t, ok)
	_, ok = c.Find("10")
	assert.True(t, ok)
}

// Читатели проекции никогда не видят смесь двух снимков.
func TestCache_ReplaceAllIsAtomicForReaders(t *testing.T) {
	c := New()
	view := NewView(c)

	gen := func(tag string) []record.Record {
		out := make([]record.Record, 50)
		for i := range out {
			out[i] = record.Record{ID: tag + string(rune('A'+i%26)) + string(rune('a'+i/26)), Name: tag}
		}
		return out
	}
	a, b := gen("a"), gen("b")
	c.ReplaceAll(a)

	var wg gosync.WaitGroup
	stop := make(chan struct{})
	mixed := make(chan string, 1)

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				rows := view.Rows()
				for _, r := range rows {
					if r.Name != rows[0].Name {
						select {
						case mixed <- r.Name + "/" + rows[0].Name:
						default:
						}
						return
					}
				}
			}
		}()
	}

	for i := 0; i < 500; i++ {
		if i%2 == 0 {
			c.ReplaceAll(b)
		} else {
			c.ReplaceAll(a)
		}
	}
	close(stop)
	wg.Wait()

	select {
	case m := <-mixed:
		t.Fatalf("reader observed mixed snapshot: %s", m)
	default:
	}
}
