package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lemonpunch/internal/domain/record"
)

func sampleRecords() []record.Record {
	return []record.Record{
		{ID: "r1", Name: "Maureen Wanjiru", IDNo: "40124865", PhoneNo: "0797407603", OutletName: "Sweet Cup", OutletLocation: "Kenol", Owner: "owner-1"},
		{ID: "r2", Name: "Yvonne Muthoni", IDNo: "42861012", PhoneNo: "0792388022", OutletName: "Baba Mdogo", OutletLocation: "Allsops", Owner: "owner-1"},
		{ID: "r3", Name: "Peter Kamau", OutletName: "Thika Wines", OutletLocation: "Thika", Owner: "owner-1"},
		{
			ID: "r4", Name: "Grace Achieng", OutletName: "Corner Shop", Owner: "owner-1",
			Samples: []record.Sample{{Name: "wines.jpg", Path: "owner-1/r4/01-wines.jpg", Type: "image/jpeg", URL: "http://x/wines.jpg"}},
		},
	}
}

func ids(records []record.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestFilter_EmptyQueryReturnsAll(t *testing.T) {
	in := sampleRecords()
	assert.Equal(t, in, Filter(in, ""))
	assert.Empty(t, Filter(nil, ""))
}

func TestFilter_WinesScenario(t *testing.T) {
	got := Filter(sampleRecords(), "wines")
	// r4 совпадает только по имени образца
	assert.Equal(t, []string{"r3"}, ids(got))
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "case insensitive", query: "MAUREEN", want: []string{"r1"}},
		{name: "id_no substring", query: "4286", want: []string{"r2"}},
		{name: "phone prefix matches two", query: "079", want: []string{"r1", "r2"}},
		{name: "location", query: "allsops", want: []string{"r2"}},
		{name: "id", query: "r3", want: []string{"r3"}},
		{name: "owner matches all in order", query: "owner-1", want: []string{"r1", "r2", "r3", "r4"}},
		{name: "sample path ignored", query: "01-wines", want: []string{}},
		{name: "no match", query: "nairobi", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(sampleRecords(), tt.query)))
		})
	}
}

func TestFilter_IsOrderPreservingSubsequence(t *testing.T) {
	in := sampleRecords()
	for _, q := range []string{"", "a", "i", "o", "Wines", "0", "zz"} {
		got := Filter(in, q)

		j := 0
		for _, r := range got {
			for j < len(in) && in[j].ID != r.ID {
				j++
			}
			if !assert.Less(t, j, len(in), "query %q: %s out of order", q, r.ID) {
				break
			}
			j++
		}
	}
}
