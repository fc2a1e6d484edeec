package client

import (
	"context"
	"fmt"

	"lemonpunch/internal/domain/record"
)

// InitialRecords - контакты, которыми наполняется пустое хранилище
var InitialRecords = []record.Fields{
	{Name: "Maureen Wanjiru", IDNo: "40124865", PhoneNo: "0797407603", OutletName: "Sweet Cup", OutletLocation: "Kenol"},
	{Name: "Yvonne Muthoni", IDNo: "42861012", PhoneNo: "0792388022", OutletName: "Baba Mdogo", OutletLocation: "Allsops"},
}

type StoreSeeder struct {
	store   Store
	records []record.Fields
}

func NewStoreSeeder(store Store) *StoreSeeder {
	return &StoreSeeder{store: store, records: InitialRecords}
}

// Seed вставляет начальные записи. Владельца проставляет сервер по токену сессии.
func (s *StoreSeeder) Seed(ctx context.Context, _ record.SessionID) error {
	for _, f := range s.records {
		if _, err := s.store.Insert(ctx, record.Input{Fields: f, Samples: []record.Sample{}}); err != nil {
			return fmt.Errorf("seed %q: %w", f.Name, err)
		}
	}
	return nil
}
