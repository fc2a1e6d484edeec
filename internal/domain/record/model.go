package record

import (
	"time"
)

// SessionID - идентификатор анонимной сессии устройства, владельца записей
type SessionID string

func (id SessionID) String() string {
	return string(id)
}

// Record - одна запись торгового контакта (outlet)
type Record struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	IDNo           string    `json:"id_no"`
	PhoneNo        string    `json:"phone_no"`
	OutletName     string    `json:"outlet_name"`
	OutletLocation string    `json:"outlet_location"`
	Samples        []Sample  `json:"samples"`
	Owner          SessionID `json:"owner"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Sample - медиафайл, прикрепленный к записи. Сам файл лежит в blob store.
type Sample struct {
	URL  string `json:"url"`
	Path string `json:"path"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// Kind returns the media kind derived from the MIME type prefix.
func (s Sample) Kind() MediaKind {
	return KindOf(s.Type)
}

// Fields is the mutable scalar part of a record as edited by a user.
type Fields struct {
	Name           string `json:"name"`
	IDNo           string `json:"id_no"`
	PhoneNo        string `json:"phone_no"`
	OutletName     string `json:"outlet_name"`
	OutletLocation string `json:"outlet_location"`
}

// Fields returns the record's editable scalar fields.
func (r Record) Fields() Fields {
	return Fields{
		Name:           r.Name,
		IDNo:           r.IDNo,
		PhoneNo:        r.PhoneNo,
		OutletName:     r.OutletName,
		OutletLocation: r.OutletLocation,
	}
}

// Apply copies f into the record.
func (r *Record) Apply(f Fields) {
	r.Name = f.Name
	r.IDNo = f.IDNo
	r.PhoneNo = f.PhoneNo
	r.OutletName = f.OutletName
	r.OutletLocation = f.OutletLocation
}

// Clone returns a deep copy; samples are not shared with the original.
func (r Record) Clone() Record {
	c := r
	if r.Samples != nil {
		c.Samples = make([]Sample, len(r.Samples))
		copy(c.Samples, r.Samples)
	}
	return c
}

// Input - данные для создания или обновления записи
type Input struct {
	Fields
	Samples []Sample `json:"samples"`
}
