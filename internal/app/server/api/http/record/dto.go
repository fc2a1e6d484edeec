package record

import "lemonpunch/internal/domain/record"

type listOutput struct {
	Body recordListResponse
}

type recordListResponse struct {
	Records []record.Record `json:"records"`
	Total   int             `json:"total"`
}

type findInput struct {
	ID string `path:"id" example:"7d1c1f0e-3b0e-4c7a-9f3e-1a2b3c4d5e6f" doc:"ID записи"`
}

type createInput struct {
	Body recordRequest
}

type updateInput struct {
	ID   string `path:"id" example:"7d1c1f0e-3b0e-4c7a-9f3e-1a2b3c4d5e6f" doc:"ID записи"`
	Body recordRequest
}

type recordRequest struct {
	Name           string          `json:"name" minLength:"1" maxLength:"200" example:"Maureen Wanjiru" doc:"Имя контакта"`
	IDNo           string          `json:"id_no,omitempty" maxLength:"64" example:"40124865"`
	PhoneNo        string          `json:"phone_no,omitempty" maxLength:"64" example:"0797407603"`
	OutletName     string          `json:"outlet_name,omitempty" maxLength:"200" example:"Sweet Cup"`
	OutletLocation string          `json:"outlet_location,omitempty" maxLength:"200" example:"Kenol"`
	Samples        []record.Sample `json:"samples,omitempty" doc:"Образцы; пути должны начинаться с <session_id>/"`
}

func (r recordRequest) toInput() record.Input {
	return record.Input{
		Fields: record.Fields{
			Name:           r.Name,
			IDNo:           r.IDNo,
			PhoneNo:        r.PhoneNo,
			OutletName:     r.OutletName,
			OutletLocation: r.OutletLocation,
		},
		Samples: r.Samples,
	}
}

type output struct {
	Body recordResponse
}

type recordResponse struct {
	ID     string         `json:"id"`
	Status string         `json:"status"`
	Record *record.Record `json:"record,omitempty"`
}

type deleteOutput struct {
	Body recordDeleteResponse
}

type recordDeleteResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
