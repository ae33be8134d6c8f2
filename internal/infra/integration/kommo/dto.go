package kommo

type fieldValue struct {
	Value    string `json:"value"`
	EnumCode string `json:"enum_code,omitempty"`
}

type customField struct {
	FieldCode string       `json:"field_code"`
	Values    []fieldValue `json:"values"`
}

type contactRequest struct {
	Name               string        `json:"name"`
	CustomFieldsValues []customField `json:"custom_fields_values,omitempty"`
}

type noteParams struct {
	Text string `json:"text"`
}

type noteRequest struct {
	NoteType string     `json:"note_type"`
	Params   noteParams `json:"params"`
}

type ContactResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type contactsResponse struct {
	Embedded struct {
		Contacts []ContactResponse `json:"contacts"`
	} `json:"_embedded"`
}
