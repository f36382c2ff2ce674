package api

import (
	"encoding/xml"
	"sort"
)

// ErrorBody is the payload of every non-2xx API response.
type ErrorBody struct {
	XMLName   xml.Name    `json:"-" xml:"Error"`
	Success   bool        `json:"success" xml:"Success" example:"false"`
	Error     string      `json:"error" xml:"Message" example:"point of interest not found"`
	Errors    FieldErrors `json:"errors,omitempty" xml:"Errors,omitempty"`
	RequestID string      `json:"request_id,omitempty" xml:"RequestId,omitempty"`
}

// FieldErrors maps a JSON field name to its validation messages.
type FieldErrors map[string][]string

type fieldErrorXML struct {
	XMLName xml.Name `xml:"Error"`
	Field   string   `xml:"field,attr"`
	Message string   `xml:",chardata"`
}

// MarshalXML writes one <Error field="..."> element per message, fields in name order.
func (fe FieldErrors) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, field := range fields {
		for _, msg := range fe[field] {
			if err := e.Encode(fieldErrorXML{Field: field, Message: msg}); err != nil {
				return err
			}
		}
	}
	return e.EncodeToken(start.End())
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	XMLName xml.Name `json:"-" xml:"Health"`
	Status  string   `json:"status" xml:"Status" example:"ok"`
	Store   string   `json:"store" xml:"Store" example:"memory"`
}
