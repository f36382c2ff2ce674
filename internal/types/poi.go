package types

import "encoding/xml"

// PointOfInterest is owned by exactly one city. CityID never leaves the service.
type PointOfInterest struct {
	XMLName     xml.Name `json:"-" xml:"PointOfInterest"`
	ID          int      `json:"id" xml:"Id"`
	CityID      int      `json:"-" xml:"-"`
	Name        string   `json:"name" xml:"Name"`
	Description *string  `json:"description" xml:"Description,omitempty"`
}

// PointOfInterestList encodes as a JSON array, and as a <PointsOfInterest> document in XML.
type PointOfInterestList []PointOfInterest

func (l PointOfInterestList) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "PointsOfInterest"}
	wrapper := struct {
		Items []PointOfInterest `xml:"PointOfInterest"`
	}{Items: l}
	return e.EncodeElement(wrapper, start)
}

// PointOfInterestForCreation is the POST payload.
type PointOfInterestForCreation struct {
	Name        string  `json:"name" validate:"required,max=50"`
	Description *string `json:"description" validate:"omitempty,max=200"`
}

// PointOfInterestForUpdate is the PUT payload and the target of PATCH documents.
type PointOfInterestForUpdate struct {
	Name        string  `json:"name" validate:"required,max=50"`
	Description *string `json:"description" validate:"omitempty,max=200"`
}

// StringPtr is a small helper for optional descriptions.
func StringPtr(s string) *string {
	return &s
}
