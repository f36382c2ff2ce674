package types

import "encoding/xml"

// City is a city together with the points of interest it owns.
type City struct {
	XMLName          xml.Name          `json:"-" xml:"City"`
	ID               int               `json:"id" xml:"Id"`
	Name             string            `json:"name" xml:"Name"`
	Description      *string           `json:"description" xml:"Description,omitempty"`
	PointsOfInterest []PointOfInterest `json:"pointsOfInterest,omitempty" xml:"PointsOfInterest>PointOfInterest,omitempty"`
}

// CityWithoutPointsOfInterest is the summary representation returned when
// the caller did not ask for the points of interest.
type CityWithoutPointsOfInterest struct {
	XMLName     xml.Name `json:"-" xml:"City"`
	ID          int      `json:"id" xml:"Id"`
	Name        string   `json:"name" xml:"Name"`
	Description *string  `json:"description" xml:"Description,omitempty"`
}

// ToSummary drops the points of interest.
func (c City) ToSummary() CityWithoutPointsOfInterest {
	return CityWithoutPointsOfInterest{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
	}
}

// CityList encodes as a JSON array, and as a <Cities> document in XML.
type CityList []CityWithoutPointsOfInterest

func (l CityList) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "Cities"}
	wrapper := struct {
		Items []CityWithoutPointsOfInterest `xml:"City"`
	}{Items: l}
	return e.EncodeElement(wrapper, start)
}
