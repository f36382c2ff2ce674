package store

import "github.com/FACorreiaa/go-city-info-api/internal/types"

// SeedCities returns the data every fresh store starts with. The postgres
// backend loads the same rows from its seed migration.
func SeedCities() []types.City {
	return []types.City{
		{
			ID:          1,
			Name:        "New York City",
			Description: types.StringPtr("The one with that big park."),
			PointsOfInterest: []types.PointOfInterest{
				{ID: 1, CityID: 1, Name: "Central Park", Description: types.StringPtr("The most visited park")},
				{ID: 2, CityID: 1, Name: "Empire State Building", Description: types.StringPtr("A 102-story skyscraper located in Midtown Manhattan.")},
			},
		},
		{
			ID:          2,
			Name:        "Antwerp",
			Description: types.StringPtr("The one with the cathedral that was never really finished."),
			PointsOfInterest: []types.PointOfInterest{
				{ID: 3, CityID: 2, Name: "Cathedral of Our Lady", Description: types.StringPtr("A Gothic style cathedral, conceived by architects Jan and Pieter Appelmans.")},
				{ID: 4, CityID: 2, Name: "Antwerp Central Station", Description: types.StringPtr("The the finest example of railway architecture in Belgium.")},
			},
		},
		{
			ID:          3,
			Name:        "Paris",
			Description: types.StringPtr("The one with that big tower."),
			PointsOfInterest: []types.PointOfInterest{
				{ID: 5, CityID: 3, Name: "Eiffel Tower", Description: types.StringPtr("A wrought iron lattice tower on the Champ de Mars, named after engineer Gustave Eiffel.")},
				{ID: 6, CityID: 3, Name: "The Louvre", Description: types.StringPtr("The world's largest museum.")},
			},
		},
	}
}
