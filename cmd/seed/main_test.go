package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToStation(t *testing.T) {
	t.Run("parses coordinates and routes", func(t *testing.T) {
		station, ok := toStation(stationRecord{
			StopName:      "Astoria Blvd",
			GTFSLatitude:  "40.770258",
			GTFSLongitude: "-73.917843",
			DaytimeRoutes: "N W",
		})
		require.True(t, ok)
		require.Equal(t, "Astoria Blvd", station.Name)
		require.InDelta(t, 40.770258, station.Latitude, 1e-9)
		require.InDelta(t, -73.917843, station.Longitude, 1e-9)
		require.Equal(t, []string{"N", "W"}, station.Lines)
		require.NotEmpty(t, station.ID)
	})

	t.Run("falls back to georeference", func(t *testing.T) {
		station, ok := toStation(stationRecord{
			StopName: "Bowling Green",
			Georeference: &struct {
				Coordinates []float64 `json:"coordinates"`
			}{Coordinates: []float64{-74.014065, 40.704817}},
		})
		require.True(t, ok)
		require.InDelta(t, 40.704817, station.Latitude, 1e-9)
		require.InDelta(t, -74.014065, station.Longitude, 1e-9)
	})

	t.Run("skips unusable rows", func(t *testing.T) {
		_, ok := toStation(stationRecord{GTFSLatitude: "40.0", GTFSLongitude: "-73.0"})
		require.False(t, ok, "no name")

		_, ok = toStation(stationRecord{StopName: "Nowhere"})
		require.False(t, ok, "no coordinates")
	})
}
