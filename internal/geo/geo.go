// Package geo implements the great-circle proximity filter used by the
// public item listing.
package geo

import (
	"math"

	"github.com/gearswap/gearswap-api/internal/models"
)

// earthRadiusMiles is the Earth radius used by the haversine formula.
const earthRadiusMiles = 3958.8

// Distance returns the great-circle distance in miles between two points,
// computed with the haversine formula.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMiles * c
}

// FilterByRadius keeps the items within radiusMiles of the origin. Items
// missing either coordinate are excluded; they cannot satisfy a radius
// constraint.
func FilterByRadius(items []models.Item, originLat, originLng, radiusMiles float64) []models.Item {
	var out []models.Item
	for _, it := range items {
		if it.Latitude == nil || it.Longitude == nil {
			continue
		}
		if Distance(originLat, originLng, *it.Latitude, *it.Longitude) <= radiusMiles {
			out = append(out, it)
		}
	}
	return out
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180)
}
