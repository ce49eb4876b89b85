// Package geo decides whether a reported location falls inside a field's
// geofence.
package geo

import (
	"math"

	"github.com/carlosmaximiano-creator/anf-labour-bot/internal/models"
)

// earthRadiusM is the mean Earth radius used by the haversine formula.
const earthRadiusM = 6371000.0

// DistanceM returns the great-circle distance in meters between two
// coordinates.
func DistanceM(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c
}

// IsInside reports containment in the field's geofence and the distance to
// the field center. Containment is decided on the full-precision distance;
// the returned meters are truncated for display only. A zero radius means
// the point must coincide with the field center to the precision of the
// formula itself.
func IsInside(lat, lon float64, field *models.Field) (bool, int) {
	d := DistanceM(lat, lon, field.Lat, field.Lon)
	return d <= field.RadiusM, int(d)
}
