package models

// Field is a row of the Fields sheet: a named point with a circular
// geofence around it. Read-only to the bot.
type Field struct {
	FieldID   string
	FieldName string
	Lat       float64
	Lon       float64
	// RadiusM is the geofence radius in meters. Zero means the shift
	// location must coincide with the field point (within the precision
	// of the distance formula itself); that is documented behaviour, not
	// a special case.
	RadiusM float64
}
