package repositories

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/carlosmaximiano-creator/anf-labour-bot/internal/models"
)

// fieldsRange skips the header row. Columns: field_id, field_name, lat,
// lon, radius_m.
const fieldsRange = "Fields!A2:E"

// FieldRepository reads the field definitions sheet. Rows that fail to
// parse degrade to "not available" rather than failing the whole read.
type FieldRepository struct {
	store SheetStore
	log   *zap.Logger
}

func NewFieldRepository(store SheetStore, log *zap.Logger) *FieldRepository {
	return &FieldRepository{store: store, log: log}
}

// Get resolves a field id to its geofence. An unknown id or a row with
// unparseable numbers yields (nil, nil) — never a partial Field.
func (r *FieldRepository) Get(ctx context.Context, fieldID string) (*models.Field, error) {
	rows, err := r.store.ReadRange(ctx, fieldsRange)
	if err != nil {
		return nil, fmt.Errorf("read fields: %w", err)
	}

	id := strings.TrimSpace(fieldID)
	for _, row := range rows {
		if strings.TrimSpace(cell(row, 0)) != id {
			continue
		}
		f, ok := r.parseField(row)
		if !ok {
			return nil, nil
		}
		return f, nil
	}
	return nil, nil
}

// ListSelectable returns the fields offered in the picker, in sheet order.
// Rows missing id or name are excluded.
func (r *FieldRepository) ListSelectable(ctx context.Context) ([]models.Field, error) {
	rows, err := r.store.ReadRange(ctx, fieldsRange)
	if err != nil {
		return nil, fmt.Errorf("read fields: %w", err)
	}

	var fields []models.Field
	for _, row := range rows {
		id := strings.TrimSpace(cell(row, 0))
		name := strings.TrimSpace(cell(row, 1))
		if id == "" || name == "" {
			continue
		}
		fields = append(fields, models.Field{FieldID: id, FieldName: name})
	}
	return fields, nil
}

func (r *FieldRepository) parseField(row []string) (*models.Field, bool) {
	lat, ok1 := parseDecimal(cell(row, 2))
	lon, ok2 := parseDecimal(cell(row, 3))
	radius, ok3 := parseDecimal(cell(row, 4))
	if !ok1 || !ok2 || !ok3 || radius < 0 {
		r.log.Warn("malformed field row",
			zap.String("field_id", cell(row, 0)),
			zap.Strings("row", row),
		)
		return nil, false
	}
	return &models.Field{
		FieldID:   strings.TrimSpace(cell(row, 0)),
		FieldName: strings.TrimSpace(cell(row, 1)),
		Lat:       lat,
		Lon:       lon,
		RadiusM:   radius,
	}, true
}

// parseDecimal accepts both comma and dot decimal separators, the way the
// sheet is actually filled in.
func parseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
