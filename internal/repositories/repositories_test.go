package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/carlosmaximiano-creator/anf-labour-bot/internal/models"
)

// fakeStore is a scripted SheetStore recording writes.
type fakeStore struct {
	rows      [][]string
	readErr   error
	appendErr error
	updateErr error

	appended []appendCall
	updated  []map[string][]interface{}
}

type appendCall struct {
	rng string
	row []interface{}
}

func (f *fakeStore) ReadRange(ctx context.Context, rng string) ([][]string, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.rows, nil
}

func (f *fakeStore) AppendRow(ctx context.Context, rng string, row []interface{}) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, appendCall{rng: rng, row: row})
	return nil
}

func (f *fakeStore) UpdateCells(ctx context.Context, updates map[string][]interface{}) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, updates)
	return nil
}

// --- UserRepository ---

func TestUserRepository_FindByTelegramID(t *testing.T) {
	store := &fakeStore{rows: [][]string{
		{"111", "Maria", "admin"},
		{"222", "João", "lead"},
		{"333", "Ana", "viewer"},
	}}
	repo := NewUserRepository(store)

	u, err := repo.FindByTelegramID(context.Background(), "222")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "João", u.Name)
	assert.Equal(t, models.RoleLead, u.Role)
}

func TestUserRepository_AbsentIsNotAnError(t *testing.T) {
	repo := NewUserRepository(&fakeStore{rows: [][]string{{"111", "Maria", "admin"}}})

	u, err := repo.FindByTelegramID(context.Background(), "999")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestUserRepository_UnknownRoleMapsToNone(t *testing.T) {
	repo := NewUserRepository(&fakeStore{rows: [][]string{{"111", "Maria", "chefe"}}})

	u, err := repo.FindByTelegramID(context.Background(), "111")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, models.RoleNone, u.Role)
}

func TestUserRepository_StoreFailure(t *testing.T) {
	repo := NewUserRepository(&fakeStore{readErr: errors.New("quota exceeded")})

	_, err := repo.FindByTelegramID(context.Background(), "111")
	assert.Error(t, err)
}

// --- FieldRepository ---

func fieldRepo(rows [][]string) *FieldRepository {
	return NewFieldRepository(&fakeStore{rows: rows}, zap.NewNop())
}

func TestFieldRepository_Get(t *testing.T) {
	repo := fieldRepo([][]string{
		{"F1", "Talhão Norte", "10.0", "10.0", "50"},
	})

	f, err := repo.Get(context.Background(), "F1")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "Talhão Norte", f.FieldName)
	assert.Equal(t, 10.0, f.Lat)
	assert.Equal(t, 50.0, f.RadiusM)
}

func TestFieldRepository_CommaDecimals(t *testing.T) {
	repo := fieldRepo([][]string{
		{"F2", "Talhão Sul", "-21,1734", "-47,8102", "120,5"},
	})

	f, err := repo.Get(context.Background(), "F2")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.InDelta(t, -21.1734, f.Lat, 1e-9)
	assert.InDelta(t, -47.8102, f.Lon, 1e-9)
	assert.InDelta(t, 120.5, f.RadiusM, 1e-9)
}

func TestFieldRepository_MalformedRowYieldsNil(t *testing.T) {
	cases := [][]string{
		{"F3", "Sem coordenada", "", "10.0", "50"},
		{"F3", "Lixo", "abc", "10.0", "50"},
		{"F3", "Raio negativo", "10.0", "10.0", "-5"},
		{"F3", "Curto"},
	}
	for _, row := range cases {
		repo := fieldRepo([][]string{row})
		f, err := repo.Get(context.Background(), "F3")
		require.NoError(t, err)
		assert.Nil(t, f, "row %v must not produce a partial field", row)
	}
}

func TestFieldRepository_GetUnknownID(t *testing.T) {
	repo := fieldRepo([][]string{{"F1", "Talhão Norte", "10.0", "10.0", "50"}})

	f, err := repo.Get(context.Background(), "F9")
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestFieldRepository_ListSelectableExcludesBlankRows(t *testing.T) {
	repo := fieldRepo([][]string{
		{"F1", "Talhão Norte", "10.0", "10.0", "50"},
		{"", "Sem id", "10.0", "10.0", "50"},
		{"F3", "", "10.0", "10.0", "50"},
		{"F4", "Talhão Leste", "não numérico", "x", "y"},
	})

	fields, err := repo.ListSelectable(context.Background())
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "F1", fields[0].FieldID)
	// Unparseable geometry does not hide a field from the picker; it only
	// fails resolution later.
	assert.Equal(t, "F4", fields[1].FieldID)
}

// --- ShiftRepository ---

func ledgerRow(shiftID, date, leadID, status string) []string {
	return []string{
		shiftID, date, "Equipe 1", "Talhão Norte", "F1", leadID,
		"08:00", "", "5", status, "", "", "", "",
	}
}

func TestShiftRepository_FindOpenFor(t *testing.T) {
	store := &fakeStore{rows: [][]string{
		ledgerRow("s1", "2026-08-30", "222", "OPEN"),
		ledgerRow("s2", "2026-08-31", "222", "CLOSED"),
		ledgerRow("s3", "2026-08-31", "222", "OPEN"),
		ledgerRow("s4", "2026-08-31", "333", "OPEN"),
	}}
	repo := NewShiftRepository(store)

	s, err := repo.FindOpenFor(context.Background(), "222", "2026-08-31")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "s3", s.ShiftID)
	// Row index addresses the physical sheet row (data starts at row 2).
	assert.Equal(t, 4, s.RowIndex)
}

func TestShiftRepository_FindOpenFor_None(t *testing.T) {
	repo := NewShiftRepository(&fakeStore{rows: [][]string{
		ledgerRow("s1", "2026-08-31", "222", "CLOSED"),
	}})

	s, err := repo.FindOpenFor(context.Background(), "222", "2026-08-31")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestShiftRepository_ListForDay_KeepsInsertionOrder(t *testing.T) {
	repo := NewShiftRepository(&fakeStore{rows: [][]string{
		ledgerRow("s1", "2026-08-31", "222", "CLOSED"),
		ledgerRow("s2", "2026-08-30", "222", "CLOSED"),
		ledgerRow("s3", "2026-08-31", "333", "OPEN"),
	}})

	shifts, err := repo.ListForDay(context.Background(), "2026-08-31")
	require.NoError(t, err)
	require.Len(t, shifts, 2)
	assert.Equal(t, "s1", shifts[0].ShiftID)
	assert.Equal(t, "s3", shifts[1].ShiftID)
}

func TestShiftRepository_ClaimOpen_Appends(t *testing.T) {
	store := &fakeStore{}
	repo := NewShiftRepository(store)

	existing, err := repo.ClaimOpen(context.Background(), &models.Shift{
		ShiftID:   "2026-08-31_Equipe 1_F1",
		Date:      "2026-08-31",
		Team:      "Equipe 1",
		FieldName: "Talhão Norte",
		FieldID:   "F1",
		LeadID:    "222",
		StartTime: "08:00",
		Workers:   5,
		Status:    models.StatusOpen,
	})
	require.NoError(t, err)
	assert.Nil(t, existing)

	require.Len(t, store.appended, 1)
	row := store.appended[0].row
	require.Len(t, row, 14)
	assert.Equal(t, "2026-08-31_Equipe 1_F1", row[0])
	assert.Equal(t, "5", row[8])
	assert.Equal(t, "OPEN", row[9])
	assert.Equal(t, "", row[7]) // end_time open
	assert.Equal(t, "", row[10]) // hh_total open
}

func TestShiftRepository_ClaimOpen_RefusesWhenAlreadyOpen(t *testing.T) {
	store := &fakeStore{rows: [][]string{
		ledgerRow("s1", "2026-08-31", "222", "OPEN"),
	}}
	repo := NewShiftRepository(store)

	existing, err := repo.ClaimOpen(context.Background(), &models.Shift{
		Date: "2026-08-31", LeadID: "222",
	})
	require.NoError(t, err)
	require.NotNil(t, existing)
	assert.Equal(t, "s1", existing.ShiftID)
	assert.Empty(t, store.appended)
}

func TestShiftRepository_Close_TouchesOnlyCloseColumns(t *testing.T) {
	store := &fakeStore{}
	repo := NewShiftRepository(store)

	err := repo.Close(context.Background(), 7, "16:00", "40.00", "2026-08-31T16:00:00-03:00", "222")
	require.NoError(t, err)

	require.Len(t, store.updated, 1)
	updates := store.updated[0]
	assert.Equal(t, []interface{}{"16:00"}, updates["Shifts!H7"])
	assert.Equal(t, []interface{}{"CLOSED", "40.00"}, updates["Shifts!J7:K7"])
	assert.Equal(t, []interface{}{"2026-08-31T16:00:00-03:00", "222"}, updates["Shifts!M7:N7"])
}

func TestShiftRepository_Close_RejectsHeaderRow(t *testing.T) {
	repo := NewShiftRepository(&fakeStore{})
	assert.Error(t, repo.Close(context.Background(), 0, "16:00", "", "", "222"))
}
