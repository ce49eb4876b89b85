// Package flow implements the conversational state machine that opens and
// closes field-labour shifts. The engine holds no transport or storage
// detail: it consumes dispatched user events and returns rendering
// instructions, talking to the ledger, registry and directory through
// injected interfaces.
package flow

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/carlosmaximiano-creator/anf-labour-bot/internal/models"
	"github.com/carlosmaximiano-creator/anf-labour-bot/internal/services/geo"
	"github.com/carlosmaximiano-creator/anf-labour-bot/internal/services/hours"
)

// ShiftLedger is the slice of the shift repository the engine drives.
type ShiftLedger interface {
	FindOpenFor(ctx context.Context, leadID, date string) (*models.Shift, error)
	ListForDay(ctx context.Context, date string) ([]models.Shift, error)
	ClaimOpen(ctx context.Context, shift *models.Shift) (*models.Shift, error)
	Close(ctx context.Context, rowIndex int, endTime, hhTotal, closedAt, closedBy string) error
}

// FieldRegistry resolves field ids to geofences.
type FieldRegistry interface {
	Get(ctx context.Context, fieldID string) (*models.Field, error)
	ListSelectable(ctx context.Context) ([]models.Field, error)
}

// RoleResolver resolves a telegram id to its directory role and name.
type RoleResolver interface {
	Resolve(ctx context.Context, telegramID string) (models.Role, string, error)
}

// Metrics is the slice of the collector the engine reports to. May be nil.
type Metrics interface {
	RecordShiftOpened()
	RecordShiftClosed()
	RecordGeofenceRejected()
	RecordAuthDenied()
}

// Engine is the shift flow state machine. One instance serves all users;
// per-user progress lives in the session store.
type Engine struct {
	sessions SessionStore
	ledger   ShiftLedger
	registry FieldRegistry
	resolver RoleResolver
	teams    []string
	loc      *time.Location
	now      func() time.Time
	log      *zap.Logger
	metrics  Metrics
}

func NewEngine(
	sessions SessionStore,
	ledger ShiftLedger,
	registry FieldRegistry,
	resolver RoleResolver,
	teams []string,
	loc *time.Location,
	log *zap.Logger,
	metrics Metrics,
) *Engine {
	return &Engine{
		sessions: sessions,
		ledger:   ledger,
		registry: registry,
		resolver: resolver,
		teams:    teams,
		loc:      loc,
		now:      time.Now,
		log:      log,
		metrics:  metrics,
	}
}

// SetClock overrides the engine clock. Tests only.
func (e *Engine) SetClock(now func() time.Time) { e.now = now }

func (e *Engine) today() string     { return e.now().In(e.loc).Format("2006-01-02") }
func (e *Engine) clock() string     { return e.now().In(e.loc).Format("15:04") }
func (e *Engine) timestamp() string { return e.now().In(e.loc).Format(time.RFC3339) }

// Start handles the /start command: greets the user and shows the menu the
// role is entitled to. Any in-flight session is dropped.
func (e *Engine) Start(ctx context.Context, userID string) Reply {
	e.sessions.Clear(userID)

	role, name, err := e.resolver.Resolve(ctx, userID)
	if err != nil {
		return e.storeFailure(userID, err)
	}
	if role == models.RoleNone {
		return text("⛔ Você não está cadastrado. Fale com o administrador para liberar o acesso.")
	}

	greeting := "👷 Olá"
	if name != "" {
		greeting = fmt.Sprintf("👷 Olá, %s!", name)
	}

	var rows [][]Button
	if role.CanOperateShift() {
		rows = append(rows,
			[]Button{{Label: "🟢 Abrir turno", Action: ActionOpen}},
			[]Button{{Label: "🔴 Fechar turno", Action: ActionClose}},
		)
	}
	if role == models.RoleAdmin {
		rows = append(rows,
			[]Button{{Label: "🟢 Abrir sem localização", Action: ActionOpenOverride}},
			[]Button{{Label: "🔴 Fechar sem localização", Action: ActionCloseOverride}},
		)
	}
	rows = append(rows, []Button{{Label: "📋 Status do dia", Action: ActionStatus}})

	return Reply{Text: greeting + "\nEscolha uma ação:", Buttons: rows}
}

// Cancel drops any in-flight session.
func (e *Engine) Cancel(userID string) Reply {
	e.sessions.Clear(userID)
	return text("Operação cancelada. Use /start para recomeçar.")
}

// HandleAction dispatches a button press by its opaque tag.
func (e *Engine) HandleAction(ctx context.Context, userID, action string) Reply {
	switch {
	case action == ActionOpen:
		return e.openRequest(ctx, userID, false)
	case action == ActionOpenOverride:
		return e.openRequest(ctx, userID, true)
	case action == ActionClose:
		return e.closeRequest(ctx, userID, false)
	case action == ActionCloseOverride:
		return e.closeRequest(ctx, userID, true)
	case action == ActionStatus:
		return e.dayStatus(ctx, userID)
	case strings.HasPrefix(action, teamPrefix):
		return e.pickTeam(ctx, userID, strings.TrimPrefix(action, teamPrefix))
	case strings.HasPrefix(action, fieldPrefix):
		return e.pickField(ctx, userID, strings.TrimPrefix(action, fieldPrefix))
	default:
		return e.invalidSequence(userID)
	}
}

// HandleText consumes free text. The only state that accepts it is
// WAIT_WORKERS; everywhere else it is an out-of-sequence action.
func (e *Engine) HandleText(ctx context.Context, userID, input string) Reply {
	sess, ok := e.sessions.Get(userID)
	if !ok || sess.State != models.StateWaitWorkers {
		return e.invalidSequence(userID)
	}

	workers, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || workers < 0 {
		// Retriable: state unchanged.
		return text("❗ Valor inválido. Envie apenas o número de trabalhadores.")
	}
	sess.Workers = workers
	e.sessions.Put(userID, sess)

	if sess.AdminOverride {
		return e.openShift(ctx, userID, sess)
	}

	sess.State = models.StateWaitLocationOn
	e.sessions.Put(userID, sess)
	return Reply{
		Text:            "📍 Envie sua localização para confirmar que você está no talhão.",
		RequestLocation: true,
	}
}

// HandleLocation consumes a shared location.
func (e *Engine) HandleLocation(ctx context.Context, userID string, lat, lon float64) Reply {
	sess, ok := e.sessions.Get(userID)
	if !ok {
		return e.invalidSequence(userID)
	}
	switch sess.State {
	case models.StateWaitLocationOn:
		return e.locationOn(ctx, userID, sess, lat, lon)
	case models.StateWaitLocationOff:
		return e.locationOff(ctx, userID, lat, lon)
	default:
		return e.invalidSequence(userID)
	}
}

// openRequest starts the opening conversation. With override set the caller
// must be admin and the location proof is skipped later.
func (e *Engine) openRequest(ctx context.Context, userID string, override bool) Reply {
	role, _, err := e.resolver.Resolve(ctx, userID)
	if err != nil {
		return e.storeFailure(userID, err)
	}
	if override && role != models.RoleAdmin {
		return e.denied(userID)
	}
	if !role.CanOperateShift() {
		return e.denied(userID)
	}

	existing, err := e.ledger.FindOpenFor(ctx, userID, e.today())
	if err != nil {
		return e.storeFailure(userID, err)
	}
	if existing != nil {
		e.sessions.Clear(userID)
		return text(alreadyOpenMessage(existing))
	}

	e.sessions.Put(userID, &models.FlowSession{
		State:         models.StatePickTeam,
		AdminOverride: override,
	})

	rows := make([][]Button, 0, len(e.teams))
	for _, team := range e.teams {
		rows = append(rows, []Button{{Label: team, Action: teamPrefix + team}})
	}
	return Reply{Text: "👥 Escolha a equipe:", Buttons: rows}
}

func (e *Engine) pickTeam(ctx context.Context, userID, team string) Reply {
	sess, ok := e.sessions.Get(userID)
	if !ok || sess.State != models.StatePickTeam {
		return e.invalidSequence(userID)
	}

	fields, err := e.registry.ListSelectable(ctx)
	if err != nil {
		return e.storeFailure(userID, err)
	}
	if len(fields) == 0 {
		e.sessions.Clear(userID)
		return text("❗ Nenhum talhão cadastrado. Fale com o administrador.")
	}

	sess.Team = team
	sess.State = models.StatePickField
	e.sessions.Put(userID, sess)

	rows := make([][]Button, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, []Button{{Label: f.FieldName, Action: fieldPrefix + f.FieldID}})
	}
	return Reply{Text: "🌱 Escolha o talhão:", Buttons: rows}
}

func (e *Engine) pickField(ctx context.Context, userID, fieldID string) Reply {
	sess, ok := e.sessions.Get(userID)
	if !ok || sess.State != models.StatePickField {
		return e.invalidSequence(userID)
	}

	field, err := e.registry.Get(ctx, fieldID)
	if err != nil {
		return e.storeFailure(userID, err)
	}
	if field == nil {
		// Retriable: the user stays on the picker and may select again.
		return text("❗ Talhão inválido. Escolha novamente na lista.")
	}

	sess.FieldID = field.FieldID
	sess.FieldName = field.FieldName
	sess.State = models.StateWaitWorkers
	e.sessions.Put(userID, sess)
	return text("🔢 Quantos trabalhadores? Envie um número.")
}

func (e *Engine) locationOn(ctx context.Context, userID string, sess *models.FlowSession, lat, lon float64) Reply {
	field, err := e.registry.Get(ctx, sess.FieldID)
	if err != nil {
		return e.storeFailure(userID, err)
	}
	if field == nil {
		e.sessions.Clear(userID)
		return text("❗ Talhão não encontrado no cadastro. Use /start para recomeçar.")
	}

	inside, dist := geo.IsInside(lat, lon, field)
	if !inside {
		if e.metrics != nil {
			e.metrics.RecordGeofenceRejected()
		}
		return Reply{
			Text: fmt.Sprintf(
				"🚫 Fora do talhão: você está a %d m do centro (raio %.0f m). Aproxime-se e envie a localização novamente.",
				dist, field.RadiusM,
			),
			RequestLocation: true,
		}
	}

	return e.openShift(ctx, userID, sess)
}

// openShift persists the new OPEN row and ends the conversation.
func (e *Engine) openShift(ctx context.Context, userID string, sess *models.FlowSession) Reply {
	date := e.today()
	start := e.clock()
	shift := &models.Shift{
		ShiftID:   models.ShiftID(date, sess.Team, sess.FieldID),
		Date:      date,
		Team:      sess.Team,
		FieldName: sess.FieldName,
		FieldID:   sess.FieldID,
		LeadID:    userID,
		StartTime: start,
		Workers:   sess.Workers,
		Status:    models.StatusOpen,
	}

	existing, err := e.ledger.ClaimOpen(ctx, shift)
	if err != nil {
		return e.storeFailure(userID, err)
	}
	if existing != nil {
		e.sessions.Clear(userID)
		return text(alreadyOpenMessage(existing))
	}

	if e.metrics != nil {
		e.metrics.RecordShiftOpened()
	}
	e.log.Info("shift opened",
		zap.String("shift_id", shift.ShiftID),
		zap.String("lead_id", userID),
		zap.Int("workers", shift.Workers),
	)

	e.sessions.Clear(userID)
	return text(fmt.Sprintf(
		"✅ Turno aberto!\n%s — %s\n%d trabalhadores, início %s.",
		sess.Team, sess.FieldName, sess.Workers, start,
	))
}

// closeRequest starts (or, with override, completes) the closing flow.
func (e *Engine) closeRequest(ctx context.Context, userID string, override bool) Reply {
	role, _, err := e.resolver.Resolve(ctx, userID)
	if err != nil {
		return e.storeFailure(userID, err)
	}
	if override && role != models.RoleAdmin {
		return e.denied(userID)
	}
	if !role.CanOperateShift() {
		return e.denied(userID)
	}

	open, err := e.ledger.FindOpenFor(ctx, userID, e.today())
	if err != nil {
		return e.storeFailure(userID, err)
	}
	if open == nil {
		e.sessions.Clear(userID)
		return text("ℹ️ Nenhum turno aberto hoje. Nada a fechar.")
	}

	if override {
		return e.closeShift(ctx, userID, open)
	}

	e.sessions.Put(userID, &models.FlowSession{
		State:     models.StateWaitLocationOff,
		FieldID:   open.FieldID,
		FieldName: open.FieldName,
	})
	return Reply{
		Text:            "📍 Envie sua localização para confirmar o fechamento no talhão.",
		RequestLocation: true,
	}
}

func (e *Engine) locationOff(ctx context.Context, userID string, lat, lon float64) Reply {
	// Re-read the open shift: it may have been closed elsewhere since the
	// conversation started.
	open, err := e.ledger.FindOpenFor(ctx, userID, e.today())
	if err != nil {
		return e.storeFailure(userID, err)
	}
	if open == nil {
		e.sessions.Clear(userID)
		return text("ℹ️ Nenhum turno aberto hoje. Nada a fechar.")
	}

	field, err := e.registry.Get(ctx, open.FieldID)
	if err != nil {
		return e.storeFailure(userID, err)
	}
	if field == nil {
		e.sessions.Clear(userID)
		return text("❗ Talhão não encontrado no cadastro. Use /start para recomeçar.")
	}

	inside, dist := geo.IsInside(lat, lon, field)
	if !inside {
		if e.metrics != nil {
			e.metrics.RecordGeofenceRejected()
		}
		return Reply{
			Text: fmt.Sprintf(
				"🚫 Fora do talhão: você está a %d m do centro (raio %.0f m). Aproxime-se e envie a localização novamente.",
				dist, field.RadiusM,
			),
			RequestLocation: true,
		}
	}

	return e.closeShift(ctx, userID, open)
}

// closeShift writes the CLOSED row fields and ends the conversation.
// Person-hours are only recorded for a positive headcount.
func (e *Engine) closeShift(ctx context.Context, userID string, shift *models.Shift) Reply {
	end := e.clock()

	var hhTotal string
	if shift.Workers > 0 {
		hh, err := hours.PersonHours(shift.StartTime, end, shift.Workers)
		if err != nil {
			// Malformed start_time in the ledger: close anyway, hh stays
			// empty, and leave a trace for the operator.
			e.log.Warn("person-hours not computed",
				zap.String("shift_id", shift.ShiftID),
				zap.Error(err),
			)
		} else {
			hhTotal = hours.Format(hh)
		}
	}

	if err := e.ledger.Close(ctx, shift.RowIndex, end, hhTotal, e.timestamp(), userID); err != nil {
		return e.storeFailure(userID, err)
	}

	if e.metrics != nil {
		e.metrics.RecordShiftClosed()
	}
	e.log.Info("shift closed",
		zap.String("shift_id", shift.ShiftID),
		zap.String("closed_by", userID),
		zap.String("hh_total", hhTotal),
	)

	e.sessions.Clear(userID)
	msg := fmt.Sprintf("✅ Turno encerrado às %s.", end)
	if hhTotal != "" {
		msg += fmt.Sprintf("\nTotal: %s horas-pessoa.", hhTotal)
	}
	return text(msg)
}

// dayStatus renders the day aggregate. Admin and viewer see every shift;
// a lead sees only their own line.
func (e *Engine) dayStatus(ctx context.Context, userID string) Reply {
	role, _, err := e.resolver.Resolve(ctx, userID)
	if err != nil {
		return e.storeFailure(userID, err)
	}
	if !role.CanViewSummary() {
		return e.denied(userID)
	}

	date := e.today()
	shifts, err := e.ledger.ListForDay(ctx, date)
	if err != nil {
		return e.storeFailure(userID, err)
	}
	if role == models.RoleLead {
		var own []models.Shift
		for _, s := range shifts {
			if s.LeadID == userID {
				own = append(own, s)
			}
		}
		shifts = own
	}
	if len(shifts) == 0 {
		return text(fmt.Sprintf("📋 %s: nenhum turno registrado.", date))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 Turnos de %s\n", date)
	var open, closed int
	var totalHH float64
	for _, s := range shifts {
		line := fmt.Sprintf("\n• %s | %s | %s–", s.Team, s.FieldName, s.StartTime)
		if s.EndTime != "" {
			line += s.EndTime
		} else {
			line += "…"
		}
		line += fmt.Sprintf(" | %d 👷 | %s", s.Workers, s.Status)
		if s.HHTotal != "" {
			line += fmt.Sprintf(" | %s hh", s.HHTotal)
			if hh, err := strconv.ParseFloat(s.HHTotal, 64); err == nil {
				totalHH += hh
			}
		}
		b.WriteString(line)
		if s.Status == models.StatusOpen {
			open++
		} else {
			closed++
		}
	}
	fmt.Fprintf(&b, "\n\nAbertos: %d | Fechados: %d | Total: %.2f horas-pessoa", open, closed, totalHH)
	return text(b.String())
}

// ExportDay returns today's ledger rows for the report export. Admin only.
func (e *Engine) ExportDay(ctx context.Context, userID string) (string, []models.Shift, error) {
	role, _, err := e.resolver.Resolve(ctx, userID)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	if role != models.RoleAdmin {
		if e.metrics != nil {
			e.metrics.RecordAuthDenied()
		}
		return "", nil, models.ErrAuthorizationDenied
	}

	date := e.today()
	shifts, err := e.ledger.ListForDay(ctx, date)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return date, shifts, nil
}

func (e *Engine) denied(userID string) Reply {
	e.sessions.Clear(userID)
	if e.metrics != nil {
		e.metrics.RecordAuthDenied()
	}
	return text("⛔ Você não tem permissão para esta ação.")
}

func (e *Engine) storeFailure(userID string, err error) Reply {
	e.sessions.Clear(userID)
	e.log.Error("store access failed", zap.String("user_id", userID), zap.Error(err))
	return text("⚠️ Falha ao acessar a planilha. Tente novamente mais tarde.")
}

func (e *Engine) invalidSequence(userID string) Reply {
	e.sessions.Clear(userID)
	return text("❗ Ação inesperada. Operação cancelada — use /start para recomeçar.")
}

func alreadyOpenMessage(s *models.Shift) string {
	return fmt.Sprintf(
		"⚠️ Você já tem um turno aberto hoje:\n%s — %s, início %s, %d trabalhadores.",
		s.Team, s.FieldName, s.StartTime, s.Workers,
	)
}
