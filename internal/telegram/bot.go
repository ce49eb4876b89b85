// Package telegram adapts Telegram updates to the flow engine: it receives
// commands, button presses, text and locations, and renders the engine's
// replies as messages and keyboards.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/carlosmaximiano-creator/anf-labour-bot/internal/export"
	"github.com/carlosmaximiano-creator/anf-labour-bot/internal/models"
	"github.com/carlosmaximiano-creator/anf-labour-bot/internal/services/flow"
)

// UpdateMetrics counts dispatched updates by kind. May be nil.
type UpdateMetrics interface {
	RecordUpdate(kind string)
}

// Bot is the polling transport. Updates are handled one at a time, in
// arrival order, so a user's conversation never overlaps itself.
type Bot struct {
	api     *tgbotapi.BotAPI
	engine  *flow.Engine
	limiter *rate.Limiter
	log     *zap.Logger
	metrics UpdateMetrics
}

// NewBot authenticates against the Bot API. ratePerSecond bounds outbound
// sends; Telegram throttles bots around 30 messages a second globally.
func NewBot(token string, engine *flow.Engine, ratePerSecond float64, log *zap.Logger, m UpdateMetrics) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &Bot{
		api:     api,
		engine:  engine,
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), 1),
		log:     log,
		metrics: m,
	}, nil
}

// Run polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) {
	b.log.Info("bot polling started", zap.String("username", b.api.Self.UserName))

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("bot polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.dispatch(ctx, update)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.record("callback")
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.record("command")
		b.handleCommand(ctx, update.Message)
	case update.Message != nil && update.Message.Location != nil:
		b.record("location")
		msg := update.Message
		reply := b.engine.HandleLocation(ctx, userID(msg.From), msg.Location.Latitude, msg.Location.Longitude)
		b.send(ctx, msg.Chat.ID, reply)
	case update.Message != nil:
		b.record("text")
		msg := update.Message
		reply := b.engine.HandleText(ctx, userID(msg.From), msg.Text)
		b.send(ctx, msg.Chat.ID, reply)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	uid := userID(msg.From)
	switch msg.Command() {
	case "start":
		b.send(ctx, msg.Chat.ID, b.engine.Start(ctx, uid))
	case "cancel":
		b.send(ctx, msg.Chat.ID, b.engine.Cancel(uid))
	case "status":
		b.send(ctx, msg.Chat.ID, b.engine.HandleAction(ctx, uid, flow.ActionStatus))
	case "export":
		b.handleExport(ctx, msg.Chat.ID, uid)
	default:
		b.send(ctx, msg.Chat.ID, flow.Reply{Text: "Comando desconhecido. Use /start."})
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Ack first so the client stops showing the spinner.
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.Warn("callback ack failed", zap.Error(err))
	}
	if cb.Message == nil {
		return
	}
	reply := b.engine.HandleAction(ctx, userID(cb.From), cb.Data)
	b.send(ctx, cb.Message.Chat.ID, reply)
}

func (b *Bot) handleExport(ctx context.Context, chatID int64, uid string) {
	date, shifts, err := b.engine.ExportDay(ctx, uid)
	switch {
	case errors.Is(err, models.ErrAuthorizationDenied):
		b.send(ctx, chatID, flow.Reply{Text: "⛔ Você não tem permissão para esta ação."})
		return
	case err != nil:
		b.log.Error("export failed", zap.Error(err))
		b.send(ctx, chatID, flow.Reply{Text: "⚠️ Falha ao acessar a planilha. Tente novamente mais tarde."})
		return
	}

	data, err := export.DayReport(shifts)
	if err != nil {
		b.log.Error("report build failed", zap.Error(err))
		b.send(ctx, chatID, flow.Reply{Text: "⚠️ Não foi possível gerar o relatório."})
		return
	}

	if err := b.limiter.Wait(ctx); err != nil {
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("turnos_%s.xlsx", date),
		Bytes: data,
	})
	if _, err := b.api.Send(doc); err != nil {
		b.log.Error("document send failed", zap.Error(err))
	}
}

func (b *Bot) send(ctx context.Context, chatID int64, reply flow.Reply) {
	if reply.Text == "" {
		return
	}
	if err := b.limiter.Wait(ctx); err != nil {
		return
	}

	msg := tgbotapi.NewMessage(chatID, reply.Text)
	if kb, ok := renderKeyboard(reply); ok {
		msg.ReplyMarkup = kb
	}
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("message send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) record(kind string) {
	if b.metrics != nil {
		b.metrics.RecordUpdate(kind)
	}
}

func userID(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	return strconv.FormatInt(u.ID, 10)
}
