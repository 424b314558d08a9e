package adminbot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/AlekSi/pointer"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/alshamelpay/withdrawal_bot/internal/auth"
	"github.com/alshamelpay/withdrawal_bot/internal/db"
	"github.com/alshamelpay/withdrawal_bot/internal/logger"
	"github.com/alshamelpay/withdrawal_bot/internal/requests"
)

const listLimit = 10

// TelegramClient — используемая ботом часть *tgbotapi.BotAPI.
type TelegramClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

type BotService struct {
	botAPI   TelegramClient
	requests *requests.Service
	gate     *auth.Gate
}

func New(
	botAPI TelegramClient,
	requestsService *requests.Service,
	gate *auth.Gate,
) *BotService {
	return &BotService{
		botAPI:   botAPI,
		requests: requestsService,
		gate:     gate,
	}
}

func (b *BotService) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.botAPI.GetUpdatesChan(u)

	for update := range updates {
		b.processUpdate(update)
	}
}

// processUpdate изолирует каждый апдейт: паника обработчика не должна
// останавливать цикл опроса.
func (b *BotService) processUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.WithField("panic", r).Error("adminbot: recovered from handler panic")
		}
	}()

	if update.CallbackQuery != nil {
		b.handleCallback(update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		return
	}

	b.handleMessage(update.Message)
}

func (b *BotService) handleMessage(msg *tgbotapi.Message) {
	ctx := context.Background()
	chatID := msg.Chat.ID
	userID := msg.From.ID

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			if b.gate.Authorize(ctx, userID) == auth.Denied {
				return
			}
			b.handleStart(chatID)
		case "admin":
			// Явная привилегированная команда: отказ должен быть видимым.
			b.handleAddAdmin(ctx, chatID, userID, msg.CommandArguments())
		case "transactions":
			if b.gate.Authorize(ctx, userID) == auth.Denied {
				return
			}
			b.handleList(ctx, chatID)
		}
		return
	}

	if b.gate.Authorize(ctx, userID) == auth.Denied {
		// Посторонним бот не отвечает вовсе.
		return
	}

	if msg.Text == btnTransactions {
		b.handleList(ctx, chatID)
	}
}

func (b *BotService) handleStart(chatID int64) {
	text := "Welcome to the withdrawal management bot!\n\n" +
		"Commands:\n" +
		"/admin {user_id} - add an assistant admin (master admin only)\n" +
		"/transactions - show the latest transactions\n\n" +
		"You can also use the buttons below."

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = MainMenu()
	b.send(msg)
}

func (b *BotService) handleAddAdmin(ctx context.Context, chatID int64, actorID int64, args string) {
	args = strings.TrimSpace(args)
	if args == "" {
		b.send(tgbotapi.NewMessage(chatID, "Usage: /admin {user_id}"))
		return
	}

	newAdminID, err := strconv.ParseInt(args, 10, 64)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, "❌ Please send a numeric user id."))
		return
	}

	err = b.gate.AddAdmin(ctx, actorID, newAdminID, fmt.Sprintf("Admin_%d", newAdminID))
	if err != nil {
		if errors.Is(err, auth.ErrForbidden) {
			b.send(tgbotapi.NewMessage(chatID, "❌ Only the master admin can add admins."))
			return
		}

		logger.Log.WithError(err).Error("adminbot: add admin failed")
		b.send(tgbotapi.NewMessage(chatID, "❌ Failed to add admin, try again later."))
		return
	}

	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Added user %d as an assistant admin.", newAdminID)))
}

func (b *BotService) handleList(ctx context.Context, chatID int64) {
	directive, err := b.requests.ListRecent(ctx, listLimit)
	if err != nil {
		logger.Log.WithError(err).Error("adminbot: listing requests failed")
		b.send(tgbotapi.NewMessage(chatID, "Storage is unavailable, try again later."))
		return
	}

	msg := tgbotapi.NewMessage(chatID, directive.Text)
	if markup := InlineMarkup(directive.Buttons); markup != nil {
		msg.ReplyMarkup = markup
	}
	b.send(msg)
}

func (b *BotService) handleCallback(cb *tgbotapi.CallbackQuery) {
	ctx := context.Background()

	if cb.From == nil {
		return
	}

	if b.gate.Authorize(ctx, cb.From.ID) == auth.Denied {
		// Бесшумный сброс: не подтверждаем посторонним само существование заявок.
		b.answer(cb.ID, "")
		return
	}

	// Telegram не прикладывает Message к callback'ам от сообщений старше 48 часов.
	if cb.Message == nil {
		b.answer(cb.ID, "This message is too old, request the list again.")
		return
	}

	verb, requestID := ParseCallback(cb.Data)

	switch verb {
	case verbManage:
		b.handleManage(ctx, cb, requestID)
	case verbRefresh:
		b.handleRefresh(ctx, cb)
	case verbContact:
		b.handleContact(ctx, cb, requestID)
	case verbAccept:
		b.handleTentativeAccept(cb, requestID)
	case verbApprove:
		b.handleDecide(ctx, cb, requestID, requests.OutcomeApproved)
	case verbReject:
		b.handleDecide(ctx, cb, requestID, requests.OutcomeRejected)
	default:
		b.answer(cb.ID, "")
	}
}

func (b *BotService) handleManage(ctx context.Context, cb *tgbotapi.CallbackQuery, requestID string) {
	directive, err := b.requests.Inspect(ctx, requestID)
	if err != nil {
		if errors.Is(err, db.ErrRequestNotFound) {
			b.alert(cb.ID, "Request not found.")
			return
		}

		logger.Log.WithError(err).Error("adminbot: inspect failed")
		b.alert(cb.ID, "Storage is unavailable, try again later.")
		return
	}

	msg := tgbotapi.NewMessage(cb.Message.Chat.ID, directive.Text)
	if markup := InlineMarkup(directive.Buttons); markup != nil {
		msg.ReplyMarkup = markup
	}
	b.send(msg)
	b.answer(cb.ID, "")
}

func (b *BotService) handleRefresh(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	directive, err := b.requests.ListRecent(ctx, listLimit)
	if err != nil {
		logger.Log.WithError(err).Error("adminbot: refresh failed")
		b.alert(cb.ID, "Storage is unavailable, try again later.")
		return
	}

	b.answer(cb.ID, "Refreshing...")

	edit := tgbotapi.NewEditMessageText(cb.Message.Chat.ID, cb.Message.MessageID, directive.Text)
	edit.ReplyMarkup = InlineMarkup(directive.Buttons)
	b.send(edit)
}

func (b *BotService) handleContact(ctx context.Context, cb *tgbotapi.CallbackQuery, requestID string) {
	contact, err := b.requests.Contact(ctx, requestID)
	if err != nil {
		if errors.Is(err, db.ErrRequestNotFound) {
			b.alert(cb.ID, "Request not found.")
			return
		}

		logger.Log.WithError(err).Error("adminbot: contact lookup failed")
		b.alert(cb.ID, "Storage is unavailable, try again later.")
		return
	}

	b.alert(cb.ID, contact)
}

// handleTentativeAccept — первая стадия подтверждения: меняется только
// разметка сообщения, сохраненное состояние не трогается.
func (b *BotService) handleTentativeAccept(cb *tgbotapi.CallbackQuery, requestID string) {
	markup := InlineMarkup(requests.ConfirmationButtons(requestID))

	edit := tgbotapi.NewEditMessageReplyMarkup(cb.Message.Chat.ID, cb.Message.MessageID, *markup)
	b.send(edit)
	b.answer(cb.ID, "")
}

func (b *BotService) handleDecide(ctx context.Context, cb *tgbotapi.CallbackQuery, requestID string, outcome requests.Outcome) {
	messageRef := pointer.To(int64(cb.Message.MessageID))

	decision, err := b.requests.Decide(ctx, requestID, outcome, cb.From.ID, cb.From.FirstName, messageRef)
	if err != nil {
		if errors.Is(err, db.ErrRequestNotFound) {
			b.alert(cb.ID, "Request not found.")
			return
		}

		logger.Log.WithError(err).Error("adminbot: decide failed")
		b.alert(cb.ID, "Storage is unavailable, try again later.")
		return
	}

	// В обоих случаях сообщение перерисовывается в зафиксированный исход,
	// кнопки убираются.
	edit := tgbotapi.NewEditMessageText(cb.Message.Chat.ID, cb.Message.MessageID, decision.Summary.Text)
	b.send(edit)

	if decision.Mine {
		if decision.Status == db.StatusApproved {
			b.answer(cb.ID, "Approved ✅")
		} else {
			b.answer(cb.ID, "Rejected ❌")
		}
		return
	}

	b.alert(cb.ID, fmt.Sprintf("Already %s by %s.", decision.Status, decision.DecidedByName))
}

func (b *BotService) send(c tgbotapi.Chattable) {
	if _, err := b.botAPI.Send(c); err != nil {
		logger.Log.WithError(err).Warn("adminbot: send failed")
	}
}

func (b *BotService) answer(callbackID string, text string) {
	if _, err := b.botAPI.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		logger.Log.WithError(err).Warn("adminbot: callback answer failed")
	}
}

func (b *BotService) alert(callbackID string, text string) {
	if _, err := b.botAPI.Request(tgbotapi.NewCallbackWithAlert(callbackID, text)); err != nil {
		logger.Log.WithError(err).Warn("adminbot: callback alert failed")
	}
}
