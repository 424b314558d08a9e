package adminbot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/alshamelpay/withdrawal_bot/internal/requests"
)

const btnTransactions = "Transactions 📋"

const (
	verbManage  = "manage"
	verbRefresh = "refresh"
	verbContact = "contact"
	verbAccept  = "accept"
	verbApprove = "approve"
	verbReject  = "reject"
)

func MainMenu() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnTransactions),
		),
	)
	keyboard.ResizeKeyboard = true

	return keyboard
}

func callbackData(button requests.ButtonIntent) string {
	switch button.Kind {
	case requests.ActionTentativeAccept:
		return verbAccept + "_" + button.RequestID
	case requests.ActionContact:
		return verbContact + "_" + button.RequestID
	case requests.ActionApprove:
		return verbApprove + "_" + button.RequestID
	case requests.ActionReject:
		return verbReject + "_" + button.RequestID
	case requests.ActionManage:
		return verbManage + "_" + button.RequestID
	case requests.ActionRefresh:
		return verbRefresh
	}

	return ""
}

// ParseCallback разбирает callback data вида "<verb>_<request_id>".
func ParseCallback(data string) (string, string) {
	verb, requestID, found := strings.Cut(data, "_")
	if !found {
		return data, ""
	}

	return verb, requestID
}

// InlineMarkup переводит семантические кнопки движка в Telegram-разметку.
// Парные действия (Accept/Contact, Approve/Reject) ложатся в один ряд.
func InlineMarkup(buttons []requests.ButtonIntent) *tgbotapi.InlineKeyboardMarkup {
	if len(buttons) == 0 {
		return nil
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	var pairRow []tgbotapi.InlineKeyboardButton

	for _, button := range buttons {
		tgButton := tgbotapi.NewInlineKeyboardButtonData(button.Label, callbackData(button))

		switch button.Kind {
		case requests.ActionManage, requests.ActionRefresh:
			if len(pairRow) > 0 {
				rows = append(rows, pairRow)
				pairRow = nil
			}
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgButton))
		default:
			pairRow = append(pairRow, tgButton)
			if len(pairRow) == 2 {
				rows = append(rows, pairRow)
				pairRow = nil
			}
		}
	}

	if len(pairRow) > 0 {
		rows = append(rows, pairRow)
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)

	return &markup
}
