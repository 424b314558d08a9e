package requests

import (
	"fmt"
	"strings"
	"time"

	"github.com/alshamelpay/withdrawal_bot/internal/db"
)

// ActionKind — семантическое намерение кнопки; транспортная разметка
// остается целиком на стороне бота.
type ActionKind int

const (
	ActionTentativeAccept ActionKind = iota
	ActionContact
	ActionApprove
	ActionReject
	ActionManage
	ActionRefresh
)

type ButtonIntent struct {
	Label     string
	Kind      ActionKind
	RequestID string
}

type RenderDirective struct {
	Text    string
	Buttons []ButtonIntent
}

const timestampLayout = "2006-01-02 15:04:05"

// baseSummary собирается каждый раз заново из сохраненных полей;
// ранее отрисованный текст никогда не парсится.
func baseSummary(req *db.WithdrawalRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📋 Request %s\n", req.RequestID)
	fmt.Fprintf(&b, "👤 User: %s (id %d)\n", req.Username, req.UserID)
	if req.AppName != "" {
		fmt.Fprintf(&b, "📱 App: %s\n", req.AppName)
	}
	fmt.Fprintf(&b, "💰 Amount: %s %s\n", req.Amount.String(), req.Currency)
	fmt.Fprintf(&b, "🏦 Account: %s\n", req.AccountNumber)
	fmt.Fprintf(&b, "💼 Total balance: %s\n", req.TotalBalance.String())
	fmt.Fprintf(&b, "📥 Previous withdrawals: %s\n", req.PreviousWithdrawals)
	if req.AccountCreationDate != "" {
		fmt.Fprintf(&b, "📅 Account created: %s\n", req.AccountCreationDate)
	}
	fmt.Fprintf(&b, "📊 History: %d successful | %d failed", req.SuccessCount, req.FailedCount)

	return b.String()
}

func outcomeBanner(status db.Status, decidedAt time.Time, decidedByName string) string {
	var banner string

	switch status {
	case db.StatusApproved:
		banner = "✅ APPROVED"
	case db.StatusRejected:
		banner = "❌ REJECTED"
	default:
		return ""
	}

	return fmt.Sprintf("\n\n%s\n⏰ %s\n👤 By: %s", banner, decidedAt.Format(timestampLayout), decidedByName)
}

func finalSummary(req *db.WithdrawalRequest, decidedAt time.Time, decidedByName string) RenderDirective {
	return RenderDirective{
		Text: baseSummary(req) + outcomeBanner(req.Status, decidedAt, decidedByName),
	}
}

func pendingDetail(req *db.WithdrawalRequest) RenderDirective {
	return RenderDirective{
		Text:    baseSummary(req),
		Buttons: stageOneButtons(req.RequestID),
	}
}

func stageOneButtons(requestID string) []ButtonIntent {
	return []ButtonIntent{
		{Label: "Accept 🟢🔴", Kind: ActionTentativeAccept, RequestID: requestID},
		{Label: "Contact 📧", Kind: ActionContact, RequestID: requestID},
	}
}

// ConfirmationButtons — вторая стадия подтверждения; показывается после
// Accept и не меняет сохраненное состояние.
func ConfirmationButtons(requestID string) []ButtonIntent {
	return []ButtonIntent{
		{Label: "Approve ✅", Kind: ActionApprove, RequestID: requestID},
		{Label: "Reject ❌", Kind: ActionReject, RequestID: requestID},
	}
}

func statusGlyph(status db.Status) string {
	switch status {
	case db.StatusApproved:
		return "✅"
	case db.StatusRejected:
		return "❌"
	default:
		return "⏳"
	}
}

func listDirective(reqs []db.WithdrawalRequest, limit int) RenderDirective {
	if len(reqs) == 0 {
		return RenderDirective{
			Text:    "No transactions on record yet.",
			Buttons: []ButtonIntent{{Label: "Refresh 🔄", Kind: ActionRefresh}},
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 Last %d transactions:\n\n", limit)

	var buttons []ButtonIntent

	for i := range reqs {
		req := &reqs[i]

		fmt.Fprintf(&b, "%s ID: %s\n👤 %s | 💰 %s %s\n---\n",
			statusGlyph(req.Status), req.RequestID, req.Username, req.Amount.String(), req.Currency)

		if req.Status == db.StatusPending {
			buttons = append(buttons, ButtonIntent{
				Label:     fmt.Sprintf("Manage %s", req.RequestID),
				Kind:      ActionManage,
				RequestID: req.RequestID,
			})
		}
	}

	buttons = append(buttons, ButtonIntent{Label: "Refresh 🔄", Kind: ActionRefresh})

	return RenderDirective{
		Text:    b.String(),
		Buttons: buttons,
	}
}
