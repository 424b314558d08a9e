package adminbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alshamelpay/withdrawal_bot/internal/requests"
)

func TestParseCallback(t *testing.T) {
	tests := []struct {
		data      string
		verb      string
		requestID string
	}{
		{"approve_WR-20260831120000-42", "approve", "WR-20260831120000-42"},
		{"reject_WR-20260831120000-42", "reject", "WR-20260831120000-42"},
		{"accept_WR-20260831120000-42", "accept", "WR-20260831120000-42"},
		{"manage_WR-20260831120000-42", "manage", "WR-20260831120000-42"},
		{"refresh", "refresh", ""},
	}

	for _, tc := range tests {
		verb, requestID := ParseCallback(tc.data)
		assert.Equal(t, tc.verb, verb)
		assert.Equal(t, tc.requestID, requestID)
	}
}

func TestCallbackDataRoundTrip(t *testing.T) {
	buttons := append(
		requests.ConfirmationButtons("WR-20260831120000-42"),
		requests.ButtonIntent{Label: "Refresh 🔄", Kind: requests.ActionRefresh},
	)

	for _, button := range buttons {
		data := callbackData(button)
		verb, requestID := ParseCallback(data)

		assert.NotEmpty(t, verb)
		assert.Equal(t, button.RequestID, requestID)
	}
}

func TestInlineMarkup_PairsAndSingles(t *testing.T) {
	buttons := []requests.ButtonIntent{
		{Label: "Manage WR-1", Kind: requests.ActionManage, RequestID: "WR-1"},
		{Label: "Manage WR-2", Kind: requests.ActionManage, RequestID: "WR-2"},
		{Label: "Refresh 🔄", Kind: requests.ActionRefresh},
	}

	markup := InlineMarkup(buttons)

	require.NotNil(t, markup)
	require.Len(t, markup.InlineKeyboard, 3)
	for _, row := range markup.InlineKeyboard {
		assert.Len(t, row, 1)
	}
}

func TestInlineMarkup_ConfirmationPairSharesRow(t *testing.T) {
	markup := InlineMarkup(requests.ConfirmationButtons("WR-1"))

	require.NotNil(t, markup)
	require.Len(t, markup.InlineKeyboard, 1)
	assert.Len(t, markup.InlineKeyboard[0], 2)

	require.NotNil(t, markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "approve_WR-1", *markup.InlineKeyboard[0][0].CallbackData)
	require.NotNil(t, markup.InlineKeyboard[0][1].CallbackData)
	assert.Equal(t, "reject_WR-1", *markup.InlineKeyboard[0][1].CallbackData)
}

func TestInlineMarkup_Empty(t *testing.T) {
	assert.Nil(t, InlineMarkup(nil))
}
