package messages

import (
	"testing"

	"github.com/rustyeddy/fxbot/market"
	"github.com/stretchr/testify/assert"
)

func TestUnsupportedLanguageFallsBack(t *testing.T) {
	t.Parallel()

	m := New("FR-FR", "EUR")
	assert.Equal(t, LangENUS, m.Lang())
}

func TestEnglishMessages(t *testing.T) {
	t.Parallel()

	m := New(LangENUS, "EUR")

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{
			"submitted",
			m.OrderSubmitted(market.Buy, 4000, "EUR USD", "17"),
			"BUY order 4000 EUR USD with ID 17 submitted",
		},
		{
			"submitted_negative_size",
			m.OrderSubmitted(market.Sell, -4000, "EUR USD", "17"),
			"SELL order 4000 EUR USD with ID 17 submitted",
		},
		{
			"rejected",
			m.OrderRejected(market.Sell, "GBP USD", "9"),
			"SELL order GBP USD with ID 9 rejected",
		},
		{
			"placed",
			m.OrderPlaced(market.Buy, 4000, "EUR USD", 1.15, "17"),
			"BUY order 4000 EUR USD at 1.15000 with ID 17 accepted",
		},
		{
			"placed_without_id",
			m.OrderPlaced(market.Buy, 4000, "EUR USD", 1.15, ""),
			"BUY order 4000 EUR USD at 1.15000 accepted",
		},
		{
			"stop_completed",
			m.StopCompleted(market.Buy, "EUR USD", -8, "17"),
			"BUY order EUR USD with ID 17 completed by STOP LOSS. 8.00 EUR lost",
		},
		{
			"target_completed",
			m.TargetCompleted(market.Sell, "EUR USD", 12, "17"),
			"SELL order EUR USD with ID 17 completed by TAKE PROFIT. 12.00 EUR earned",
		},
		{
			"canceled_earned",
			m.OrderCanceled(market.Buy, "EUR USD", 4, "17"),
			"BUY order EUR USD with ID 17 canceled. 4.00 EUR earned",
		},
		{
			"canceled_lost",
			m.OrderCanceled(market.Buy, "EUR USD", -4, "17"),
			"BUY order EUR USD with ID 17 canceled. 4.00 EUR lost",
		},
		{
			"stop_accepted",
			m.StopAccepted("EUR_USD", "17"),
			"STOP order EUR_USD with ID 17 accepted",
		},
		{
			"stop_replaced",
			m.StopReplaced("EUR_USD", "17"),
			"STOP order EUR_USD with ID 17 replaced",
		},
		{
			"target_accepted",
			m.TargetAccepted("EUR_USD", "17"),
			"LIMIT order EUR_USD with ID 17 accepted",
		},
		{
			"target_replaced",
			m.TargetReplaced("EUR_USD", "17"),
			"LIMIT order EUR_USD with ID 17 replaced",
		},
		{
			"near_signal",
			m.NearSignal(market.Buy, "EUR_USD"),
			"EUR_USD near BUY signal",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.got)
		})
	}
}

func TestSpanishMessages(t *testing.T) {
	t.Parallel()

	m := New(LangESES, "EUR")

	assert.Equal(t,
		"Orden de COMPRA 4000 EUR USD con ID 17 enviada",
		m.OrderSubmitted(market.Buy, 4000, "EUR USD", "17"))
	assert.Equal(t,
		"Orden de VENTA EUR USD con ID 17 rechazada",
		m.OrderRejected(market.Sell, "EUR USD", "17"))
	assert.Equal(t,
		"Orden de COMPRA EUR USD con ID 17 completada por LÍMITE de PÉRDIDAS. 8.00 EUR perdidos",
		m.StopCompleted(market.Buy, "EUR USD", -8, "17"))
	assert.Equal(t,
		"Orden de VENTA EUR USD con ID 17 completada por RECOGIDA de BENEFICIOS. 12.00 EUR ganados",
		m.TargetCompleted(market.Sell, "EUR USD", 12, "17"))
	assert.Equal(t,
		"Orden de COMPRA EUR USD con ID 17 cancelada. 4.00 EUR ganados",
		m.OrderCanceled(market.Buy, "EUR USD", 4, "17"))
	assert.Equal(t,
		"Orden de LÍMITE EUR_USD con ID 17 aceptada",
		m.TargetAccepted("EUR_USD", "17"))
}

func TestFormattersArePure(t *testing.T) {
	t.Parallel()

	m := New(LangENUS, "USD")
	first := m.TargetCompleted(market.Buy, "EUR USD", 12.345, "1")
	second := m.TargetCompleted(market.Buy, "EUR USD", 12.345, "1")
	assert.Equal(t, first, second)
}
