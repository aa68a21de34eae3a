// Package messages renders human-readable order and trade notifications.
// Formatters are pure: same inputs, same string, no I/O.
package messages

import (
	"fmt"
	"math"

	"github.com/rustyeddy/fxbot/market"
)

const (
	LangENUS = "EN-US"
	LangESES = "ES-ES"
)

type Messages struct {
	lang     string
	currency string
}

// New returns a formatter for the given language and account currency.
// Unsupported languages fall back to EN-US.
func New(lang, currency string) *Messages {
	if lang != LangENUS && lang != LangESES {
		lang = LangENUS
	}
	return &Messages{lang: lang, currency: currency}
}

func (m *Messages) Lang() string { return m.lang }

func (m *Messages) sideWord(side market.Side) string {
	if m.lang == LangESES {
		if side == market.Buy {
			return "COMPRA"
		}
		return "VENTA"
	}
	return string(side)
}

// withID renders the optional trade/order id segment.
func withID(lang, id string) string {
	if id == "" {
		return ""
	}
	if lang == LangESES {
		return fmt.Sprintf(" con ID %s", id)
	}
	return fmt.Sprintf(" with ID %s", id)
}

func (m *Messages) NearSignal(side market.Side, instrument string) string {
	if m.lang == LangESES {
		if side == market.Buy {
			return fmt.Sprintf("%s cerca de señal de COMPRA", instrument)
		}
		return fmt.Sprintf("%s cerca de señal de VENTA", instrument)
	}
	return fmt.Sprintf("%s near %s signal", instrument, side)
}

func (m *Messages) OrderSubmitted(side market.Side, size int, instrument, id string) string {
	if size < 0 {
		size = -size
	}
	if m.lang == LangESES {
		return fmt.Sprintf("Orden de %s %d %s%s enviada",
			m.sideWord(side), size, instrument, withID(m.lang, id))
	}
	return fmt.Sprintf("%s order %d %s%s submitted",
		m.sideWord(side), size, instrument, withID(m.lang, id))
}

func (m *Messages) OrderRejected(side market.Side, instrument, id string) string {
	if m.lang == LangESES {
		return fmt.Sprintf("Orden de %s %s%s rechazada",
			m.sideWord(side), instrument, withID(m.lang, id))
	}
	return fmt.Sprintf("%s order %s%s rejected",
		m.sideWord(side), instrument, withID(m.lang, id))
}

func (m *Messages) OrderPlaced(side market.Side, size float64, instrument string, price float64, id string) string {
	size = math.Abs(size)
	if m.lang == LangESES {
		return fmt.Sprintf("Orden de %s %.0f %s a %.5f%s aceptada",
			m.sideWord(side), size, instrument, price, withID(m.lang, id))
	}
	return fmt.Sprintf("%s order %.0f %s at %.5f%s accepted",
		m.sideWord(side), size, instrument, price, withID(m.lang, id))
}

func (m *Messages) OrderCanceled(side market.Side, instrument string, amount float64, id string) string {
	outcome := "earned"
	if m.lang == LangESES {
		outcome = "ganados"
	}
	if amount < 0 {
		outcome = "lost"
		if m.lang == LangESES {
			outcome = "perdidos"
		}
	}
	if m.lang == LangESES {
		return fmt.Sprintf("Orden de %s %s%s cancelada. %.2f %s %s",
			m.sideWord(side), instrument, withID(m.lang, id),
			math.Abs(amount), m.currency, outcome)
	}
	return fmt.Sprintf("%s order %s%s canceled. %.2f %s %s",
		m.sideWord(side), instrument, withID(m.lang, id),
		math.Abs(amount), m.currency, outcome)
}

// StopCompleted announces a position closed by its stop loss.
func (m *Messages) StopCompleted(side market.Side, instrument string, amount float64, id string) string {
	if m.lang == LangESES {
		return fmt.Sprintf("Orden de %s %s%s completada por LÍMITE de PÉRDIDAS. %.2f %s perdidos",
			m.sideWord(side), instrument, withID(m.lang, id), math.Abs(amount), m.currency)
	}
	return fmt.Sprintf("%s order %s%s completed by STOP LOSS. %.2f %s lost",
		m.sideWord(side), instrument, withID(m.lang, id), math.Abs(amount), m.currency)
}

// TargetCompleted announces a position closed by its take profit.
func (m *Messages) TargetCompleted(side market.Side, instrument string, amount float64, id string) string {
	if m.lang == LangESES {
		return fmt.Sprintf("Orden de %s %s%s completada por RECOGIDA de BENEFICIOS. %.2f %s ganados",
			m.sideWord(side), instrument, withID(m.lang, id), math.Abs(amount), m.currency)
	}
	return fmt.Sprintf("%s order %s%s completed by TAKE PROFIT. %.2f %s earned",
		m.sideWord(side), instrument, withID(m.lang, id), math.Abs(amount), m.currency)
}

func (m *Messages) StopAccepted(instrument, id string) string {
	if m.lang == LangESES {
		return fmt.Sprintf("Orden de STOP %s%s aceptada", instrument, withID(m.lang, id))
	}
	return fmt.Sprintf("STOP order %s%s accepted", instrument, withID(m.lang, id))
}

func (m *Messages) StopReplaced(instrument, id string) string {
	if m.lang == LangESES {
		return fmt.Sprintf("Orden de STOP %s%s reajustada", instrument, withID(m.lang, id))
	}
	return fmt.Sprintf("STOP order %s%s replaced", instrument, withID(m.lang, id))
}

func (m *Messages) TargetAccepted(instrument, id string) string {
	if m.lang == LangESES {
		return fmt.Sprintf("Orden de LÍMITE %s%s aceptada", instrument, withID(m.lang, id))
	}
	return fmt.Sprintf("LIMIT order %s%s accepted", instrument, withID(m.lang, id))
}

func (m *Messages) TargetReplaced(instrument, id string) string {
	if m.lang == LangESES {
		return fmt.Sprintf("Orden de LÍMITE %s%s reajustada", instrument, withID(m.lang, id))
	}
	return fmt.Sprintf("LIMIT order %s%s replaced", instrument, withID(m.lang, id))
}
