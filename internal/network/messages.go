package network

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/niletry/beijing-fushengji-server/internal/domain/session"
	"github.com/niletry/beijing-fushengji-server/internal/domain/street"
	"github.com/niletry/beijing-fushengji-server/internal/engine"
	"github.com/niletry/beijing-fushengji-server/internal/events"
)

// ServerMessage is the envelope for everything pushed to a client.
type ServerMessage struct {
	Type          string            `json:"type"`
	SessionID     string            `json:"session_id,omitempty"`
	State         *session.State    `json:"state,omitempty"`
	Result        *engine.Result    `json:"result,omitempty"`
	Event         *events.GameEvent `json:"event,omitempty"`
	Tip           *street.Tip       `json:"tip,omitempty"`
	Notifications []Notification    `json:"notifications,omitempty"`
	Error         string            `json:"error,omitempty"`
}

// Notification is a display-ready popup derived from a game effect.
type Notification struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Icon     string `json:"icon"`
}

// buildNotifications turns structured effects into popups. Amounts are
// formatted with thousands separators for readability.
func buildNotifications(effects []engine.Effect) []Notification {
	if len(effects) == 0 {
		return nil
	}

	notifications := make([]Notification, 0, len(effects))
	for _, eff := range effects {
		var n Notification
		switch eff.Kind {
		case engine.EffectMoneyGain:
			n = Notification{
				Title:    "意外之财",
				Message:  fmt.Sprintf("%s（+¥%s）", eff.Message, humanize.Comma(int64(eff.Magnitude))),
				Severity: "success",
				Icon:     "💰",
			}
		case engine.EffectMoneyLoss:
			n = Notification{
				Title:    "破财消灾",
				Message:  fmt.Sprintf("%s（-¥%s）", eff.Message, humanize.Comma(int64(eff.Magnitude))),
				Severity: "danger",
				Icon:     "💸",
			}
		case engine.EffectHealthChange:
			severity := "warning"
			icon := "🤕"
			if eff.Magnitude > 0 {
				severity = "success"
				icon = "❤️"
			}
			n = Notification{
				Title:    "健康变化",
				Message:  fmt.Sprintf("%s（健康 %d → %d）", eff.Message, eff.Before, eff.After),
				Severity: severity,
				Icon:     icon,
			}
		case engine.EffectMarketShock:
			n = Notification{
				Title:    "市场风云",
				Message:  fmt.Sprintf("%s（¥%s → ¥%s）", eff.Message, humanize.Comma(int64(eff.Before)), humanize.Comma(int64(eff.After))),
				Severity: "info",
				Icon:     "📈",
			}
		case engine.EffectBankInterest:
			n = Notification{
				Title:    "银行利息",
				Message:  fmt.Sprintf("存款利息 +¥%s", humanize.Comma(int64(eff.Magnitude))),
				Severity: "info",
				Icon:     "🏦",
			}
		case engine.EffectHealthRegen:
			n = Notification{
				Title:    "休养生息",
				Message:  fmt.Sprintf("健康恢复 +%d", eff.Magnitude),
				Severity: "info",
				Icon:     "😴",
			}
		default:
			n = Notification{Title: "提示", Message: eff.Message, Severity: "info"}
		}
		notifications = append(notifications, n)
	}
	return notifications
}
