package services

import (
	"context"

	"github.com/yungbote/ipdesk-backend/internal/sse"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

// AlertChannel is the broadcast channel every signed-in staff client
// subscribes to; alerts are office-wide, not per-user.
const AlertChannel = "alerts"

type AlertNotifier interface {
	AlertCreated(alert *types.Alert)
	AlertDismissed(alert *types.Alert)
}

type alertNotifier struct {
	emit SSEEmitter
}

func NewAlertNotifier(emit SSEEmitter) AlertNotifier {
	return &alertNotifier{emit: emit}
}

func (n *alertNotifier) AlertCreated(alert *types.Alert) {
	if n == nil || n.emit == nil || alert == nil {
		return
	}
	n.emit.Emit(context.Background(), sse.SSEMessage{
		Channel: AlertChannel,
		Event:   sse.SSEEventAlertCreated,
		Data:    map[string]any{"alert": alert},
	})
}

func (n *alertNotifier) AlertDismissed(alert *types.Alert) {
	if n == nil || n.emit == nil || alert == nil {
		return
	}
	n.emit.Emit(context.Background(), sse.SSEMessage{
		Channel: AlertChannel,
		Event:   sse.SSEEventAlertDismissed,
		Data:    map[string]any{"alert_id": alert.ID},
	})
}
