package clients

import (
	"context"
	"fmt"

	ws "github.com/LordKnossus/crm-cobranca/internal/transport/websocket"
)

// WebSocketClient pushes report-generation events to the user who requested
// the report.
type WebSocketClient struct {
	hub *ws.Hub
}

func NewWebSocketClient(hub *ws.Hub) *WebSocketClient {
	return &WebSocketClient{hub: hub}
}

func (c *WebSocketClient) NotifyReportProgress(ctx context.Context, userID int64, reportID string, progress float64, stage string) error {
	if c.hub == nil {
		return nil
	}

	data := map[string]interface{}{
		"id":       reportID,
		"progress": progress,
	}
	if stage != "" {
		data["stage"] = stage
	}

	c.hub.Broadcast(userID, &ws.Message{
		Type:    "report_progress",
		Channel: fmt.Sprintf("report_progress#%d", userID),
		Data:    data,
	})
	return nil
}

func (c *WebSocketClient) NotifyReportComplete(ctx context.Context, userID int64, reportID, url, filename string) error {
	if c.hub == nil {
		return nil
	}

	c.hub.Broadcast(userID, &ws.Message{
		Type:    "report_complete",
		Channel: fmt.Sprintf("report_complete#%d", userID),
		Data: map[string]interface{}{
			"id":       reportID,
			"url":      url,
			"filename": filename,
			"user_id":  userID,
		},
	})
	return nil
}

func (c *WebSocketClient) NotifyReportFailed(ctx context.Context, userID int64, reportID, errMsg string) error {
	if c.hub == nil {
		return nil
	}

	c.hub.Broadcast(userID, &ws.Message{
		Type:    "report_failed",
		Channel: fmt.Sprintf("report_failed#%d", userID),
		Data: map[string]interface{}{
			"id":      reportID,
			"message": errMsg,
			"user_id": userID,
		},
	})
	return nil
}
