package server

// Request bodies for WebSocket commands, validated with validator tags.

// ShowNotificationRequest is the body of show_notification.
type ShowNotificationRequest struct {
	Title            string `json:"title" validate:"max=256"`
	Body             string `json:"body" validate:"max=4096"`
	NotificationType string `json:"notification_type" validate:"max=32"`
}

// CreateActivityLogRequest is the body of create_activity_log.
type CreateActivityLogRequest struct {
	IdleTimeSeconds *uint64 `json:"idle_time_seconds" validate:"required"`
	IsIdle          *bool   `json:"is_idle" validate:"required"`
}

// ReportActivityResult is the data of report_activity_result.
type ReportActivityResult struct {
	LastActivity string `json:"last_activity"`
}
