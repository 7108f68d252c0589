package mq

import "time"

// 路由键
const (
	RoutingKeyLiveUpdatePosted         = "live_update.posted"
	RoutingKeyNotificationBatchWritten = "notification.batch_written"
)

// LiveUpdatePostedPayload 项目动态发布事件
type LiveUpdatePostedPayload struct {
	UpdateID  string    `json:"update_id"`
	ProjectID string    `json:"project_id"`
	AuthorID  string    `json:"author_id"`
	Message   string    `json:"message"`
	PostedAt  time.Time `json:"posted_at"`
	TraceID   string    `json:"trace_id,omitempty"`
}

// NotificationBatchWrittenPayload 一批通知写入完成
type NotificationBatchWrittenPayload struct {
	BatchID      string    `json:"batch_id"`
	Audience     string    `json:"audience"` // users / admins
	Type         string    `json:"type"`
	RelatedID    string    `json:"related_id,omitempty"`
	ProjectID    string    `json:"project_id,omitempty"`
	RecipientIDs []string  `json:"recipient_ids"`
	WrittenAt    time.Time `json:"written_at"`
	TraceID      string    `json:"trace_id,omitempty"`
}
