package dto

import (
	"github.com/google/uuid"

	"teamleopard/internal/usecase"
)

type NotificationResponse struct {
	ID                 int64      `json:"id"`
	EmployeeReceiverID *uuid.UUID `json:"employee_receiver_id"`
	EmployerReceiverID *uuid.UUID `json:"employer_receiver_id"`
	Title              string     `json:"title"`
	Content            string     `json:"content"`
	Link               string     `json:"link"`
	Read               bool       `json:"read"`
	Hidden             bool       `json:"hidden"`
	CreatedAt          string     `json:"created_at"`
	TimeAgo            string     `json:"time_ago"`
}

func NewNotificationResponse(v usecase.NotificationView) NotificationResponse {
	return NotificationResponse{
		ID:                 v.ID,
		EmployeeReceiverID: v.EmployeeReceiverID,
		EmployerReceiverID: v.EmployerReceiverID,
		Title:              v.Title,
		Content:            v.Content,
		Link:               v.Link,
		Read:               v.Read,
		Hidden:             v.Hidden,
		CreatedAt:          formatTime(v.CreatedAt),
		TimeAgo:            v.TimeAgo,
	}
}

// NotificationUpdateResponse reports whether the change reached the store.
type NotificationUpdateResponse struct {
	Notification NotificationResponse `json:"notification"`
	Persisted    bool                 `json:"persisted"`
}

type MessageResponse struct {
	NotificationResponse
	Mine bool `json:"mine"`
}

type ConversationResponse struct {
	Link     string            `json:"link"`
	Title    string            `json:"title"`
	Unread   int               `json:"unread"`
	Messages []MessageResponse `json:"messages"`
}

func NewConversationResponse(v usecase.ConversationView) ConversationResponse {
	msgs := make([]MessageResponse, 0, len(v.Messages))
	for _, m := range v.Messages {
		msgs = append(msgs, MessageResponse{NotificationResponse: NewNotificationResponse(m.NotificationView), Mine: m.Mine})
	}
	return ConversationResponse{Link: v.Link, Title: v.Title, Unread: v.Unread, Messages: msgs}
}
