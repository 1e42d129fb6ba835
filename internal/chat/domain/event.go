package domain

import "fmt"

// EventType definition chat event type
type EventType string

const (
	// EventJoin persisted join announcement
	EventJoin EventType = "JOIN"
	// EventLeave persisted leave announcement
	EventLeave EventType = "LEAVE"
	// EventText persisted text message
	EventText EventType = "TEXT"
	// EventTypingStart transient typing indicator, never persisted
	EventTypingStart EventType = "TYPING_START"
	// EventTypingStop transient typing indicator, never persisted
	EventTypingStop EventType = "TYPING_STOP"
)

// Persisted JOIN/LEAVE/TEXT rows survive, typing is relay-only
func (t EventType) Persisted() bool {
	return t == EventJoin || t == EventLeave || t == EventText
}

// ChatMessage one chat event, persisted for JOIN/LEAVE/TEXT
type ChatMessage struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	ChatID    string    `gorm:"column:chat_id" json:"chat_id"`
	AuthorID  string    `gorm:"column:author_id" json:"author_id"`
	Type      EventType `gorm:"column:type" json:"type"`
	Content   string    `gorm:"column:content" json:"content"`
	Timestamp int64     `gorm:"column:timestamp" json:"timestamp"`
}

// TableName gorm table name
func (ChatMessage) TableName() string { return "chat_messages" }

// Action websocket request action
type Action string

const (
	// ActionJoinChat websocket action events.joinChat
	ActionJoinChat Action = "events.joinChat"
	// ActionLeaveChat websocket action events.leaveChat
	ActionLeaveChat Action = "events.leaveChat"
	// ActionStartTyping websocket action events.startTyping
	ActionStartTyping Action = "events.startTyping"
	// ActionStopTyping websocket action events.stopTyping
	ActionStopTyping Action = "events.stopTyping"
	// ActionSendMessage websocket action events.sendMessage
	ActionSendMessage Action = "events.sendMessage"
	// ActionUpdateOnlineStatus websocket action events.updateOnlineStatus
	ActionUpdateOnlineStatus Action = "events.updateOnlineStatus"
)

// WSRequest websocket Request
type WSRequest struct {
	Action  string `json:"action"`
	ChatID  string `json:"chat_id"`
	Content string `json:"content"`
	Online  bool   `json:"online"`
}

// WSResponse websocket Response
type WSResponse struct {
	Action  string                 `json:"action"`
	Success bool                   `json:"success"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// ErrorFrame error payload routed only to the acting user
type ErrorFrame struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	ChatID  string    `json:"chat_id,omitempty"`
}

// ChatTopic destination every subscriber of a chat listens on
func ChatTopic(chatID string) string {
	return fmt.Sprintf("/countries/%s/messages", chatID)
}

// UserStatusTopic private destination carrying presence snapshots
func UserStatusTopic(userID string) string {
	return fmt.Sprintf("/users/%s/onlineStatus", userID)
}

// UserErrorsTopic private destination carrying that user's error frames
func UserErrorsTopic(userID string) string {
	return fmt.Sprintf("/users/%s/errors", userID)
}
