package models

import (
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	ID        int64
	Role      Role
	Content   string
	Timestamp time.Time
	// Sources is only set on assistant messages
	Sources []string
}

func NewMessage(id int64, role Role, content string, timestamp time.Time) Message {
	return Message{
		ID:        id,
		Role:      role,
		Content:   content,
		Timestamp: timestamp,
	}
}

// Clone returns a copy that shares no slices with m
func (m Message) Clone() Message {
	if m.Sources != nil {
		m.Sources = append([]string(nil), m.Sources...)
	}
	return m
}

func (m Message) IsUser() bool {
	return m.Role == RoleUser
}
