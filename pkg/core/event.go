package core

import (
	"strings"
	"time"
)

// EventTypeName is a string alias for event type identifiers (e.g., "build_success")
type EventTypeName string

const (
	EventBuildSuccess EventTypeName = "build_success"
	EventBuildFailed  EventTypeName = "build_failed"
	EventBuildWarning EventTypeName = "build_warning"
)

// BuildEvent is the payload handed to notifiers after a build
type BuildEvent struct {
	Type      EventTypeName          `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Details   map[string]interface{} `json:"details,omitempty"`
	String    string                 `json:"string,omitempty"`
}

// NewBuildEvent stamps an event with the current time.
func NewBuildEvent(typ EventTypeName, message string, details map[string]interface{}) BuildEvent {
	return BuildEvent{
		Type:      typ,
		Timestamp: time.Now(),
		Source:    "builder",
		Details:   details,
		String:    message,
	}
}

// MatchesPattern: Simple wildcard support (e.g., "build_*" matches "build_success")
func MatchesPattern(eventType EventTypeName, pattern string) bool {
	if pattern == "*" || pattern == string(eventType) {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		prefix := strings.TrimSuffix(pattern, "*")
		return strings.HasPrefix(string(eventType), prefix)
	}
	return false
}
