// Package mqtt publishes headroom transitions over MQTT, with an
// abstraction for testing.
package mqtt

import (
	"github.com/sweeney/headroom-pager/internal/logic"
	"github.com/sweeney/headroom-pager/internal/payload"
)

// TopicPrefix is the root of every topic this publisher writes.
const TopicPrefix = "ui/headroom"

// EventTopic returns the transition topic for a session.
func EventTopic(session string) string {
	return TopicPrefix + "/" + session + "/events"
}

// SystemTopic returns the lifecycle topic for a session.
func SystemTopic(session string) string {
	return TopicPrefix + "/" + session + "/system"
}

// Publisher publishes transitions to a message broker.
type Publisher interface {
	// Publish sends a transition.
	// Returns error if publishing fails (should not crash the process).
	Publish(event logic.Event) error

	// PublishSystem sends a lifecycle event.
	PublishSystem(event payload.SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the broker connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}
