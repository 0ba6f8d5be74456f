// Package natsbus publishes headroom transitions to NATS subjects.
package natsbus

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/sweeney/headroom-pager/internal/logic"
	"github.com/sweeney/headroom-pager/internal/payload"
)

// Subjects written by the publisher. The session id is carried in the payload.
const (
	SubjectEvents = "headroom.events"
	SubjectSystem = "headroom.system"
)

// conn is the subset of *nats.Conn the publisher needs.
type conn interface {
	Publish(subject string, data []byte) error
	IsConnected() bool
	Drain() error
}

// Publisher sends transitions and lifecycle events over NATS.
type Publisher struct {
	conn    conn
	session string
}

// Connect dials url and returns a Publisher. Reconnects are handled by the
// client; messages published while disconnected are held in its buffer.
func Connect(url, session string, logger *slog.Logger) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("headroom-pager"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &Publisher{conn: nc, session: session}, nil
}

// Publish sends a transition.
func (p *Publisher) Publish(event logic.Event) error {
	data, err := payload.FormatEvent(p.session, event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	if err := p.conn.Publish(SubjectEvents, data); err != nil {
		return fmt.Errorf("publish %s: %w", SubjectEvents, err)
	}
	return nil
}

// PublishSystem sends a lifecycle event.
func (p *Publisher) PublishSystem(event payload.SystemEvent) error {
	data, err := payload.FormatSystem(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	if err := p.conn.Publish(SubjectSystem, data); err != nil {
		return fmt.Errorf("publish %s: %w", SubjectSystem, err)
	}
	return nil
}

// IsConnected reports whether the NATS connection is up.
func (p *Publisher) IsConnected() bool {
	return p.conn.IsConnected()
}

// Close drains pending messages and closes the connection.
func (p *Publisher) Close() error {
	return p.conn.Drain()
}
