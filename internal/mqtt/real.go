package mqtt

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/headroom-pager/internal/logic"
	"github.com/sweeney/headroom-pager/internal/payload"
)

const (
	connectWait    = 2 * time.Second
	publishTimeout = 5 * time.Second
	queueCapacity  = 256
)

// RealPublisher publishes to an MQTT broker. While the connection is down,
// messages are queued and replayed in order on reconnect.
type RealPublisher struct {
	client  paho.Client
	session string

	mu    sync.Mutex
	queue *offlineQueue
}

// NewRealPublisher creates a publisher for the given broker. It does not
// fail if the broker is unreachable; the client keeps retrying and
// messages are queued in the meantime.
func NewRealPublisher(broker, session string) (*RealPublisher, error) {
	p := &RealPublisher{
		session: session,
		queue:   newOfflineQueue(queueCapacity),
	}

	will, err := payload.FormatSystem(payload.SystemEvent{Timestamp: time.Now(), Event: "OFFLINE"})
	if err != nil {
		return nil, fmt.Errorf("format will: %w", err)
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID(session)).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetWill(SystemTopic(session), string(will), 1, true).
		SetOnConnectHandler(func(paho.Client) { p.flush() }).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			slog.Warn("mqtt connection lost", "error", err)
		})

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(connectWait) {
		slog.Warn("mqtt broker not reachable yet, queueing", "broker", broker)
	} else if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	return p, nil
}

// newPublisher wraps an existing client. Used by tests.
func newPublisher(client paho.Client, session string) *RealPublisher {
	return &RealPublisher{
		client:  client,
		session: session,
		queue:   newOfflineQueue(queueCapacity),
	}
}

func clientID(session string) string {
	if len(session) > 8 {
		session = session[:8]
	}
	return "headroom-pager-" + session
}

// Publish sends a transition (QoS 0, not retained).
func (p *RealPublisher) Publish(event logic.Event) error {
	data, err := payload.FormatEvent(p.session, event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	return p.send(bufferedMsg{topic: EventTopic(p.session), payload: data})
}

// PublishSystem sends a lifecycle event (QoS 1).
func (p *RealPublisher) PublishSystem(event payload.SystemEvent) error {
	data, err := payload.FormatSystem(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	return p.send(bufferedMsg{topic: SystemTopic(p.session), payload: data, qos: 1, retained: event.Retained})
}

func (p *RealPublisher) send(msg bufferedMsg) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.client.IsConnectionOpen() {
		p.queue.push(msg)
		return nil
	}
	return p.publishLocked(msg)
}

func (p *RealPublisher) publishLocked(msg bufferedMsg) error {
	token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish %s: timeout", msg.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", msg.topic, err)
	}
	return nil
}

// flush replays queued messages after (re)connecting.
func (p *RealPublisher) flush() {
	p.mu.Lock()
	defer p.mu.Unlock()

	msgs := p.queue.drain()
	if len(msgs) == 0 {
		return
	}
	slog.Info("mqtt replaying queued messages", "count", len(msgs))
	for i, msg := range msgs {
		if err := p.publishLocked(msg); err != nil {
			slog.Warn("mqtt replay failed, requeueing", "error", err)
			for _, rest := range msgs[i:] {
				p.queue.push(rest)
			}
			return
		}
	}
}

// Queued returns the number of messages waiting for a connection.
func (p *RealPublisher) Queued() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.len()
}

// IsConnected reports whether the client currently has an open connection.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second quiesce
	return nil
}
