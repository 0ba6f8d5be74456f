package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/sweeney/headroom-pager/internal/headroom"
	"github.com/sweeney/headroom-pager/internal/logic"
	"github.com/sweeney/headroom-pager/internal/metrics"
	"github.com/sweeney/headroom-pager/internal/mqtt"
	"github.com/sweeney/headroom-pager/internal/payload"
	"github.com/sweeney/headroom-pager/internal/status"
)

// app fans controller callbacks out to the sink, tracker and metrics.
// onTransition and onFrame run on the pager loop; runHeartbeat runs on
// its own goroutine and only touches the tracker and the sink.
type app struct {
	sink    eventSink
	conn    mqtt.ConnectionStatus
	tracker *status.Tracker
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

func (a *app) hooks() headroom.Hooks {
	return headroom.Hooks{
		OnPin:   func() { a.logger.Debug("pin") },
		OnUnpin: func() { a.logger.Debug("unpin") },
		OnUnfix: func() { a.logger.Debug("unfix") },
	}
}

func (a *app) onTransition(e logic.Event) {
	a.logger.Info("transition",
		"action", e.Action,
		"from", e.From,
		"to", e.To,
		"scroll_y", e.ScrollY)

	a.tracker.RecordTransition(e)
	a.metrics.ObserveTransition(e)
	if err := a.sink.Publish(e); err != nil {
		// Don't stop the pager on publish failure
		a.logger.Warn("publish error", "action", e.Action, "error", err)
	}
}

func (a *app) onFrame(ctl *headroom.Controller) {
	a.tracker.Update(ctl.State(), ctl.LastScrollY(), ctl.Counts(), ctl.Disabled())
	a.metrics.SetState(ctl.State())
	a.refreshConnection()
}

func (a *app) refreshConnection() {
	if a.conn != nil {
		a.tracker.SetBrokerConnected(a.conn.IsConnected())
	}
}

// publishSystem sends a retained lifecycle event carrying a status snapshot.
func (a *app) publishSystem(event, reason string) {
	a.refreshConnection()
	snap := a.tracker.Snapshot()
	e := payload.SystemEvent{
		Timestamp:  a.now(),
		Event:      event,
		Reason:     reason,
		Retained:   event != "HEARTBEAT",
		RawPayload: status.FormatStatusEvent(snap, event, reason),
	}
	if err := a.sink.PublishSystem(e); err != nil {
		a.logger.Warn("failed to publish system event", "event", event, "error", err)
		return
	}
	a.logger.Info("published system event", "event", event, "reason", reason)
}

// runHeartbeat publishes a HEARTBEAT on every tick until ctx is done.
func (a *app) runHeartbeat(ctx context.Context, tick <-chan time.Time) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			snap := a.tracker.Snapshot()
			a.logger.Info("heartbeat",
				"uptime", snap.Uptime(),
				"state", snap.State,
				"pin", snap.Counts.Pin,
				"unpin", snap.Counts.Unpin,
				"unfix", snap.Counts.Unfix)
			a.publishSystem("HEARTBEAT", "")
		}
	}
}
