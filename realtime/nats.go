package realtime

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// DefaultSubject is the NATS subject realtime events are relayed on.
const DefaultSubject = "restoration.events"

// ConnectNATS opens a reconnecting NATS connection that logs its state changes.
func ConnectNATS(url string, log *zap.Logger) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("restoration-planner"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.PingInterval(20 * time.Second),
		nats.MaxPingsOutstanding(3),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", zap.Error(err))
			} else {
				log.Warn("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			if nc.LastError() != nil {
				log.Error("NATS connection closed", zap.Error(nc.LastError()))
			} else {
				log.Info("NATS connection closed")
			}
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			if sub != nil {
				log.Error("NATS subscription error", zap.String("subject", sub.Subject), zap.Error(err))
			} else {
				log.Error("NATS async error", zap.Error(err))
			}
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}

	log.Info("connected to NATS", zap.String("url", nc.ConnectedUrl()))
	return nc, nil
}

// natsPublisher is the part of *nats.Conn the relay publishes through.
type natsPublisher interface {
	Publish(subject string, data []byte) error
}

// Relay shares hub events between instances over NATS.
type Relay struct {
	conn    natsPublisher
	subject string
	hub     *Hub
	log     *zap.Logger
	sub     *nats.Subscription
}

// NewRelay creates a relay for hub. Call Start to receive remote events and
// register it with hub.SetForwarder to send local ones.
func NewRelay(conn *nats.Conn, subject string, hub *Hub, log *zap.Logger) *Relay {
	return newRelay(conn, subject, hub, log)
}

func newRelay(conn natsPublisher, subject string, hub *Hub, log *zap.Logger) *Relay {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Relay{conn: conn, subject: subject, hub: hub, log: log}
}

// Forward publishes ev on the relay subject.
func (r *Relay) Forward(ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	return r.conn.Publish(r.subject, data)
}

// Start subscribes to the relay subject and delivers events from other
// instances to local subscribers.
func (r *Relay) Start(nc *nats.Conn) error {
	sub, err := nc.Subscribe(r.subject, r.handle)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", r.subject, err)
	}
	r.sub = sub
	return nil
}

// Stop removes the NATS subscription.
func (r *Relay) Stop() error {
	if r.sub == nil {
		return nil
	}
	return r.sub.Unsubscribe()
}

func (r *Relay) handle(msg *nats.Msg) {
	var ev Event
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		r.log.Warn("dropping malformed realtime event", zap.Error(err))
		return
	}
	if ev.Origin == r.hub.Origin() {
		return
	}
	r.hub.Deliver(ev)
}
