package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	libnats "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"feedline/internal/config"
	"feedline/internal/core"
)

const streamName = "feedline"

// Publisher pushes created engagement edges onto the JetStream firehose for
// downstream consumers. Callers treat publishing as fire-and-forget.
type Publisher struct {
	Logger *slog.Logger
	Config *config.Config

	js jetstream.JetStream
}

func (p *Publisher) Init(ctx context.Context) error {
	p.Logger = p.Logger.With("component", "events.Publisher")

	nc, err := libnats.Connect(p.Config.NATSURL)
	if err != nil {
		return err
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return err
	}
	p.js = js

	if p.Config.NATSInit {
		if err := p.initStream(ctx); err != nil {
			return err
		}
	}

	return nil
}

func (p *Publisher) Publish(ctx context.Context, event core.EngagementEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := &libnats.Msg{
		Subject: fmt.Sprintf("%s.engagement.%s", streamName, event.Kind),
		Data:    payload,
		Header: libnats.Header{
			libnats.MsgIdHdr: []string{messageID(event)},
		},
	}

	_, err = p.js.PublishMsg(ctx, msg)
	return err
}

func (p *Publisher) HealthCheck(context.Context) error {
	_, err := p.js.Conn().RTT()
	return err
}

func (p *Publisher) Shutdown(context.Context) error {
	return p.js.Conn().Drain()
}

func (p *Publisher) initStream(ctx context.Context) error {
	p.Logger.Info("Initializing NATS")

	_, err := p.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{streamName + ".>"},
		MaxAge:   24 * time.Hour,
	})
	if err != nil {
		return err
	}
	p.Logger.Info("Stream created or updated", "name", streamName)

	return nil
}

func messageID(event core.EngagementEvent) string {
	return fmt.Sprintf("%s-%d-%d-%d", event.Kind, event.ActorID, event.SubjectID, event.At.UnixNano())
}
