package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/Vikasg7/alerty/internal/platform/logger"
)

const SubjectCommands = "tracker.commands"

const (
	ActionAddListing      = "AddListing"
	ActionDelListing      = "DelListing"
	ActionRefreshListings = "RefreshListings"
)

// CommandHandler is the application surface the subscriber drives.
type CommandHandler interface {
	AddListing(ctx context.Context, pageURL string) error
	RemoveListing(ctx context.Context, key string) error
	ForceRefresh(ctx context.Context) error
}

// commandEnvelope is the wire format clients publish on SubjectCommands.
type commandEnvelope struct {
	Action string `json:"action"`
	Key    string `json:"key,omitempty"`
	URL    string `json:"url,omitempty"`
}

// Subscriber consumes client commands from NATS and dispatches them to the
// tracker use case. Command outcomes reach clients through the broadcaster,
// not through replies.
type Subscriber struct {
	conn    *nats.Conn
	handler CommandHandler
	logger  *logger.Logger
	sub     *nats.Subscription
}

func NewSubscriber(conn *nats.Conn, handler CommandHandler, log *logger.Logger) *Subscriber {
	return &Subscriber{
		conn:    conn,
		handler: handler,
		logger:  log.Named("NATSSubscriber"),
	}
}

// Start subscribes to the command subject. Handlers run on the NATS delivery
// goroutine; long refresh passes deduplicate themselves.
func (s *Subscriber) Start(ctx context.Context) error {
	sub, err := s.conn.Subscribe(SubjectCommands, func(msg *nats.Msg) {
		s.handle(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", SubjectCommands, err)
	}
	s.sub = sub
	s.logger.Info("subscribed to commands", zap.String("subject", SubjectCommands))
	return nil
}

func (s *Subscriber) handle(ctx context.Context, msg *nats.Msg) {
	propagator := otel.GetTextMapPropagator()
	ctx = propagator.Extract(ctx, NATSHeaderCarrier(msg.Header))
	ctx, span := tracer.Start(ctx, "NATS.Handle."+SubjectCommands)
	defer span.End()

	var cmd commandEnvelope
	if err := json.Unmarshal(msg.Data, &cmd); err != nil {
		s.logger.Warn("dropping malformed command", zap.Error(err))
		span.RecordError(err)
		return
	}

	var err error
	switch cmd.Action {
	case ActionAddListing:
		err = s.handler.AddListing(ctx, cmd.URL)
	case ActionDelListing:
		err = s.handler.RemoveListing(ctx, cmd.Key)
	case ActionRefreshListings:
		err = s.handler.ForceRefresh(ctx)
	default:
		s.logger.Warn("dropping command with unknown action", zap.String("action", cmd.Action))
		return
	}

	if err != nil {
		span.RecordError(err)
		s.logger.Error("command failed",
			zap.String("action", cmd.Action),
			zap.String("key", cmd.Key),
			zap.Error(err))
	}
}

// Stop unsubscribes from the command subject.
func (s *Subscriber) Stop() {
	if s.sub != nil {
		if err := s.sub.Unsubscribe(); err != nil {
			s.logger.Warn("failed to unsubscribe", zap.Error(err))
		}
		s.sub = nil
	}
}
