package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/Vikasg7/alerty/internal/platform/logger"
)

var tracer = otel.Tracer("alerty/nats")

const publishRetryDelay = 200 * time.Millisecond

type Publisher struct {
	conn   *nats.Conn
	logger *logger.Logger
}

// Connect dials NATS with the service's standard handlers. The connection is
// shared by the publisher and the command subscriber.
func Connect(url string, log *logger.Logger, appName string) (*nats.Conn, error) {
	log.Info("NATS: connecting...", zap.String("url", url))

	opts := []nats.Option{
		nats.Name(appName),
		nats.Timeout(10 * time.Second),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error("NATS error", zap.Stringp("subject", &sub.Subject), zap.Error(err))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Info("NATS connection closed")
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	log.Info("NATS: successfully connected", zap.String("url", conn.ConnectedUrl()))
	return conn, nil
}

func NewPublisher(conn *nats.Conn, log *logger.Logger) *Publisher {
	return &Publisher{conn: conn, logger: log.Named("NATSPublisher")}
}

func (p *Publisher) Publish(ctx context.Context, subject string, data interface{}) error {
	_, span := tracer.Start(ctx, fmt.Sprintf("NATS.Publish.%s", subject))
	defer span.End()

	jsonData, err := json.Marshal(data)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to marshal data for subject %s: %w", subject, err)
	}

	msg := nats.NewMsg(subject)
	msg.Data = jsonData
	msg.Header = make(nats.Header)

	propagator := otel.GetTextMapPropagator()
	propagator.Inject(ctx, NATSHeaderCarrier(msg.Header))

	// One retry after a short pause covers reconnect blips without queueing.
	if err := p.conn.PublishMsg(msg); err != nil {
		p.logger.Warn("publish failed, retrying once",
			zap.String("subject", subject), zap.Error(err))
		time.Sleep(publishRetryDelay)
		if err := p.conn.PublishMsg(msg); err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to publish message to subject %s: %w", subject, err)
		}
	}

	p.logger.Debug("message published",
		zap.String("subject", subject), zap.Int("data_size_bytes", len(jsonData)))
	return nil
}

type NATSHeaderCarrier nats.Header

func (c NATSHeaderCarrier) Get(key string) string {
	return nats.Header(c).Get(key)
}

func (c NATSHeaderCarrier) Set(key string, value string) {
	nats.Header(c).Set(key, value)
}

func (c NATSHeaderCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() {
	if p.conn != nil && !p.conn.IsClosed() {
		if err := p.conn.Drain(); err != nil {
			p.logger.Error("failed to drain NATS connection", zap.Error(err))
		}
		p.conn.Close()
		p.logger.Info("NATS connection closed")
	}
}
