package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"teamleopard/internal/config"
)

const subjectPrefix = "jobboard.changes."

func SubjectFor(table string) string {
	if table == "" || table == AnyTable {
		return subjectPrefix + ">"
	}
	return subjectPrefix + table
}

// NATSBroker fans change events out across server instances.
type NATSBroker struct {
	conn   *nats.Conn
	logger *zap.Logger
}

func NewNATSBroker(cfg config.NATSConfig, appName string, logger *zap.Logger) (*NATSBroker, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, errors.New("empty NATS url")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []nats.Option{
		nats.Name(appName),
		nats.Timeout(cfg.ConnTimeout),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSBroker{conn: conn, logger: logger}, nil
}

func (b *NATSBroker) Publish(_ context.Context, evt ChangeEvent) error {
	if evt.At.IsZero() {
		evt.At = time.Now().UTC()
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	if err := b.conn.Publish(SubjectFor(evt.Table), data); err != nil {
		b.logger.Error("failed to publish change event",
			zap.String("table", evt.Table),
			zap.String("event", string(evt.Event)),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (b *NATSBroker) Subscribe(table string, fn EventFunc) (func() error, error) {
	subject := SubjectFor(table)
	sub, err := b.conn.Subscribe(subject, func(msg *nats.Msg) {
		var evt ChangeEvent
		if err := json.Unmarshal(msg.Data, &evt); err != nil {
			b.logger.Warn("dropping malformed change event",
				zap.String("subject", msg.Subject),
				zap.Error(err),
			)
			return
		}
		fn(evt)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", subject, err)
	}
	b.logger.Info("registered NATS subscription", zap.String("subject", subject))
	return sub.Unsubscribe, nil
}

func (b *NATSBroker) Close() error {
	if b == nil || b.conn == nil {
		return nil
	}
	if err := b.conn.Drain(); err != nil {
		b.conn.Close()
		return err
	}
	return nil
}
