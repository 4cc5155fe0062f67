package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"teamleopard/internal/pkg/logger"
	"teamleopard/internal/realtime"
)

// changeFeed publishes a ChangeEvent after each successful mutation. A
// failed publish is logged and never fails the write.
type changeFeed struct {
	pub    realtime.Publisher
	logger *zap.Logger
	now    func() time.Time
}

func newChangeFeed(pub realtime.Publisher, log *zap.Logger) changeFeed {
	return changeFeed{pub: pub, logger: logger.OrNop(log), now: time.Now}
}

func (f changeFeed) emit(ctx context.Context, evt realtime.ChangeEvent) {
	if f.pub == nil {
		return
	}
	if evt.At.IsZero() {
		evt.At = f.now().UTC()
	}
	if err := f.pub.Publish(ctx, evt); err != nil {
		f.logger.Warn("publish change event failed",
			zap.String("table", evt.Table),
			zap.String("event", string(evt.Event)),
			zap.String("record_id", evt.RecordID),
			zap.Error(err),
		)
	}
}

func int64ID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func uuidPtr(id uuid.UUID) *uuid.UUID {
	return &id
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
