package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"teamleopard/internal/database"
	"teamleopard/internal/domain/notification"
	"teamleopard/internal/realtime"
)

type NotificationRepository interface {
	ListForReceiver(ctx context.Context, r notification.Receiver, includeHidden bool) ([]notification.Notification, error)
	ListRequestThreads(ctx context.Context, r notification.Receiver) ([]notification.Notification, error)
	Create(ctx context.Context, n notification.Notification) (notification.Notification, error)
	SetRead(ctx context.Context, id int64, read bool) error
	SetHidden(ctx context.Context, id int64, hidden bool) error
	MarkAllRead(ctx context.Context, r notification.Receiver) (int64, error)
	CountUnread(ctx context.Context, r notification.Receiver) (int, error)
}

type PostgresNotificationRepository struct {
	db      database.DB
	changes changeFeed
}

func NewPostgresNotificationRepository(db database.DB, pub realtime.Publisher, log *zap.Logger) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db, changes: newChangeFeed(pub, log)}
}

const notificationColumns = `n.id, n.employee_receiver_id, n.employer_receiver_id, COALESCE(n.title, ''),
	COALESCE(n.content, ''), COALESCE(n.link, ''), n.read, n.hidden, n.created_at`

func notificationDest(n *notification.Notification) []any {
	return []any{
		&n.ID, &n.EmployeeReceiverID, &n.EmployerReceiverID, &n.Title,
		&n.Content, &n.Link, &n.Read, &n.Hidden, &n.CreatedAt,
	}
}

func receiverColumn(r notification.Receiver) (string, error) {
	switch r.Kind {
	case notification.ReceiverEmployee:
		return "employee_receiver_id", nil
	case notification.ReceiverEmployer:
		return "employer_receiver_id", nil
	default:
		return "", fmt.Errorf("unknown receiver kind %q", r.Kind)
	}
}

func (r *PostgresNotificationRepository) query(ctx context.Context, q string, args ...any) ([]notification.Notification, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]notification.Notification, 0)
	for rows.Next() {
		var n notification.Notification
		if err := rows.Scan(notificationDest(&n)...); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListForReceiver returns the receiver's notifications, newest first.
func (r *PostgresNotificationRepository) ListForReceiver(ctx context.Context, rc notification.Receiver, includeHidden bool) ([]notification.Notification, error) {
	col, err := receiverColumn(rc)
	if err != nil {
		return nil, err
	}
	q := `SELECT ` + notificationColumns + ` FROM "Notifications" n WHERE n.` + col + ` = $1`
	if !includeHidden {
		q += ` AND n.hidden = false`
	}
	q += ` ORDER BY n.created_at DESC`
	return r.query(ctx, q, rc.ID)
}

// ListRequestThreads returns every message of every request thread the
// receiver takes part in, including the messages addressed to the other side.
func (r *PostgresNotificationRepository) ListRequestThreads(ctx context.Context, rc notification.Receiver) ([]notification.Notification, error) {
	col, err := receiverColumn(rc)
	if err != nil {
		return nil, err
	}
	return r.query(ctx,
		`SELECT `+notificationColumns+`
		 FROM "Notifications" n
		 WHERE n.link IN (
		     SELECT DISTINCT m.link FROM "Notifications" m
		     WHERE m.`+col+` = $1 AND m.link LIKE $2
		 )
		 ORDER BY n.created_at ASC`,
		rc.ID, notification.RequestLinkPrefix+"%",
	)
}

func (r *PostgresNotificationRepository) Create(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO "Notifications" AS n (employee_receiver_id, employer_receiver_id, title, content, link, read, hidden)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+notificationColumns,
		n.EmployeeReceiverID, n.EmployerReceiverID, n.Title, n.Content, n.Link, n.Read, n.Hidden,
	)
	var out notification.Notification
	if err := row.Scan(notificationDest(&out)...); err != nil {
		return notification.Notification{}, err
	}
	r.emit(ctx, realtime.EventInsert, out)
	return out, nil
}

func (r *PostgresNotificationRepository) SetRead(ctx context.Context, id int64, read bool) error {
	return r.setFlag(ctx, id, "read", read)
}

func (r *PostgresNotificationRepository) SetHidden(ctx context.Context, id int64, hidden bool) error {
	return r.setFlag(ctx, id, "hidden", hidden)
}

func (r *PostgresNotificationRepository) setFlag(ctx context.Context, id int64, column string, value bool) error {
	row := r.db.QueryRow(ctx,
		`UPDATE "Notifications" AS n SET `+column+` = $2 WHERE n.id = $1 RETURNING `+notificationColumns,
		id, value,
	)
	var out notification.Notification
	if err := row.Scan(notificationDest(&out)...); err != nil {
		if database.IsNoRows(err) {
			return notification.ErrNotFound
		}
		return err
	}
	r.emit(ctx, realtime.EventUpdate, out)
	return nil
}

func (r *PostgresNotificationRepository) MarkAllRead(ctx context.Context, rc notification.Receiver) (int64, error) {
	col, err := receiverColumn(rc)
	if err != nil {
		return 0, err
	}
	affected, err := r.db.Exec(ctx,
		`UPDATE "Notifications" SET read = true WHERE `+col+` = $1 AND read = false`,
		rc.ID,
	)
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		evt := realtime.ChangeEvent{Table: realtime.TableNotifications, Event: realtime.EventUpdate}
		if rc.Kind == notification.ReceiverEmployer {
			evt.EmployerID = uuidPtr(rc.ID)
		} else {
			evt.EmployeeID = uuidPtr(rc.ID)
		}
		r.changes.emit(ctx, evt)
	}
	return affected, nil
}

func (r *PostgresNotificationRepository) CountUnread(ctx context.Context, rc notification.Receiver) (int, error) {
	col, err := receiverColumn(rc)
	if err != nil {
		return 0, err
	}
	var c int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(1) FROM "Notifications" WHERE `+col+` = $1 AND read = false AND hidden = false`,
		rc.ID,
	).Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

func (r *PostgresNotificationRepository) emit(ctx context.Context, event realtime.EventType, n notification.Notification) {
	r.changes.emit(ctx, realtime.ChangeEvent{
		Table:      realtime.TableNotifications,
		Event:      event,
		RecordID:   int64ID(n.ID),
		EmployeeID: n.EmployeeReceiverID,
		EmployerID: n.EmployerReceiverID,
	})
}

var (
	_ NotificationRepository = (*PostgresNotificationRepository)(nil)
	_ notification.Store     = (*PostgresNotificationRepository)(nil)
)
