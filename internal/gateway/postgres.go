package gateway

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-institute-sync/internal/config"
	"github.com/MKhiriev/go-institute-sync/internal/logger"
	"github.com/MKhiriev/go-institute-sync/models"
)

// notifyChannelSuffix is appended to a table name to get the NOTIFY channel
// its change trigger publishes on.
const notifyChannelSuffix = "_changes"

// listenConn is the part of *pgx.Conn used by a LISTEN subscription.
type listenConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
	Close(ctx context.Context) error
}

type listenConnector func(ctx context.Context) (listenConn, error)

// PostgresGateway selects rows directly from PostgreSQL and listens for
// change notifications published by table triggers.
type PostgresGateway struct {
	db         *sql.DB
	connect    listenConnector
	classifier *PostgresErrorClassifier
	logger     *logger.Logger
}

// NewPostgresGateway opens a pooled connection for selects and verifies it
// with a ping. Each subscription opens its own LISTEN connection on demand.
func NewPostgresGateway(ctx context.Context, cfg config.Gateway, log *logger.Logger) (*PostgresGateway, error) {
	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewPostgresGateway").Msg("error occurred during database connection")
		return nil, fmt.Errorf("error occurred during database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err = db.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewPostgresGateway").Msg("error connecting database (ping)")
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info().Str("func", "NewPostgresGateway").Msg("connected to database successfully")

	dsn := cfg.DSN
	connect := func(ctx context.Context) (listenConn, error) {
		conn, err := pgx.Connect(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
	return newPostgresGateway(db, connect, log), nil
}

func newPostgresGateway(db *sql.DB, connect listenConnector, log *logger.Logger) *PostgresGateway {
	return &PostgresGateway{
		db:         db,
		connect:    connect,
		classifier: NewPostgresErrorClassifier(),
		logger:     log,
	}
}

// DB exposes the select pool, used to run migrations.
func (g *PostgresGateway) DB() *sql.DB {
	return g.db
}

// Close releases the select pool.
func (g *PostgresGateway) Close() error {
	return g.db.Close()
}

// Select implements [Source].
func (g *PostgresGateway) Select(ctx context.Context, table string, ordering *models.Ordering) (models.Snapshot, error) {
	query, args, err := buildSelect(table, ordering)
	if err != nil {
		return nil, err
	}

	rows, err := g.db.QueryContext(ctx, query, args...)
	if err != nil {
		g.logger.Err(err).
			Str("func", "PostgresGateway.Select").
			Str("table", table).
			Bool("retryable", g.classifier.Classify(err) == Retryable).
			Msg("select failed")
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	defer rows.Close()

	snapshot, err := scanRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("scan %s rows: %w", table, err)
	}
	return snapshot, nil
}

func buildSelect(table string, ordering *models.Ordering) (string, []any, error) {
	if err := validIdentifier(table); err != nil {
		return "", nil, err
	}

	builder := sq.Select("*").
		From(pgx.Identifier{table}.Sanitize()).
		PlaceholderFormat(sq.Dollar)

	if !ordering.IsZero() {
		if err := validIdentifier(ordering.Field); err != nil {
			return "", nil, fmt.Errorf("order field: %w", err)
		}
		dir := "ASC"
		if ordering.IsDescending() {
			dir = "DESC"
		}
		builder = builder.OrderBy(pgx.Identifier{ordering.Field}.Sanitize() + " " + dir)
	}

	return builder.ToSql()
}

func scanRecords(rows *sql.Rows) (models.Snapshot, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	snapshot := models.Snapshot{}
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err = rows.Scan(dest...); err != nil {
			return nil, err
		}

		record := make(models.Record, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				record[col] = string(b)
				continue
			}
			record[col] = values[i]
		}
		snapshot = append(snapshot, record)
	}

	return snapshot, rows.Err()
}

// Subscribe implements [Source] with LISTEN on "<table>_changes".
func (g *PostgresGateway) Subscribe(ctx context.Context, channel, table string, filter models.EventFilter, onChange ChangeHandler) (Subscription, error) {
	if channel == "" {
		return nil, ErrEmptyChannel
	}
	if err := validIdentifier(table); err != nil {
		return nil, err
	}
	if onChange == nil {
		return nil, ErrNilHandler
	}

	notifyChannel := table + notifyChannelSuffix
	conn, err := g.listenOn(ctx, notifyChannel)
	if err != nil {
		g.logger.Err(err).Str("func", "PostgresGateway.Subscribe").Str("table", table).Msg("error opening listen connection")
		return nil, err
	}

	listenCtx, cancel := context.WithCancel(context.Background())
	sub := &postgresSubscription{
		channel:           channel,
		table:             table,
		notifyChannel:     notifyChannel,
		filter:            filter,
		onChange:          onChange,
		conn:              conn,
		redial:            g.listenOn,
		reconnectDelay:    defaultReconnectDelay,
		maxReconnectDelay: defaultMaxReconnectDelay,
		cancel:            cancel,
		done:              make(chan struct{}),
		logger:            g.logger,
	}
	go sub.listen(listenCtx)

	g.logger.Debug().Str("func", "PostgresGateway.Subscribe").Str("channel", channel).Str("notify", notifyChannel).Msg("listening for changes")
	return sub, nil
}

// listenOn opens a dedicated connection and issues LISTEN on notifyChannel.
func (g *PostgresGateway) listenOn(ctx context.Context, notifyChannel string) (listenConn, error) {
	conn, err := g.connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("open listen connection: %w", err)
	}
	if _, err = conn.Exec(ctx, "LISTEN "+pgx.Identifier{notifyChannel}.Sanitize()); err != nil {
		conn.Close(context.Background())
		return nil, fmt.Errorf("listen %s: %w", notifyChannel, err)
	}
	return conn, nil
}

type postgresSubscription struct {
	channel       string
	table         string
	notifyChannel string
	filter        models.EventFilter
	onChange      ChangeHandler

	// conn is owned by the listen goroutine until done is closed. It is nil
	// while a redial is in progress.
	conn              listenConn
	redial            func(ctx context.Context, notifyChannel string) (listenConn, error)
	reconnectDelay    time.Duration
	maxReconnectDelay time.Duration

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
	err    error
	logger *logger.Logger
}

func (s *postgresSubscription) Channel() string {
	return s.channel
}

func (s *postgresSubscription) Unsubscribe() error {
	s.once.Do(func() {
		s.cancel()
		<-s.done

		if s.conn == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.err = s.conn.Close(ctx)
	})
	return s.err
}

func (s *postgresSubscription) listen(ctx context.Context) {
	defer close(s.done)

	for {
		n, err := s.conn.WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Err(err).Str("func", "postgresSubscription.listen").Str("channel", s.channel).Msg("listen connection lost")
			if !s.reconnect(ctx) {
				return
			}
			// changes committed while disconnected were never notified
			s.onChange(models.ChangeEvent{Type: models.EventUnspecified, Table: s.table})
			continue
		}

		event, err := decodeNotification(n.Payload, s.table)
		if err != nil {
			s.logger.Err(err).Str("func", "postgresSubscription.listen").Str("channel", s.channel).Msg("malformed notification payload")
		}
		if !s.filter.Matches(event.Type) {
			continue
		}
		s.onChange(event)
	}
}

// reconnect replaces the lost connection with backoff. It reports false
// when ctx was cancelled first.
func (s *postgresSubscription) reconnect(ctx context.Context) bool {
	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	_ = s.conn.Close(closeCtx)
	cancel()
	s.conn = nil

	attempt := 0
	err := retry.Do(ctx, reconnectBackoff(s.reconnectDelay, s.maxReconnectDelay), func(ctx context.Context) error {
		attempt++
		dialCtx, cancel := context.WithTimeout(ctx, reconnectDialTimeout)
		defer cancel()

		conn, err := s.redial(dialCtx, s.notifyChannel)
		if err != nil {
			s.logger.Warn().Err(err).Str("func", "postgresSubscription.reconnect").Str("channel", s.channel).Int("attempt", attempt).Msg("listen redial failed")
			return retry.RetryableError(err)
		}
		s.conn = conn
		return nil
	})
	if err != nil {
		return false
	}
	s.logger.Info().Str("func", "postgresSubscription.reconnect").Str("channel", s.channel).Int("attempt", attempt).Msg("listen connection restored")
	return true
}

// decodeNotification parses the trigger payload. An undecodable payload still
// yields an event of unspecified type so the change is not lost.
func decodeNotification(payload, table string) (models.ChangeEvent, error) {
	event := models.ChangeEvent{Table: table}
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return event, nil
	}

	var raw struct {
		Type      string        `json:"type"`
		Table     string        `json:"table"`
		Record    models.Record `json:"record"`
		OldRecord models.Record `json:"old_record"`
	}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return event, err
	}

	event.Type = models.ParseEventType(raw.Type)
	event.Record = raw.Record
	event.OldRecord = raw.OldRecord
	if raw.Table != "" {
		event.Table = raw.Table
	}
	return event, nil
}
