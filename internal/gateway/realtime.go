package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-institute-sync/internal/logger"
	"github.com/MKhiriev/go-institute-sync/models"
)

const (
	realtimeTopicPrefix = "realtime:"
	heartbeatTopic      = "phoenix"

	eventJoin            = "phx_join"
	eventLeave           = "phx_leave"
	eventReply           = "phx_reply"
	eventError           = "phx_error"
	eventClose           = "phx_close"
	eventHeartbeat       = "heartbeat"
	eventPostgresChanges = "postgres_changes"

	replyStatusOK = "ok"

	defaultHeartbeatInterval = 30 * time.Second
	realtimeWriteTimeout     = 10 * time.Second
)

// realtimeMessage is the envelope of every frame on the realtime socket.
type realtimeMessage struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref,omitempty"`
}

type realtimeReply struct {
	Status   string          `json:"status"`
	Response json.RawMessage `json:"response,omitempty"`
}

type postgresChangesPayload struct {
	Data struct {
		Type      string        `json:"type"`
		Table     string        `json:"table"`
		Record    models.Record `json:"record"`
		OldRecord models.Record `json:"old_record"`
	} `json:"data"`
}

type joinPayload struct {
	Config joinConfig `json:"config"`
}

type joinConfig struct {
	PostgresChanges []postgresChangesFilter `json:"postgres_changes"`
}

type postgresChangesFilter struct {
	Event  string `json:"event"`
	Schema string `json:"schema"`
	Table  string `json:"table"`
}

// RealtimeClient multiplexes change subscriptions over one websocket
// connection. The connection is dialed by the first Subscribe and closed
// when the last subscription is released.
//
// A connection lost while subscriptions are registered is redialed with
// exponential backoff. After a successful redial every channel is rejoined
// and every handler is called once with an unspecified event, so that
// changes missed while disconnected are picked up by a refetch.
type RealtimeClient struct {
	url               string
	header            http.Header
	dialer            *websocket.Dialer
	heartbeatInterval time.Duration
	reconnectDelay    time.Duration
	maxReconnectDelay time.Duration
	logger            *logger.Logger

	mu           sync.Mutex
	conn         *websocket.Conn
	done         chan struct{}
	channels     map[string]*realtimeSubscription
	pending      map[string]chan realtimeReply
	closed       bool
	reconnecting bool
	stopRedial   context.CancelFunc

	writeMu sync.Mutex
	ref     atomic.Uint64
}

// NewRealtimeClient returns a client for the websocket endpoint at rawURL.
// apiKey, when set, is sent as the "apikey" header of the handshake.
func NewRealtimeClient(rawURL, apiKey string, log *logger.Logger) *RealtimeClient {
	header := http.Header{}
	if apiKey != "" {
		header.Set("apikey", apiKey)
	}

	return &RealtimeClient{
		url:               rawURL,
		header:            header,
		dialer:            websocket.DefaultDialer,
		heartbeatInterval: defaultHeartbeatInterval,
		reconnectDelay:    defaultReconnectDelay,
		maxReconnectDelay: defaultMaxReconnectDelay,
		logger:            log,
		channels:          make(map[string]*realtimeSubscription),
		pending:           make(map[string]chan realtimeReply),
	}
}

// Subscribe joins the "realtime:<channel>" topic and waits for the server to
// acknowledge the join.
func (c *RealtimeClient) Subscribe(ctx context.Context, channel, table string, filter models.EventFilter, onChange ChangeHandler) (Subscription, error) {
	if channel == "" {
		return nil, ErrEmptyChannel
	}
	if err := validIdentifier(table); err != nil {
		return nil, err
	}
	if onChange == nil {
		return nil, ErrNilHandler
	}

	topic := realtimeTopicPrefix + channel
	sub := &realtimeSubscription{
		client:   c,
		channel:  channel,
		topic:    topic,
		table:    table,
		filter:   filter,
		onChange: onChange,
	}

	c.mu.Lock()
	if _, ok := c.channels[topic]; ok {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrChannelInUse, channel)
	}
	c.closed = false
	if err := c.connectLocked(ctx); err != nil {
		c.mu.Unlock()
		c.logger.Err(err).Str("func", "RealtimeClient.Subscribe").Str("url", c.url).Msg("error dialing realtime endpoint")
		return nil, fmt.Errorf("realtime connect: %w", err)
	}
	ref := c.nextRef()
	reply := make(chan realtimeReply, 1)
	c.channels[topic] = sub
	c.pending[ref] = reply
	conn, done := c.conn, c.done
	c.mu.Unlock()

	if err := c.write(conn, sub.joinMessage(ref)); err != nil {
		c.forget(topic, ref)
		return nil, fmt.Errorf("realtime join %s: %w", topic, err)
	}

	select {
	case r := <-reply:
		if r.Status != replyStatusOK {
			c.forget(topic, ref)
			return nil, fmt.Errorf("%w: %s: %s", ErrJoinRejected, topic, string(r.Response))
		}
	case <-done:
		c.forget(topic, ref)
		return nil, ErrRealtimeClosed
	case <-ctx.Done():
		c.forget(topic, ref)
		return nil, ctx.Err()
	}

	c.logger.Debug().Str("func", "RealtimeClient.Subscribe").Str("topic", topic).Str("table", table).Msg("joined realtime channel")
	return sub, nil
}

// Close drops the connection and stops redialing. Registered subscriptions
// stay registered and are rejoined by the next Subscribe.
func (c *RealtimeClient) Close() error {
	c.mu.Lock()
	c.closed = true
	if c.stopRedial != nil {
		c.stopRedial()
		c.stopRedial = nil
	}
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	return c.closeConn(conn)
}

func (c *RealtimeClient) connectLocked(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}

	conn, resp, err := c.dialer.DialContext(ctx, c.url, c.header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return err
	}

	done := make(chan struct{})
	c.conn = conn
	c.done = done

	rejoin := make([]realtimeMessage, 0, len(c.channels))
	for _, sub := range c.channels {
		rejoin = append(rejoin, sub.joinMessage(c.nextRef()))
	}

	go c.readLoop(conn, done)
	go c.heartbeatLoop(conn, done)
	if len(rejoin) > 0 {
		go func() {
			for _, msg := range rejoin {
				if err := c.write(conn, msg); err != nil {
					c.logger.Err(err).Str("func", "RealtimeClient.connect").Str("topic", msg.Topic).Msg("error rejoining realtime channel")
					return
				}
			}
		}()
	}
	return nil
}

func (c *RealtimeClient) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer c.drop(conn, done)

	for {
		var msg realtimeMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) || errors.Is(err, net.ErrClosed) {
				c.logger.Debug().Str("func", "RealtimeClient.readLoop").Msg("realtime connection closed")
				return
			}
			c.logger.Err(err).Str("func", "RealtimeClient.readLoop").Msg("realtime connection lost")
			return
		}
		c.dispatch(msg)
	}
}

func (c *RealtimeClient) heartbeatLoop(conn *websocket.Conn, done chan struct{}) {
	ticker := time.NewTicker(c.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			msg := realtimeMessage{
				Topic:   heartbeatTopic,
				Event:   eventHeartbeat,
				Payload: json.RawMessage(`{}`),
				Ref:     c.nextRef(),
			}
			if err := c.write(conn, msg); err != nil {
				c.logger.Err(err).Str("func", "RealtimeClient.heartbeatLoop").Msg("error sending heartbeat")
				return
			}
		}
	}
}

func (c *RealtimeClient) dispatch(msg realtimeMessage) {
	switch msg.Event {
	case eventReply:
		var reply realtimeReply
		if err := json.Unmarshal(msg.Payload, &reply); err != nil {
			c.logger.Err(err).Str("func", "RealtimeClient.dispatch").Str("topic", msg.Topic).Msg("malformed reply")
			return
		}
		c.mu.Lock()
		ch, ok := c.pending[msg.Ref]
		delete(c.pending, msg.Ref)
		c.mu.Unlock()
		if ok {
			ch <- reply
		}

	case eventPostgresChanges:
		c.mu.Lock()
		sub := c.channels[msg.Topic]
		c.mu.Unlock()
		if sub == nil {
			return
		}
		var payload postgresChangesPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			c.logger.Err(err).Str("func", "RealtimeClient.dispatch").Str("topic", msg.Topic).Msg("malformed change payload")
			return
		}
		event := models.ChangeEvent{
			Type:      models.ParseEventType(payload.Data.Type),
			Table:     payload.Data.Table,
			Record:    payload.Data.Record,
			OldRecord: payload.Data.OldRecord,
		}
		if event.Table == "" {
			event.Table = sub.table
		}
		sub.deliver(event)

	case eventError, eventClose:
		c.logger.Warn().Str("func", "RealtimeClient.dispatch").Str("topic", msg.Topic).Str("event", msg.Event).Msg("realtime channel closed by server")
	}
}

func (c *RealtimeClient) drop(conn *websocket.Conn, done chan struct{}) {
	c.mu.Lock()
	current := c.conn == conn
	if current {
		c.conn = nil
		c.done = nil
		c.pending = make(map[string]chan realtimeReply)
	}
	redial := current && !c.closed && !c.reconnecting && len(c.channels) > 0
	var ctx context.Context
	if redial {
		c.reconnecting = true
		ctx, c.stopRedial = context.WithCancel(context.Background())
	}
	c.mu.Unlock()

	close(done)
	conn.Close()

	if redial {
		go c.reconnect(ctx)
	}
}

// reconnect redials until it succeeds, the client is closed or no channel
// is left to rejoin.
func (c *RealtimeClient) reconnect(ctx context.Context) {
	defer func() {
		c.mu.Lock()
		c.reconnecting = false
		if c.stopRedial != nil {
			c.stopRedial()
			c.stopRedial = nil
		}
		c.mu.Unlock()
	}()

	attempt := 0
	err := retry.Do(ctx, reconnectBackoff(c.reconnectDelay, c.maxReconnectDelay), func(ctx context.Context) error {
		attempt++
		dialCtx, cancel := context.WithTimeout(ctx, reconnectDialTimeout)
		defer cancel()

		c.mu.Lock()
		if c.closed || len(c.channels) == 0 || c.conn != nil {
			c.mu.Unlock()
			return nil
		}
		if err := c.connectLocked(dialCtx); err != nil {
			c.mu.Unlock()
			c.logger.Warn().Err(err).Str("func", "RealtimeClient.reconnect").Int("attempt", attempt).Msg("realtime redial failed")
			return retry.RetryableError(err)
		}
		subs := make([]*realtimeSubscription, 0, len(c.channels))
		for _, sub := range c.channels {
			subs = append(subs, sub)
		}
		c.mu.Unlock()

		c.logger.Info().Str("func", "RealtimeClient.reconnect").Int("attempt", attempt).Int("channels", len(subs)).Msg("realtime connection restored")
		for _, sub := range subs {
			sub.resync()
		}
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		c.logger.Err(err).Str("func", "RealtimeClient.reconnect").Msg("realtime redial stopped")
	}
}

func (c *RealtimeClient) leave(topic string) error {
	c.mu.Lock()
	delete(c.channels, topic)
	conn := c.conn
	idle := len(c.channels) == 0
	c.mu.Unlock()

	if conn == nil {
		return nil
	}

	err := c.write(conn, realtimeMessage{
		Topic:   topic,
		Event:   eventLeave,
		Payload: json.RawMessage(`{}`),
		Ref:     c.nextRef(),
	})
	if idle {
		c.mu.Lock()
		stillIdle := len(c.channels) == 0 && c.conn == conn
		c.mu.Unlock()
		if stillIdle {
			if closeErr := c.closeConn(conn); closeErr != nil && err == nil {
				err = closeErr
			}
		}
	}
	return err
}

// forget removes a channel whose join did not complete.
func (c *RealtimeClient) forget(topic, ref string) {
	c.mu.Lock()
	delete(c.channels, topic)
	delete(c.pending, ref)
	c.mu.Unlock()
}

func (c *RealtimeClient) closeConn(conn *websocket.Conn) error {
	c.writeMu.Lock()
	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(realtimeWriteTimeout),
	)
	c.writeMu.Unlock()
	return conn.Close()
}

func (c *RealtimeClient) write(conn *websocket.Conn, msg realtimeMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := conn.SetWriteDeadline(time.Now().Add(realtimeWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}

func (c *RealtimeClient) nextRef() string {
	return strconv.FormatUint(c.ref.Add(1), 10)
}

type realtimeSubscription struct {
	client   *RealtimeClient
	channel  string
	topic    string
	table    string
	filter   models.EventFilter
	onChange ChangeHandler

	closed atomic.Bool
	once   sync.Once
	err    error
}

func (s *realtimeSubscription) Channel() string {
	return s.channel
}

func (s *realtimeSubscription) Unsubscribe() error {
	s.once.Do(func() {
		s.closed.Store(true)
		s.err = s.client.leave(s.topic)
	})
	return s.err
}

func (s *realtimeSubscription) deliver(event models.ChangeEvent) {
	if s.closed.Load() || !s.filter.Matches(event.Type) {
		return
	}
	s.onChange(event)
}

// resync tells the handler that changes may have been missed.
func (s *realtimeSubscription) resync() {
	if s.closed.Load() {
		return
	}
	s.onChange(models.ChangeEvent{Type: models.EventUnspecified, Table: s.table})
}

func (s *realtimeSubscription) joinMessage(ref string) realtimeMessage {
	filter := string(s.filter)
	if filter == "" {
		filter = string(models.AllEvents)
	}
	payload, _ := json.Marshal(joinPayload{Config: joinConfig{
		PostgresChanges: []postgresChangesFilter{{Event: filter, Schema: "public", Table: s.table}},
	}})

	return realtimeMessage{
		Topic:   s.topic,
		Event:   eventJoin,
		Payload: payload,
		Ref:     ref,
	}
}
