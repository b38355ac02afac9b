package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/roadeye/dashcam/internal/logging"
)

// DefaultConnectTimeout bounds how long Connect waits for the channel
// to become ready.
const DefaultConnectTimeout = 5 * time.Second

// Client owns the Disconnected/Connected state machine of one outbound
// gRPC channel. The zero state is Disconnected.
type Client struct {
	addr           string
	log            *logging.Logger
	connectTimeout time.Duration

	mu   sync.Mutex
	conn *grpc.ClientConn
}

// ClientOption adjusts client construction.
type ClientOption func(*Client)

// WithConnectTimeout overrides the bounded ready-wait used by Connect.
func WithConnectTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.connectTimeout = d }
}

// NewClient builds a disconnected client for addr (host:port). The
// address must be non-empty; nothing is dialed until Connect.
func NewClient(addr string, log *logging.Logger, opts ...ClientOption) (*Client, error) {
	if addr == "" {
		return nil, ErrEmptyAddress
	}

	c := &Client{
		addr:           addr,
		log:            log,
		connectTimeout: DefaultConnectTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Connect establishes the channel and waits, bounded by the connect
// timeout, until it reports ready. On timeout or channel failure the
// channel is released and the client stays Disconnected.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return ErrAlreadyConnected
	}

	conn, err := grpc.NewClient(c.addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		c.log.ErrorWith().Err(err).Str("address", c.addr).Msg("failed to create channel")
		return fmt.Errorf("creating channel to %s: %w", c.addr, err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, c.connectTimeout)
	defer cancel()

	conn.Connect()
	for {
		state := conn.GetState()
		if state == connectivity.Ready {
			break
		}
		if !conn.WaitForStateChange(waitCtx, state) {
			_ = conn.Close()
			c.log.WarnWith().
				Str("address", c.addr).
				Str("state", state.String()).
				Dur("timeout", c.connectTimeout).
				Msg("channel not ready before deadline")
			return fmt.Errorf("connecting to %s: %w", c.addr, waitCtx.Err())
		}
	}

	c.conn = conn
	c.log.InfoWith().Str("address", c.addr).Msg("client connected")
	return nil
}

// IsConnected re-checks live channel health rather than a cached flag,
// so a lost peer reads as disconnected even before Disconnect is
// called.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil && c.conn.GetState() == connectivity.Ready
}

// Disconnect releases the channel. It is idempotent; disconnecting a
// disconnected client is a no-op.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}

	err := c.conn.Close()
	c.conn = nil
	if err != nil {
		return fmt.Errorf("closing channel to %s: %w", c.addr, err)
	}
	c.log.InfoWith().Str("address", c.addr).Msg("client disconnected")
	return nil
}

// Conn exposes the live channel for issuing RPCs, or nil while
// Disconnected.
func (c *Client) Conn() *grpc.ClientConn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}

// Target returns the configured endpoint address.
func (c *Client) Target() string {
	return c.addr
}
