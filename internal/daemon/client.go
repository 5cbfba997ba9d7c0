// internal/daemon/client.go
package daemon

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/tamzrod/daq-acquire/internal/protocol"
)

// ErrNoResponse means the daemon accepted the connection but never
// delivered a full response batch. Fatal: there is no client-side retry.
var ErrNoResponse = errors.New("daemon: no response received")

// Transport is the submit-and-wait contract the CLI depends on.
// One batch in flight at a time; responses arrive in command order.
type Transport interface {
	Submit(cmds []protocol.ControlCommand) ([]protocol.ControlResponse, error)
}

// Client speaks the control protocol over a single TCP connection.
type Client struct {
	conn    net.Conn
	timeout time.Duration
}

// Config is minimal transport config.
type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// New creates a connected control client.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("daemon client: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}

	conn, err := net.DialTimeout("tcp", cfg.Endpoint, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("daemon client: dial %s: %w", cfg.Endpoint, err)
	}

	return &Client{conn: conn, timeout: cfg.Timeout}, nil
}

// Close closes the TCP connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// Submit sends the batch and waits for one response per command.
// Commands are all encoded before anything is written, so a malformed
// batch never reaches the daemon partially. A dropped or short reply
// surfaces as ErrNoResponse.
func (c *Client) Submit(cmds []protocol.ControlCommand) ([]protocol.ControlResponse, error) {
	if c == nil || c.conn == nil {
		return nil, errors.New("daemon client: not connected")
	}
	if len(cmds) == 0 {
		return nil, errors.New("daemon client: empty command batch")
	}

	frames := make([][]byte, 0, len(cmds))
	for _, cmd := range cmds {
		f, err := protocol.EncodeCommand(cmd)
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}

	resps := make([]protocol.ControlResponse, 0, len(cmds))
	for _, f := range frames {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
		if err := writeAll(c.conn, f); err != nil {
			return nil, fmt.Errorf("daemon client: write: %w", err)
		}

		_ = c.conn.SetReadDeadline(time.Now().Add(c.timeout))
		resp, err := protocol.DecodeResponse(c.conn)
		if err != nil {
			if isNoResponse(err) {
				return nil, fmt.Errorf("%w: %v", ErrNoResponse, err)
			}
			return nil, fmt.Errorf("daemon client: read: %w", err)
		}
		resps = append(resps, resp)
	}

	return resps, nil
}

// isNoResponse classifies read failures that mean "the daemon went away"
// rather than "the daemon sent garbage".
func isNoResponse(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

func writeAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}
