// Package socketio publishes run snapshots to a socket.io server, so a
// remote dashboard can follow runs live.
package socketio

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/scripthub/internal/ctxlog"
	"github.com/specialistvlad/scripthub/internal/executor"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultEvent is the event name snapshots are emitted under.
const DefaultEvent = "run_state"

const defaultConnectTimeout = 15 * time.Second

// Config describes the socket.io endpoint.
type Config struct {
	URL                string
	Namespace          string
	Event              string
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
}

// Publisher is an executor.Observer that emits every snapshot as one event.
type Publisher struct {
	ctx        context.Context
	event      string
	emit       func(event string, data any)
	disconnect func()
}

var _ executor.Observer = (*Publisher)(nil)

// Connect dials the server and waits for the connection to be established.
func Connect(ctx context.Context, cfg Config) (*Publisher, error) {
	if cfg.URL == "" {
		return nil, errors.New("socket.io url is required")
	}
	logger := ctxlog.FromContext(ctx).With("observer", "socketio", "url", cfg.URL)
	logger.Info("Connecting run state publisher...")

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("failed to parse URL: %q has no scheme or host", cfg.URL)
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(cfg.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Successfully connected", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err, _ := errs[0].(error)
		if err == nil {
			err = fmt.Errorf("%v", errs[0])
		}
		connectChan <- err
	})

	io.Connect()

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection")
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", timeout)
	}

	return newPublisher(ctx, cfg.Event,
		func(event string, data any) { io.Emit(event, data) },
		func() {
			logger.Debug("Disconnecting socket client", "sid", io.Id())
			io.Disconnect()
		},
	), nil
}

func newPublisher(ctx context.Context, event string, emit func(string, any), disconnect func()) *Publisher {
	if event == "" {
		event = DefaultEvent
	}
	return &Publisher{ctx: ctx, event: event, emit: emit, disconnect: disconnect}
}

// Publish implements executor.Observer.
func (p *Publisher) Publish(s executor.Snapshot) {
	data, err := payload(s)
	if err != nil {
		ctxlog.FromContext(p.ctx).Error("Cannot encode run state.", "run_id", s.RunID, "error", err)
		return
	}
	p.emit(p.event, data)
}

// Close disconnects from the server.
func (p *Publisher) Close() error {
	if p.disconnect != nil {
		p.disconnect()
	}
	return nil
}

// payload converts a snapshot into the generic map the client serializes.
func payload(s executor.Snapshot) (map[string]any, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
