package host

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// ErrNotConnected is returned by every primitive while no panel is
// attached to the bridge.
var ErrNotConnected = errors.New("host panel not connected")

// Bridge exposes the host application's timeline primitives over a
// localhost socket. The host-side panel dials in and executes, one at a
// time, the JSON-line requests the agent writes; each request is
// answered by exactly one JSON-line response carrying the same id.
//
// Only one panel connection is live at a time; a new connection
// replaces the previous one. Calls are serialized by a mutex, so there
// is never more than one request in flight.
type Bridge struct {
	timeout time.Duration
	logger  *slog.Logger

	ln net.Listener

	callMu sync.Mutex
	connMu sync.Mutex
	conn   *panelConn

	nextID atomic.Int64
}

type panelConn struct {
	conn net.Conn
	r    *bufio.Reader
}

type bridgeRequest struct {
	ID   int64  `json:"id"`
	Op   string `json:"op"`
	Args any    `json:"args,omitempty"`
}

type bridgeResponse struct {
	ID    int64           `json:"id"`
	OK    bool            `json:"ok"`
	Value json.RawMessage `json:"value,omitempty"`
	Error string          `json:"error,omitempty"`
}

type moveArgs struct {
	Seconds int `json:"seconds"`
	Frames  int `json:"frames"`
}

type itemArgs struct {
	Index int `json:"index"`
}

type selectedArgs struct {
	ExcludeBackground bool `json:"exclude_background"`
}

type reselectArgs struct {
	Indices []int `json:"indices"`
}

type undoArgs struct {
	Name string `json:"name"`
}

func NewBridge(timeout time.Duration, logger *slog.Logger) *Bridge {
	return &Bridge{timeout: timeout, logger: logger}
}

// Listen binds the bridge listener and starts accepting panel
// connections. addr must be a localhost address.
func (b *Bridge) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("bridge listen on %s: %w", addr, err)
	}
	b.ln = ln
	go b.acceptLoop()
	b.logger.Info("bridge listening", "addr", ln.Addr().String())
	return nil
}

// Addr returns the bound listener address, empty before Listen.
func (b *Bridge) Addr() string {
	if b.ln == nil {
		return ""
	}
	return b.ln.Addr().String()
}

func (b *Bridge) acceptLoop() {
	for {
		conn, err := b.ln.Accept()
		if err != nil {
			return
		}
		b.connMu.Lock()
		if b.conn != nil {
			b.conn.conn.Close()
		}
		b.conn = &panelConn{conn: conn, r: bufio.NewReader(conn)}
		b.connMu.Unlock()
		b.logger.Info("panel connected", "remote", conn.RemoteAddr().String())
	}
}

// Connected reports whether a panel is currently attached.
func (b *Bridge) Connected() bool {
	b.connMu.Lock()
	defer b.connMu.Unlock()
	return b.conn != nil
}

// Close shuts the listener and drops any live panel connection.
func (b *Bridge) Close() error {
	b.connMu.Lock()
	if b.conn != nil {
		b.conn.conn.Close()
		b.conn = nil
	}
	b.connMu.Unlock()
	if b.ln != nil {
		return b.ln.Close()
	}
	return nil
}

func (b *Bridge) current() *panelConn {
	b.connMu.Lock()
	defer b.connMu.Unlock()
	return b.conn
}

func (b *Bridge) drop(pc *panelConn) {
	b.connMu.Lock()
	if b.conn == pc {
		pc.conn.Close()
		b.conn = nil
		b.logger.Warn("panel connection dropped")
	}
	b.connMu.Unlock()
}

// call writes one request and reads its response. The per-call
// deadline is the sooner of the configured timeout and the context
// deadline. Any transport failure drops the connection: a half-read
// stream cannot be resynchronized.
func (b *Bridge) call(ctx context.Context, op string, args any) (json.RawMessage, error) {
	b.callMu.Lock()
	defer b.callMu.Unlock()

	pc := b.current()
	if pc == nil {
		return nil, ErrNotConnected
	}

	deadline := time.Now().Add(b.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := pc.conn.SetDeadline(deadline); err != nil {
		b.drop(pc)
		return nil, fmt.Errorf("%s: set deadline: %w", op, err)
	}

	req := bridgeRequest{ID: b.nextID.Add(1), Op: op, Args: args}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", op, err)
	}
	if _, err := pc.conn.Write(append(payload, '\n')); err != nil {
		b.drop(pc)
		return nil, fmt.Errorf("%s: write request: %w", op, err)
	}

	line, err := pc.r.ReadBytes('\n')
	if err != nil {
		b.drop(pc)
		return nil, fmt.Errorf("%s: read response: %w", op, err)
	}

	var resp bridgeResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		b.drop(pc)
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}
	if resp.ID != req.ID {
		b.drop(pc)
		return nil, fmt.Errorf("%s: response id %d for request %d", op, resp.ID, req.ID)
	}
	if !resp.OK {
		return nil, fmt.Errorf("%s: %s", op, resp.Error)
	}
	return resp.Value, nil
}

func (b *Bridge) FrameRate(ctx context.Context) (float64, error) {
	value, err := b.call(ctx, "getFrameRate", nil)
	if err != nil {
		return 0, err
	}
	var rate float64
	if err := json.Unmarshal(value, &rate); err != nil {
		return 0, fmt.Errorf("getFrameRate: decode value: %w", err)
	}
	if rate <= 0 {
		return 0, fmt.Errorf("getFrameRate: non-positive rate %v", rate)
	}
	return rate, nil
}

func (b *Bridge) PlayheadFrame(ctx context.Context) (float64, error) {
	value, err := b.call(ctx, "getPlayheadFrame", nil)
	if err != nil {
		return 0, err
	}
	var frame float64
	if err := json.Unmarshal(value, &frame); err != nil {
		return 0, fmt.Errorf("getPlayheadFrame: decode value: %w", err)
	}
	return frame, nil
}

func (b *Bridge) SelectedItems(ctx context.Context, excludeBackground bool) ([]int, error) {
	value, err := b.call(ctx, "getSelectedItems", selectedArgs{ExcludeBackground: excludeBackground})
	if err != nil {
		return nil, err
	}
	var indices []int
	if err := json.Unmarshal(value, &indices); err != nil {
		return nil, fmt.Errorf("getSelectedItems: decode value: %w", err)
	}
	return indices, nil
}

func (b *Bridge) ActivateItem(ctx context.Context, index int) error {
	_, err := b.call(ctx, "activateItem", itemArgs{Index: index})
	return err
}

func (b *Bridge) MoveInPoint(ctx context.Context, seconds, frames int) error {
	_, err := b.call(ctx, "moveInPoint", moveArgs{Seconds: seconds, Frames: frames})
	return err
}

func (b *Bridge) MoveOutPoint(ctx context.Context, seconds, frames int) error {
	_, err := b.call(ctx, "moveOutPoint", moveArgs{Seconds: seconds, Frames: frames})
	return err
}

func (b *Bridge) MoveWholeItem(ctx context.Context, seconds, frames int) error {
	_, err := b.call(ctx, "moveWholeItem", moveArgs{Seconds: seconds, Frames: frames})
	return err
}

func (b *Bridge) ReselectItems(ctx context.Context, indices []int) error {
	_, err := b.call(ctx, "reselectItems", reselectArgs{Indices: indices})
	return err
}

func (b *Bridge) BeginUndoGroup(ctx context.Context, name string) error {
	_, err := b.call(ctx, "beginUndoGroup", undoArgs{Name: name})
	return err
}

func (b *Bridge) EndUndoGroup(ctx context.Context) error {
	_, err := b.call(ctx, "endUndoGroup", nil)
	return err
}
