package host

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scriptedPanel answers bridge requests the way the host-side panel
// does, one JSON line per request.
func scriptedPanel(t *testing.T, conn net.Conn, handle func(op string, args json.RawMessage) (any, string)) {
	t.Helper()
	go func() {
		r := bufio.NewReader(conn)
		for {
			line, err := r.ReadBytes('\n')
			if err != nil {
				return
			}
			var req struct {
				ID   int64           `json:"id"`
				Op   string          `json:"op"`
				Args json.RawMessage `json:"args"`
			}
			if err := json.Unmarshal(line, &req); err != nil {
				return
			}
			value, errMsg := handle(req.Op, req.Args)
			resp := bridgeResponse{ID: req.ID, OK: errMsg == ""}
			if errMsg != "" {
				resp.Error = errMsg
			} else if value != nil {
				raw, _ := json.Marshal(value)
				resp.Value = raw
			}
			payload, _ := json.Marshal(resp)
			if _, err := conn.Write(append(payload, '\n')); err != nil {
				return
			}
		}
	}()
}

func startBridge(t *testing.T) *Bridge {
	t.Helper()
	b := NewBridge(2*time.Second, testLogger())
	if err := b.Listen("127.0.0.1:0"); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

func connectPanel(t *testing.T, b *Bridge, handle func(op string, args json.RawMessage) (any, string)) net.Conn {
	t.Helper()
	conn, err := net.Dial("tcp", b.Addr())
	if err != nil {
		t.Fatalf("dial bridge: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	scriptedPanel(t, conn, handle)

	deadline := time.Now().Add(2 * time.Second)
	for !b.Connected() {
		if time.Now().After(deadline) {
			t.Fatal("panel never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return conn
}

func TestBridge_NotConnected(t *testing.T) {
	b := startBridge(t)
	if _, err := b.FrameRate(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("got %v, want ErrNotConnected", err)
	}
}

func TestBridge_QueriesAndMoves(t *testing.T) {
	b := startBridge(t)

	var gotOps []string
	connectPanel(t, b, func(op string, args json.RawMessage) (any, string) {
		gotOps = append(gotOps, op)
		switch op {
		case "getFrameRate":
			return 29.97, ""
		case "getPlayheadFrame":
			return 120.0, ""
		case "getSelectedItems":
			var a selectedArgs
			json.Unmarshal(args, &a)
			if !a.ExcludeBackground {
				return nil, "expected exclude_background"
			}
			return []int{0, 1, 2}, ""
		case "moveOutPoint":
			var a moveArgs
			json.Unmarshal(args, &a)
			if a.Seconds != 0 || a.Frames != 14 {
				return nil, "unexpected move args"
			}
			return nil, ""
		default:
			return nil, ""
		}
	})

	ctx := context.Background()

	rate, err := b.FrameRate(ctx)
	if err != nil || rate != 29.97 {
		t.Errorf("FrameRate() = %v, %v", rate, err)
	}

	frame, err := b.PlayheadFrame(ctx)
	if err != nil || frame != 120.0 {
		t.Errorf("PlayheadFrame() = %v, %v", frame, err)
	}

	items, err := b.SelectedItems(ctx, true)
	if err != nil || len(items) != 3 {
		t.Errorf("SelectedItems() = %v, %v", items, err)
	}

	if err := b.MoveOutPoint(ctx, 0, 14); err != nil {
		t.Errorf("MoveOutPoint() error = %v", err)
	}

	if err := b.BeginUndoGroup(ctx, "Retime Clips"); err != nil {
		t.Errorf("BeginUndoGroup() error = %v", err)
	}

	want := []string{"getFrameRate", "getPlayheadFrame", "getSelectedItems", "moveOutPoint", "beginUndoGroup"}
	if len(gotOps) != len(want) {
		t.Fatalf("panel saw ops %v, want %v", gotOps, want)
	}
	for i := range want {
		if gotOps[i] != want[i] {
			t.Errorf("op %d = %q, want %q", i, gotOps[i], want[i])
		}
	}
}

func TestBridge_HostErrorPropagates(t *testing.T) {
	b := startBridge(t)
	connectPanel(t, b, func(op string, args json.RawMessage) (any, string) {
		return nil, "no timeline exists"
	})

	err := b.MoveInPoint(context.Background(), 0, -5)
	if err == nil {
		t.Fatal("expected host error")
	}
	// A host-reported failure keeps the connection usable.
	if !b.Connected() {
		t.Error("host error must not drop the connection")
	}
}

func TestBridge_DisconnectDropsConnection(t *testing.T) {
	b := startBridge(t)
	conn := connectPanel(t, b, func(op string, args json.RawMessage) (any, string) {
		return 30.0, ""
	})

	if _, err := b.FrameRate(context.Background()); err != nil {
		t.Fatalf("FrameRate() error = %v", err)
	}

	conn.Close()
	if _, err := b.FrameRate(context.Background()); err == nil {
		t.Fatal("expected transport error after panel disconnect")
	}
	if b.Connected() {
		t.Error("transport failure should drop the connection")
	}
}
