package webtui

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newTestTerminal(t *testing.T, command func() (*exec.Cmd, error)) *httptest.Server {
	t.Helper()
	term, err := New(Config{Dir: "/tmp/tasks", Prefix: "terminal/", Command: command}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if term.Prefix() != "/terminal" {
		t.Fatalf("prefix=%q", term.Prefix())
	}
	srv := httptest.NewServer(term.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestNew_RejectsRootPrefix(t *testing.T) {
	if _, err := New(Config{Prefix: " / "}, nil); err == nil {
		t.Fatalf("expected error for root prefix")
	}
}

func TestPage(t *testing.T) {
	srv := newTestTerminal(t, nil)
	res, err := http.Get(srv.URL + "/terminal")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	b, _ := io.ReadAll(res.Body)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", res.StatusCode)
	}
	body := string(b)
	if !strings.Contains(body, `data-ws="/terminal/ws"`) || !strings.Contains(body, `data-dir="/tmp/tasks"`) {
		t.Fatalf("unexpected page:\n%s", body)
	}
}

func TestWS_EchoesThroughPTY(t *testing.T) {
	srv := newTestTerminal(t, func() (*exec.Cmd, error) {
		path, err := exec.LookPath("cat")
		if err != nil {
			return nil, err
		}
		return exec.Command(path), nil
	})

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/terminal/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"resize","cols":80,"rows":24}`)); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte("hello\n")); err != nil {
		t.Fatal(err)
	}

	var got strings.Builder
	deadline := time.Now().Add(5 * time.Second)
	_ = conn.SetReadDeadline(deadline)
	for !strings.Contains(got.String(), "hello") {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v (got %q)", err, got.String())
		}
		if mt == websocket.TextMessage && strings.HasPrefix(string(data), "failed to start session") {
			t.Skipf("pty unavailable: %s", data)
		}
		got.Write(data)
	}
}

func TestWS_CommandErrorIsReported(t *testing.T) {
	srv := newTestTerminal(t, func() (*exec.Cmd, error) {
		return nil, exec.ErrNotFound
	})
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/terminal/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "failed to start session") {
		t.Fatalf("unexpected message %q", data)
	}
}
