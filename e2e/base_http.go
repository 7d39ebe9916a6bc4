package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"village-chat/domain"
	"village-chat/infrastructure/api"
	"village-chat/infrastructure/transport/memory"
	"village-chat/observability"
	"village-chat/runtime"
	"village-chat/runtime/workers"
	"village-chat/sink"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
)

// Node is one chat node reachable over HTTP.
type Node struct {
	Name string
	URL  string
}

type BaseHTTPSuite struct {
	suite.Suite
	Config   Config
	Alice    Node
	Bob      Node
	teardown []func()
}

// SetupSuite loads the environment configuration and starts local nodes if needed.
func (s *BaseHTTPSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)

	if s.Config.AliceURL != "" && s.Config.BobURL != "" {
		s.Alice = Node{Name: s.Config.AliceName, URL: s.Config.AliceURL}
		s.Bob = Node{Name: s.Config.BobName, URL: s.Config.BobURL}
		return
	}

	hub := memory.NewHub()
	s.Alice = s.startLocalNode(hub, "node-alice", s.Config.AliceName)
	s.Bob = s.startLocalNode(hub, "node-bob", s.Config.BobName)
}

func (s *BaseHTTPSuite) TearDownSuite() {
	for i := len(s.teardown) - 1; i >= 0; i-- {
		s.teardown[i]()
	}
}

func (s *BaseHTTPSuite) startLocalNode(hub *memory.Hub, id, name string) Node {
	log := logs.GetLoggerFromLevel(slog.LevelInfo).With("node", name)
	monitoring := observability.NewMonitoringManager(log)
	metrics := observability.NewMetrics()
	orchestrator := runtime.NewOrchestrator(log, workers.NewSupervisor(log, 50*time.Millisecond),
		hub.NewTransport(id), name, domain.ModeBoth, 256, time.Second, 4096)
	stream := api.NewStream(log, orchestrator)
	orchestrator.Subscribe(sink.NewMetricsSink(monitoring, metrics, orchestrator.ConnectedCount))
	orchestrator.Subscribe(stream)
	server := httptest.NewServer(api.NewRouter(log, orchestrator, monitoring, metrics, stream))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = orchestrator.Start(ctx)
		close(done)
	}()

	s.teardown = append(s.teardown, func() {
		stream.Close()
		server.Close()
		orchestrator.Shutdown()
		cancel()
		<-done
	})
	return Node{Name: name, URL: server.URL}
}

// Step prints a colorized header for a scenario step.
func (s *BaseHTTPSuite) Step(t *testing.T, name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)
}

// Call sends a JSON request to node and decodes the response into out when non-nil.
func (s *BaseHTTPSuite) Call(node Node, method, path string, body, out any) int {
	t := s.T()
	var reader io.Reader
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, node.URL+path, reader)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err, "request to %s failed", node.Name)
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	line := strings.Builder{}
	fmt.Fprintf(&line, "HTTP %s %s%s [%d] in %v", method, node.Name, path, resp.StatusCode, time.Since(start))
	if s.Config.DebugJSON {
		fmt.Fprintf(&line, "\nREQUEST: %s\nRESPONSE: %s", raw, respBody)
	}
	t.Log(line.String())

	if out != nil && len(respBody) > 0 {
		s.Require().NoError(json.Unmarshal(respBody, out), "cannot decode %s", respBody)
	}
	return resp.StatusCode
}

// Transcript returns the node's transcript.
func (s *BaseHTTPSuite) Transcript(node Node) []domain.Message {
	var messages []domain.Message
	s.Require().Equal(http.StatusOK, s.Call(node, http.MethodGet, "/transcript", nil, &messages))
	return messages
}

// HasLine reports whether node's transcript contains text from sender.
func (s *BaseHTTPSuite) HasLine(node Node, sender, text string) bool {
	for _, m := range s.Transcript(node) {
		if m.Sender == sender && m.Text == text {
			return true
		}
	}
	return false
}

// Eventually polls cond until the configured timeout.
func (s *BaseHTTPSuite) Eventually(cond func() bool, msg string) {
	s.Require().Eventually(cond, s.Config.WaitTimeout, 50*time.Millisecond, msg)
}

// Dial opens the node's WebSocket stream.
func (s *BaseHTTPSuite) Dial(node Node) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(node.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	return conn
}
