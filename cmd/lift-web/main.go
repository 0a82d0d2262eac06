package main

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"sync"

	"go-lift-controller/pkg/config"
	"go-lift-controller/pkg/lift"
	"go-lift-controller/pkg/liftsim"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
)

//go:embed static/*
var staticFiles embed.FS

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Message types
// 메시지 타입 정의
type ClientMessage struct {
	Action  string `json:"action"`
	Kind    string `json:"kind,omitempty"` // cabin | floor | emergency
	Floor   int    `json:"floor,omitempty"`
	Profile string `json:"profile,omitempty"`
}

type ServerMessage struct {
	Type      string      `json:"type"`
	EventType string      `json:"eventType,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp,omitempty"`
	State     *StateView  `json:"state,omitempty"`
}

// StateView is the JSON form of the controller and simulator status.
type StateView struct {
	ID         string   `json:"id"`
	State      string   `json:"state"`
	Position   string   `json:"position"`
	Target     string   `json:"target"`
	Direction  string   `json:"direction"`
	Profile    string   `json:"profile"`
	Pending    []string `json:"pending"`
	StepsDone  int      `json:"stepsDone"`
	StepsToGo  int      `json:"stepsToGoal"`
	Units      int      `json:"units"`
	Doors      []string `json:"doors"`
	CabinLamps []bool   `json:"cabinLamps"`
	FloorLamps []bool   `json:"floorLamps"`
	Display    string   `json:"display"`
}

// LiftSession manages a WebSocket connection with a simulated lift.
// LiftSession은 시뮬레이션 엘리베이터와의 WebSocket 연결을 관리합니다.
type LiftSession struct {
	conn *websocket.Conn
	cfg  config.AppConfig

	mu         sync.Mutex
	writeMu    sync.Mutex
	hw         *liftsim.Hardware
	controller *lift.Controller
	done       chan struct{}
	cancel     context.CancelFunc
}

func NewLiftSession(conn *websocket.Conn, cfg config.AppConfig) *LiftSession {
	return &LiftSession{
		conn: conn,
		cfg:  cfg,
		done: make(chan struct{}),
	}
}

func (s *LiftSession) HandleMessages() {
	slog.Info("Session started", "remote_addr", s.conn.RemoteAddr())
	defer func() {
		close(s.done)
		s.mu.Lock()
		if s.cancel != nil {
			s.cancel()
		}
		s.mu.Unlock()
		_ = s.conn.Close()
		slog.Info("Session ended", "remote_addr", s.conn.RemoteAddr())
	}()

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket read error", "error", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			slog.Warn("Failed to parse message", "error", err)
			continue
		}

		s.handleAction(msg)
	}
}

func (s *LiftSession) handleAction(msg ClientMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slog.Debug("Action received", "action", msg.Action, "payload", msg)

	switch msg.Action {
	case "init":
		s.initLift(msg.Profile)
	case "tap", "press", "release":
		if s.hw == nil {
			return
		}
		b, ok := parseButton(msg.Kind, msg.Floor)
		if !ok {
			slog.Warn("Unknown button", "kind", msg.Kind, "floor", msg.Floor)
			return
		}
		switch msg.Action {
		case "tap":
			s.hw.Tap(b)
		case "press":
			s.hw.Press(b)
		case "release":
			s.hw.Release(b)
		}
	case "stop":
		if s.cancel != nil {
			s.cancel()
		}
		s.hw, s.controller, s.cancel = nil, nil, nil
	case "getState":
		s.sendState()
	}
}

func parseButton(kind string, floor int) (lift.Button, bool) {
	f := lift.Floor(floor)
	switch kind {
	case "cabin":
		b := lift.CabinButton(f)
		return b, b.IsRequest()
	case "floor":
		b := lift.FloorButton(f)
		return b, b.IsRequest()
	case "emergency":
		return lift.EmergencyButton, true
	}
	return lift.Button{}, false
}

func (s *LiftSession) initLift(profile string) {
	// Stop existing lift if any
	if s.cancel != nil {
		s.cancel()
	}

	cfg := s.cfg
	if profile != "" {
		cfg.Controller.Profile = lift.ProfileMode(profile)
	}
	liftCfg, err := cfg.LiftConfig()
	if err != nil {
		slog.Error("Invalid lift config", "error", err)
		return
	}

	hw, err := liftsim.New(cfg.SimConfig())
	if err != nil {
		slog.Error("Failed to initialize simulator", "error", err)
		return
	}
	c, err := lift.New(liftCfg, hw)
	if err != nil {
		slog.Error("Failed to initialize controller", "error", err)
		return
	}
	s.hw, s.controller = hw, c

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	// 이벤트 구독 (stop 또는 재초기화 시 ctx 취소로 종료)
	go s.eventListener(ctx, c)

	go func() {
		if err := c.Run(ctx); err != nil && err != context.Canceled {
			slog.Error("Controller run error", "error", err)
		}
	}()

	slog.Info("Lift initialized", "id", liftCfg.ID, "profile", liftCfg.Profile.Mode)
	s.sendState()
}

// eventListener forwards c's events until the session ends or ctx, the
// lift's lifetime, is cancelled.
func (s *LiftSession) eventListener(ctx context.Context, c *lift.Controller) {
	eventCh := c.Events()
	for {
		select {
		case <-s.done:
			return
		case <-ctx.Done():
			return
		case event, ok := <-eventCh:
			if !ok {
				return
			}
			s.sendEvent(event)
			s.mu.Lock()
			if s.controller == c {
				s.sendState()
			}
			s.mu.Unlock()
		}
	}
}

// sendState must be called with s.mu held.
func (s *LiftSession) sendState() {
	if s.controller == nil {
		return
	}

	snap, err := s.controller.Snapshot()
	if err != nil {
		slog.Error("Snapshot failed", "error", err)
		return
	}
	sim := s.hw.Status()

	view := &StateView{
		ID:         snap.ID,
		State:      snap.State.String(),
		Position:   snap.Position.String(),
		Target:     snap.Target.String(),
		Direction:  string(snap.Direction),
		Profile:    string(snap.Profile),
		StepsDone:  snap.Progress.StepsDone,
		StepsToGo:  snap.Progress.StepsToGoal,
		Units:      sim.Units,
		CabinLamps: sim.Lamps.Cabin[:],
		FloorLamps: sim.Lamps.Floor[:],
		Display:    sim.Lamps.Display.String(),
	}
	for _, f := range snap.Pending {
		view.Pending = append(view.Pending, f.String())
	}
	for _, d := range sim.Doors {
		view.Doors = append(view.Doors, string(d))
	}

	s.writeJSON(ServerMessage{Type: "state", State: view})
}

func (s *LiftSession) sendEvent(event lift.Event) {
	msg := ServerMessage{
		Type:      "event",
		EventType: string(event.Type),
		Payload:   eventPayload(event),
		Timestamp: event.Timestamp.Format("15:04:05.000"),
	}
	s.writeJSON(msg)
}

func eventPayload(event lift.Event) interface{} {
	switch p := event.Payload.(type) {
	case lift.StateChangePayload:
		return map[string]string{"from": p.From.String(), "to": p.To.String()}
	case lift.RequestPayload:
		return map[string]string{"button": p.Button.String(), "result": p.Result.String()}
	case lift.Floor:
		return p.String()
	}
	return event.Payload
}

func (s *LiftSession) writeJSON(msg ServerMessage) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(msg); err != nil {
		slog.Error("Failed to write JSON message", "error", err)
	}
}

func main() {
	// .env is optional
	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded .env")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}
	cfg.InstallLogger()

	// Serve static files from embedded filesystem
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		log.Fatal(err)
	}

	http.Handle("/", http.FileServer(http.FS(staticFS)))
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("WebSocket upgrade failed", "error", err)
			return
		}
		NewLiftSession(conn, cfg).HandleMessages()
	})

	addr := ":" + cfg.Server.Port
	slog.Info("Starting lift web server", "addr", addr)
	slog.Info("Open http://localhost:" + cfg.Server.Port + " in your browser")

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal(err)
	}
}
