// Package lift implements a tick-driven single-cabin lift controller.
// 이 패키지는 틱 기반 단일 캐빈 엘리베이터 제어기를 구현합니다.
// 요청 큐(FIFO), 속도 프로파일, 상태 머신으로 층별 운행을 제어합니다.
package lift

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tiendc/go-deepcopy"
	"github.com/xyproto/randomstring"
)

const defaultIDLength = 8

// EventType represents the category of a controller event.
// EventType는 제어기 이벤트의 카테고리를 나타냅니다.
type EventType string

const (
	EventStateChange EventType = "StateChange"
	EventFloorChange EventType = "FloorChange"
	EventRequest     EventType = "Request"
	EventArrived     EventType = "Arrived"
)

// Event carries the state change information.
// Event는 시스템 내에서 발생한 상태 변화 정보를 담고 있습니다.
type Event struct {
	Type      EventType
	Payload   interface{}
	Timestamp time.Time
}

// StateChangePayload carries detail for state transitions.
type StateChangePayload struct {
	From State
	To   State
}

// RequestPayload carries detail for button requests.
// RequestPayload는 버튼 요청의 세부 정보를 담고 있습니다.
type RequestPayload struct {
	Button Button
	Result EnqueueResult
}

// Config holds immutable configuration parameters.
// Config는 시스템 시작 시 설정되며, 런타임 중에 변경되지 않습니다.
type Config struct {
	ID            string
	TickInterval  time.Duration // 제어 루프 주기
	QueueCapacity int           // 대기 요청 최대 수
	Profile       Profile       // 속도 프로파일
	EventBuffer   int           // 이벤트 채널 버퍼 크기
}

// Status is a point-in-time view of the controller.
type Status struct {
	ID        string
	State     State
	Position  Floor
	Target    Floor
	Direction Direction
	Pending   []Floor
	Profile   ProfileMode
	Progress  Progress
	Ticks     uint64
}

// Controller runs the state machine against a Hardware adapter.
// Controller의 모든 상태 변경은 Mutex로 보호되며, 변경 사항은 Event 채널로 전파됩니다.
type Controller struct {
	mu     sync.RWMutex
	Config Config

	hw      Hardware
	machine *Machine
	ticks   uint64

	// --- Observability ---
	logger            *slog.Logger
	eventCh           chan Event
	droppedEventCount uint64
}

// New validates the configuration and creates a controller in the Uninitialized state.
// 잘못된 설정이 감지되면 즉시 에러를 반환합니다 (Fail Fast).
func New(config Config, hw Hardware) (*Controller, error) {
	if hw == nil {
		return nil, fmt.Errorf("invalid config: nil hardware")
	}
	if config.TickInterval <= 0 {
		return nil, fmt.Errorf("invalid config: TickInterval (%v) must be positive", config.TickInterval)
	}
	if config.QueueCapacity < 1 {
		return nil, fmt.Errorf("invalid config: QueueCapacity (%d) must be at least 1", config.QueueCapacity)
	}
	if err := config.Profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if config.ID == "" {
		config.ID = randomstring.EnglishFrequencyString(defaultIDLength)
	}
	if config.EventBuffer <= 0 {
		config.EventBuffer = 1000
	}

	c := &Controller{
		Config:  config,
		hw:      hw,
		machine: NewMachine(config.QueueCapacity, config.Profile),
		eventCh: make(chan Event, config.EventBuffer),
		logger:  slog.Default().With("id", config.ID),
	}

	c.logger.Info("Controller initialized",
		"tick", config.TickInterval,
		"capacity", config.QueueCapacity,
		"profile", config.Profile.Mode,
	)
	return c, nil
}

// State returns the current state safely.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.machine.State
}

// Pending returns the queued floors, oldest first.
// Pending은 대기 중인 층을 요청 순서대로 반환합니다.
func (c *Controller) Pending() []Floor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.machine.Queue.Items()
}

// DroppedEventCount returns diagnostic metric for channel health.
func (c *Controller) DroppedEventCount() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.droppedEventCount
}

// Events returns the read-only channel for state change notifications.
// Events는 상태 변경 알림을 위한 읽기 전용 채널을 반환합니다.
func (c *Controller) Events() <-chan Event {
	return c.eventCh
}

// Snapshot returns the controller status taken from a detached copy of the machine.
// Snapshot은 머신 전체를 복사한 뒤 잠금 밖에서 상태를 구성합니다.
func (c *Controller) Snapshot() (Status, error) {
	c.mu.RLock()
	machine := new(Machine)
	err := deepcopy.Copy(machine, c.machine)
	id, ticks := c.Config.ID, c.ticks
	c.mu.RUnlock()
	if err != nil {
		return Status{}, fmt.Errorf("snapshot: %w", err)
	}

	return Status{
		ID:        id,
		State:     machine.State,
		Position:  machine.Position,
		Target:    machine.Target,
		Direction: machine.Direction,
		Pending:   machine.Queue.Items(),
		Profile:   machine.Profiler.Profile().Mode,
		Progress:  machine.Profiler.Progress,
		Ticks:     ticks,
	}, nil
}

// publishEvent sends an event to the channel without blocking the loop.
// 채널이 가득 차면 이벤트를 버리고 메트릭을 증가시킵니다.
func (c *Controller) publishEvent(eventType EventType, payload interface{}) {
	event := Event{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	select {
	case c.eventCh <- event:
	default:
		c.droppedEventCount++
		if c.droppedEventCount%100 == 1 {
			c.logger.Error("Event Channel Saturated", "dropped", c.droppedEventCount, "type", eventType)
		}
	}
}

// Tick runs exactly one control-loop iteration.
// Tick은 제어 루프를 한 번 실행합니다.
func (c *Controller) Tick() TickReport {
	c.mu.Lock()
	defer c.mu.Unlock()

	prevPosition := c.machine.Position
	report := c.machine.Step(c.hw)
	c.ticks++

	if req := report.Request; req != nil {
		switch req.Result {
		case Accepted:
			c.logger.Info(req.Button.Kind.String()+" Call registered", "floor", req.Button.Floor)
		case Duplicate:
			c.logger.Debug("Call already registered", "floor", req.Button.Floor)
		case Full:
			c.logger.Warn("Call dropped: queue full", "floor", req.Button.Floor, "pending", c.machine.Queue.Items())
		}
		c.publishEvent(EventRequest, RequestPayload{Button: req.Button, Result: req.Result})
	}

	if c.machine.Position != prevPosition {
		c.publishEvent(EventFloorChange, c.machine.Position)
	}

	if report.Command.Kind == CmdMotion {
		c.logger.Debug("Moving", "dir", report.Command.Dir, "speed", report.Command.Speed,
			"steps_to_goal", c.machine.Profiler.StepsToGoal)
	}

	if report.Changed() {
		c.logger.Info("State changed", "from", report.From, "to", report.To,
			"floor", c.machine.Position, "target", c.machine.Target)
		c.publishEvent(EventStateChange, StateChangePayload{From: report.From, To: report.To})
	}

	if report.Served != None {
		c.logger.Info("Arrived at floor", "floor", report.Served)
		c.publishEvent(EventArrived, report.Served)
	}
	return report
}

// Run executes the control loop until ctx is cancelled.
// Run은 컨텍스트가 취소될 때까지 제어 루프를 실행합니다.
func (c *Controller) Run(ctx context.Context) error {
	c.logger.Info("Controller loop started")

	ticker := time.NewTicker(c.Config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Controller stopping (Context Cancelled)")
			return ctx.Err()
		case <-ticker.C:
			c.Tick()
		}
	}
}
