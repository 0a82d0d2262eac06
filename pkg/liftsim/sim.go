// Package liftsim provides an in-memory lift that implements lift.Hardware.
// 이 패키지는 lift.Hardware를 구현하는 메모리 내 엘리베이터 시뮬레이터입니다.
// 명령은 버퍼에 저장되고 FlushOutputs 호출 시 물리 상태에 반영됩니다.
package liftsim

import (
	"fmt"
	"log/slog"
	"sync"

	"go-lift-controller/pkg/lift"
)

// Config holds the simulated building geometry.
// Config는 시뮬레이션 건물의 기하 정보를 저장합니다.
type Config struct {
	UnitsPerFloor int // 층간 거리 (단위)
	DoorTicks     int // 문 열림/닫힘에 필요한 틱 수
	StartUnits    int // 시작 시 캐빈 위치 (Floor0 기준 단위)
}

// DefaultConfig returns the geometry used by the commands.
func DefaultConfig() Config {
	return Config{
		UnitsPerFloor: lift.StepsPerFloor,
		DoorTicks:     5,
		StartUnits:    lift.StepsPerFloor + lift.StepsPerFloor/2,
	}
}

// Lamps is the committed state of the indicator lamps and display.
type Lamps struct {
	Cabin   [lift.NumFloors]bool
	Floor   [lift.NumFloors]bool
	Display lift.Floor
}

// Status is a point-in-time view of the simulated hardware.
type Status struct {
	Units   int
	Sensed  lift.Floor
	Doors   [lift.NumFloors]lift.DoorState
	Lamps   Lamps
	Pressed []lift.Button
	Flushes uint64
}

type motionCmd struct {
	dir   lift.Direction
	speed lift.Speed
}

type doorCmd struct {
	state lift.DoorState
	floor lift.Floor
}

// Hardware is the simulated lift.
// Hardware의 모든 접근은 Mutex로 보호되어 UI 고루틴에서 버튼을 누를 수 있습니다.
type Hardware struct {
	mu     sync.Mutex
	config Config
	logger *slog.Logger

	// --- Physical state ---
	units     int
	doors     [lift.NumFloors]lift.DoorState
	doorTicks [lift.NumFloors]int

	// --- Inputs ---
	held       map[lift.ButtonCode]bool
	tapped     map[lift.ButtonCode]bool
	stop       bool
	stopTapped bool

	// --- Buffered outputs (committed on flush) ---
	motion    *motionCmd
	calibrate bool
	door      *doorCmd
	pending   Lamps
	committed Lamps
	flushes   uint64
}

// New validates the geometry and creates a simulator with every door closed.
func New(config Config) (*Hardware, error) {
	if config.UnitsPerFloor < 1 {
		return nil, fmt.Errorf("invalid config: UnitsPerFloor (%d) must be positive", config.UnitsPerFloor)
	}
	if config.DoorTicks < 1 {
		return nil, fmt.Errorf("invalid config: DoorTicks (%d) must be positive", config.DoorTicks)
	}
	if config.StartUnits < 0 || config.StartUnits > config.UnitsPerFloor*(lift.NumFloors-1) {
		return nil, fmt.Errorf("invalid config: StartUnits (%d) outside shaft", config.StartUnits)
	}

	h := &Hardware{
		config: config,
		logger: slog.Default().With("component", "liftsim"),
		units:  config.StartUnits,
		held:   make(map[lift.ButtonCode]bool),
		tapped: make(map[lift.ButtonCode]bool),
	}
	for i := range h.doors {
		h.doors[i] = lift.DoorClosed
	}
	h.pending.Display = lift.None
	h.committed.Display = lift.None
	return h, nil
}

// --- Operator inputs ---

// Press holds b down until Release.
func (h *Hardware) Press(b lift.Button) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if b.Kind == lift.Emergency {
		h.stop = true
		return
	}
	if code := b.Code(); code != lift.CodeEmergency {
		h.held[code] = true
	}
}

// Release lets go of b.
func (h *Hardware) Release(b lift.Button) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if b.Kind == lift.Emergency {
		h.stop = false
		return
	}
	delete(h.held, b.Code())
}

// Tap presses b for exactly one button read.
// Tap은 버튼을 한 번의 읽기 동안만 누릅니다.
func (h *Hardware) Tap(b lift.Button) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if b.Kind == lift.Emergency {
		h.stopTapped = true
		return
	}
	if code := b.Code(); code != lift.CodeEmergency {
		h.tapped[code] = true
	}
}

// --- lift.Hardware: sensing ---

func (h *Hardware) ReadButton() (lift.Button, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	b, ok := lift.ScanButtons(func(code lift.ButtonCode) bool {
		return h.held[code] || h.tapped[code]
	})
	if ok {
		delete(h.tapped, b.Code())
		return b, true
	}
	if h.stop || h.stopTapped {
		h.stopTapped = false
		return lift.EmergencyButton, true
	}
	return lift.EmergencyButton, false
}

func (h *Hardware) ReadCabinPosition() lift.Floor {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sensed()
}

func (h *Hardware) ReadDoorState(floor lift.Floor) lift.DoorState {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !floor.IsDestination() {
		return lift.DoorClosed
	}
	return h.doors[floor]
}

// sensed reports the aligned floor, or None between floors.
func (h *Hardware) sensed() lift.Floor {
	if h.units%h.config.UnitsPerFloor != 0 {
		return lift.None
	}
	return lift.Floor(h.units / h.config.UnitsPerFloor)
}

// --- lift.Hardware: actuators (buffered) ---

func (h *Hardware) CommandDoor(state lift.DoorState, floor lift.Floor) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.door = &doorCmd{state: state, floor: floor}
}

func (h *Hardware) CommandMotion(dir lift.Direction, speed lift.Speed) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.motion = &motionCmd{dir: dir, speed: speed}
}

func (h *Hardware) CommandCalibrate() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calibrate = true
}

func (h *Hardware) SetCabinIndicator(floor lift.Floor)   { h.setLamp(&h.pending.Cabin, floor, true) }
func (h *Hardware) ClearCabinIndicator(floor lift.Floor) { h.setLamp(&h.pending.Cabin, floor, false) }
func (h *Hardware) SetFloorIndicator(floor lift.Floor)   { h.setLamp(&h.pending.Floor, floor, true) }
func (h *Hardware) ClearFloorIndicator(floor lift.Floor) { h.setLamp(&h.pending.Floor, floor, false) }

func (h *Hardware) setLamp(bank *[lift.NumFloors]bool, floor lift.Floor, on bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if floor.IsDestination() {
		bank[floor] = on
	}
}

func (h *Hardware) RenderDisplay(value lift.Floor) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if value.Displayable() {
		h.pending.Display = value
	}
}

// FlushOutputs applies the buffered commands to the physical model and
// commits lamps and display.
// FlushOutputs는 버퍼된 명령을 물리 모델에 적용하고 램프와 디스플레이를 확정합니다.
func (h *Hardware) FlushOutputs() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.door != nil {
		h.applyDoor(*h.door)
	}
	if h.motion != nil {
		h.applyMotion(*h.motion)
	}
	if h.calibrate && h.units > 0 {
		h.move(-1)
	}

	h.committed = h.pending
	h.door, h.motion, h.calibrate = nil, nil, false
	h.flushes++
}

// applyDoor advances one door transition; doors only move at the aligned floor.
func (h *Hardware) applyDoor(cmd doorCmd) {
	if !cmd.floor.IsDestination() || h.sensed() != cmd.floor {
		h.logger.Debug("Door command ignored: cabin not at floor", "floor", cmd.floor)
		return
	}
	f := cmd.floor
	if h.doors[f] == cmd.state {
		return
	}
	if h.doors[f] != lift.DoorInTransit {
		h.doors[f] = lift.DoorInTransit
		h.doorTicks[f] = 0
	}
	h.doorTicks[f]++
	if h.doorTicks[f] >= h.config.DoorTicks {
		h.doors[f] = cmd.state
		h.doorTicks[f] = 0
	}
}

// applyMotion moves the cabin by the speed's value in units.
func (h *Hardware) applyMotion(cmd motionCmd) {
	if f := h.sensed(); f != lift.None && h.doors[f] != lift.DoorClosed {
		h.logger.Warn("Motion refused: door not closed", "floor", f, "door", h.doors[f])
		return
	}
	delta := int(cmd.speed)
	if cmd.dir == lift.DirDown {
		delta = -delta
	}
	h.move(delta)
}

// move shifts the cabin by delta units without skipping a floor mark.
func (h *Hardware) move(delta int) {
	u := h.config.UnitsPerFloor
	next := h.units + delta
	switch {
	case delta > 0:
		mark := (h.units/u + 1) * u
		if next > mark {
			next = mark
		}
	case delta < 0:
		mark := (h.units - 1) / u * u
		if h.units%u != 0 {
			mark = h.units / u * u
		}
		if next < mark {
			next = mark
		}
	}
	top := u * (lift.NumFloors - 1)
	if next < 0 {
		next = 0
	}
	if next > top {
		next = top
	}
	h.units = next
}

// --- Observers ---

// Lamps returns the committed lamp and display state.
func (h *Hardware) Lamps() Lamps {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.committed
}

// Status returns a snapshot of the simulator.
func (h *Hardware) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()

	var pressed []lift.Button
	for code := lift.CodeFloorF3; code >= lift.CodeCabinF0; code >>= 1 {
		if h.held[code] || h.tapped[code] {
			pressed = append(pressed, code.Button())
		}
	}
	if h.stop || h.stopTapped {
		pressed = append(pressed, lift.EmergencyButton)
	}
	return Status{
		Units:   h.units,
		Sensed:  h.sensed(),
		Doors:   h.doors,
		Lamps:   h.committed,
		Pressed: pressed,
		Flushes: h.flushes,
	}
}
