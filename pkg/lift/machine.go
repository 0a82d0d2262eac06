package lift

// CommandKind identifies the actuator command issued during a tick.
type CommandKind int

const (
	CmdNone CommandKind = iota
	CmdCalibrate
	CmdDoor
	CmdMotion
)

// Command is the single actuator command a tick may issue.
type Command struct {
	Kind  CommandKind
	Door  DoorState
	Floor Floor
	Dir   Direction
	Speed Speed
}

// RequestOutcome records a button edge and what the queue made of it.
type RequestOutcome struct {
	Button Button
	Result EnqueueResult
}

// TickReport describes what one tick observed and did.
// TickReport는 한 틱 동안 관측하고 수행한 내용을 설명합니다.
type TickReport struct {
	Sensed  Floor
	Request *RequestOutcome
	From    State
	To      State
	Command Command
	Served  Floor // set on the OpenDoor -> Waiting transition, None otherwise
}

// Changed reports whether the tick moved the state machine.
func (r TickReport) Changed() bool { return r.From != r.To }

// Machine contains the pure request-scheduling and motion-control logic.
// Machine은 요청 스케쥴링과 운행 제어의 순수 로직을 포함합니다.
// No mutex, No channel, No time.
type Machine struct {
	State     State
	Position  Floor // last floor the sensor reported
	Target    Floor // floor being served, None when idle
	Direction Direction

	Queue    *RequestQueue
	Profiler *Profiler

	held ButtonCode // request buttons seen held and not yet seen released
}

// NewMachine creates a machine in the Uninitialized state.
func NewMachine(queueCapacity int, p Profile) *Machine {
	return &Machine{
		State:    Uninitialized,
		Position: None,
		Target:   None,
		Queue:    NewRequestQueue(queueCapacity),
		Profiler: NewProfiler(p),
	}
}

// Step runs one control-loop tick against hw: input sampling, queue update,
// state evaluation, display and output flush, in that order.
func (m *Machine) Step(hw Hardware) TickReport {
	report := TickReport{From: m.State, Served: None}

	// 1. Input sampling
	sensed := hw.ReadCabinPosition()
	report.Sensed = sensed
	if sensed.IsDestination() {
		m.Position = sensed
	}
	button, pressed := hw.ReadButton()

	// 2. Queue update
	if m.edge(button, pressed) && button.IsRequest() {
		report.Request = &RequestOutcome{Button: button, Result: m.request(hw, button)}
	}

	// 3. State evaluation
	report.Command = m.evaluate(hw, sensed, &report)
	report.To = m.State

	// 4. Display / output
	if sensed.Displayable() {
		hw.RenderDisplay(sensed)
	}
	hw.FlushOutputs()
	return report
}

// edge reports a newly pressed button; a held button registers once.
// Reads follow scan priority, so buttons above b are released while buttons
// below it may only be masked.
func (m *Machine) edge(b Button, pressed bool) bool {
	code := b.Code()
	if !pressed || code == CodeEmergency {
		m.held = 0
		return pressed
	}
	m.held &= code | (code - 1)
	isNew := m.held&code == 0
	m.held |= code
	return isNew
}

// request registers a floor request and asserts its indicator unless dropped.
func (m *Machine) request(hw Hardware, b Button) EnqueueResult {
	var result EnqueueResult
	if m.serving() && b.Floor == m.Target {
		result = Duplicate
	} else {
		result = m.Queue.Enqueue(b.Floor)
	}
	if result.Lit() {
		if b.Kind == CabinCall {
			hw.SetCabinIndicator(b.Floor)
		} else {
			hw.SetFloorIndicator(b.Floor)
		}
	}
	return result
}

// serving reports whether Target is an accepted request still in progress.
func (m *Machine) serving() bool {
	switch m.State {
	case CloseDoor, MoveLift, OpenDoor:
		return m.Target.IsDestination()
	}
	return false
}

func (m *Machine) evaluate(hw Hardware, sensed Floor, report *TickReport) Command {
	switch m.State {
	case Uninitialized:
		// 기준층(Floor0)으로 위치 보정
		if sensed != Floor0 {
			hw.CommandCalibrate()
			return Command{Kind: CmdCalibrate}
		}
		m.Target = Floor0
		m.State = OpenDoor

	case Waiting:
		floor, ok := m.Queue.Dequeue()
		if !ok {
			return Command{}
		}
		m.Target = floor
		dir, moving := DirectionOf(m.Position, floor)
		if !moving {
			// 현재 층 요청: 이동 없이 문 열림 처리
			m.State = OpenDoor
			return Command{}
		}
		m.Direction = dir
		m.Profiler.Begin(m.Position, floor)
		m.State = CloseDoor

	case CloseDoor:
		if hw.ReadDoorState(m.Position) != DoorClosed {
			hw.CommandDoor(DoorClosed, m.Position)
			return Command{Kind: CmdDoor, Door: DoorClosed, Floor: m.Position}
		}
		m.State = MoveLift

	case MoveLift:
		if sensed != m.Target {
			speed := m.Profiler.Next()
			hw.CommandMotion(m.Direction, speed)
			return Command{Kind: CmdMotion, Dir: m.Direction, Speed: speed}
		}
		m.Profiler.Reset()
		m.State = OpenDoor

	case OpenDoor:
		if hw.ReadDoorState(m.Target) != DoorOpen {
			hw.CommandDoor(DoorOpen, m.Target)
			return Command{Kind: CmdDoor, Door: DoorOpen, Floor: m.Target}
		}
		hw.ClearFloorIndicator(m.Target)
		hw.ClearCabinIndicator(m.Target)
		report.Served = m.Target
		m.Target = None
		m.State = Waiting

	case Trouble:
		// Fault handling is reserved.
	}
	return Command{}
}
