package lift

import "fmt"

// --- Domain Entities & Value Objects ---

// Floor is a cabin position in the building.
// Floor는 건물 내 캐빈 위치를 나타냅니다.
// Floor0..Floor3 are real destinations; None, Error and Test are sentinels
// used only for the display and for "no position sensed".
type Floor int

const (
	Floor0 Floor = iota
	Floor1
	Floor2
	Floor3

	None  Floor = -1 // 위치 미확인 (층 사이 또는 보정 중)
	Error Floor = -2 // 디스플레이 전용
	Test  Floor = -3 // 디스플레이 전용
)

// NumFloors is the number of served floors.
const NumFloors = 4

// Floors lists every real destination in ascending order.
var Floors = [NumFloors]Floor{Floor0, Floor1, Floor2, Floor3}

// IsDestination reports whether f is a real floor.
func (f Floor) IsDestination() bool {
	return f >= Floor0 && f <= Floor3
}

// Displayable reports whether the 7-segment display accepts f.
// Displayable은 7세그먼트 디스플레이가 표시할 수 있는 값인지 확인합니다.
func (f Floor) Displayable() bool {
	return f.IsDestination() || f == Error || f == Test
}

func (f Floor) String() string {
	switch f {
	case None:
		return "None"
	case Error:
		return "Error"
	case Test:
		return "Test"
	}
	if f.IsDestination() {
		return fmt.Sprintf("Floor%d", int(f))
	}
	return fmt.Sprintf("Floor(%d)", int(f))
}

// ButtonKind tells which panel a button belongs to.
// ButtonKind는 버튼이 속한 패널(캐빈/층)을 구분합니다.
type ButtonKind int

const (
	CabinCall ButtonKind = iota // 캐빈 내부 목적지 버튼
	FloorCall                   // 승강장 호출 버튼
	Emergency                   // 비상 버튼
)

func (k ButtonKind) String() string {
	return [...]string{"Cabin", "Floor", "Emergency"}[k]
}

// Button identifies a physical button. Floor is meaningless for Emergency.
type Button struct {
	Kind  ButtonKind
	Floor Floor
}

// CabinButton returns the cabin-call button for f.
func CabinButton(f Floor) Button { return Button{Kind: CabinCall, Floor: f} }

// FloorButton returns the floor-call button for f.
func FloorButton(f Floor) Button { return Button{Kind: FloorCall, Floor: f} }

// EmergencyButton is the emergency stop button.
var EmergencyButton = Button{Kind: Emergency, Floor: None}

// IsRequest reports whether b asks for service at a real floor.
func (b Button) IsRequest() bool {
	return (b.Kind == CabinCall || b.Kind == FloorCall) && b.Floor.IsDestination()
}

func (b Button) String() string {
	if b.Kind == Emergency {
		return "Emergency"
	}
	return b.Kind.String() + "/" + b.Floor.String()
}

// Direction indicates the vertical movement vector.
// Direction은 수직 이동 벡터를 나타냅니다.
type Direction string

const (
	DirUp   Direction = "Up"
	DirDown Direction = "Down"
)

// DirectionOf derives the travel direction from the sign of to - from.
// ok is false for a zero-distance trip.
func DirectionOf(from, to Floor) (Direction, bool) {
	switch {
	case to > from:
		return DirUp, true
	case to < from:
		return DirDown, true
	}
	return "", false
}

// Speed is the actuation intensity of the cabin drive.
// Speed는 캐빈 구동 강도입니다. 값이 클수록 빠릅니다.
type Speed int

const (
	Stop Speed = iota
	Slow
	Medium
	Fast
)

func (s Speed) String() string {
	if s < Stop || s > Fast {
		return fmt.Sprintf("Speed(%d)", int(s))
	}
	return [...]string{"Stop", "Slow", "Medium", "Fast"}[s]
}

// DoorState represents the physical state of a landing door.
// DoorState는 승강장 문의 물리 상태를 나타냅니다.
type DoorState string

const (
	DoorOpen      DoorState = "Open"
	DoorClosed    DoorState = "Closed"
	DoorInTransit DoorState = "InTransit"
)

// State is the controller state machine state.
// State는 제어기 상태 머신의 현재 상태입니다.
type State int

const (
	Uninitialized State = iota // 위치 보정 중
	Waiting                    // 요청 대기
	CloseDoor                  // 문 닫는 중
	MoveLift                   // 이동 중
	OpenDoor                   // 문 여는 중
	Trouble                    // 고장 (예약)
)

func (s State) String() string {
	if s < Uninitialized || s > Trouble {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return [...]string{"Uninitialized", "Waiting", "CloseDoor", "MoveLift", "OpenDoor", "Trouble"}[s]
}
