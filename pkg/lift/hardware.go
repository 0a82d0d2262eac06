package lift

// Hardware is the platform boundary the controller drives.
// Hardware는 제어기가 사용하는 플랫폼 경계입니다.
// All reads return the last sensed value without blocking. All commands are
// fire-and-forget and idempotent when repeated with the same arguments.
type Hardware interface {
	// ReadButton returns the highest-priority pressed button, if any.
	ReadButton() (Button, bool)
	// ReadCabinPosition returns the sensed floor, or None between floors.
	ReadCabinPosition() Floor
	ReadDoorState(floor Floor) DoorState

	CommandDoor(state DoorState, floor Floor)
	CommandMotion(dir Direction, speed Speed)
	CommandCalibrate()

	SetCabinIndicator(floor Floor)
	ClearCabinIndicator(floor Floor)
	SetFloorIndicator(floor Floor)
	ClearFloorIndicator(floor Floor)

	// RenderDisplay shows value; anything but Floor0..Floor3, Error and Test is ignored.
	RenderDisplay(value Floor)
	// FlushOutputs commits buffered outputs once per tick.
	FlushOutputs()
}

// ButtonCode is the raw single-bit identifier of a button on the panel port.
// Cabin buttons occupy the low nibble, floor buttons the high nibble.
type ButtonCode uint8

const (
	CodeCabinF0 ButtonCode = 1 << iota
	CodeCabinF1
	CodeCabinF2
	CodeCabinF3
	CodeFloorF0
	CodeFloorF1
	CodeFloorF2
	CodeFloorF3

	// CodeEmergency doubles as the "nothing pressed" marker of a raw scan.
	CodeEmergency ButtonCode = 0
)

// Button converts a raw code into its tagged form.
// Codes that do not name exactly one call button map to EmergencyButton.
func (c ButtonCode) Button() Button {
	for i, f := range Floors {
		switch c {
		case CodeCabinF0 << i:
			return CabinButton(f)
		case CodeFloorF0 << i:
			return FloorButton(f)
		}
	}
	return EmergencyButton
}

// Code is the inverse of ButtonCode.Button.
func (b Button) Code() ButtonCode {
	if !b.IsRequest() {
		return CodeEmergency
	}
	switch b.Kind {
	case CabinCall:
		return CodeCabinF0 << uint(b.Floor)
	default:
		return CodeFloorF0 << uint(b.Floor)
	}
}

// ScanButtons walks the panel in priority order (floor buttons before cabin
// buttons, higher floors first) and returns the first pressed button.
// 우선순위 순서로 패널을 스캔하여 처음 눌린 버튼을 반환합니다.
func ScanButtons(pressed func(ButtonCode) bool) (Button, bool) {
	for code := CodeFloorF3; code >= CodeCabinF0; code >>= 1 {
		if pressed(code) {
			return code.Button(), true
		}
	}
	return EmergencyButton, false
}
