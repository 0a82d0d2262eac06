package liftsim

import (
	"testing"
	"time"

	"go-lift-controller/pkg/lift"
)

func newSim(t *testing.T, cfg Config) *Hardware {
	t.Helper()
	h, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return h
}

func newController(t *testing.T, hw lift.Hardware, mode lift.ProfileMode) *lift.Controller {
	t.Helper()
	profile, err := lift.ProfileFor(mode)
	if err != nil {
		t.Fatalf("ProfileFor: %v", err)
	}
	c, err := lift.New(lift.Config{
		ID:            "sim",
		TickInterval:  time.Millisecond,
		QueueCapacity: lift.DefaultQueueCapacity,
		Profile:       profile,
	}, hw)
	if err != nil {
		t.Fatalf("lift.New: %v", err)
	}
	return c
}

// tickUntil drives c until cond holds.
func tickUntil(t *testing.T, c *lift.Controller, limit int, cond func(lift.TickReport) bool) {
	t.Helper()
	for i := 0; i < limit; i++ {
		if cond(c.Tick()) {
			return
		}
	}
	t.Fatalf("Condition not reached after %d ticks (state %v)", limit, c.State())
}

func TestNew_InvalidConfig(t *testing.T) {
	cases := []Config{
		{UnitsPerFloor: 0, DoorTicks: 1},
		{UnitsPerFloor: 16, DoorTicks: 0},
		{UnitsPerFloor: 16, DoorTicks: 1, StartUnits: 100},
		{UnitsPerFloor: 16, DoorTicks: 1, StartUnits: -1},
	}
	for i, cfg := range cases {
		if _, err := New(cfg); err == nil {
			t.Errorf("Case %d: expected error for %+v", i, cfg)
		}
	}
}

func TestHardware_ButtonPriority(t *testing.T) {
	h := newSim(t, DefaultConfig())

	h.Press(lift.CabinButton(lift.Floor3))
	h.Press(lift.FloorButton(lift.Floor0))
	h.Press(lift.FloorButton(lift.Floor2))

	// Floor buttons first, higher floors first
	want := []lift.Button{lift.FloorButton(lift.Floor2), lift.FloorButton(lift.Floor0), lift.CabinButton(lift.Floor3)}
	for _, w := range want {
		b, ok := h.ReadButton()
		if !ok || b != w {
			t.Fatalf("Expected %v, got %v (ok=%v)", w, b, ok)
		}
		h.Release(w)
	}
	if _, ok := h.ReadButton(); ok {
		t.Error("Expected no button after release")
	}
}

func TestHardware_TapAndEmergency(t *testing.T) {
	h := newSim(t, DefaultConfig())

	h.Tap(lift.CabinButton(lift.Floor1))
	if b, ok := h.ReadButton(); !ok || b != lift.CabinButton(lift.Floor1) {
		t.Fatalf("Expected tapped button, got %v", b)
	}
	if _, ok := h.ReadButton(); ok {
		t.Error("Tap must last exactly one read")
	}

	h.Press(lift.EmergencyButton)
	if b, ok := h.ReadButton(); !ok || b != lift.EmergencyButton {
		t.Errorf("Expected emergency, got %v", b)
	}
	h.Release(lift.EmergencyButton)
}

func TestHardware_MotionLandsOnFloorMark(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StartUnits = 14
	h := newSim(t, cfg)

	h.CommandMotion(lift.DirUp, lift.Fast)
	h.FlushOutputs()
	if st := h.Status(); st.Units != 16 || st.Sensed != lift.Floor1 {
		t.Errorf("Expected to stop on the Floor1 mark, got units %d sensed %v", st.Units, st.Sensed)
	}

	h.CommandMotion(lift.DirUp, lift.Fast)
	h.FlushOutputs()
	if got := h.ReadCabinPosition(); got != lift.None {
		t.Errorf("Expected None between floors, got %v", got)
	}

	// Motion is only applied for the tick it was commanded.
	before := h.Status().Units
	h.FlushOutputs()
	if h.Status().Units != before {
		t.Error("Cabin moved without a motion command")
	}
}

func TestHardware_DoorInterlock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StartUnits = 16
	cfg.DoorTicks = 2
	h := newSim(t, cfg)

	for i := 0; i < 2; i++ {
		h.CommandDoor(lift.DoorOpen, lift.Floor1)
		h.FlushOutputs()
		if i == 0 && h.ReadDoorState(lift.Floor1) != lift.DoorInTransit {
			t.Errorf("Expected InTransit, got %v", h.ReadDoorState(lift.Floor1))
		}
	}
	if h.ReadDoorState(lift.Floor1) != lift.DoorOpen {
		t.Fatalf("Expected door open, got %v", h.ReadDoorState(lift.Floor1))
	}

	h.CommandMotion(lift.DirUp, lift.Slow)
	h.FlushOutputs()
	if h.Status().Units != 16 {
		t.Error("Cabin must not move with the door open")
	}

	// Door at another floor ignores commands
	h.CommandDoor(lift.DoorOpen, lift.Floor2)
	h.FlushOutputs()
	if h.ReadDoorState(lift.Floor2) != lift.DoorClosed {
		t.Error("Door must not move away from the cabin")
	}
}

func TestHardware_OutputsBuffered(t *testing.T) {
	h := newSim(t, DefaultConfig())

	h.SetCabinIndicator(lift.Floor2)
	h.RenderDisplay(lift.Floor1)
	if h.Lamps().Cabin[lift.Floor2] {
		t.Error("Lamp must not light before flush")
	}
	h.FlushOutputs()
	lamps := h.Lamps()
	if !lamps.Cabin[lift.Floor2] || lamps.Display != lift.Floor1 {
		t.Errorf("Expected committed outputs, got %+v", lamps)
	}

	h.RenderDisplay(lift.None)
	h.FlushOutputs()
	if h.Lamps().Display != lift.Floor1 {
		t.Error("Display must ignore None")
	}
	h.RenderDisplay(lift.Error)
	h.FlushOutputs()
	if h.Lamps().Display != lift.Error {
		t.Error("Display must accept Error")
	}
}

// End-to-end: calibration, then a cabin call for Floor2 (Scenario 1).
func TestEndToEnd_CabinCall(t *testing.T) {
	h := newSim(t, DefaultConfig())
	c := newController(t, h, lift.ProfileTrapezoid)

	tickUntil(t, c, 500, func(r lift.TickReport) bool { return r.To == lift.Waiting })
	if st := h.Status(); st.Sensed != lift.Floor0 || st.Doors[lift.Floor0] != lift.DoorOpen {
		t.Fatalf("Expected calibrated at Floor0 with door open, got %+v", st)
	}

	h.Tap(lift.CabinButton(lift.Floor2))
	c.Tick()
	if !h.Lamps().Cabin[lift.Floor2] {
		t.Error("Expected cabin lamp for Floor2")
	}

	var visited []lift.State
	tickUntil(t, c, 1000, func(r lift.TickReport) bool {
		if r.Changed() {
			visited = append(visited, r.To)
		}
		return r.Served == lift.Floor2
	})

	want := []lift.State{lift.MoveLift, lift.OpenDoor, lift.Waiting}
	if len(visited) != len(want) {
		t.Fatalf("Expected %v, got %v", want, visited)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, visited)
			break
		}
	}

	st := h.Status()
	if st.Sensed != lift.Floor2 || st.Lamps.Display != lift.Floor2 {
		t.Errorf("Expected cabin and display at Floor2, got %+v", st)
	}
	if st.Lamps.Cabin[lift.Floor2] {
		t.Error("Expected cabin lamp cleared")
	}
	if st.Doors[lift.Floor0] != lift.DoorClosed || st.Doors[lift.Floor2] != lift.DoorOpen {
		t.Errorf("Unexpected doors %v", st.Doors)
	}
}

// End-to-end: floor calls for Floor3 then Floor1 are served in order (Scenario 2).
func TestEndToEnd_FIFO(t *testing.T) {
	for _, mode := range []lift.ProfileMode{lift.ProfileFixed, lift.ProfileBands, lift.ProfileTrapezoid} {
		t.Run(string(mode), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.StartUnits = 0
			h := newSim(t, cfg)
			c := newController(t, h, mode)

			// Calibration at Floor0 goes straight to OpenDoor; the door takes a while.
			c.Tick()
			h.Tap(lift.FloorButton(lift.Floor3))
			c.Tick()
			h.Tap(lift.FloorButton(lift.Floor1))
			c.Tick()

			pending := c.Pending()
			if len(pending) != 2 || pending[0] != lift.Floor3 || pending[1] != lift.Floor1 {
				t.Fatalf("Expected pending [Floor3 Floor1], got %v", pending)
			}

			var served []lift.Floor
			tickUntil(t, c, 2000, func(r lift.TickReport) bool {
				if r.Served != lift.None {
					served = append(served, r.Served)
				}
				return len(served) == 3
			})
			if served[0] != lift.Floor0 || served[1] != lift.Floor3 || served[2] != lift.Floor1 {
				t.Errorf("Expected [Floor0 Floor3 Floor1], got %v", served)
			}
			lamps := h.Lamps()
			for _, f := range lift.Floors {
				if lamps.Floor[f] || lamps.Cabin[f] {
					t.Errorf("Lamp for %v still lit", f)
				}
			}
		})
	}
}
