package lift

import "fmt"

// StepsPerFloor is the number of discrete position steps between two floors.
const StepsPerFloor = 16

// ProfileMode names a speed profile preset.
type ProfileMode string

const (
	ProfileFixed     ProfileMode = "fixed"     // 단일 속도
	ProfileBands     ProfileMode = "bands"     // 거리 기반 3단 속도
	ProfileTrapezoid ProfileMode = "trapezoid" // 사다리꼴 가감속
)

// Profile shapes the speed over a trip.
// Profile은 이동 구간의 속도 형태를 정의합니다.
// Within SlowZone steps of either end of the trip the cabin runs Slow, within
// MediumZone steps Medium, and Cruise elsewhere. Zero-width zones give a
// single-speed profile.
type Profile struct {
	Mode       ProfileMode
	SlowZone   int
	MediumZone int
	Cruise     Speed
}

// ProfileFor returns the preset for mode.
func ProfileFor(mode ProfileMode) (Profile, error) {
	switch mode {
	case ProfileFixed:
		return Profile{Mode: ProfileFixed, Cruise: Fast}, nil
	case ProfileBands:
		return Profile{Mode: ProfileBands, SlowZone: 2, MediumZone: 5, Cruise: Fast}, nil
	case ProfileTrapezoid, "":
		return Profile{Mode: ProfileTrapezoid, SlowZone: 4, MediumZone: 8, Cruise: Fast}, nil
	}
	return Profile{}, fmt.Errorf("unknown profile mode %q", mode)
}

// Validate checks that the zones are ordered and the cruise speed moves the cabin.
func (p Profile) Validate() error {
	if p.SlowZone < 0 || p.MediumZone < p.SlowZone {
		return fmt.Errorf("invalid profile zones: slow=%d medium=%d", p.SlowZone, p.MediumZone)
	}
	if p.Cruise < Slow || p.Cruise > Fast {
		return fmt.Errorf("invalid cruise speed %v", p.Cruise)
	}
	return nil
}

// SpeedAt returns the speed for a cabin that has done stepsDone steps and has
// stepsToGoal steps left.
func (p Profile) SpeedAt(stepsDone, stepsToGoal int) Speed {
	switch {
	case stepsDone < p.SlowZone || stepsToGoal < p.SlowZone:
		return Slow
	case stepsDone < p.MediumZone || stepsToGoal < p.MediumZone:
		return Medium
	}
	return p.Cruise
}

// Progress is the motion bookkeeping of the active trip.
type Progress struct {
	StepsDone   int
	StepsToGoal int
	StepCounter int
}

// Profiler turns a trip into one speed decision per tick.
// Profiler는 이동 구간을 틱 단위 속도 결정으로 변환합니다.
// No mutex, No channel, No time.
type Profiler struct {
	profile Profile
	Progress
}

// NewProfiler creates a profiler for p.
func NewProfiler(p Profile) *Profiler {
	return &Profiler{profile: p}
}

// Profile returns the configured profile.
func (p *Profiler) Profile() Profile { return p.profile }

// Begin starts a trip between two floors.
func (p *Profiler) Begin(from, to Floor) {
	dist := int(to - from)
	if dist < 0 {
		dist = -dist
	}
	p.Progress = Progress{StepsToGoal: dist * StepsPerFloor}
}

// Reset clears the trip, e.g. once the target is reached.
func (p *Profiler) Reset() {
	p.Progress = Progress{}
}

// Next returns the speed for this tick and advances the step bookkeeping.
// A step completes after as many ticks as the numeric value of its speed.
// Once StepsToGoal reaches zero it stays there and the cabin creeps at the
// profile's end speed until the floor sensor confirms arrival.
func (p *Profiler) Next() Speed {
	speed := p.profile.SpeedAt(p.StepsDone, p.StepsToGoal)
	if p.StepsToGoal == 0 {
		return speed
	}
	p.StepCounter++
	if p.StepCounter >= ticksPerStep(speed) {
		p.StepsToGoal--
		p.StepsDone++
		p.StepCounter = 0
	}
	return speed
}

func ticksPerStep(s Speed) int {
	if s < Slow {
		return 1
	}
	return int(s)
}
