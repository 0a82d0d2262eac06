// Package config loads the application configuration from YAML and the environment.
// 이 패키지는 YAML 파일과 환경 변수에서 설정을 읽어옵니다.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"go-lift-controller/pkg/lift"
	"go-lift-controller/pkg/liftsim"
)

// Environment variables that override the file.
const (
	EnvConfigPath = "LIFT_CONFIG"
	EnvPort       = "PORT"
	EnvLogLevel   = "LIFT_LOG_LEVEL"
	EnvProfile    = "LIFT_PROFILE"
	EnvID         = "LIFT_ID"
)

// AppConfig is the whole application configuration.
type AppConfig struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Controller ControllerConfig `yaml:"controller"`
	Simulator  SimulatorConfig  `yaml:"simulator"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// ControllerConfig mirrors lift.Config in file form.
type ControllerConfig struct {
	ID            string           `yaml:"id"`
	TickInterval  time.Duration    `yaml:"tickInterval"`
	QueueCapacity int              `yaml:"queueCapacity"`
	Profile       lift.ProfileMode `yaml:"profile"`
}

// SimulatorConfig mirrors liftsim.Config in file form.
type SimulatorConfig struct {
	UnitsPerFloor int `yaml:"unitsPerFloor"`
	DoorTicks     int `yaml:"doorTicks"`
	StartUnits    int `yaml:"startUnits"`
}

// Default returns the built-in configuration.
func Default() AppConfig {
	sim := liftsim.DefaultConfig()
	return AppConfig{
		Server: ServerConfig{Port: "8080"},
		Log:    LogConfig{Level: "info"},
		Controller: ControllerConfig{
			TickInterval:  50 * time.Millisecond,
			QueueCapacity: lift.DefaultQueueCapacity,
			Profile:       lift.ProfileTrapezoid,
		},
		Simulator: SimulatorConfig{
			UnitsPerFloor: sim.UnitsPerFloor,
			DoorTicks:     sim.DoorTicks,
			StartUnits:    sim.StartUnits,
		},
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
func Load(path string) (AppConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv loads the file named by LIFT_CONFIG and applies the environment overrides.
func FromEnv() (AppConfig, error) {
	cfg, err := Load(os.Getenv(EnvConfigPath))
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// ApplyEnv overrides fields from getenv; empty values are ignored.
func (c *AppConfig) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvPort); v != "" {
		c.Server.Port = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := getenv(EnvProfile); v != "" {
		c.Controller.Profile = lift.ProfileMode(v)
	}
	if v := getenv(EnvID); v != "" {
		c.Controller.ID = v
	}
}

// LiftConfig converts the controller section.
func (c AppConfig) LiftConfig() (lift.Config, error) {
	profile, err := lift.ProfileFor(c.Controller.Profile)
	if err != nil {
		return lift.Config{}, err
	}
	return lift.Config{
		ID:            c.Controller.ID,
		TickInterval:  c.Controller.TickInterval,
		QueueCapacity: c.Controller.QueueCapacity,
		Profile:       profile,
	}, nil
}

// SimConfig converts the simulator section.
func (c AppConfig) SimConfig() liftsim.Config {
	return liftsim.Config{
		UnitsPerFloor: c.Simulator.UnitsPerFloor,
		DoorTicks:     c.Simulator.DoorTicks,
		StartUnits:    c.Simulator.StartUnits,
	}
}

// LogLevel parses the log level (DEBUG, INFO, WARN, ERROR, optionally with an
// offset such as "INFO+2"); unknown names fall back to Info.
func (c AppConfig) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// InstallLogger sets the default slog logger at the configured level.
func (c AppConfig) InstallLogger() {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.LogLevel()})
	slog.SetDefault(slog.New(handler))
}
