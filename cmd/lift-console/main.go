package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"go-lift-controller/pkg/config"
	"go-lift-controller/pkg/lift"
	"go-lift-controller/pkg/liftsim"

	"github.com/eiannone/keyboard"
	"github.com/joho/godotenv"
)

// Key bindings: 0-3 cabin calls, a/s/d/f floor calls for Floor0..Floor3,
// e emergency, Esc or Ctrl+C quits.
var cabinKeys = map[rune]lift.Floor{'0': lift.Floor0, '1': lift.Floor1, '2': lift.Floor2, '3': lift.Floor3}
var floorKeys = map[rune]lift.Floor{'a': lift.Floor0, 's': lift.Floor1, 'd': lift.Floor2, 'f': lift.Floor3}

func main() {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}
	cfg.InstallLogger()

	liftCfg, err := cfg.LiftConfig()
	if err != nil {
		log.Fatal(err)
	}
	hw, err := liftsim.New(cfg.SimConfig())
	if err != nil {
		log.Fatal(err)
	}
	controller, err := lift.New(liftCfg, hw)
	if err != nil {
		log.Fatal(err)
	}

	keys, err := keyboard.GetKeys(10)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		_ = keyboard.Close()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		if err := controller.Run(ctx); err != nil && err != context.Canceled {
			slog.Error("Controller run error", "error", err)
		}
	}()
	go printEvents(ctx, controller, hw)

	fmt.Println("0-3: cabin call | a/s/d/f: floor call | e: emergency | Esc: quit")

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-keys:
			if ev.Err != nil {
				slog.Error("Keyboard error", "error", ev.Err)
				return
			}
			if ev.Key == keyboard.KeyEsc || ev.Key == keyboard.KeyCtrlC {
				return
			}
			if b, ok := buttonFor(ev.Rune); ok {
				hw.Tap(b)
			}
		}
	}
}

func buttonFor(r rune) (lift.Button, bool) {
	if f, ok := cabinKeys[r]; ok {
		return lift.CabinButton(f), true
	}
	if f, ok := floorKeys[r]; ok {
		return lift.FloorButton(f), true
	}
	if r == 'e' {
		return lift.EmergencyButton, true
	}
	return lift.Button{}, false
}

// printEvents renders a one-line status whenever the controller reports a change.
func printEvents(ctx context.Context, c *lift.Controller, hw *liftsim.Hardware) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-c.Events():
			if ev.Type == lift.EventRequest || ev.Type == lift.EventArrived || ev.Type == lift.EventStateChange {
				snap, err := c.Snapshot()
				if err != nil {
					continue
				}
				lamps := hw.Lamps()
				fmt.Printf("[%s] %-13s pos=%-6s target=%-6s pending=%v display=%s cabin=%v floor=%v\n",
					ev.Timestamp.Format("15:04:05.000"), snap.State, snap.Position, snap.Target,
					snap.Pending, lamps.Display, lamps.Cabin, lamps.Floor)
			}
		}
	}
}
