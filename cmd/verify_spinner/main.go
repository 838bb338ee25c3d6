// Package main provides a headless verification tool for the prize wheel motion engine.
//
// Usage:
//
//	go run ./cmd/verify_spinner [flags]
//
// Flags:
//
//	--config <path>    Wheel config file (default "data/wheel.yaml")
//	--dt <seconds>     Simulated frame step (default 1/60)
//	--target <n>       Only verify this target slice (default 0: all)
//	--verbose          Enable verbose logging
//
// Purpose:
//   - Simulate a spin from every resting slice to every target slice
//   - Print the motion plan, crossing count and simulated duration
//   - Fail (exit 1) when a session does not land exactly on its target
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/decker502/prizewheel/pkg/components"
	"github.com/decker502/prizewheel/pkg/config"
	"github.com/decker502/prizewheel/pkg/decision"
	"github.com/decker502/prizewheel/pkg/ecs"
	"github.com/decker502/prizewheel/pkg/entities"
	"github.com/decker502/prizewheel/pkg/game"
	"github.com/decker502/prizewheel/pkg/systems"
	"github.com/decker502/prizewheel/pkg/utils"
)

var (
	configFlag  = flag.String("config", config.DefaultWheelConfigPath, "Wheel config file")
	dtFlag      = flag.Float64("dt", 1.0/60.0, "Simulated frame step in seconds")
	targetFlag  = flag.Int("target", 0, "Only verify this target slice (0: all)")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging")
)

// maxFrames 单次会话的模拟帧数上限
const maxFrames = 1_000_000

// sessionReport 一次模拟会话的结果
type sessionReport struct {
	start, target int
	plan          systems.SpinPlan
	crossings     int
	frames        int
	rotation      float64
	landed        int
}

func main() {
	flag.Parse()

	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.LoadWheelConfig(*configFlag)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if *dtFlag <= 0 {
		fmt.Printf("Error: --dt must be positive\n")
		os.Exit(1)
	}

	n := cfg.SliceCount()
	fmt.Printf("Wheel: %d slices, %.1f°/slice, speed %.1f°/s, minimumSpins %.0f, decayExtraRevolutions %.0f, dt %.4fs\n",
		n, utils.DegreesPerSlice(n), cfg.BaseAngularSpeed, cfg.MinimumSpins, cfg.DecayExtraRevolutions, *dtFlag)
	fmt.Printf("%-6s %-6s %-7s %-10s %-10s %-10s %-6s %-8s %s\n",
		"start", "target", "slices", "decay", "target°", "rotation", "ticks", "seconds", "result")

	failures := 0
	for start := 1; start <= n; start++ {
		for target := 1; target <= n; target++ {
			if *targetFlag != 0 && target != *targetFlag {
				continue
			}

			report, err := simulate(cfg, start, target, *dtFlag)
			if err != nil {
				fmt.Printf("Error: %d -> %d: %v\n", start, target, err)
				failures++
				continue
			}

			status := "OK"
			if report.landed != target || report.rotation != -report.plan.TargetAngle {
				status = fmt.Sprintf("FAIL (landed %d)", report.landed)
				failures++
			}
			fmt.Printf("%-6d %-6d %-7d %-10.1f %-10.1f %-10.1f %-6d %-8.2f %s\n",
				report.start, report.target, report.plan.SlicesToReward, report.plan.DistanceToReward,
				report.plan.TargetAngle, report.rotation, report.crossings,
				float64(report.frames)*(*dtFlag), status)
		}
	}

	if failures > 0 {
		fmt.Printf("\n%d session(s) failed\n", failures)
		os.Exit(1)
	}
	fmt.Printf("\nAll sessions landed on their target\n")
}

// simulate 把转盘静止在 start 扇区，然后转到 target 扇区
func simulate(cfg *config.WheelConfig, start, target int, dt float64) (sessionReport, error) {
	em := ecs.NewEntityManager()
	wheel, err := entities.NewSpinnerEntity(em, cfg, nil)
	if err != nil {
		return sessionReport{}, err
	}

	flipper := systems.NewFlipperSystem(em)
	spinner := systems.NewSpinnerSystem(em, wheel, flipper, nil, nil, decision.RunInline)
	defer spinner.Close()

	state, _ := ecs.GetComponent[*components.SpinnerComponent](em, wheel)
	state.ContainerRotation = -utils.SliceOffsetAngle(start, cfg.SliceCount())
	state.LastIndex = start

	plan, err := systems.PlanSpin(state.ContainerRotation, target, cfg)
	if err != nil {
		return sessionReport{}, err
	}

	report := sessionReport{start: start, target: target, plan: plan}
	spinner.Events().Subscribe(func(ev game.SpinEvent) {
		if ev.Type == game.SpinEventSliceCrossed {
			report.crossings++
		}
	})

	if err := spinner.ForceSpin(target); err != nil {
		return sessionReport{}, err
	}

	for spinner.IsSpinning() {
		if report.frames >= maxFrames {
			return sessionReport{}, fmt.Errorf("session did not finish within %d frames", maxFrames)
		}
		spinner.Update(dt)
		flipper.Update(dt)
		report.frames++
	}

	report.rotation = state.ContainerRotation
	report.landed = utils.CurrentSliceIndex(state.ContainerRotation, cfg.SliceCount())
	return report, nil
}
