package main

import (
	"flag"
	"log"

	"github.com/decker502/prizewheel/pkg/app"
	"github.com/decker502/prizewheel/pkg/config"
	"github.com/decker502/prizewheel/pkg/decision"
	"github.com/decker502/prizewheel/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging")
	configFlag  = flag.String("config", config.DefaultWheelConfigPath, "Wheel config (data/... is read from embedded files)")
	serverFlag  = flag.String("server", "", "Decision service URL (empty: local weighted selector)")
	actorFlag   = flag.String("actor", "local-player", "Actor ID sent to the decision and entitlement services")
	spinsFlag   = flag.Int("spins", decision.UnlimitedSpins, "Spins available to the local selector (-1: unlimited)")
	seedFlag    = flag.Uint64("seed", 0, "Local selector seed (0: time based)")
)

func main() {
	flag.Parse()

	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:         *verboseFlag,
		WheelConfigPath: *configFlag,
		ServerURL:       *serverFlag,
		ActorID:         *actorFlag,
		Spins:           *spinsFlag,
		Seed:            *seedFlag,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}
	defer gameApp.Close()

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("Prize Wheel")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}
}
