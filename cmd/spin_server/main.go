// Package main runs the prize wheel decision service.
//
// Usage:
//
//	go run ./cmd/spin_server [flags]
//
// Flags:
//
//	--addr <host:port>     Listen address (default ":8080")
//	--config <path>        Wheel config (default "data/wheel.yaml")
//	--spins <n>            Spins available to all actors (-1: unlimited)
//	--seed <n>             Selector seed (0: time based)
//	--redis <addr,...>     Redis address(es) for purchase entitlements (empty: no restrictions)
//	--redis-prefix <s>     Entitlement hash key prefix
//	--verbose              Enable verbose logging
//
// Endpoints:
//
//	POST /spin                     {"actorId": "..."} -> {"sliceIndex": n} or 204 when no spins are left
//	GET  /entitlements/{actorID}   {"purchasesRestricted": bool}
//	GET  /metrics                  Prometheus metrics
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/decker502/prizewheel/pkg/config"
	"github.com/decker502/prizewheel/pkg/decision"
	"github.com/decker502/prizewheel/pkg/remote"
	"golang.org/x/sync/errgroup"
)

var (
	addrFlag        = flag.String("addr", ":8080", "Listen address")
	configFlag      = flag.String("config", config.DefaultWheelConfigPath, "Wheel config file")
	spinsFlag       = flag.Int("spins", decision.UnlimitedSpins, "Spins available (-1: unlimited)")
	seedFlag        = flag.Uint64("seed", 0, "Selector seed (0: time based)")
	redisFlag       = flag.String("redis", "", "Comma separated Redis addresses for entitlements")
	redisPrefixFlag = flag.String("redis-prefix", remote.DefaultEntitlementKeyPrefix, "Entitlement hash key prefix")
	verboseFlag     = flag.Bool("verbose", false, "Enable verbose logging")
)

const shutdownTimeout = 5 * time.Second

func main() {
	flag.Parse()

	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	if err := run(); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("spin_server: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wheelConfig, err := config.LoadWheelConfig(*configFlag)
	if err != nil {
		return err
	}

	seed := *seedFlag
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	selector := decision.NewWeightedSelector(wheelConfig.RewardSlices(), seed)
	selector.SetSpins(*spinsFlag)

	deps := remote.ServerDeps{
		Decide: selector.Decide,
		Slices: wheelConfig.RewardSlices(),
	}

	if *redisFlag != "" {
		rdb, cleanup, err := remote.NewRedisClient(ctx, remote.RedisConfig{
			Addrs:        strings.Split(*redisFlag, ","),
			DialTimeout:  2 * time.Second,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		})
		if err != nil {
			return err
		}
		defer cleanup()
		deps.Entitlements = remote.NewRedisEntitlementSource(rdb, *redisPrefixFlag, time.Second)
	}

	srv := &http.Server{
		Addr:              *addrFlag,
		Handler:           remote.NewServer(deps).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("[SpinServer] Listening on %s (%d slices)", *addrFlag, wheelConfig.SliceCount())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Printf("[SpinServer] Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
