package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ayusman/mudra/internal/actuator"
	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/logging"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/tracker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "mudra: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel)
	log.Info().Msg("mudra starting")

	volume := actuator.NewVolume(cfg.PulseSink, cfg.ActuatorTimeout)
	brightness := actuator.NewBrightness(cfg.BrightnessFloor, cfg.ActuatorTimeout)
	for _, act := range []actuator.Actuator{volume, brightness} {
		if act.Available(context.Background()) {
			log.Info().Str("actuator", act.Name()).Msg("actuator available")
		} else {
			log.Warn().Str("actuator", act.Name()).Msg("actuator unavailable, its commands will be dropped")
		}
	}

	a := app.New(app.Config{
		CameraID:        cfg.CameraID,
		CameraFlip:      cfg.CameraFlip,
		MotionThreshold: cfg.MotionThreshold,
		IdleFPS:         cfg.IdleFPS,
		ActiveFPS:       cfg.ActiveFPS,
		IdleTimeout:     cfg.IdleTimeout,
		Tracker: tracker.Config{
			MaxHands:         cfg.MaxHands,
			MinConfidence:    cfg.MinDetectionConf,
			MinTrackingConf:  cfg.MinTrackingConf,
			MirrorHandedness: cfg.CameraFlip,
		},
		Claw:       cfg.ClawConfig(),
		Mapper:     cfg.MapperConfig(),
		Volume:     volume,
		Brightness: brightness,
	}, log)

	if err := a.Start(); err != nil {
		log.Fatal().Err(err).Msg("could not start pipeline")
	}
	defer a.Stop()
	a.SetEnabled(true)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.New(server.Config{App: a, Camera: a.Camera()}, log),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http server shutdown error")
	}
}
