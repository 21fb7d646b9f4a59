package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BryanSouza91/RotorFC/config"
	"github.com/BryanSouza91/RotorFC/datalink"
	"github.com/BryanSouza91/RotorFC/flight"
	"github.com/BryanSouza91/RotorFC/kernel"
	"github.com/BryanSouza91/RotorFC/sitl"
)

func prefixed(prefix string) func(format string, args ...any) {
	return func(format string, args ...any) {
		log.Printf(prefix+" "+format, args...)
	}
}

func main() {
	cfgPath := flag.String("config", "", "config file (default $HOME/.config/rotorfc/config.toml)")
	writeCfg := flag.Bool("write-config", false, "write the default config file and exit")
	flag.Parse()

	if *cfgPath != "" {
		os.Setenv("ROTORFC_CONFIG", *cfgPath)
	}
	if *writeCfg {
		if err := config.WriteDefault(config.Path()); err != nil {
			log.Fatalf("write config: %v", err)
		}
		log.Printf("Wrote %s", config.Path())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	startup, err := kernel.ParseMode(cfg.Kernel.StartupMode)
	if err != nil {
		log.Fatalf("kernel.startup_mode: %v", err)
	}
	decoder, err := cfg.RC.Decoder()
	if err != nil {
		log.Fatalf("rc.protocol: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	uplink := datalink.NewUplink(datalink.DefaultUplinkQueue, prefixed("[UPLINK]"))
	var sinks []datalink.Sink

	if cfg.MQTT.Enabled {
		m := datalink.NewMQTT(datalink.MQTTConfig{
			Broker:        cfg.MQTT.Broker,
			Port:          cfg.MQTT.Port,
			ClientID:      cfg.MQTT.ClientID,
			Username:      cfg.MQTT.Username,
			Password:      cfg.MQTT.Password,
			UplinkTopic:   cfg.MQTT.UplinkTopic,
			DownlinkTopic: cfg.MQTT.DownlinkTopic,
		}, uplink)
		if err := m.Start(); err != nil {
			log.Fatalf("mqtt: %v", err)
		}
		defer m.Stop()
		sinks = append(sinks, m)
	}

	var httpServer *http.Server
	if cfg.Web.Addr != "" {
		hub := datalink.NewHub(uplink)
		go hub.Run(ctx)
		sinks = append(sinks, hub)

		mux := http.NewServeMux()
		mux.Handle("/ws", hub)
		httpServer = &http.Server{Addr: cfg.Web.Addr, Handler: mux}
		go func() {
			log.Printf("[WS] Serving telemetry on %s/ws", cfg.Web.Addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("HTTP server error: %v", err)
			}
		}()
	}

	simCfg := sitl.DefaultConfig()
	simCfg.TickHz = cfg.Kernel.TickHz
	simCfg.IMUHz = cfg.Sim.IMUHz
	simCfg.MagDivider = cfg.Sim.MagDivider
	simCfg.GPSHz = cfg.Sim.GPSHz
	simCfg.GPSLostAfter = cfg.Sim.GPSLostAfter()

	ap := flight.DefaultAutopilotConfig()
	ap.Dt = 1 / cfg.Kernel.TickHz

	opts := sitl.Options{
		Features:     kernel.BuildFeatures(),
		Sim:          simCfg,
		Link:         cfg.RC.Link(),
		Decoder:      decoder,
		Bypass:       cfg.Sim.BypassAHRS,
		AlignSamples: cfg.Sim.AlignerSamples,
		Autopilot:    ap,
		BootDelay:    500 * time.Millisecond,
		Datalink:     uplink,
		Telemetry:    datalink.NewDownlink(prefixed("[DOWNLINK]"), sinks...),
		ReportEvery:  cfg.Sim.ReportEvery,
		Logf:         prefixed("[KERNEL]"),
		StartupMode:  startup,
	}
	if cfg.Sim.LockStep {
		opts.Tick = sitl.LockStep{}
	}
	if cfg.RC.SerialPort == "" {
		script := demoFlight
		opts.Script = &script
	}
	r, err := sitl.NewRig(opts)
	if err != nil {
		log.Fatalf("kernel: %v", err)
	}

	if cfg.RC.SerialPort != "" {
		src, err := sitl.OpenSerial(cfg.RC.SerialPort, cfg.RC.BaudRate, r.Queue)
		if err != nil {
			log.Fatalf("rc: %v", err)
		}
		defer src.Close()
	}

	if err := r.Kernel.Init(); err != nil {
		var boot *kernel.BootError
		if errors.As(err, &boot) {
			log.Fatalf("[KERNEL] boot failed at %s: %v", boot.Step, boot.Err)
		}
		log.Fatalf("[KERNEL] boot failed: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- r.Kernel.Run(ctx) }()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigCh:
	case err := <-done:
		log.Fatalf("[KERNEL] stopped: %v", err)
	}

	log.Println("Shutting down...")
	cancel()
	if err := <-done; err != nil {
		log.Printf("[KERNEL] %v", err)
	}

	if httpServer != nil {
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
	}
	log.Println("Shutdown complete")
}
