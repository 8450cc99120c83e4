package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quietpath/quietpath/internal/event"
	"github.com/quietpath/quietpath/internal/fingerprint"
	"github.com/quietpath/quietpath/internal/headers"
	"github.com/quietpath/quietpath/internal/httpx"
	"github.com/quietpath/quietpath/internal/metrics"
	"github.com/quietpath/quietpath/internal/orchestrator"
	"github.com/quietpath/quietpath/internal/proxy"
	"github.com/quietpath/quietpath/internal/risk"
	"github.com/quietpath/quietpath/internal/sink"
	"github.com/quietpath/quietpath/internal/tlsprofile"
	"github.com/quietpath/quietpath/pkg/config"
)

func buildSinks(outputs []string) []sink.Sink {
	var sinks []sink.Sink
	for _, name := range outputs {
		switch name {
		case "log":
			sinks = append(sinks, sink.NewLogSink())
		case "kafka":
			sinks = append(sinks, sink.NewKafkaSinkFromEnv())
		case "postgres":
			s, err := sink.NewPGSinkFromEnv()
			if err != nil {
				log.Printf("quietpath: postgres sink disabled: %v", err)
				continue
			}
			sinks = append(sinks, s)
		default:
			log.Printf("quietpath: unknown output %q, skipping", name)
		}
	}
	return sinks
}

func main() {
	testMode := flag.Bool("test-mode", false, "issue sample configurations against the sinks and exit")
	flag.Parse()

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sinks := buildSinks(cfg.Outputs)
	var started []sink.Sink
	for _, s := range sinks {
		if err := s.Start(ctx); err != nil {
			log.Printf("quietpath: sink %s failed to start: %v", s.Name(), err)
			continue
		}
		started = append(started, s)
	}

	assessor := risk.NewAssessor()
	m := metrics.NewMetrics(func() float64 { return float64(assessor.CacheSize()) })

	emit := func(ev event.Issued) {
		m.IncrementConfigurationsIssued(ev.FingerprintTier)
		for _, s := range started {
			if err := s.Enqueue(ev); err != nil {
				m.IncrementSinkErrors(s.Name(), "enqueue")
				log.Printf("quietpath: sink %s enqueue failed: %v", s.Name(), err)
			}
		}
	}

	fingerprints := fingerprint.NewManager()
	tlsProfiles := tlsprofile.NewManager()

	pool := proxy.NewPool()
	if cfg.ProxyPoolFile != "" {
		if err := pool.LoadFile(cfg.ProxyPoolFile); err != nil {
			log.Fatalf("quietpath: failed to load proxy pool %s: %v", cfg.ProxyPoolFile, err)
		}
		log.Printf("quietpath: loaded proxy pool from %s", cfg.ProxyPoolFile)
	}

	orch := orchestrator.New(assessor, fingerprints, tlsProfiles, pool, headers.NewBuilder(), emit)

	if *testMode {
		runTestMode(orch)
		for _, s := range started {
			_ = s.Close()
		}
		return
	}

	scheduler := orchestrator.NewScheduler(cfg.RotationInterval, orch.RotateNow, m.IncrementRotations)
	scheduler.Start(ctx)

	metricsServer := metrics.NewServer(metrics.LoadConfig())
	if err := metricsServer.Start(ctx); err != nil {
		log.Printf("quietpath: metrics server failed to start: %v", err)
	}

	env := httpx.Env{
		Cfg:       cfg,
		Orch:      orch,
		Scheduler: scheduler,
		Metrics:   m,
	}

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: httpx.NewMux(env),
	}

	go func() {
		log.Printf("quietpath listening on %s", cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	scheduler.Stop()
	_ = srv.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)
	for _, s := range started {
		if err := s.Close(); err != nil {
			log.Printf("quietpath: sink %s close failed: %v", s.Name(), err)
		}
	}
}
