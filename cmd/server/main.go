package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	persistlog "aquaguard.ai/internal/persistence/log"
	"aquaguard.ai/internal/session"
	"aquaguard.ai/internal/sim/river"
	"aquaguard.ai/internal/sim/tuning"
	"aquaguard.ai/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		configDir  = flag.String("configs", "./configs", "config directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		seed       = flag.Int64("seed", 0, "base weather seed (0 picks a time-based seed)")
		disableLog = flag.Bool("disable_log", false, "disable the compressed step log")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Printf("tuning not found (%s); using defaults", tp)
			tune = tuning.Defaults()
		} else {
			logger.Fatalf("load tuning: %v", err)
		}
	}

	engine := river.New(tune.Coefficients)
	mgr := session.NewManager(session.Config{
		StoryDays:   tune.StoryDays,
		MaxSessions: tune.MaxSessions,
		HistoryTail: tune.HistoryTail,
		Seed:        *seed,
	}, engine)

	if !*disableLog {
		stepLog := persistlog.NewStepLogger(*dataDir)
		defer stepLog.Close()
		mgr.SetStepLogger(stepLog)
	}

	ctx, cancel := signalContext()
	defer cancel()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")

		m := mgr.Metrics()

		// Minimal Prometheus exposition format.
		fmt.Fprintf(rw, "# HELP aquaguard_sessions Current number of live sessions.\n")
		fmt.Fprintf(rw, "# TYPE aquaguard_sessions gauge\n")
		fmt.Fprintf(rw, "aquaguard_sessions %d\n", m.Sessions)

		fmt.Fprintf(rw, "# HELP aquaguard_days_total Total simulated days across all sessions.\n")
		fmt.Fprintf(rw, "# TYPE aquaguard_days_total counter\n")
		fmt.Fprintf(rw, "aquaguard_days_total %d\n", m.DaysTotal)

		fmt.Fprintf(rw, "# HELP aquaguard_step_ms Last engine step duration in milliseconds.\n")
		fmt.Fprintf(rw, "# TYPE aquaguard_step_ms gauge\n")
		fmt.Fprintf(rw, "aquaguard_step_ms %.3f\n", m.StepMS)

		fmt.Fprintf(rw, "# HELP aquaguard_story_days Configured story length in days.\n")
		fmt.Fprintf(rw, "# TYPE aquaguard_story_days gauge\n")
		fmt.Fprintf(rw, "aquaguard_story_days %d\n", mgr.StoryDays())
	})
	mux.HandleFunc("/v1/ws", ws.NewServer(mgr, logger).Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s (story_days=%d seed=%d)", *addr, mgr.StoryDays(), mgr.Seed())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
