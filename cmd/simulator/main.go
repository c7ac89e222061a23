package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

var (
	serverURL   = flag.String("server", "http://localhost:3000", "Fluency service base URL")
	scenario    = flag.String("scenario", "greetings", "Scenario to evaluate against")
	level       = flag.String("level", "B1", "Claimed CEFR level")
	language    = flag.String("language", "es", "Utterance language")
	requests    = flag.Int("n", 50, "Total evaluation requests to send")
	concurrency = flag.Int("c", 4, "Concurrent workers")
	audioDir    = flag.String("audio-dir", "", "Directory of WAV files to send (synthetic clips when empty)")
	token       = flag.String("token", "", "Bearer token when the API requires auth")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	sim := NewSimulator(SimulatorConfig{
		ServerURL:   *serverURL,
		Scenario:    *scenario,
		Level:       *level,
		Language:    *language,
		Requests:    *requests,
		Concurrency: *concurrency,
		AudioDir:    *audioDir,
		Token:       *token,
	}, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nStopping simulator...")
		sim.Stop()
	}()

	fmt.Printf("Fluency load simulator\n")
	fmt.Printf("  Server:   %s\n", *serverURL)
	fmt.Printf("  Scenario: %s  Level: %s\n", *scenario, *level)
	fmt.Printf("  Requests: %d across %d workers\n\n", *requests, *concurrency)

	started := time.Now()
	stats := sim.Run()
	elapsed := time.Since(started)

	fmt.Printf("\nDone in %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("  Succeeded: %d  Failed: %d\n", stats.Succeeded, stats.Failed)
	if stats.Succeeded > 0 {
		fmt.Printf("  Mean latency: %s  Max: %s\n",
			stats.MeanLatency().Round(time.Millisecond),
			stats.MaxLatency.Round(time.Millisecond))
		fmt.Printf("  Mean score:   %.1f\n", stats.MeanScore())
	}
	if stats.Failed > 0 {
		os.Exit(1)
	}
}
