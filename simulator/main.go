package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	cfg := parseFlags()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	if !cfg.Verbose {
		log.SetOutput(io.Discard)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := newAPIClient(cfg.APIURL, cfg.Token, cfg.Timeout)
	accepted, rejected, failures := 0, 0, 0
	for i := 0; i < cfg.Requests; i++ {
		if ctx.Err() != nil {
			break
		}
		country, fleet := GenerateFleet(FleetConfig{
			Size:       cfg.FleetSize,
			InvalidPct: cfg.InvalidPct,
			Countries:  cfg.Countries,
			Seed:       cfg.Seed + uint64(i),
		})
		res, err := client.Calculate(ctx, country, fleet)
		if err != nil {
			failures++
			log.Printf("request %d: %v", i+1, err)
		} else {
			a, r := tally(res)
			accepted += a
			rejected += r
			log.Printf("request %d (%s): %d accepted, %d rejected", i+1, country, a, r)
		}
		if cfg.Interval > 0 && i < cfg.Requests-1 {
			select {
			case <-ctx.Done():
			case <-time.After(cfg.Interval):
			}
		}
	}
	fmt.Printf("simulated %d requests: %d vehicles accepted, %d rejected, %d transport failures\n",
		cfg.Requests, accepted, rejected, failures)
}

func parseFlags() Config {
	var cfg Config
	var countries string
	flag.StringVar(&cfg.APIURL, "api", "http://localhost:8080", "calculation API base URL")
	flag.StringVar(&cfg.Token, "token", "", "bearer token")
	flag.IntVar(&cfg.FleetSize, "fleet-size", 10, "vehicles per request")
	flag.IntVar(&cfg.Requests, "requests", 1, "number of requests to send")
	flag.DurationVar(&cfg.Interval, "interval", time.Second, "pause between requests")
	flag.DurationVar(&cfg.Timeout, "timeout", 30*time.Second, "HTTP timeout per request")
	flag.StringVar(&countries, "countries", "CH,FR,DE,PL", "comma separated country codes")
	flag.Float64Var(&cfg.InvalidPct, "invalid-pct", 0, "share of deliberately implausible vehicles")
	flag.Uint64Var(&cfg.Seed, "seed", uint64(time.Now().UnixNano()), "base seed for fleet generation")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "enable verbose logging")
	flag.Parse()
	cfg.Countries = parseCountries(countries)
	return cfg
}
