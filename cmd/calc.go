package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/romainsacchi/carculator/api"
	"github.com/romainsacchi/carculator/config"
	"github.com/romainsacchi/carculator/core/pipeline"
	"github.com/romainsacchi/carculator/core/registry"
	"github.com/romainsacchi/carculator/core/resultstore"
	"github.com/romainsacchi/carculator/core/validate"
	"github.com/romainsacchi/carculator/infra/logger"
	"github.com/romainsacchi/carculator/pkg/export"
)

var (
	calcInput  string
	calcOutput string
	calcFormat string
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Calculate impacts for a fleet file without starting the service",
	RunE:  runCalc,
}

func init() {
	calcCmd.Flags().StringVarP(&calcInput, "input", "i", "", "fleet definition file (JSON)")
	calcCmd.Flags().StringVarP(&calcOutput, "output", "o", "", "output file (default stdout)")
	calcCmd.Flags().StringVarP(&calcFormat, "format", "f", "json", "output format: json or csv")
	_ = calcCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(calcCmd)
}

func runCalc(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Default()
	if _, err := os.Stat(cfgPath); err == nil {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	data, err := os.ReadFile(calcInput)
	if err != nil {
		return fmt.Errorf("read fleet file: %w", err)
	}
	var req api.CalculationRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("parse fleet file: %w", err)
	}
	if len(req.Fleet) == 0 {
		return fmt.Errorf("fleet file names no vehicles")
	}

	logg := logger.New("calc-command")
	reg, err := registry.Default(logg)
	if err != nil {
		return fmt.Errorf("parameter registry: %w", err)
	}
	pipe, err := pipeline.New(reg, validate.New(logg), nil, nil, logg, pipeline.Options{
		Country:    cfg.Pipeline.Country,
		Cycle:      cfg.Pipeline.Cycle,
		Iterations: cfg.Pipeline.Iterations,
		Seed:       cfg.Pipeline.Seed,
	})
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	var summaries []resultstore.Summary
	rejected := 0
	for _, vr := range req.Fleet {
		if vr.ID == "" {
			vr.ID = uuid.NewString()
		}
		_, res, err := pipe.Run(ctx, vr, req.Country)
		if err != nil {
			rejected++
			logg.Errorf("vehicle %s rejected: %v", vr.ID, err)
			continue
		}
		summaries = append(summaries, resultstore.Summary{
			RequestID:    vr.ID,
			VehicleType:  vr.VehicleType,
			Powertrain:   res.Powertrain,
			Size:         res.Size,
			Year:         res.Year,
			Country:      res.Country,
			Impacts:      res.Representative(),
			CalculatedAt: time.Now(),
		})
	}
	if len(summaries) == 0 {
		return fmt.Errorf("all %d vehicles rejected", rejected)
	}

	var out io.Writer = cmd.OutOrStdout()
	if calcOutput != "" {
		f, err := os.Create(calcOutput)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				logg.Errorf("close output: %v", cerr)
			}
		}()
		out = f
	}
	switch calcFormat {
	case "json":
		err = export.WriteJSON(out, summaries)
	case "csv":
		err = export.WriteCSV(out, summaries)
	default:
		return fmt.Errorf("unknown format %q", calcFormat)
	}
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if rejected > 0 {
		logg.Warnf("%d of %d vehicles rejected", rejected, len(req.Fleet))
	}
	return nil
}
