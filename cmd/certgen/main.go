// certgen generates certificates for a participants file without going
// through the HTTP API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/412449-PICCO/generadorDiplos/internal/config"
	"github.com/412449-PICCO/generadorDiplos/internal/core"
	"github.com/412449-PICCO/generadorDiplos/internal/db"
	"github.com/412449-PICCO/generadorDiplos/internal/logging"
	"github.com/412449-PICCO/generadorDiplos/internal/model"
	"github.com/412449-PICCO/generadorDiplos/internal/render"
	"github.com/412449-PICCO/generadorDiplos/internal/storage"
)

type participantsFile struct {
	Participants []model.Participant `json:"participants"`
}

func main() {
	dataFile := flag.String("file", "participants.json", "Participants JSON file")
	withPreviews := flag.Bool("previews", false, "Rasterize PNG previews (requires a local Chromium)")
	timeout := flag.Duration("timeout", 30*time.Minute, "Overall batch timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	data, err := os.ReadFile(*dataFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", *dataFile, err)
		os.Exit(1)
	}

	var pf participantsFile
	if err := json.Unmarshal(data, &pf); err != nil {
		fmt.Fprintf(os.Stderr, "parse %s: %v\n", *dataFile, err)
		os.Exit(1)
	}
	if len(pf.Participants) == 0 {
		fmt.Println("no participants in file")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	renderer, err := render.LoadTemplate(cfg.TemplatePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load template: %v\n", err)
		os.Exit(1)
	}

	artifacts := storage.NewS3Store(cfg, logger)
	var rasterizer core.Rasterizer
	if *withPreviews {
		rasterizer = render.NewBrowserRasterizer(logger)
	}

	store := core.NewCertificateService(pool)
	generator := core.NewGenerator(store, renderer, artifacts, rasterizer, logger, cfg.AppURL)

	fmt.Printf("generating certificates for %d participants\n\n", len(pf.Participants))

	summary := generator.GenerateBatch(ctx, pf.Participants)

	for i, res := range summary.Results {
		if res.Success {
			fmt.Printf("%3d. %s (%s)\n     %s\n", i+1, res.Name, res.Email, res.URL)
		} else {
			fmt.Printf("%3d. %s: FAILED: %s\n", i+1, res.Name, res.Error)
		}
	}

	fmt.Printf("\ndone: %d succeeded, %d failed of %d\n", summary.Succeeded, summary.Failed, summary.Total)
	if summary.Failed > 0 {
		os.Exit(1)
	}
}
