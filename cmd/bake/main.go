// Command bake loads a sequence from JSON, trims it to a preview-sized
// subset, and emits camera-path charts: an interactive echarts HTML page and
// static gonum/plot PNGs.
package main

import (
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"

	"github.com/banshee-data/synthset/internal/config"
	"github.com/banshee-data/synthset/internal/frame"
	"github.com/banshee-data/synthset/internal/preview"
	"github.com/banshee-data/synthset/internal/sequence"
)

var (
	inputFile  = flag.String("input", "", "Sequence JSON file (required)")
	outputDir  = flag.String("output", "bake-out", "Output directory")
	numFrames  = flag.Int("frames", sequence.DefaultBakeFrames, "Number of preview frames")
	configFile = flag.String("config", "", "Optional tuning config (JSON)")
)

func main() {
	flag.Parse()

	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{TimeFormat: time.TimeOnly}))

	if *inputFile == "" {
		log.Error("missing required -input flag")
		os.Exit(1)
	}

	cfg := config.Empty()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			log.Error("load config", "path", *configFile, "error", err)
			os.Exit(1)
		}
	}
	in := frame.Intrinsics{
		FOVYDeg: cfg.GetFOVYDegrees(),
		Width:   cfg.GetImageWidth(),
		Height:  cfg.GetImageHeight(),
	}

	data, err := os.ReadFile(*inputFile)
	if err != nil {
		log.Error("read sequence", "path", *inputFile, "error", err)
		os.Exit(1)
	}
	var seq sequence.Sequence
	if err := json.Unmarshal(data, &seq); err != nil {
		log.Error("decode sequence", "path", *inputFile, "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		log.Error("create output directory", "path", *outputDir, "error", err)
		os.Exit(1)
	}

	htmlPath := filepath.Join(*outputDir, "camera_path.html")
	f, err := os.Create(htmlPath)
	if err != nil {
		log.Error("create preview page", "path", htmlPath, "error", err)
		os.Exit(1)
	}
	if err := preview.PathHTML(&seq, in, *numFrames, f); err != nil {
		f.Close()
		log.Error("render preview page", "error", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		log.Error("write preview page", "path", htmlPath, "error", err)
		os.Exit(1)
	}
	log.Info("wrote preview page", "path", htmlPath)

	plots, err := preview.SavePlots(&seq, in, *numFrames, *outputDir)
	if err != nil {
		log.Error("render plots", "error", err)
		os.Exit(1)
	}
	for _, p := range plots {
		log.Info("wrote plot", "path", p)
	}
}
