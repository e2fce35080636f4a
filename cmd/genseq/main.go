// Command genseq builds a camera sequence from a JSON recipe file. The
// resulting frames are written to a JSON file and can optionally be recorded
// in a dataset store.
package main

import (
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/banshee-data/synthset/internal/dataset"
	"github.com/banshee-data/synthset/internal/sequence"
)

var (
	recipeFile = flag.String("recipe", "", "Recipe JSON file (required)")
	outputFile = flag.String("output", "", "Write frames JSON to this file (default stdout)")
	dbFile     = flag.String("db", "", "Also record the sequence in this dataset store")
)

func main() {
	flag.Parse()

	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{TimeFormat: time.TimeOnly}))

	if *recipeFile == "" {
		log.Error("missing required -recipe flag")
		os.Exit(1)
	}

	data, err := os.ReadFile(*recipeFile)
	if err != nil {
		log.Error("read recipe", "path", *recipeFile, "error", err)
		os.Exit(1)
	}
	recipe, seq, err := sequence.ParseRecipe(data)
	if err != nil {
		log.Error("build sequence", "path", *recipeFile, "error", err)
		os.Exit(1)
	}
	log.Info("sequence built", "strategy", recipe.Strategy, "frames", seq.Len())

	out, err := json.MarshalIndent(seq, "", "  ")
	if err != nil {
		log.Error("encode frames", "error", err)
		os.Exit(1)
	}
	if *outputFile == "" {
		os.Stdout.Write(append(out, '\n'))
	} else {
		if err := os.WriteFile(*outputFile, append(out, '\n'), 0o644); err != nil {
			log.Error("write frames", "path", *outputFile, "error", err)
			os.Exit(1)
		}
		log.Info("wrote frames", "path", *outputFile)
	}

	if *dbFile != "" {
		store, err := dataset.Open(*dbFile)
		if err != nil {
			log.Error("open dataset store", "path", *dbFile, "error", err)
			os.Exit(1)
		}
		defer store.Close()
		id, err := store.InsertSequence(recipe.Name, recipe.Strategy, seq, data)
		if err != nil {
			log.Error("record sequence", "error", err)
			os.Exit(1)
		}
		log.Info("recorded sequence", "sequence_id", id, "db", *dbFile)
	}
}
