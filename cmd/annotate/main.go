// Command annotate batch-processes rendered mask images into dataset
// annotations. Each PNG in the input directory is normalized against the
// label palette, then regions, bounding boxes, and centroids are extracted
// and recorded against the frame index parsed from the filename. When a mesh
// is supplied, 2D keypoint annotations are produced from the stored frames as
// well.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/synthset/internal/config"
	"github.com/banshee-data/synthset/internal/dataset"
	"github.com/banshee-data/synthset/internal/frame"
	"github.com/banshee-data/synthset/internal/keypoint"
	"github.com/banshee-data/synthset/internal/mask"
)

var (
	maskDir    = flag.String("masks", "", "Directory of mask PNGs (required)")
	labelsFile = flag.String("labels", "", "Label map JSON: class name to list of [r,g,b] colors (required)")
	dbFile     = flag.String("db", "synthset.db", "Dataset database path")
	seqID      = flag.String("sequence", "", "Sequence ID to attach annotations to (required)")
	meshFile   = flag.String("mesh", "", "Optional mesh JSON for keypoint annotations")
	configFile = flag.String("config", "", "Optional tuning config (JSON)")
	workers    = flag.Int("workers", runtime.NumCPU(), "Concurrent image workers")
)

type maskJob struct {
	path       string
	frameIndex int
}

func main() {
	flag.Parse()

	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{TimeFormat: time.TimeOnly}))

	if *maskDir == "" || *labelsFile == "" || *seqID == "" {
		log.Error("missing required flags: -masks, -labels, and -sequence")
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

	labels, err := loadLabels(*labelsFile)
	if err != nil {
		log.Error("load labels", "path", *labelsFile, "error", err)
		os.Exit(1)
	}

	store, err := dataset.Open(*dbFile)
	if err != nil {
		log.Error("open dataset store", "path", *dbFile, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	jobs, err := collectJobs(*maskDir)
	if err != nil {
		log.Error("scan mask directory", "path", *maskDir, "error", err)
		os.Exit(1)
	}
	if len(jobs) == 0 {
		log.Error("no mask PNGs found", "path", *maskDir)
		os.Exit(1)
	}
	log.Info("annotating masks", "count", len(jobs), "sequence_id", *seqID)

	ann := annotator{
		store:  store,
		seqID:  *seqID,
		labels: labels,
		cutoff: cfg.GetColorVariationCutoff(),
	}

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(*workers)
	for _, job := range jobs {
		g.Go(func() error {
			if err := ann.annotate(job); err != nil {
				return fmt.Errorf("%s: %w", job.path, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("annotate", "error", err)
		os.Exit(1)
	}

	if *meshFile != "" {
		if err := annotateKeypoints(store, *seqID, *meshFile, cfg); err != nil {
			log.Error("keypoint annotations", "error", err)
			os.Exit(1)
		}
		log.Info("wrote keypoint annotations")
	}
	log.Info("done", "masks", len(jobs))
}

// loadLabels reads a class-name-to-colors map from JSON.
func loadLabels(path string) (mask.LabelMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string][][3]uint8
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	labels := make(mask.LabelMap, len(raw))
	for name, colors := range raw {
		cs := make([]mask.Color, len(colors))
		for i, c := range colors {
			cs[i] = mask.Color(c)
		}
		labels[name] = cs
	}
	return labels, nil
}

// collectJobs finds mask PNGs and parses each frame index from the trailing
// digits of the base filename (mask0012.png -> 12).
func collectJobs(dir string) ([]maskJob, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var jobs []maskJob
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			continue
		}
		idx, ok := trailingIndex(e.Name())
		if !ok {
			return nil, fmt.Errorf("cannot parse frame index from %q", e.Name())
		}
		jobs = append(jobs, maskJob{path: filepath.Join(dir, e.Name()), frameIndex: idx})
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].frameIndex < jobs[j].frameIndex })
	return jobs, nil
}

func trailingIndex(name string) (int, bool) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	end := len(base)
	start := end
	for start > 0 && base[start-1] >= '0' && base[start-1] <= '9' {
		start--
	}
	if start == end {
		return 0, false
	}
	idx, err := strconv.Atoi(base[start:end])
	if err != nil {
		return 0, false
	}
	return idx, true
}

type annotator struct {
	store  *dataset.Store
	seqID  string
	labels mask.LabelMap
	cutoff int
}

func (a annotator) annotate(job maskJob) error {
	f, err := os.Open(job.path)
	if err != nil {
		return err
	}
	img, err := png.Decode(f)
	f.Close()
	if err != nil {
		return err
	}

	var palette []mask.Color
	for _, cs := range a.labels {
		palette = append(palette, cs...)
	}
	m, err := mask.Normalize(mask.FromImage(img), palette, a.cutoff)
	if err != nil {
		return err
	}

	payloads := []struct {
		kind string
		v    any
	}{
		{dataset.KindRegions, mask.Regions(m)},
		{dataset.KindBoxes, mask.BoundingBoxes(m, a.labels)},
		{dataset.KindCentroids, mask.Centroids(m, a.labels)},
	}
	for _, p := range payloads {
		body, err := json.Marshal(p.v)
		if err != nil {
			return err
		}
		err = a.store.InsertAnnotation(&dataset.Annotation{
			SequenceID: a.seqID,
			FrameIndex: job.frameIndex,
			Kind:       p.kind,
			Payload:    body,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// annotateKeypoints samples keypoints on the mesh once, then projects them
// through every stored frame of the sequence.
func annotateKeypoints(store *dataset.Store, seqID, meshPath string, cfg *config.Config) error {
	data, err := os.ReadFile(meshPath)
	if err != nil {
		return err
	}
	var mesh keypoint.Mesh
	if err := json.Unmarshal(data, &mesh); err != nil {
		return err
	}
	points, err := keypoint.Generate(&mesh, cfg.GetKeypointCount(), cfg.GetKeypointSeed())
	if err != nil {
		return err
	}

	seq, err := store.GetSequence(seqID)
	if err != nil {
		return err
	}
	in := frame.Intrinsics{
		FOVYDeg: cfg.GetFOVYDegrees(),
		Width:   cfg.GetImageWidth(),
		Height:  cfg.GetImageHeight(),
	}
	for i := 0; i < seq.Len(); i++ {
		kps, err := keypoint.Project(points, seq.At(i), in)
		if err != nil {
			return err
		}
		body, err := json.Marshal(kps)
		if err != nil {
			return err
		}
		err = store.InsertAnnotation(&dataset.Annotation{
			SequenceID: seqID,
			FrameIndex: i,
			Kind:       dataset.KindKeypoints,
			Payload:    body,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
