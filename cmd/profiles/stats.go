package main

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/Noofbiz/authorProfiling/datasets"
)

// statsSource is the part of the dataset collectStats reads.
type statsSource interface {
	Len() int
	IDs() []string
	Labels() datasets.LabelTable
	DocumentCount(i int) (int, error)
	ImageCount(i int) (int, error)
}

type corpusStats struct {
	Profiles  int
	Documents []float64
	Images    []float64
	Classes   map[int]int
	Unlabeled int
}

func collectStats(ds statsSource) (*corpusStats, error) {
	n := ds.Len()
	s := &corpusStats{
		Profiles:  n,
		Documents: make([]float64, 0, n),
		Images:    make([]float64, 0, n),
		Classes:   make(map[int]int),
	}
	labels := ds.Labels()
	for i, id := range ds.IDs() {
		docs, err := ds.DocumentCount(i)
		if err != nil {
			return nil, fmt.Errorf("count documents of %s: %w", id, err)
		}
		imgs, err := ds.ImageCount(i)
		if err != nil {
			return nil, fmt.Errorf("count images of %s: %w", id, err)
		}
		s.Documents = append(s.Documents, float64(docs))
		s.Images = append(s.Images, float64(imgs))

		label, err := labels.Lookup(id)
		switch {
		case err == nil:
			s.Classes[label]++
		case errors.Is(err, datasets.ErrUnlabeledProfile):
			s.Unlabeled++
		default:
			return nil, err
		}
	}
	return s, nil
}

func (s *corpusStats) print(w io.Writer) {
	fmt.Fprintf(w, "Profiles: %d\n", s.Profiles)
	fmt.Fprintf(w, "Documents per profile: min=%.0f max=%.0f mean=%.2f\n", minOf(s.Documents), maxOf(s.Documents), mean(s.Documents))
	fmt.Fprintf(w, "Images per profile: min=%.0f max=%.0f mean=%.2f\n", minOf(s.Images), maxOf(s.Images), mean(s.Images))

	classes := make([]int, 0, len(s.Classes))
	for c := range s.Classes {
		classes = append(classes, c)
	}
	slices.Sort(classes)
	for _, c := range classes {
		fmt.Fprintf(w, "Class %d: %d\n", c, s.Classes[c])
	}
	if s.Unlabeled > 0 {
		fmt.Fprintf(w, "Unlabeled: %d\n", s.Unlabeled)
	}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func minOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return slices.Min(xs)
}

func maxOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return slices.Max(xs)
}

// plotStats writes documents and images per profile histograms into outDir.
func plotStats(outDir, lang string, s *corpusStats) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}
	if err := plotHistogram(filepath.Join(outDir, lang+"_documents.png"),
		"Documents per profile", "documents", s.Documents, 20,
		color.RGBA{R: 20, G: 80, B: 200, A: 220}); err != nil {
		return err
	}
	return plotHistogram(filepath.Join(outDir, lang+"_images.png"),
		"Images per profile", "images", s.Images, datasets.SlotCount+1,
		color.RGBA{R: 200, G: 30, B: 30, A: 180})
}

func plotHistogram(outPath, title, xLabel string, values []float64, bins int, col color.Color) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "profiles"

	if len(values) > 0 {
		h, err := plotter.NewHist(plotter.Values(values), bins)
		if err != nil {
			return err
		}
		h.FillColor = col
		p.Add(h)
	}
	p.Add(plotter.NewGrid())

	return p.Save(8*vg.Inch, 6*vg.Inch, outPath)
}
