package main

// Example command that opens the author profiling dataset, reads the first
// few records and converts them into gomlx tensors.
//
// The dataset uses lazy loading - construction only indexes the profile ids
// and reads the label table; documents and images are read on every Get.
//
// Usage:
//   go run ./datasets/example [root]
//
// Note: the corpus is downloaded into root (default ./data) when it holds no
// profile yet.

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/Noofbiz/authorProfiling/datasets"
	"github.com/Noofbiz/authorProfiling/encoders"
)

func main() {
	opts := datasets.DefaultOptions()
	if len(os.Args) > 1 {
		opts.Root = os.Args[1]
	}
	opts.TextEncoder = encoders.Runes{}
	opts.ImageEncoder = encoders.Pixels{Size: 64}

	ds, err := datasets.NewAuthorProfilingDataset(context.Background(), 280, opts)
	if err != nil {
		log.Fatalf("failed to load author profiling dataset: %v", err)
	}
	fmt.Printf("Using corpus under: %s\n", ds.Root())
	fmt.Printf("Total %s profiles available: %d\n", ds.Lang(), ds.Len())

	n := min(4, ds.Len())
	for i := range n {
		rec, err := ds.Get(i)
		if err != nil {
			log.Fatalf("failed to read record %d: %v", i, err)
		}
		inputs, labels := rec.Tensors()

		fmt.Printf("Profile %s (label %d)\n", rec.ID, rec.Label)
		fmt.Printf("  Text shape: %v\n", inputs[0].Shape().Dimensions)
		fmt.Printf("  Image shape: %v\n", inputs[1].Shape().Dimensions)
		fmt.Printf("  Label shape: %v\n", labels[0].Shape().Dimensions)
	}
}
