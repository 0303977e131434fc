package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Noofbiz/authorProfiling/encoders"
	"github.com/Noofbiz/authorProfiling/internal/config"
	"github.com/Noofbiz/authorProfiling/internal/precompute"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// smallCorpus writes three English profiles, one without a label.
func smallCorpus(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for i, docs := range [][]string{{"hello", "hi"}, {"abc"}, {"x", "y", "z"}} {
		var b strings.Builder
		for _, d := range docs {
			fmt.Fprintf(&b, "<document><![CDATA[%s]]></document>", d)
		}
		writeFile(t, filepath.Join(root, fmt.Sprintf("a%d.xml", i)),
			fmt.Sprintf(`<author lang="en"><documents>%s</documents></author>`, b.String()))
	}
	writeFile(t, filepath.Join(root, "en.txt"), "a0:::female\na1:::male\n")
	return root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath, verbose, noDownload = "", false, false
	plotFlag, forceFlag = false, false
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestInspect(t *testing.T) {
	root := smallCorpus(t)
	out, err := run(t, "inspect", "1", "--root", root, "--no-download", "--min-length", "8")
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	for _, want := range []string{"Profile: a1", "Label: 1", "Text shape: [1 8]", "Image shape: [10 3 224 224]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestInspect_BadIndex(t *testing.T) {
	root := smallCorpus(t)
	if _, err := run(t, "inspect", "7", "--root", root, "--no-download"); err == nil {
		t.Fatalf("expected out of range error")
	}
	if _, err := run(t, "inspect", "abc", "--root", root, "--no-download"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestStats_WithPlots(t *testing.T) {
	root := smallCorpus(t)
	plots := filepath.Join(t.TempDir(), "plots")
	cfgPath := filepath.Join(t.TempDir(), "profiles.yaml")
	writeFile(t, cfgPath, fmt.Sprintf("stats:\n  plot_dir: %s\n", plots))

	out, err := run(t, "stats", "--config", cfgPath, "--root", root, "--no-download", "--plot")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	for _, want := range []string{"Profiles: 3", "min=1 max=3 mean=2.00", "Class 0: 1", "Class 1: 1", "Unlabeled: 1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	for _, name := range []string{"en_documents.png", "en_images.png"} {
		if _, err := os.Stat(filepath.Join(plots, name)); err != nil {
			t.Fatalf("expected plot %s: %v", name, err)
		}
	}
}

func TestPrecompute_WritesCache(t *testing.T) {
	root := smallCorpus(t)
	// a2 has no label, so keep only labeled profiles.
	if err := os.Remove(filepath.Join(root, "a2.xml")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	cachePath := filepath.Join(t.TempDir(), "records.gob")

	if _, err := run(t, "precompute", "--root", root, "--no-download", "--min-length", "8", "--cache", cachePath, "--workers", "2"); err != nil {
		t.Fatalf("precompute failed: %v", err)
	}
	c, err := precompute.Load(cachePath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := c.Validate("en", 8, cacheParams(cfg), []string{"a0", "a1"}); err != nil {
		t.Fatalf("cache invalid: %v", err)
	}
	if c.Records[0].Label != 0 || c.Records[1].Label != 1 {
		t.Fatalf("unexpected labels: %d %d", c.Records[0].Label, c.Records[1].Label)
	}

	// a second run reuses the cache
	before, _ := os.Stat(cachePath)
	if _, err := run(t, "precompute", "--root", root, "--no-download", "--min-length", "8", "--cache", cachePath); err != nil {
		t.Fatalf("second precompute failed: %v", err)
	}
	after, _ := os.Stat(cachePath)
	if !after.ModTime().Equal(before.ModTime()) {
		t.Fatalf("expected cache to be reused")
	}
}

func TestPrecompute_SettingsInvalidateCache(t *testing.T) {
	root := smallCorpus(t)
	if err := os.Remove(filepath.Join(root, "a2.xml")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	cachePath := filepath.Join(t.TempDir(), "records.gob")
	args := []string{"precompute", "--root", root, "--no-download", "--min-length", "8", "--cache", cachePath}

	if _, err := run(t, args...); err != nil {
		t.Fatalf("precompute failed: %v", err)
	}

	cfgPath := filepath.Join(t.TempDir(), "profiles.yaml")
	writeFile(t, cfgPath, "encoders:\n  pixel_size: 32\n")
	if _, err := run(t, append(args, "--config", cfgPath)...); err != nil {
		t.Fatalf("second precompute failed: %v", err)
	}
	c, err := precompute.Load(cachePath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := c.Records[0].Images.Shape; len(got) != 4 || got[2] != 32 || got[3] != 32 {
		t.Fatalf("expected records rebuilt with 32px images, got shape %v", got)
	}
}

func TestFlagsOverrideInvalidConfig(t *testing.T) {
	root := smallCorpus(t)
	cfgPath := filepath.Join(t.TempDir(), "profiles.yaml")
	writeFile(t, cfgPath, "dataset:\n  min_length: 0\n")

	if _, err := run(t, "inspect", "0", "--config", cfgPath, "--root", root, "--no-download", "--min-length", "8"); err != nil {
		t.Fatalf("expected --min-length to fix the config, got %v", err)
	}
}

func TestTextEncoder(t *testing.T) {
	enc, err := textEncoder(config.EncodersConfig{Text: config.TextOneHot, Alphabet: "ab"})
	if err != nil {
		t.Fatalf("textEncoder failed: %v", err)
	}
	if _, ok := enc.(*encoders.OneHot); !ok {
		t.Fatalf("expected *encoders.OneHot, got %T", enc)
	}
	enc, err = textEncoder(config.EncodersConfig{Text: config.TextRunes})
	if err != nil {
		t.Fatalf("textEncoder failed: %v", err)
	}
	if _, ok := enc.(encoders.Runes); !ok {
		t.Fatalf("expected encoders.Runes, got %T", enc)
	}
	if _, err := textEncoder(config.EncodersConfig{Text: config.TextTokenizer, TokenizerPath: filepath.Join(t.TempDir(), "missing.json")}); err == nil {
		t.Fatalf("expected error for a missing tokenizer file")
	}
}
