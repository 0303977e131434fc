package datasets

import (
	"archive/zip"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

const (
	DefaultDownloadURL = "http://www.nilsschaetti.com/datasets/pan18-author-profiling.zip"
	LocalZipFile       = "pan18-author-profiling.zip"
)

// Provisioner fills an empty root directory with the profile, image and label
// files of the corpus.
type Provisioner interface {
	Provision(ctx context.Context, root string) error
}

// ProvisionerFunc adapts a function to the Provisioner interface.
type ProvisionerFunc func(ctx context.Context, root string) error

// Provision implements Provisioner.
func (f ProvisionerFunc) Provision(ctx context.Context, root string) error { return f(ctx, root) }

// HTTPProvisioner downloads the corpus archive, unzips it into root and
// removes the archive.
type HTTPProvisioner struct {
	URL          string
	Client       *http.Client
	ShowProgress bool
	Logger       *zap.Logger
}

// NewHTTPProvisioner returns a provisioner for DefaultDownloadURL.
func NewHTTPProvisioner(logger *zap.Logger) *HTTPProvisioner {
	return &HTTPProvisioner{
		URL:          DefaultDownloadURL,
		Client:       http.DefaultClient,
		ShowProgress: true,
		Logger:       logger,
	}
}

// Provision implements Provisioner. An archive already present in root is
// reused instead of downloaded again.
func (p *HTTPProvisioner) Provision(ctx context.Context, root string) error {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	zipPath := filepath.Join(root, LocalZipFile)

	if _, err := os.Stat(zipPath); os.IsNotExist(err) {
		logger.Info("downloading corpus", zap.String("url", p.URL), zap.String("path", zipPath))
		if err := p.download(ctx, zipPath); err != nil {
			return err
		}
	} else if err != nil {
		return errors.Wrapf(err, "failed to stat %s", zipPath)
	}

	logger.Info("extracting corpus", zap.String("path", zipPath), zap.String("root", root))
	if err := Unzip(zipPath, root); err != nil {
		return err
	}
	if err := os.Remove(zipPath); err != nil {
		return errors.Wrapf(err, "failed to remove %s", zipPath)
	}
	return nil
}

func (p *HTTPProvisioner) download(ctx context.Context, zipPath string) error {
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return errors.Wrapf(err, "failed to build request for %s", p.URL)
	}
	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to download %s", p.URL)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("failed to download %s: status %s", p.URL, resp.Status)
	}

	// Write to a temporary file first so an interrupted download is not
	// mistaken for a complete archive.
	tmpPath := zipPath + ".part"
	out, err := os.Create(tmpPath)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", tmpPath)
	}
	defer os.Remove(tmpPath)

	var w io.Writer = out
	if p.ShowProgress {
		bar := progressbar.DefaultBytes(resp.ContentLength, "downloading")
		defer bar.Close()
		w = io.MultiWriter(out, bar)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		out.Close()
		return errors.Wrapf(err, "failed to write %s", tmpPath)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", tmpPath)
	}
	return errors.Wrapf(os.Rename(tmpPath, zipPath), "failed to move %s", tmpPath)
}

// Unzip extracts every file of the archive at zipPath into dir. Entries that
// would land outside dir are rejected.
func Unzip(zipPath, dir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return errors.Wrapf(err, "failed to open archive %s", zipPath)
	}
	defer r.Close()

	cleanDir := filepath.Clean(dir)
	for _, f := range r.File {
		target := filepath.Join(cleanDir, f.Name)
		if target != cleanDir && !strings.HasPrefix(target, cleanDir+string(os.PathSeparator)) {
			return errors.Errorf("archive entry %q escapes %s", f.Name, dir)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return errors.Wrapf(err, "failed to create %s", target)
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Wrapf(err, "failed to create %s", filepath.Dir(target))
	}
	src, err := f.Open()
	if err != nil {
		return errors.Wrapf(err, "failed to open archive entry %s", f.Name)
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", target)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return errors.Wrapf(err, "failed to extract %s", f.Name)
	}
	return errors.Wrapf(dst.Close(), "failed to close %s", target)
}
