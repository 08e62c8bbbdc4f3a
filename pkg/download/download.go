package download

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// copyChunkSize bounds memory use while streaming large lecture files.
const copyChunkSize = 8 * 1024

// Getter is the transport dependency: fetch a URL, return the raw response.
// The portal client satisfies it.
type Getter interface {
	Get(url string) (*http.Response, error)
}

// Downloader writes resolved file URLs into the
// <root>/<course>/<NN>_<section>/<NN>_<activity>/ layout.
type Downloader struct {
	Client Getter
	Root   string
	Log    zerolog.Logger
}

// ActivityRef identifies where an activity sits in its course tree. The
// 1-based indices come from document order and drive the NN_ prefixes, so the
// same crawl pass always produces the same directories.
type ActivityRef struct {
	CourseTitle   string
	SectionIndex  int
	SectionName   string
	ActivityIndex int
	ActivityName  string
}

// Dir computes the destination directory for an activity's files.
func (d *Downloader) Dir(ref ActivityRef) string {
	secName := ref.SectionName
	if secName == "" {
		secName = fmt.Sprintf("Section %d", ref.SectionIndex)
	}
	actName := ref.ActivityName
	if actName == "" {
		actName = fmt.Sprintf("Activity %d", ref.ActivityIndex)
	}
	return filepath.Join(
		d.Root,
		SafeName(ref.CourseTitle),
		fmt.Sprintf("%02d_%s", ref.SectionIndex, SafeName(secName)),
		fmt.Sprintf("%02d_%s", ref.ActivityIndex, SafeName(actName)),
	)
}

// DownloadActivityFiles fetches every URL into the activity's directory and
// returns the local paths actually written, in input order. A failed fetch is
// logged and omitted; sibling files still download.
func (d *Downloader) DownloadActivityFiles(urls []string, ref ActivityRef) []string {
	var paths []string
	if len(urls) == 0 {
		return paths
	}

	destDir := d.Dir(ref)
	for _, fileURL := range urls {
		p, err := d.downloadFile(fileURL, destDir)
		if err != nil {
			d.Log.Warn().Str("url", fileURL).Err(err).Msg("download failed, skipping")
			continue
		}
		paths = append(paths, p)
	}
	return paths
}

// downloadFile streams one URL to disk and returns the absolute local path.
func (d *Downloader) downloadFile(fileURL, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("could not create %s: %w", destDir, err)
	}

	resp, err := d.Client.Get(fileURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	// Prefer the server-supplied name, fall back to the URL's last segment
	name := FilenameFromContentDisposition(resp.Header.Get("Content-Disposition"))
	if name == "" {
		name = FilenameFromURL(fileURL)
	}
	name = SafeName(FixEncoding(name))

	destPath := UniquePath(filepath.Join(destDir, name))

	f, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("could not create %s: %w", destPath, err)
	}
	defer f.Close()

	if _, err := io.CopyBuffer(f, resp.Body, make([]byte, copyChunkSize)); err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("could not write %s: %w", destPath, err)
	}

	abs, err := filepath.Abs(destPath)
	if err != nil {
		return destPath, nil
	}
	return abs, nil
}
