package download

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

// testGetter adapts a plain http.Client so the downloader can talk to an
// httptest server without the portal package.
type testGetter struct {
	client *http.Client
}

func (g *testGetter) Get(url string) (*http.Response, error) {
	return g.client.Get(url)
}

func newTestDownloader(t *testing.T) (*Downloader, *httptest.Server) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/pluginfile.php/1/plan.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="plan.pdf"`)
		w.Write([]byte("pdf bytes"))
	})
	mux.HandleFunc("/pluginfile.php/1/named", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename*=UTF-8''%D0%9B%D0%B5%D0%BA%D1%86%D1%96%D1%8F.pdf`)
		w.Write([]byte("lecture bytes"))
	})
	mux.HandleFunc("/pluginfile.php/1/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	d := &Downloader{
		Client: &testGetter{client: server.Client()},
		Root:   t.TempDir(),
		Log:    zerolog.Nop(),
	}
	return d, server
}

func TestDownloadActivityFiles(t *testing.T) {
	d, server := newTestDownloader(t)

	ref := ActivityRef{
		CourseTitle:   "Комп'ютерні мережі",
		SectionIndex:  1,
		SectionName:   "Загальне",
		ActivityIndex: 2,
		ActivityName:  "Лекції",
	}

	urls := []string{
		server.URL + "/pluginfile.php/1/plan.pdf",
		server.URL + "/pluginfile.php/1/broken",
		server.URL + "/pluginfile.php/1/named",
	}

	paths := d.DownloadActivityFiles(urls, ref)

	// The broken URL is omitted, the siblings still arrive, order preserved
	if len(paths) != 2 {
		t.Fatalf("expected 2 downloaded files, got %v", paths)
	}
	if filepath.Base(paths[0]) != "plan.pdf" {
		t.Errorf("expected plan.pdf first, got %q", paths[0])
	}
	if filepath.Base(paths[1]) != "Лекція.pdf" {
		t.Errorf("expected the header-supplied name, got %q", paths[1])
	}

	wantDir := filepath.Join(d.Root, "Комп'ютерні мережі", "01_Загальне", "02_Лекції")
	if filepath.Dir(paths[0]) != mustAbs(t, wantDir) {
		t.Errorf("expected files under %q, got %q", wantDir, filepath.Dir(paths[0]))
	}

	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatalf("failed to read downloaded file: %v", err)
	}
	if string(data) != "pdf bytes" {
		t.Errorf("unexpected file contents %q", data)
	}
}

func TestDownloadActivityFilesCollision(t *testing.T) {
	d, server := newTestDownloader(t)

	ref := ActivityRef{CourseTitle: "Курс", SectionIndex: 1, ActivityIndex: 1}
	urls := []string{
		server.URL + "/pluginfile.php/1/plan.pdf",
		server.URL + "/pluginfile.php/1/plan.pdf",
	}

	paths := d.DownloadActivityFiles(urls, ref)
	if len(paths) != 2 {
		t.Fatalf("expected both downloads to land, got %v", paths)
	}
	if filepath.Base(paths[1]) != "plan_2.pdf" {
		t.Errorf("expected collision suffix on the second copy, got %q", paths[1])
	}
}

func TestDirFallbackNames(t *testing.T) {
	d := &Downloader{Root: "/tmp/dl", Log: zerolog.Nop()}

	ref := ActivityRef{CourseTitle: "Курс", SectionIndex: 3, ActivityIndex: 7}
	got := d.Dir(ref)
	want := filepath.Join("/tmp/dl", "Курс", "03_Section 3", "07_Activity 7")
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDownloadActivityFilesEmpty(t *testing.T) {
	d := &Downloader{Root: t.TempDir(), Log: zerolog.Nop()}

	if paths := d.DownloadActivityFiles(nil, ActivityRef{CourseTitle: "Курс", SectionIndex: 1, ActivityIndex: 1}); len(paths) != 0 {
		t.Errorf("expected no paths for no URLs, got %v", paths)
	}
	// No directory should appear either
	entries, err := os.ReadDir(d.Root)
	if err != nil {
		t.Fatalf("failed to read root: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no directories created for an empty URL list")
	}
}

func mustAbs(t *testing.T, p string) string {
	t.Helper()
	abs, err := filepath.Abs(p)
	if err != nil {
		t.Fatalf("abs failed: %v", err)
	}
	return abs
}
