package crawler

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Lernify-co/moodle-parser-LNU/pkg/portal"
)

// newPortalServer fakes just enough of the portal for a full crawl: a
// dashboard with one course, the course page with an assignment and a
// resource, the pages behind them and the files themselves.
func newPortalServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/my/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><section>
		<h2>Мої курси</h2>
		<ul class="unlist"><li><a href="/course/view.php?id=7">Комп'ютерні мережі</a></li></ul>
		</section></body></html>`))
	})

	mux.HandleFunc("/course/view.php", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><h1>Комп'ютерні мережі</h1>
		<ul class="topics">
		  <li class="section main"><h3 class="sectionname">Тема 1</h3><ul>
		    <li class="activity assign modtype_assign"><a href="/mod/assign/view.php?id=101"><span class="instancename">Лабораторна 1</span></a></li>
		    <li class="activity resource modtype_resource"><a href="/mod/resource/view.php?id=102"><span class="instancename">Лекція</span></a></li>
		  </ul></li>
		</ul></body></html>`))
	})

	mux.HandleFunc("/mod/assign/view.php", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
		<table class="submissionstatustable"><tr><th>Статус роботи</th><td>Здано на оцінювання</td></tr></table>
		<a href="/pluginfile.php/101/submission/report.pdf">report.pdf</a>
		<table class="feedbacktable"><tr><th>Оцінка</th><td>9,00 / 10,00</td></tr></table>
		</body></html>`))
	})

	mux.HandleFunc("/mod/resource/view.php", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
		<a href="/pluginfile.php/102/content/lecture.pdf">lecture.pdf</a>
		</body></html>`))
	})

	mux.HandleFunc("/pluginfile.php/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("file body"))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestCrawlerRun(t *testing.T) {
	server := newPortalServer(t)
	client := portal.NewClient(server.URL, "testsession")

	c := New(client, t.TempDir(), zerolog.Nop())
	dump, err := c.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(dump.Courses) != 1 {
		t.Fatalf("expected 1 course, got %d", len(dump.Courses))
	}
	course := dump.Courses[0]
	if course.Title != "Комп'ютерні мережі" {
		t.Errorf("unexpected course title %q", course.Title)
	}
	if len(course.Sections) != 1 || len(course.Sections[0].Activities) != 2 {
		t.Fatalf("unexpected course tree: %+v", course.Sections)
	}

	assign := course.Sections[0].Activities[0]
	if assign.Meta == nil {
		t.Fatalf("expected assignment meta to be filled")
	}
	if assign.Meta.SubmissionStatus != "Здано на оцінювання" {
		t.Errorf("unexpected submission status %q", assign.Meta.SubmissionStatus)
	}
	if assign.Meta.GradeRaw == nil || *assign.Meta.GradeRaw != 9.0 {
		t.Errorf("unexpected grade_raw %v", assign.Meta.GradeRaw)
	}
	if len(assign.DownloadedFiles) != 1 {
		t.Fatalf("expected the submission file downloaded, got %v", assign.DownloadedFiles)
	}
	if filepath.Base(assign.DownloadedFiles[0]) != "report.pdf" {
		t.Errorf("unexpected downloaded name %q", assign.DownloadedFiles[0])
	}

	resource := course.Sections[0].Activities[1]
	if len(resource.Files) != 1 {
		t.Fatalf("expected 1 resolved file for the resource, got %v", resource.Files)
	}
	if len(resource.DownloadedFiles) != 1 {
		t.Fatalf("expected the resource file downloaded, got %v", resource.DownloadedFiles)
	}

	// 01_ section prefix, 02_ activity prefix for the second activity
	wantSuffix := filepath.Join("01_Тема 1", "02_Лекція", "lecture.pdf")
	if got := resource.DownloadedFiles[0]; !strings.HasSuffix(got, wantSuffix) {
		t.Errorf("expected path ending in %q, got %q", wantSuffix, got)
	}
}

func TestCrawlerSkipDownloads(t *testing.T) {
	server := newPortalServer(t)
	client := portal.NewClient(server.URL, "testsession")

	c := New(client, t.TempDir(), zerolog.Nop())
	c.SkipDownloads = true

	dump, err := c.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	resource := dump.Courses[0].Sections[0].Activities[1]
	if len(resource.Files) != 1 {
		t.Errorf("expected files resolved even without downloads, got %v", resource.Files)
	}
	if len(resource.DownloadedFiles) != 0 {
		t.Errorf("expected no downloads in skip mode, got %v", resource.DownloadedFiles)
	}
}

func TestCrawlerCourseFilter(t *testing.T) {
	server := newPortalServer(t)
	client := portal.NewClient(server.URL, "testsession")

	c := New(client, t.TempDir(), zerolog.Nop())
	c.SkipDownloads = true
	c.CourseFilter = "немає такого курсу"

	dump, err := c.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(dump.Courses) != 0 {
		t.Errorf("expected the filter to exclude everything, got %d courses", len(dump.Courses))
	}
}
