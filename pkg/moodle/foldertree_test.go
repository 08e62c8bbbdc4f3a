package moodle

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return doc
}

func TestFolderFilesNested(t *testing.T) {
	p := newTestParser()

	// Two levels of nesting plus a duplicate leaf link; the duplicate must be
	// dropped and document order kept
	html := `<div class="foldertree">
	  <div class="ygtvitem">
	    <a href="/pluginfile.php/10/mod_folder/content/0/lecture1.pdf">lecture1</a>
	    <div class="ygtvchildren">
	      <div class="ygtvitem">
	        <a href="/pluginfile.php/10/mod_folder/content/0/sub/lecture2.pdf">lecture2</a>
	        <div class="ygtvchildren">
	          <div class="ygtvitem">
	            <a href="/pluginfile.php/10/mod_folder/content/0/sub/deep/lecture3.pdf">lecture3</a>
	            <a href="/pluginfile.php/10/mod_folder/content/0/lecture1.pdf">duplicate of lecture1</a>
	          </div>
	        </div>
	      </div>
	    </div>
	  </div>
	</div>`

	files := p.FolderFiles(mustDoc(t, html).Selection)

	want := []string{
		testBase + "/pluginfile.php/10/mod_folder/content/0/lecture1.pdf",
		testBase + "/pluginfile.php/10/mod_folder/content/0/sub/lecture2.pdf",
		testBase + "/pluginfile.php/10/mod_folder/content/0/sub/deep/lecture3.pdf",
	}
	if len(files) != len(want) {
		t.Fatalf("expected %d files, got %d: %v", len(want), len(files), files)
	}
	for i, u := range want {
		if files[i] != u {
			t.Errorf("file %d: expected %q, got %q", i, u, files[i])
		}
	}
}

func TestFolderFilesRootFallback(t *testing.T) {
	p := newTestParser()

	// Roots wrapped in a .filemanager div, so the strict direct-child root
	// selector finds nothing and the loose one must take over
	html := `<div class="foldertree">
	  <div class="filemanager">
	    <div class="ygtvitem">
	      <a href="/pluginfile.php/11/mod_folder/content/0/syllabus.pdf">syllabus</a>
	    </div>
	  </div>
	</div>`

	files := p.FolderFiles(mustDoc(t, html).Selection)
	if len(files) != 1 {
		t.Fatalf("expected 1 file via fallback roots, got %d", len(files))
	}
	if !strings.HasSuffix(files[0], "syllabus.pdf") {
		t.Errorf("unexpected file %q", files[0])
	}
}

func TestFolderFilesMultipleTrees(t *testing.T) {
	p := newTestParser()

	html := `<div>
	  <div class="foldertree"><div class="ygtvitem">
	    <a href="/pluginfile.php/1/a.pdf">a</a>
	  </div></div>
	  <div class="foldertree"><div class="ygtvitem">
	    <a href="/pluginfile.php/2/b.pdf">b</a>
	    <a href="/pluginfile.php/1/a.pdf">a again</a>
	  </div></div>
	</div>`

	files := p.FolderFiles(mustDoc(t, html).Selection)
	if len(files) != 2 {
		t.Fatalf("expected 2 deduplicated files across trees, got %d: %v", len(files), files)
	}
}

func TestFolderFilesIgnoresOtherLinks(t *testing.T) {
	p := newTestParser()

	html := `<div class="foldertree"><div class="ygtvitem">
	  <a href="/mod/folder/view.php?id=3">folder page itself</a>
	  <a href="/pluginfile.php/3/notes.pdf">notes</a>
	</div></div>`

	files := p.FolderFiles(mustDoc(t, html).Selection)
	if len(files) != 1 {
		t.Fatalf("expected only the pluginfile link, got %v", files)
	}
}
