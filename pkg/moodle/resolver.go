package moodle

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

// PageFetcher loads a portal page and returns its parsed document. The portal
// client implements it; tests supply fakes.
type PageFetcher interface {
	FetchDocument(url string) (*goquery.Document, error)
}

// Resolver turns an activity URL into the list of downloadable file URLs
// behind it. All failures degrade to a best-effort (possibly empty) list.
type Resolver struct {
	Parser  *Parser
	Fetcher PageFetcher
	Log     zerolog.Logger

	strategies []resolveStrategy
}

// resolveStrategy inspects a fetched activity page and returns the file URLs
// it recognizes, or nil to let the next strategy try.
type resolveStrategy func(doc *goquery.Document) []string

// NewResolver builds a resolver with the standard strategy chain: folder tree
// first, then an embedded-media scan, then the single-link fallback regions.
func NewResolver(parser *Parser, fetcher PageFetcher, log zerolog.Logger) *Resolver {
	r := &Resolver{Parser: parser, Fetcher: fetcher, Log: log}
	r.strategies = []resolveStrategy{
		r.folderTreeStrategy,
		r.embeddedFilesStrategy,
		r.singleLinkStrategy,
	}
	return r
}

// CollectActivityFiles resolves an activity URL into downloadable file URLs.
// It never returns an error: an unreachable URL yields an empty list and a
// page with nothing recognizable yields the activity URL itself.
func (r *Resolver) CollectActivityFiles(activityURL string) []string {
	// Already a direct file link, no navigation needed
	if strings.Contains(activityURL, resourceMarker) {
		return []string{activityURL}
	}
	if !navigable(activityURL) {
		return nil
	}

	doc, err := r.Fetcher.FetchDocument(activityURL)
	if err != nil {
		r.Log.Warn().Str("url", activityURL).Err(err).Msg("could not open activity page")
		return nil
	}

	for _, strategy := range r.strategies {
		if urls := strategy(doc); len(urls) > 0 {
			return urls
		}
	}

	// Nothing recognizable: the page itself becomes the downloaded artifact
	return []string{activityURL}
}

// ResolveFiles resolves the downloadable URLs for a parsed activity. Folder
// activities get the inline-tree shortcut, everything else goes through the
// strategy chain against the activity's own page.
func (r *Resolver) ResolveFiles(act *Activity) []string {
	if act.Type == TypeFolder {
		return r.CollectFolderFiles(act.inlineFolder, act.URL)
	}
	return r.CollectActivityFiles(act.URL)
}

// CollectFolderFiles handles folder activities: it first tries the folder tree
// rendered inline on the course page, and only navigates to the activity's own
// page when the inline markup has none.
func (r *Resolver) CollectFolderFiles(inline *goquery.Selection, activityURL string) []string {
	if inline != nil {
		if urls := r.safeFolderFiles(inline); len(urls) > 0 {
			return urls
		}
	}
	return r.CollectActivityFiles(activityURL)
}

// navigable reports whether the URL points at a page we can actually open.
func navigable(u string) bool {
	u = strings.TrimSpace(u)
	return u != "" && u != "#" && strings.HasPrefix(u, "http")
}

// safeFolderFiles runs the folder-tree walk and isolates a panic in one tree
// from the rest of the page.
func (r *Resolver) safeFolderFiles(s *goquery.Selection) (urls []string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.Log.Warn().Interface("panic", rec).Msg("folder tree parse failed")
			urls = nil
		}
	}()
	return r.Parser.FolderFiles(s)
}

// folderTreeStrategy extracts files from a mod_folder tree widget if the page
// has one. A failing tree falls through to the next strategy.
func (r *Resolver) folderTreeStrategy(doc *goquery.Document) []string {
	if doc.Find(".foldertree").Length() == 0 {
		return nil
	}
	return r.safeFolderFiles(doc.Selection)
}

// embeddedFilesStrategy scans anchors and embeddable media for pluginfile
// targets: <a href>, plus src on iframe/img/source/video/audio.
func (r *Resolver) embeddedFilesStrategy(doc *goquery.Document) []string {
	var urls []string
	seen := make(map[string]bool)

	add := func(raw string) {
		u := strings.TrimSpace(raw)
		if u == "" || strings.HasPrefix(u, "#") || strings.HasPrefix(strings.ToLower(u), "javascript:") {
			return
		}
		u = r.Parser.resolveURL(u)
		if strings.Contains(u, resourceMarker) && !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}

	doc.Find("a").Each(func(i int, a *goquery.Selection) {
		add(a.AttrOr("href", ""))
	})
	doc.Find("iframe, img, source, video, audio").Each(func(i int, tag *goquery.Selection) {
		add(tag.AttrOr("src", ""))
	})

	return urls
}

// singleLinkRegions are scanned in order for a lone usable link when no
// pluginfile target was found anywhere on the page.
var singleLinkRegions = []string{
	".resourceworkaround a",
	".activityinstance a",
	".region-main a",
}

// singleLinkStrategy returns the first non-placeholder link found in the
// fallback regions, as a single-element list.
func (r *Resolver) singleLinkStrategy(doc *goquery.Document) []string {
	var result []string
	doc.Find(strings.Join(singleLinkRegions, ", ")).EachWithBreak(func(i int, a *goquery.Selection) bool {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
			return true
		}
		result = []string{r.Parser.resolveURL(href)}
		return false
	})
	return result
}
