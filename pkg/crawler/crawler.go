// Package crawler drives the full portal crawl: dashboard → courses →
// sections → activities → metadata → file downloads. Everything runs in one
// sequential pass; a failed unit is logged and skipped.
package crawler

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Lernify-co/moodle-parser-LNU/pkg/download"
	"github.com/Lernify-co/moodle-parser-LNU/pkg/moodle"
	"github.com/Lernify-co/moodle-parser-LNU/pkg/portal"
)

// Crawler ties the portal client, the parsers and the downloader together.
type Crawler struct {
	Client     *portal.Client
	Parser     *moodle.Parser
	Resolver   *moodle.Resolver
	Downloader *download.Downloader
	Log        zerolog.Logger

	// SkipDownloads builds the full record tree without writing any files.
	SkipDownloads bool
	// CourseFilter, when set, restricts the crawl to courses whose title
	// contains it (case-insensitive).
	CourseFilter string
}

// New wires a crawler around an authenticated portal client.
func New(client *portal.Client, downloadRoot string, log zerolog.Logger) *Crawler {
	parser := &moodle.Parser{Base: client.Base()}
	return &Crawler{
		Client:   client,
		Parser:   parser,
		Resolver: moodle.NewResolver(parser, client, log),
		Downloader: &download.Downloader{
			Client: client,
			Root:   downloadRoot,
			Log:    log,
		},
		Log: log,
	}
}

// FetchCourses lists the courses on the dashboard.
func (c *Crawler) FetchCourses() ([]moodle.CourseRef, error) {
	resp, err := c.Client.Get(c.Client.DashboardURL())
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}
	defer resp.Body.Close()

	courses, err := c.Parser.ParseDashboardCourses(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard: %w", err)
	}
	return courses, nil
}

// Run crawls every enrolled course and returns the dump record. A course that
// fails to load is logged and left out; the rest of the crawl continues.
func (c *Crawler) Run() (*moodle.Dump, error) {
	refs, err := c.FetchCourses()
	if err != nil {
		return nil, err
	}

	dump := &moodle.Dump{
		DashboardURL: c.Client.DashboardURL(),
		Courses:      []moodle.Course{},
	}

	for i, ref := range refs {
		if c.CourseFilter != "" && !strings.Contains(strings.ToLower(ref.Title), strings.ToLower(c.CourseFilter)) {
			continue
		}

		c.Log.Info().
			Int("n", i+1).
			Int("total", len(refs)).
			Str("course", ref.Title).
			Msg("crawling course")

		course, err := c.CrawlCourse(ref)
		if err != nil {
			c.Log.Warn().Str("course", ref.Title).Str("url", ref.URL).Err(err).Msg("course crawl failed, skipping")
			continue
		}
		dump.Courses = append(dump.Courses, *course)
	}

	return dump, nil
}

// CrawlCourse loads one course page, parses its tree and resolves + downloads
// the files of every activity.
func (c *Crawler) CrawlCourse(ref moodle.CourseRef) (*moodle.Course, error) {
	resp, err := c.Client.Get(ref.URL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	course, err := c.Parser.ParseCoursePage(resp.Body, ref.URL)
	if err != nil {
		return nil, err
	}

	for si := range course.Sections {
		section := &course.Sections[si]
		for ai := range section.Activities {
			c.processActivity(course, section, &section.Activities[ai])
		}
	}

	return course, nil
}

// processActivity fills in metadata and files for a single activity and
// downloads whatever was resolved.
func (c *Crawler) processActivity(course *moodle.Course, section *moodle.Section, act *moodle.Activity) {
	var urls []string

	switch act.Type {
	case moodle.TypeAssign:
		c.Log.Debug().Str("activity", act.Name).Msg("parsing assignment")
		act.Meta = c.Resolver.FetchAssignMeta(act.URL)
		urls = act.Meta.Files
	case moodle.TypeResource, moodle.TypeFolder:
		act.Files = c.Resolver.ResolveFiles(act)
		urls = act.Files
	default:
		return
	}

	if c.SkipDownloads || len(urls) == 0 {
		return
	}

	act.DownloadedFiles = c.Downloader.DownloadActivityFiles(urls, download.ActivityRef{
		CourseTitle:   course.Title,
		SectionIndex:  section.Position,
		SectionName:   section.Name,
		ActivityIndex: act.Position,
		ActivityName:  act.Name,
	})
}
