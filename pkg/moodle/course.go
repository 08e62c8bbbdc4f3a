package moodle

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Parser turns raw portal markup into course records. Base is the portal
// origin used to resolve host-relative links, e.g. "https://moodle.elct.lnu.edu.ua".
type Parser struct {
	Base string
}

// resolveURL turns a host-relative href into an absolute one.
func (p *Parser) resolveURL(href string) string {
	if strings.HasPrefix(href, "/") {
		return p.Base + href
	}
	return href
}

// ParseDashboardCourses extracts the "Мої курси" block from the dashboard and
// returns the course links it lists.
func (p *Parser) ParseDashboardCourses(r io.Reader) ([]CourseRef, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	// The course list sits in a <section> whose heading says "Мої курси"
	var target *goquery.Selection
	doc.Find("h2, h3").EachWithBreak(func(i int, h *goquery.Selection) bool {
		title := strings.ToLower(strings.TrimSpace(h.Text()))
		if strings.Contains(title, "мої курси") || strings.Contains(title, "my courses") {
			target = h.Closest("section")
			return false
		}
		return true
	})
	if target == nil {
		return nil, nil
	}

	var courses []CourseRef
	target.Find("ul.unlist li a").Each(func(i int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return
		}
		courses = append(courses, CourseRef{
			Title: strings.TrimSpace(a.Text()),
			URL:   p.resolveURL(href),
		})
	})
	return courses, nil
}

// ParseCoursePage parses a course page into its section/activity tree.
// Missing substructures degrade to empty fields; the only possible error is a
// malformed reader.
func (p *Parser) ParseCoursePage(r io.Reader, courseURL string) (*Course, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = courseURL
	}

	course := &Course{
		Title:    title,
		URL:      courseURL,
		Sections: []Section{},
		Webinars: []WebinarRef{},
	}

	sections := doc.Find("li.section.main")
	if sections.Length() == 0 {
		sections = doc.Find("li.section")
	}

	sections.Each(func(i int, sec *goquery.Selection) {
		secIndex := i + 1
		sectionName := strings.TrimSpace(sec.Find(".sectionname, h3.sectionname, h3").First().Text())
		dataName := strings.TrimSpace(sec.AttrOr("data-sectionname", ""))
		isWebinars := isWebinarsName(sectionName) || isWebinarsName(dataName)

		section := Section{Name: sectionName, Position: secIndex}

		sec.Find("li.activity, li[class*=modtype_]").Each(func(j int, act *goquery.Selection) {
			link := act.Find("a").First()
			if link.Length() == 0 {
				return // no anchor, nothing to record
			}
			actIndex := j + 1
			actURL := p.resolveURL(link.AttrOr("href", ""))
			actName := activityName(act, link)
			actType := activityType(act)

			if isWebinars {
				if platform := webinarPlatform(actType); platform != "" {
					course.Webinars = append(course.Webinars, WebinarRef{
						Name:         actName,
						Platform:     platform,
						MoodleURL:    actURL,
						SectionName:  sectionName,
						SectionIndex: secIndex,
					})
				}
			}

			activity := Activity{
				Name:     actName,
				Type:     actType,
				URL:      actURL,
				Position: actIndex,
			}
			if actType == TypeFolder {
				activity.inlineFolder = act
			}
			section.Activities = append(section.Activities, activity)
		})

		// A section with neither a name nor activities carries no information
		if section.Name != "" || len(section.Activities) > 0 {
			course.Sections = append(course.Sections, section)
		}
	})

	return course, nil
}

// activityName resolves the display name of an activity. Tries the standard
// .instancename element first, then the data-activityname attribute on the
// activity item, then the anchor's own text.
func activityName(act, link *goquery.Selection) string {
	if name := strings.TrimSpace(act.Find(".instancename").First().Text()); name != "" {
		return name
	}
	if name := strings.TrimSpace(act.Find(".activity-item").First().AttrOr("data-activityname", "")); name != "" {
		return name
	}
	return strings.TrimSpace(link.Text())
}

// activityType derives the module type from the modtype_<type> class token.
func activityType(act *goquery.Selection) string {
	for _, cls := range strings.Fields(act.AttrOr("class", "")) {
		if strings.HasPrefix(cls, "modtype_") {
			return strings.TrimPrefix(cls, "modtype_")
		}
	}
	return ""
}

func isWebinarsName(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	return lower == "вебінари" || lower == "webinars"
}

func webinarPlatform(actType string) string {
	switch actType {
	case TypeBigBlueButton:
		return "bigbluebutton"
	case TypeGoogleMeet:
		return "google_meet"
	}
	return ""
}
