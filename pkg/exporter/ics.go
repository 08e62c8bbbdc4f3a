// Package exporter renders crawl results into calendar form.
package exporter

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/Lernify-co/moodle-parser-LNU/pkg/moodle"
)

// Deadline is one assignment due date ready for calendar export.
type Deadline struct {
	Course   string
	Activity string
	URL      string
	Due      time.Time
	Status   string
	Grade    string
}

// monthNames maps the genitive Ukrainian month names the portal renders (and
// their English counterparts) to month numbers.
var monthNames = map[string]time.Month{
	"січня": time.January, "лютого": time.February, "березня": time.March,
	"квітня": time.April, "травня": time.May, "червня": time.June,
	"липня": time.July, "серпня": time.August, "вересня": time.September,
	"жовтня": time.October, "листопада": time.November, "грудня": time.December,
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// datePhraseRe matches "15 грудня 2023" optionally followed by ", 23:59"
// anywhere inside a label-bearing row text.
var datePhraseRe = regexp.MustCompile(`(\d{1,2})\s+([^\s,]+)\s+(\d{4})(?:[,\s]+(\d{1,2}):(\d{2}))?`)

// ParseDatePhrase finds a portal date phrase inside raw row text, e.g.
// "Термін здачі: п'ятниця, 15 грудня 2023, 23:59". Returns false when the
// text holds no recognizable date.
func ParseDatePhrase(raw string, loc *time.Location) (time.Time, bool) {
	m := datePhraseRe.FindStringSubmatch(raw)
	if m == nil {
		return time.Time{}, false
	}

	day, _ := strconv.Atoi(m[1])
	month, ok := monthNames[strings.ToLower(m[2])]
	if !ok {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[3])

	hour, minute := 0, 0
	if m[4] != "" {
		hour, _ = strconv.Atoi(m[4])
		minute, _ = strconv.Atoi(m[5])
	}

	return time.Date(year, month, day, hour, minute, 0, 0, loc), true
}

// CollectDeadlines pulls every assignment with a parseable due date out of a
// crawl dump. Rows without a recognizable date are skipped, matching how the
// portal mixes free-text and structured dates.
func CollectDeadlines(dump *moodle.Dump) []Deadline {
	loc, err := time.LoadLocation("Europe/Kyiv")
	if err != nil {
		loc = time.FixedZone("EET", 2*60*60)
	}

	var deadlines []Deadline
	for _, course := range dump.Courses {
		for _, section := range course.Sections {
			for _, act := range section.Activities {
				if act.Type != moodle.TypeAssign || act.Meta == nil || act.Meta.DueAt == "" {
					continue
				}
				due, ok := ParseDatePhrase(act.Meta.DueAt, loc)
				if !ok {
					continue
				}
				deadlines = append(deadlines, Deadline{
					Course:   course.Title,
					Activity: act.Name,
					URL:      act.URL,
					Due:      due,
					Status:   act.Meta.SubmissionStatus,
					Grade:    act.Meta.GradeText,
				})
			}
		}
	}
	return deadlines
}

// GenerateICS writes the assignment deadlines from a crawl dump as an ICS
// calendar. Returns the number of events written.
func GenerateICS(dump *moodle.Dump, w io.Writer) (int, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)

	deadlines := CollectDeadlines(dump)
	for i, d := range deadlines {
		event := cal.AddEvent(fmt.Sprintf("%s-%d", d.Due.Format("20060102T150405Z"), i))
		event.SetCreatedTime(time.Now())
		event.SetDtStampTime(time.Now())
		event.SetModifiedAt(time.Now())
		event.SetStartAt(d.Due)
		event.SetEndAt(d.Due)
		event.SetSummary(fmt.Sprintf("%s: %s", d.Course, d.Activity))

		var desc []string
		if d.Status != "" {
			desc = append(desc, "Статус: "+d.Status)
		}
		if d.Grade != "" {
			desc = append(desc, "Оцінка: "+d.Grade)
		}
		desc = append(desc, d.URL)
		event.SetDescription(strings.Join(desc, "\n"))
	}

	if err := cal.SerializeTo(w); err != nil {
		return 0, fmt.Errorf("could not serialize calendar: %w", err)
	}
	return len(deadlines), nil
}
