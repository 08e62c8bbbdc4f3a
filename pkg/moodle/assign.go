package moodle

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Label fragments matched case-insensitively against free text. The portal
// renders labels in Ukrainian or English depending on the user's locale, so
// every field carries both; adding a locale means adding rows here.
var dateRowLabels = []struct {
	substrs []string
	field   func(*AssignmentMeta) *string
}{
	{[]string{"доступно з", "доступне з", "available from"}, func(m *AssignmentMeta) *string { return &m.StartAt }},
	{[]string{"термін здачі", "due date"}, func(m *AssignmentMeta) *string { return &m.DueAt }},
	{[]string{"остання можливість здачі", "cut-off"}, func(m *AssignmentMeta) *string { return &m.CutoffAt }},
}

// Labels used inside the .activity-dates header block, where the label sits in
// a <strong> tag and the date is the remainder of the row.
var activityDateLabels = []struct {
	substrs []string
	field   func(*AssignmentMeta) *string
}{
	{[]string{"початок приймання", "opened"}, func(m *AssignmentMeta) *string { return &m.StartAt }},
	{[]string{"термін спливає", "термін здачі", "due"}, func(m *AssignmentMeta) *string { return &m.DueAt }},
}

// Submission status table rows, label cell → field.
var statusLabels = []struct {
	substrs []string
	field   func(*AssignmentMeta) *string
}{
	{[]string{"спроба номер", "attempt number"}, func(m *AssignmentMeta) *string { return &m.Attempt }},
	{[]string{"статус роботи", "submission status"}, func(m *AssignmentMeta) *string { return &m.SubmissionStatus }},
	{[]string{"статус оцінення", "grading status"}, func(m *AssignmentMeta) *string { return &m.GradingStatus }},
	{[]string{"залишилося часу", "time remaining"}, func(m *AssignmentMeta) *string { return &m.TimeRemaining }},
	{[]string{"востаннє змінено", "last modified"}, func(m *AssignmentMeta) *string { return &m.LastModified }},
}

var gradeLabels = []string{"оцінка", "grade"}

// setIfEmpty implements the first-writer-wins rule for meta fields.
func setIfEmpty(field *string, value string) {
	if *field == "" && value != "" {
		*field = value
	}
}

func matchesAny(text string, substrs []string) bool {
	for _, s := range substrs {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}

// FetchAssignMeta opens an assignment page and extracts its metadata. A
// navigation failure is reported as an empty record so one broken assignment
// never stops the course crawl.
func (r *Resolver) FetchAssignMeta(assignURL string) *AssignmentMeta {
	doc, err := r.Fetcher.FetchDocument(assignURL)
	if err != nil {
		r.Log.Warn().Str("url", assignURL).Err(err).Msg("could not open assignment page")
		return &AssignmentMeta{}
	}
	return r.Parser.ParseAssignPage(doc)
}

// ParseAssignPage extracts dates, submission status, attached files and the
// grade from an assignment page.
func (p *Parser) ParseAssignPage(doc *goquery.Document) *AssignmentMeta {
	meta := &AssignmentMeta{Files: []string{}}

	p.parseActivityDates(doc, meta)
	p.parseDateRows(doc, meta)
	p.parseStatusTable(doc, meta)

	// Attached files: pluginfile anchors only. Widening this to every anchor
	// would drag in comment-thread permalinks under the same module path.
	seen := make(map[string]bool)
	doc.Find("a[href*='" + resourceMarker + "']").Each(func(i int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		if href == "" {
			return
		}
		u := p.resolveURL(href)
		if !seen[u] {
			seen[u] = true
			meta.Files = append(meta.Files, u)
		}
	})

	p.parseGrade(doc, meta)

	return meta
}

// parseActivityDates reads the .activity-dates header block, where each row is
// "<strong>Label:</strong> date text".
func (p *Parser) parseActivityDates(doc *goquery.Document, meta *AssignmentMeta) {
	block := doc.Find(".activity-dates").First()
	if block.Length() == 0 {
		return
	}
	block.ChildrenFiltered("div").Each(func(i int, div *goquery.Selection) {
		labelRaw := strings.TrimSpace(div.Find("strong").First().Text())
		if labelRaw == "" {
			return
		}
		label := strings.ToLower(labelRaw)
		full := normalizeSpace(div.Text())
		dateText := strings.Trim(strings.Replace(full, labelRaw, "", 1), " :")
		if dateText == "" {
			return
		}
		for _, entry := range activityDateLabels {
			if matchesAny(label, entry.substrs) {
				setIfEmpty(entry.field(meta), dateText)
				break
			}
		}
	})
}

// parseDateRows scans the .dates block and the submission status table rows
// for date label phrases, storing the whole row text.
func (p *Parser) parseDateRows(doc *goquery.Document, meta *AssignmentMeta) {
	var rows []*goquery.Selection
	doc.Find(".dates div").Each(func(i int, div *goquery.Selection) {
		rows = append(rows, div)
	})
	doc.Find(".submissionstatustable tr").Each(func(i int, tr *goquery.Selection) {
		rows = append(rows, tr)
	})

	for _, row := range rows {
		textRaw := normalizeSpace(row.Text())
		text := strings.ToLower(textRaw)
		for _, entry := range dateRowLabels {
			if matchesAny(text, entry.substrs) {
				setIfEmpty(entry.field(meta), textRaw)
			}
		}
	}
}

// parseStatusTable reads the two-column submission status table.
func (p *Parser) parseStatusTable(doc *goquery.Document, meta *AssignmentMeta) {
	doc.Find(".submissionstatustable tr").Each(func(i int, tr *goquery.Selection) {
		th := tr.Find("th").First()
		td := tr.Find("td").First()
		if th.Length() == 0 || td.Length() == 0 {
			return
		}
		label := strings.ToLower(normalizeSpace(th.Text()))
		value := normalizeSpace(td.Text())
		for _, entry := range statusLabels {
			if matchesAny(label, entry.substrs) {
				setIfEmpty(entry.field(meta), value)
				break
			}
		}
	})
}

// parseGrade reads the feedback table and derives the numeric grade pair from
// cells shaped like "7,00 / 10,00".
func (p *Parser) parseGrade(doc *goquery.Document, meta *AssignmentMeta) {
	doc.Find(".feedbacktable tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		th := tr.Find("th").First()
		td := tr.Find("td").First()
		if th.Length() == 0 || td.Length() == 0 {
			return true
		}
		label := strings.ToLower(normalizeSpace(th.Text()))
		if !matchesAny(label, gradeLabels) {
			return true
		}

		meta.GradeText = normalizeSpace(td.Text())
		parts := strings.Split(meta.GradeText, "/")
		if len(parts) == 2 {
			meta.GradeRaw = normalizeNumber(parts[0])
			meta.GradeMax = normalizeNumber(parts[1])
		}
		return false
	})
}

// normalizeNumber parses locale-formatted numbers like "7,00" or "10.5".
// Returns nil when the text is not numeric.
func normalizeNumber(text string) *float64 {
	t := strings.ReplaceAll(text, " ", " ")
	t = strings.ReplaceAll(strings.TrimSpace(t), " ", "")
	t = strings.ReplaceAll(t, ",", ".")
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return nil
	}
	return &f
}

// normalizeSpace collapses runs of whitespace the way the portal's templates
// scatter newlines and tabs through table cells.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
