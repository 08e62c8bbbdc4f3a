package moodle

import "github.com/PuerkitoBio/goquery"

// CourseRef is a course entry discovered on the dashboard ("Мої курси" block).
type CourseRef struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Course represents one fully parsed course page.
type Course struct {
	Title    string       `json:"title"`
	URL      string       `json:"url"`
	Sections []Section    `json:"sections"`
	Webinars []WebinarRef `json:"webinars"`
}

// Section is a named group of activities in document order. Position is the
// 1-based document-order index captured when the tree is built; it survives
// pruning of earlier empty sections so download directory names stay stable.
type Section struct {
	Name       string     `json:"name"`
	Activities []Activity `json:"activities"`
	Position   int        `json:"-"`
}

// Activity is a single item inside a section: an assignment, a file resource,
// a folder, a webinar room or any other module type.
type Activity struct {
	Name string `json:"name"`
	Type string `json:"type"`
	URL  string `json:"url"`
	// Position is the 1-based index within the section, in document order,
	// counting anchor-less entries that never make it into the record.
	Position int `json:"-"`

	// Meta is filled for assign activities only.
	Meta *AssignmentMeta `json:"meta,omitempty"`
	// Files holds the resolved pluginfile URLs for resource/folder activities.
	Files []string `json:"files,omitempty"`
	// DownloadedFiles holds local paths written by the downloader, in the same
	// order as the URLs they came from.
	DownloadedFiles []string `json:"downloaded_files,omitempty"`

	// inlineFolder keeps the course-page markup of a folder activity so the
	// resolver can try the inline tree before navigating anywhere.
	inlineFolder *goquery.Selection
}

// AssignmentMeta holds everything scraped from an assignment page. Date and
// status fields keep the raw portal text; each one is first-writer-wins across
// the extraction sources, so an empty string means "never seen".
type AssignmentMeta struct {
	StartAt  string `json:"start_at,omitempty"`
	DueAt    string `json:"due_at,omitempty"`
	CutoffAt string `json:"cutoff_at,omitempty"`

	Attempt          string `json:"attempt,omitempty"`
	SubmissionStatus string `json:"submission_status,omitempty"`
	GradingStatus    string `json:"grading_status,omitempty"`
	TimeRemaining    string `json:"time_remaining,omitempty"`
	LastModified     string `json:"last_modified,omitempty"`

	Files []string `json:"files"`

	// GradeText is the verbatim cell text, e.g. "7,00 / 10,00" or "Зараховано".
	// GradeRaw/GradeMax are derived only when GradeText splits into exactly two
	// "/"-separated numeric parts.
	GradeText string   `json:"grade_text,omitempty"`
	GradeRaw  *float64 `json:"grade_raw,omitempty"`
	GradeMax  *float64 `json:"grade_max,omitempty"`
}

// WebinarRef points at a webinar activity found inside the "Вебінари" section.
type WebinarRef struct {
	Name         string `json:"name"`
	Platform     string `json:"platform"`
	MoodleURL    string `json:"moodle_url"`
	SectionName  string `json:"section_name"`
	SectionIndex int    `json:"section_index"`
}

// Dump is the top-level record written to moodle_dump.json.
type Dump struct {
	DashboardURL string   `json:"dashboard_url"`
	Courses      []Course `json:"courses"`
}

// Activity module types the crawler treats specially.
const (
	TypeAssign        = "assign"
	TypeResource      = "resource"
	TypeFolder        = "folder"
	TypeBigBlueButton = "bigbluebuttonbn"
	TypeGoogleMeet    = "googlemeet"
)

// resourceMarker is the URL path segment identifying a portal-served file.
const resourceMarker = "pluginfile.php"
