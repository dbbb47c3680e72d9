package model

import "time"

// JobStatus represents the lifecycle state of a deep research job.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// ResearchRequest describes the product under investigation.
type ResearchRequest struct {
	ProductName string   `json:"product_name"`
	Brand       string   `json:"brand,omitempty"`
	Category    string   `json:"category"`
	Ingredients []string `json:"ingredients"`
}

// ResearchJob tracks a single deep research job. Progress and CurrentStep
// only move forward; a terminal record is never mutated again except by
// TTL deletion.
type ResearchJob struct {
	JobID       string           `json:"job_id"`
	Status      JobStatus        `json:"status"`
	Progress    int              `json:"progress"` // 0-100, monotonic
	CurrentStep string           `json:"current_step,omitempty"`
	Request     ResearchRequest  `json:"request"`
	Result      *ResearchReport  `json:"result,omitempty"`
	Error       string           `json:"error,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

// ReportSection is one titled section of a research report.
type ReportSection struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// ResearchReport is the assembled multi-section narrative report. Sections
// keep their generation order; a job only completes once all sections are
// present and non-empty.
type ResearchReport struct {
	ProductName string          `json:"product_name"`
	Brand       string          `json:"brand,omitempty"`
	Category    string          `json:"category"`
	Sections    []ReportSection `json:"sections"`
	FullReport  string          `json:"full_report"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// Section returns the text of the section with the given title, or "".
func (r *ResearchReport) Section(title string) string {
	for _, s := range r.Sections {
		if s.Title == title {
			return s.Text
		}
	}
	return ""
}
