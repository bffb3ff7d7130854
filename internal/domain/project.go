package domain

import "time"

type ProjectType string

const (
	ProjectFreehand     ProjectType = "FREEHAND"
	ProjectPresentation ProjectType = "PRESENTATION"
	ProjectBanner       ProjectType = "BANNER"
	ProjectPost         ProjectType = "POST"
	ProjectA4           ProjectType = "A4"
)

// Project is a dashboard entry owning an ordered list of pages.
// Pages are persisted separately under the project's content key.
type Project struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Type        ProjectType `json:"type"`
	DisplayType string      `json:"displayType"`
	Date        string      `json:"date"`
	Owner       string      `json:"owner"`
	Thumbnail   string      `json:"thumbnail"`
	Starred     bool        `json:"starred"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type ProjectStore interface {
	ListProjects() ([]Project, error)
	SaveProjects(projects []Project) error
	LoadPages(projectID string) ([]*Page, error)
	SavePages(projectID string, pages []*Page) error
	DeletePages(projectID string) error
}
