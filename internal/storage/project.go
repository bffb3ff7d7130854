package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"pixelia/internal/domain"
)

const (
	KeyProjects      = "pixelia_projects"
	KeyDarkMode      = "pixelia_dark_mode"
	KeyNotifications = "pixelia_notifications"
	KeyLanguage      = "pixelia_language"

	contentPrefix = "pixelia_content_"
)

// ContentKey is the key holding a project's page list.
func ContentKey(projectID string) string {
	return contentPrefix + projectID
}

// ProjectStore implements domain.ProjectStore as JSON documents on a KV.
type ProjectStore struct {
	kv KV
}

func NewProjectStore(kv KV) *ProjectStore {
	return &ProjectStore{kv: kv}
}

// ListProjects returns an empty list when nothing has been saved yet.
func (s *ProjectStore) ListProjects() ([]domain.Project, error) {
	raw, err := s.kv.Get(KeyProjects)
	if errors.Is(err, ErrNotFound) {
		return []domain.Project{}, nil
	}
	if err != nil {
		return nil, err
	}
	var projects []domain.Project
	if err := json.Unmarshal([]byte(raw), &projects); err != nil {
		return nil, fmt.Errorf("decode projects: %w", err)
	}
	if projects == nil {
		projects = []domain.Project{}
	}
	return projects, nil
}

func (s *ProjectStore) SaveProjects(projects []domain.Project) error {
	data, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("encode projects: %w", err)
	}
	return s.kv.Set(KeyProjects, string(data))
}

// LoadPages returns ErrNotFound when the project has no saved content and a
// decode error when the stored document is malformed.
func (s *ProjectStore) LoadPages(projectID string) ([]*domain.Page, error) {
	raw, err := s.kv.Get(ContentKey(projectID))
	if err != nil {
		return nil, err
	}
	var pages []*domain.Page
	if err := json.Unmarshal([]byte(raw), &pages); err != nil {
		return nil, fmt.Errorf("decode pages of %s: %w", projectID, err)
	}
	for _, p := range pages {
		if p == nil {
			return nil, fmt.Errorf("decode pages of %s: null page", projectID)
		}
		if p.Elements == nil {
			p.Elements = []domain.Element{}
		}
		if p.BackgroundColor == "" {
			p.BackgroundColor = domain.DefaultBackgroundColor
		}
		if p.BackgroundPattern == "" {
			p.BackgroundPattern = domain.PatternNone
		}
	}
	return pages, nil
}

func (s *ProjectStore) SavePages(projectID string, pages []*domain.Page) error {
	data, err := json.Marshal(pages)
	if err != nil {
		return fmt.Errorf("encode pages of %s: %w", projectID, err)
	}
	return s.kv.Set(ContentKey(projectID), string(data))
}

func (s *ProjectStore) DeletePages(projectID string) error {
	return s.kv.Delete(ContentKey(projectID))
}

// OrphanedContent lists content keys whose project is no longer in the list.
func (s *ProjectStore) OrphanedContent() ([]string, error) {
	projects, err := s.ListProjects()
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(projects))
	for _, p := range projects {
		known[ContentKey(p.ID)] = true
	}
	keys, err := s.kv.Keys(contentPrefix)
	if err != nil {
		return nil, err
	}
	var orphans []string
	for _, k := range keys {
		if !known[k] {
			orphans = append(orphans, k)
		}
	}
	return orphans, nil
}
