package service

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"pixelia/internal/domain"
)

const (
	defaultProjectTitle = "Infinite Whiteboard"
	defaultDisplayType  = "Infinite Board"
	defaultOwner        = "You"
	justNow             = "Just now"
)

// ThumbnailColors are the dashboard card backgrounds a new project draws from.
var ThumbnailColors = []string{
	"bg-orange-100", "bg-blue-100", "bg-pink-100",
	"bg-purple-100", "bg-green-100", "bg-yellow-100",
}

type ProjectFilter string

const (
	FilterAll     ProjectFilter = "all"
	FilterStarred ProjectFilter = "starred"
)

// ProjectService manages the dashboard's project list.
type ProjectService struct {
	store   domain.ProjectStore
	emitter EventEmitter
	now     func() time.Time
}

func NewProjectService(store domain.ProjectStore, emitter EventEmitter) *ProjectService {
	return &ProjectService{store: store, emitter: emitter, now: time.Now}
}

// all loads the project list. A corrupt list reads as empty.
func (s *ProjectService) all() []domain.Project {
	projects, err := s.store.ListProjects()
	if err != nil {
		log.Printf("[projects] discarding unreadable project list: %v", err)
		return []domain.Project{}
	}
	return projects
}

func (s *ProjectService) save(ctx context.Context, projects []domain.Project) error {
	if err := s.store.SaveProjects(projects); err != nil {
		return fmt.Errorf("save projects: %w", err)
	}
	s.emitter.Emit(ctx, EventProjects, nil)
	return nil
}

// List returns the projects matching filter whose title contains search,
// case-insensitively.
func (s *ProjectService) List(filter ProjectFilter, search string) []domain.Project {
	search = strings.ToLower(strings.TrimSpace(search))
	out := []domain.Project{}
	for _, p := range s.all() {
		if filter == FilterStarred && !p.Starred {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Title), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (s *ProjectService) Get(id string) (domain.Project, bool) {
	for _, p := range s.all() {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Project{}, false
}

// Create prepends a new freehand board.
func (s *ProjectService) Create(ctx context.Context) (domain.Project, error) {
	now := s.now()
	p := domain.Project{
		ID:          uuid.New().String(),
		Title:       defaultProjectTitle,
		Type:        domain.ProjectFreehand,
		DisplayType: defaultDisplayType,
		Date:        justNow,
		Owner:       defaultOwner,
		Thumbnail:   ThumbnailColors[rand.IntN(len(ThumbnailColors))],
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	projects := append([]domain.Project{p}, s.all()...)
	if err := s.save(ctx, projects); err != nil {
		return domain.Project{}, err
	}
	return p, nil
}

func (s *ProjectService) Rename(ctx context.Context, id, title string) error {
	return s.update(ctx, id, func(p *domain.Project) { p.Title = title })
}

func (s *ProjectService) ToggleStar(ctx context.Context, id string) error {
	return s.update(ctx, id, func(p *domain.Project) { p.Starred = !p.Starred })
}

// Touch marks the project as just edited.
func (s *ProjectService) Touch(ctx context.Context, id string) error {
	now := s.now()
	return s.update(ctx, id, func(p *domain.Project) {
		p.Date = justNow
		p.UpdatedAt = now
	})
}

// Delete removes the project and its page content.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	projects := s.all()
	kept := projects[:0]
	for _, p := range projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if err := s.save(ctx, kept); err != nil {
		return err
	}
	if err := s.store.DeletePages(id); err != nil {
		return fmt.Errorf("delete content of %s: %w", id, err)
	}
	return nil
}

func (s *ProjectService) update(ctx context.Context, id string, fn func(p *domain.Project)) error {
	projects := s.all()
	for i := range projects {
		if projects[i].ID == id {
			fn(&projects[i])
			return s.save(ctx, projects)
		}
	}
	return fmt.Errorf("project %s not found", id)
}
