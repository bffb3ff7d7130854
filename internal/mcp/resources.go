package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"pixelia/internal/service"
)

const (
	projectsURI = "pixelia://projects"
	pageURIBase = "pixelia://page/"
)

func (s *Server) registerResources() {
	// ── pixelia://projects ─────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		projectsURI,
		"All Projects",
		mcp.WithMIMEType("application/json"),
	), s.handleProjectsResource)

	// ── pixelia://page/{index}/elements ────────────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			pageURIBase+"{index}/elements",
			"Elements on a Page of the Open Project",
		),
		s.handlePageElementsResource,
	)
}

func (s *Server) handleProjectsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(s.projects.List(service.FilterAll, ""), "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      projectsURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handlePageElementsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	index, err := pageIndexFromURI(uri)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireProject(); err != nil {
		return nil, err
	}
	pages := s.session.Pages()
	if index >= len(pages) {
		return nil, fmt.Errorf("page index %d out of range (project has %d pages)", index, len(pages))
	}

	data, err := json.MarshalIndent(summarizeElements(pages[index].Elements), "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// pageIndexFromURI extracts the index from "pixelia://page/{index}/elements".
func pageIndexFromURI(uri string) (int, error) {
	rest, ok := strings.CutPrefix(uri, pageURIBase)
	if !ok {
		return 0, fmt.Errorf("not a page URI: %s", uri)
	}
	raw, ok := strings.CutSuffix(rest, "/elements")
	if !ok {
		return 0, fmt.Errorf("not a page elements URI: %s", uri)
	}
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("bad page index in %s", uri)
	}
	return i, nil
}
