package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("brainstorm",
		mcp.WithPromptDescription("Fill a fresh page with sticky notes of ideas on a topic"),
		mcp.WithArgument("topic",
			mcp.ArgumentDescription("What to brainstorm about"),
			mcp.RequiredArgument(),
		),
	), s.handleBrainstormPrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("retrospective",
		mcp.WithPromptDescription("Lay out a three-column team retrospective board"),
		mcp.WithArgument("team",
			mcp.ArgumentDescription("Team or project name"),
			mcp.RequiredArgument(),
		),
	), s.handleRetrospectivePrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("system_diagram",
		mcp.WithPromptDescription("Sketch a system architecture with shapes, arrows and labels"),
		mcp.WithArgument("systemName",
			mcp.ArgumentDescription("Name of the system to diagram"),
			mcp.RequiredArgument(),
		),
	), s.handleSystemDiagramPrompt)
}

func userPrompt(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.TextContent{Type: "text", Text: text},
			},
		},
	}
}

func (s *Server) handleBrainstormPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	topic := req.Params.Arguments["topic"]
	return userPrompt(fmt.Sprintf("Brainstorm: %s", topic), fmt.Sprintf(`Brainstorm ideas about "%s" on the whiteboard. Follow these steps:

1. Use add_page so the ideas get their own page
2. Use set_tool with tool TEXT, then pointer_down near the top left to place a title; set its text with set_text
3. For each idea, use set_tool NOTE and pointer_down at a new spot, then set_text with a short phrase
4. Use arrange_elements to tidy the notes into rows
5. Finish with render_page to check the result

Keep each note under ten words. Aim for eight to twelve ideas.`, topic)), nil
}

func (s *Server) handleRetrospectivePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	team := req.Params.Arguments["team"]
	return userPrompt(fmt.Sprintf("Retrospective for %s", team), fmt.Sprintf(`Set up a retrospective board for "%s". Follow these steps:

1. Use set_background with pattern LINES
2. Place three TEXT headings side by side: "Went well", "To improve", "Actions"
3. Under each heading, place two empty NOTE elements using set_tool with colors #dcfce7, #fee2e2 and #dbeafe respectively
4. Add a CHECKBOX element under "Actions" for follow-ups
5. Use render_page to confirm the columns line up

Do not use arrange_elements here; the columns must stay where you put them.`, team)), nil
}

func (s *Server) handleSystemDiagramPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	systemName := req.Params.Arguments["systemName"]
	return userPrompt(fmt.Sprintf("Create a system diagram for: %s", systemName), fmt.Sprintf(`Create a system architecture diagram for "%s". Follow these steps:

1. Identify the main components of the system
2. For each component, use set_tool SHAPE with shapeType RECTANGLE and pointer_down to place it, then add a TEXT label on top
3. Use set_tool LINE and a pointer_down, pointer_move, pointer_up sequence to connect related components
4. Use set_tool SHAPE with shapeType ARROW to mark the direction of data flow
5. Use render_page to review the layout and fix overlaps with element_pointer_down drags

Use consistent colors: #3b82f6 for primary components, #10b981 for databases, #f59e0b for external services.`, systemName)), nil
}
