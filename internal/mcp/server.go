// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the phaseline WBS and suggestion engine as tools for AI coding assistants.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/valter-silva-au/phaseline/internal/core"
	"github.com/valter-silva-au/phaseline/internal/storage"
	"github.com/valter-silva-au/phaseline/pkg/models"
)

// Server wraps phaseline services and exposes them as MCP tools. All tools
// are read-only or advisory; delegation stays behind the CLI's human
// confirmation prompt.
type Server struct {
	server    *gomcp.Server
	wbs       storage.WBSManager
	suggester core.SuggestionEngine
}

// NewServer creates an MCP server with the given service dependencies.
func NewServer(wbs storage.WBSManager, suggester core.SuggestionEngine, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		wbs:       wbs,
		suggester: suggester,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "phaseline", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects
// or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type getTaskInput struct {
	TaskID string `json:"task_id" jsonschema:"required,the task identifier (e.g. task-001)"`
}

type taskOutput struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Phase          string   `json:"phase"`
	Status         string   `json:"status"`
	Priority       string   `json:"priority"`
	Deliverable    string   `json:"deliverable,omitempty"`
	Template       string   `json:"template,omitempty"`
	ReviewRequired bool     `json:"review_required"`
	IsGate         bool     `json:"is_gate,omitempty"`
	DependsOn      []string `json:"depends_on,omitempty"`
	AssignedWorker string   `json:"assigned_worker,omitempty"`
	Progress       int      `json:"progress"`
	Updated        string   `json:"updated"`
}

type listTasksInput struct {
	Status string `json:"status,omitempty" jsonschema:"filter tasks by status (pending, in_progress, completed, blocked)"`
}

type listTasksOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Count int          `json:"count"`
}

type wbsStatusInput struct{}

type wbsStatusOutput struct {
	Project    string         `json:"project"`
	Phase      string         `json:"phase"`
	Counts     map[string]int `json:"counts"`
	Total      int            `json:"total"`
	ActiveTask string         `json:"active_task,omitempty"`
}

type suggestWorkerInput struct {
	Description string `json:"description" jsonschema:"required,the free-text task description to analyze"`
}

type suggestWorkerOutput struct {
	Worker        string  `json:"worker"`
	Confidence    float64 `json:"confidence"`
	EstimatedTime string  `json:"estimated_time"`
	Complexity    string  `json:"complexity"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "wbs_status",
		Description: "Get the work-breakdown structure status: per-status task counts, active task, and project phase.",
	}, s.handleWBSStatus)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List WBS tasks with an optional status filter. Returns task summaries in generation order.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_task",
		Description: "Get full task details by ID, including dependencies, deliverable, and review/gate flags.",
	}, s.handleGetTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "suggest_worker",
		Description: "Suggest which worker should handle a task, based on keyword heuristics over the description. Advisory only.",
	}, s.handleSuggestWorker)
}

// --- Tool handlers ---

func (s *Server) handleWBSStatus(_ context.Context, _ *gomcp.CallToolRequest, _ wbsStatusInput) (*gomcp.CallToolResult, wbsStatusOutput, error) {
	status, err := s.wbs.GetStatus()
	if err != nil {
		return errorResult(fmt.Sprintf("getting WBS status: %s", err)), wbsStatusOutput{}, nil
	}

	out := wbsStatusOutput{
		Project: status.Project.Name,
		Phase:   status.Project.CurrentPhase,
		Counts:  make(map[string]int, len(status.Counts)),
		Total:   status.Total,
	}
	for st, n := range status.Counts {
		out.Counts[string(st)] = n
	}
	if status.ActiveTask != nil {
		out.ActiveTask = status.ActiveTask.ID
	}

	return nil, out, nil
}

func (s *Server) handleListTasks(_ context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	tasks, err := s.wbs.GetAllTasks()
	if err != nil {
		return errorResult(fmt.Sprintf("listing tasks: %s", err)), listTasksOutput{}, nil
	}

	var out listTasksOutput
	for _, t := range tasks {
		if input.Status != "" && t.Status != models.TaskStatus(input.Status) {
			continue
		}
		out.Tasks = append(out.Tasks, taskToOutput(t))
	}
	out.Count = len(out.Tasks)

	return nil, out, nil
}

func (s *Server) handleGetTask(_ context.Context, _ *gomcp.CallToolRequest, input getTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), taskOutput{}, nil
	}

	task, err := s.wbs.GetTask(input.TaskID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting task %s: %s", input.TaskID, err)), taskOutput{}, nil
	}

	return nil, taskToOutput(*task), nil
}

func (s *Server) handleSuggestWorker(_ context.Context, _ *gomcp.CallToolRequest, input suggestWorkerInput) (*gomcp.CallToolResult, suggestWorkerOutput, error) {
	if input.Description == "" {
		return errorResult("description is required"), suggestWorkerOutput{}, nil
	}

	suggestion := s.suggester.Suggest(models.Task{Description: input.Description})
	out := suggestWorkerOutput{
		Worker:        suggestion.Worker,
		Confidence:    suggestion.Confidence,
		EstimatedTime: suggestion.EstimatedTime,
		Complexity:    string(suggestion.Complexity),
	}

	return nil, out, nil
}

// --- Helpers ---

func taskToOutput(t models.Task) taskOutput {
	return taskOutput{
		ID:             t.ID,
		Title:          t.Title,
		Phase:          t.Phase,
		Status:         string(t.Status),
		Priority:       string(t.Priority),
		Deliverable:    t.Deliverable,
		Template:       t.Template,
		ReviewRequired: t.ReviewRequired,
		IsGate:         t.IsGate,
		DependsOn:      t.DependsOn,
		AssignedWorker: t.AssignedWorker,
		Progress:       t.Progress,
		Updated:        t.Updated.Format(time.RFC3339),
	}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
