package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fyrsmithlabs/taskd/internal/activity"
	"github.com/fyrsmithlabs/taskd/internal/notify"
	"github.com/fyrsmithlabs/taskd/internal/project"
	"github.com/fyrsmithlabs/taskd/internal/store"
	"github.com/fyrsmithlabs/taskd/internal/task"
	"github.com/fyrsmithlabs/taskd/internal/template"
)

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// ProjectSummary is one row of GET /api/v1/projects.
type ProjectSummary struct {
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description string         `json:"description"`
	Status      project.Status `json:"status"`
	Pending     int            `json:"pending"`
	Completed   int            `json:"completed"`
}

// CreateProjectRequest is the request body for POST /api/v1/projects.
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Template    string `json:"template,omitempty"`
	User        string `json:"user,omitempty"`
}

// AddTaskRequest is the request body for POST /api/v1/projects/:slug/tasks.
type AddTaskRequest struct {
	Text        string   `json:"text"`
	Priority    string   `json:"priority"`
	Assigned    string   `json:"assigned"`
	DueDate     string   `json:"dueDate"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	User        string   `json:"user,omitempty"`
}

// UpdateTaskRequest is the request body for PUT /api/v1/projects/:slug/tasks.
// Absent fields leave the current values untouched.
type UpdateTaskRequest struct {
	TaskID      int       `json:"taskId"`
	Text        *string   `json:"text"`
	Priority    *string   `json:"priority"`
	Assigned    *string   `json:"assigned"`
	DueDate     *string   `json:"dueDate"`
	Tags        *[]string `json:"tags"`
	Description *string   `json:"description"`
	User        string    `json:"user,omitempty"`
}

// DeleteTaskRequest is the request body for DELETE /api/v1/projects/:slug/tasks.
type DeleteTaskRequest struct {
	TaskID int `json:"taskId"`
}

// TaskSummary carries per-project task counts.
type TaskSummary struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
}

// httpError maps typed store errors onto HTTP status codes.
func httpError(err error) error {
	switch {
	case errors.Is(err, store.ErrProjectNotFound), errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, template.ErrTemplateNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrProjectExists), errors.Is(err, store.ErrTaskCompleted):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrEmptyProjectName), errors.Is(err, store.ErrInvalidDueDate),
		errors.Is(err, store.ErrMultilineField),
		errors.Is(err, task.ErrEmptyText), errors.Is(err, task.ErrInvalidPriority):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleListProjects(c echo.Context) error {
	projects, err := s.store.ListProjects()
	if err != nil {
		return httpError(err)
	}
	out := make([]ProjectSummary, 0, len(projects))
	for _, p := range projects {
		out = append(out, ProjectSummary{
			Name:        p.Name,
			Slug:        p.Slug,
			Description: p.Description,
			Status:      p.Status,
			Pending:     p.Pending(),
			Completed:   p.Completed(),
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleCreateProject(c echo.Context) error {
	var req CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "project name is required")
	}

	var p *project.Project
	var err error
	if req.Template != "" {
		tpl, terr := s.catalog.Get(req.Template)
		if terr != nil {
			return httpError(terr)
		}
		p, err = s.store.CreateProjectWithTasks(req.Name, req.Description, tpl.Instantiate(time.Now()))
	} else {
		p, err = s.store.CreateProject(req.Name, req.Description)
	}
	if err != nil {
		return httpError(err)
	}
	s.metrics.RecordMutation("create_project")

	s.activity.Append(activity.Event{
		Type:        activity.TypeProjectCreated,
		ProjectSlug: p.Slug,
		ProjectName: p.Name,
		User:        req.User,
	})

	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"slug":    p.Slug,
		"project": p,
	})
}

func (s *Server) handleGetProject(c echo.Context) error {
	p, err := s.store.GetProject(c.Param("slug"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleArchiveProject(c echo.Context) error {
	if err := s.store.ArchiveProject(c.Param("slug")); err != nil {
		return httpError(err)
	}
	s.metrics.RecordMutation("archive_project")
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleReopenProject(c echo.Context) error {
	if err := s.store.ReopenProject(c.Param("slug")); err != nil {
		return httpError(err)
	}
	s.metrics.RecordMutation("reopen_project")
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleListTasks(c echo.Context) error {
	p, err := s.store.GetProject(c.Param("slug"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"project": p.Name,
		"slug":    p.Slug,
		"tasks":   p.Tasks,
		"summary": TaskSummary{
			Total:     len(p.Tasks),
			Pending:   p.Pending(),
			Completed: p.Completed(),
		},
	})
}

func (s *Server) handleAddTask(c echo.Context) error {
	slug := c.Param("slug")
	var req AddTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "task text is required")
	}

	t, err := s.store.AddTask(slug, task.Task{
		Text:        req.Text,
		Priority:    task.Priority(req.Priority),
		Assigned:    req.Assigned,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
		Description: req.Description,
	})
	if err != nil {
		return httpError(err)
	}
	s.metrics.RecordMutation("add_task")

	if p, perr := s.store.GetProject(slug); perr == nil {
		s.activity.Append(activity.Event{
			Type:        activity.TypeTaskCreated,
			ProjectSlug: slug,
			ProjectName: p.Name,
			TaskID:      t.ID,
			TaskText:    t.Text,
			User:        req.User,
		})
	}

	return c.JSON(http.StatusCreated, map[string]any{"success": true, "task": t})
}

func (s *Server) handleUpdateTask(c echo.Context) error {
	slug := c.Param("slug")
	var req UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.TaskID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "task ID is required")
	}

	update := store.TaskUpdate{
		Text:        req.Text,
		Assigned:    req.Assigned,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
		Description: req.Description,
	}
	if req.Priority != nil {
		prio, err := task.ParsePriority(*req.Priority)
		if err != nil {
			return httpError(err)
		}
		update.Priority = &prio
	}

	t, err := s.store.UpdateTask(slug, req.TaskID, update)
	if err != nil {
		return httpError(err)
	}
	s.metrics.RecordMutation("update_task")

	if p, perr := s.store.GetProject(slug); perr == nil {
		s.activity.Append(activity.Event{
			Type:        activity.TypeTaskUpdated,
			ProjectSlug: slug,
			ProjectName: p.Name,
			TaskID:      t.ID,
			TaskText:    t.Text,
			User:        req.User,
		})
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "task": t})
}

func (s *Server) handleDeleteTask(c echo.Context) error {
	slug := c.Param("slug")
	var req DeleteTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.TaskID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "task ID is required")
	}
	if err := s.store.DeleteTask(slug, req.TaskID); err != nil {
		return httpError(err)
	}
	s.metrics.RecordMutation("delete_task")
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleCompleteTask(c echo.Context) error {
	slug := c.Param("slug")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "task ID must be an integer")
	}

	// Capture the task text before the flip; ids are stable within the
	// same on-disk state.
	var text string
	var name string
	if p, perr := s.store.GetProject(slug); perr == nil {
		name = p.Name
		if t := p.Task(id); t != nil {
			text = t.Text
		}
	}

	if err := s.store.CompleteTask(slug, id); err != nil {
		return httpError(err)
	}
	s.metrics.RecordMutation("complete_task")

	s.activity.Append(activity.Event{
		Type:        activity.TypeTaskCompleted,
		ProjectSlug: slug,
		ProjectName: name,
		TaskID:      id,
		TaskText:    text,
	})

	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleActivity(c echo.Context) error {
	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = parsed
	}
	entries := s.activity.Recent(limit)
	return c.JSON(http.StatusOK, map[string]any{
		"count":      len(entries),
		"activities": entries,
	})
}

func (s *Server) handleNotifications(c echo.Context) error {
	projects, err := s.store.ListProjects()
	if err != nil {
		return httpError(err)
	}
	includeUpcoming := c.QueryParam("upcoming") == "true"
	report := notify.Build(projects, time.Now(), includeUpcoming)
	return c.JSON(http.StatusOK, report)
}

func (s *Server) handleTemplates(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"templates": s.catalog.List()})
}
