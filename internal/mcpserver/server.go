// Package mcpserver exposes the reminder collection as MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"remindly/internal/catalog"
	"remindly/internal/reminder"
	"remindly/internal/storage"
	"remindly/internal/view"
)

const (
	serverName    = "remindly"
	serverVersion = "1.0.0"
)

// Store is the subset of the storage layer the tools need.
type Store interface {
	FetchReminders(owner string) ([]reminder.Reminder, error)
	AddReminder(owner string, r reminder.Reminder) (reminder.Reminder, error)
	DeleteReminder(owner, id string) error
}

// Server is the MCP server for one owner's reminders.
type Server struct {
	mcpServer         *server.MCPServer
	store             Store
	owner             string
	defaultRemindDays int
	log               zerolog.Logger
	now               func() time.Time
}

// NewServer creates a Server backed by store.
func NewServer(store Store, owner string, defaultRemindDays int, log zerolog.Logger) *Server {
	s := &Server{
		store:             store,
		owner:             owner,
		defaultRemindDays: defaultRemindDays,
		log:               log.With().Str("component", "mcp").Logger(),
		now:               time.Now,
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server for serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio blocks serving requests on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// item is the JSON shape of a listed reminder.
type item struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Date             string  `json:"date"`
	Category         string  `json:"category"`
	Notes            string  `json:"notes,omitempty"`
	ForWhom          string  `json:"for_whom"`
	RemindDaysBefore int     `json:"remind_days_before,omitempty"`
	DaysUntil        int     `json:"days_until"`
	Status           string  `json:"status"`
	Label            string  `json:"label"`
	Progress         float64 `json:"progress"`
}

func newItem(r reminder.Reminder, now time.Time) item {
	r = r.Normalized()
	d := reminder.DaysUntil(r.Date, now)
	st := reminder.Classify(d)
	return item{
		ID:               r.ID,
		Title:            r.Title,
		Date:             reminder.FormatDate(r.Date),
		Category:         r.Category,
		Notes:            r.Notes,
		ForWhom:          r.ForWhom,
		RemindDaysBefore: r.RemindDaysBefore,
		DaysUntil:        d,
		Status:           string(st.Tier),
		Label:            st.Label,
		Progress:         math.Round(reminder.Progress(r.CreatedAt, r.Date, now)*10) / 10,
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("list_reminders",
			mcp.WithDescription("List reminders with their expiry status, optionally searched, filtered and sorted"),
			mcp.WithString("search", mcp.Description("Case-insensitive title substring")),
			mcp.WithString("filter", mcp.Description("all, urgent, expired, or a category id (default: all)")),
			mcp.WithString("sort", mcp.Description("urgency, date-asc, date-desc or alpha (default: urgency)")),
		),
		s.handleListReminders,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("reminder_stats",
			mcp.WithDescription("Count reminders by total, urgent, expired and ok"),
		),
		s.handleStats,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("add_reminder",
			mcp.WithDescription("Add a reminder by title and expiry date, or from a quick-add template"),
			mcp.WithString("title", mcp.Description("Reminder title (required unless template is set)")),
			mcp.WithString("date", mcp.Description("Expiry date as YYYY-MM-DD (required unless template is set)")),
			mcp.WithString("template", mcp.Description("Template id from list_templates")),
			mcp.WithString("category", mcp.Description("Category id (default: custom)")),
			mcp.WithString("notes", mcp.Description("Optional notes")),
			mcp.WithNumber("remind_days_before", mcp.Description("Days before expiry to start notifying")),
		),
		s.handleAddReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("delete_reminder",
			mcp.WithDescription("Delete a reminder permanently"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleDeleteReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_templates",
			mcp.WithDescription("List the quick-add templates"),
		),
		s.handleListTemplates,
	)
}

func (s *Server) handleListReminders(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reminders, err := s.store.FetchReminders(s.owner)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list reminders: %v", err)), nil
	}

	now := s.now()
	q := view.Query{
		Search: req.GetString("search", ""),
		Filter: req.GetString("filter", view.FilterAll),
		Sort:   req.GetString("sort", view.SortUrgency),
	}
	list := view.Apply(reminders, q, now)
	if len(list) == 0 {
		return mcp.NewToolResultText("No reminders found."), nil
	}

	items := make([]item, 0, len(list))
	for _, r := range list {
		items = append(items, newItem(r, now))
	}
	return jsonResult(items)
}

func (s *Server) handleStats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reminders, err := s.store.FetchReminders(s.owner)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load reminders: %v", err)), nil
	}
	return jsonResult(reminder.Summarize(reminders, s.now()))
}

func (s *Server) handleAddReminder(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	now := s.now()

	var r reminder.Reminder
	if id := req.GetString("template", ""); id != "" {
		t, ok := catalog.FindTemplate(id)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown template %q", id)), nil
		}
		r = t.Reminder(now, s.defaultRemindDays)
	}

	if v := req.GetString("title", ""); v != "" {
		r.Title = v
	}
	if v := req.GetString("date", ""); v != "" {
		date, err := reminder.ParseDate(v)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid date %q: use YYYY-MM-DD", v)), nil
		}
		r.Date = date
	}
	if v := req.GetString("category", ""); v != "" {
		if !catalog.Known(v) {
			return mcp.NewToolResultError(fmt.Sprintf("unknown category %q", v)), nil
		}
		r.Category = v
	}
	if v := req.GetString("notes", ""); v != "" {
		r.Notes = v
	}
	if v := req.GetFloat("remind_days_before", -1); v >= 0 {
		r.RemindDaysBefore = int(v)
	}

	if r.Title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}
	if r.Date.IsZero() {
		return mcp.NewToolResultError("date is required"), nil
	}

	added, err := s.store.AddReminder(s.owner, r.Normalized())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add reminder: %v", err)), nil
	}
	s.log.Info().Str("id", added.ID).Str("title", added.Title).Msg("reminder added")
	return jsonResult(newItem(added, now))
}

func (s *Server) handleDeleteReminder(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	if err := s.store.DeleteReminder(s.owner, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("reminder %s not found", id)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete reminder: %v", err)), nil
	}
	s.log.Info().Str("id", id).Msg("reminder deleted")
	return mcp.NewToolResultText(fmt.Sprintf("Reminder %s deleted.", id)), nil
}

type templateItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	DefaultDays int    `json:"default_days"`
	Description string `json:"description"`
	Popular     bool   `json:"popular,omitempty"`
}

func (s *Server) handleListTemplates(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	all := append(append([]catalog.Template{}, catalog.Templates()...), catalog.CoupleSuggestions()...)
	items := make([]templateItem, 0, len(all))
	for _, t := range all {
		items = append(items, templateItem{
			ID:          t.ID,
			Title:       t.Title,
			Category:    t.Category,
			DefaultDays: t.DefaultDays,
			Description: t.Description,
			Popular:     t.Popular,
		})
	}
	return jsonResult(items)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(output)), nil
}
