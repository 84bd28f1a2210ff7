// ABOUTME: MCP resource implementations for FitLife.
// ABOUTME: Provides fitlife://users and fitlife://summary.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/fitlife/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	usersURI   = "fitlife://users"
	summaryURI = "fitlife://summary"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         usersURI,
		Name:        "FitLife Users",
		Description: "Registered accounts, without credentials",
		MIMEType:    "application/json",
	}, s.handleUsersResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         summaryURI,
		Name:        "FitLife Summary Dashboard",
		Description: "Per-user routine progress, today's routines, locations, and checklist progress",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// Resource handlers

func (s *Server) handleUsersResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	users, err := s.repos.Users.AllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return jsonResource(usersURI, map[string]any{
		"users": users,
		"count": len(users),
	})
}

type userSummary struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Routines         int      `json:"routines"`
	Scheduled        int      `json:"scheduled"`
	Completed        int      `json:"completed"`
	Today            []string `json:"today"`
	Locations        int      `json:"locations"`
	EquipmentTotal   int      `json:"equipment_total"`
	EquipmentChecked int      `json:"equipment_checked"`
}

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	now := time.Now()
	today := int(now.Weekday())

	users, err := s.repos.Users.AllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	summaries := make([]userSummary, 0, len(users))
	for _, u := range users {
		sum, err := s.summarize(ctx, u, today)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, sum)
	}

	return jsonResource(summaryURI, map[string]any{
		"generated_at": now.Format(time.RFC3339),
		"today":        models.DayName(today),
		"users":        summaries,
		"database":     s.db.Path(),
	})
}

func (s *Server) summarize(ctx context.Context, u models.User, today int) (userSummary, error) {
	sum := userSummary{ID: u.ID, Name: u.Name, Email: u.Email, Today: []string{}}

	routines, err := s.repos.Workouts.RoutinesByUser(ctx, u.ID)
	if err != nil {
		return sum, fmt.Errorf("failed to list routines: %w", err)
	}
	sum.Routines = len(routines)
	for _, r := range routines {
		if r.ContainsDay(today) {
			sum.Today = append(sum.Today, r.Name)
		}
	}

	stats, err := s.repos.Workouts.Stats(ctx, u.ID)
	if err != nil {
		return sum, fmt.Errorf("failed to count routines: %w", err)
	}
	sum.Scheduled, sum.Completed = stats.Scheduled, stats.Completed

	locations, err := s.repos.Locations.AllLocationsForUser(ctx, u.ID)
	if err != nil {
		return sum, fmt.Errorf("failed to list locations: %w", err)
	}
	sum.Locations = len(locations)

	items, err := s.repos.Workouts.Checklist(ctx, u.ID)
	if err != nil {
		return sum, fmt.Errorf("failed to load checklist: %w", err)
	}
	sum.EquipmentTotal = len(items)
	for _, e := range items {
		if e.IsChecked {
			sum.EquipmentChecked++
		}
	}
	return sum, nil
}
