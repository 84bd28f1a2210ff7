// ABOUTME: MCP tool implementations for FitLife.
// ABOUTME: Accounts, routines with exercises, locations, and the equipment checklist.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/fitlife/internal/models"
	"github.com/harperreed/fitlife/internal/repository"
	"github.com/harperreed/fitlife/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "register_user",
		Description: "Create a FitLife account. Emails are unique and case-sensitive.",
	}, s.handleRegisterUser)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "login",
		Description: "Check an email and password and return the account",
	}, s.handleLogin)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_routine",
		Description: "Create a workout routine with its exercises and equipment",
	}, s.handleAddRoutine)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_routines",
		Description: "List a user's routines, optionally only those on one weekday or still pending",
	}, s.handleListRoutines)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_routine",
		Description: "Get a routine with its exercises, equipment, and location",
	}, s.handleGetRoutine)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "complete_routine",
		Description: "Mark a routine completed or not completed",
	}, s.handleCompleteRoutine)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_routine",
		Description: "Delete a routine with its exercises and equipment",
	}, s.handleDeleteRoutine)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_location",
		Description: "Save a workout location for a user",
	}, s.handleAddLocation)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_locations",
		Description: "List a user's saved locations, optionally filtered by type",
	}, s.handleListLocations)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_checklist",
		Description: "Get the equipment needed for a user's scheduled routines",
	}, s.handleGetChecklist)
}

// Tool input/output types

type registerUserInput struct {
	Email    string `json:"email" jsonschema:"Account email"`
	Password string `json:"password" jsonschema:"Account password"`
	Name     string `json:"name" jsonschema:"Display name"`
}

type loginInput struct {
	Email    string `json:"email" jsonschema:"Account email"`
	Password string `json:"password" jsonschema:"Account password"`
}

type userOutput struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

type exerciseInput struct {
	Name         string   `json:"name" jsonschema:"Exercise name"`
	Sets         int      `json:"sets,omitempty" jsonschema:"Number of sets (default 3)"`
	Reps         int      `json:"reps,omitempty" jsonschema:"Reps per set (default 10)"`
	Instructions string   `json:"instructions,omitempty" jsonschema:"How to perform the exercise"`
	Equipment    []string `json:"equipment,omitempty" jsonschema:"Equipment names; categories are guessed from the name"`
}

type addRoutineInput struct {
	UserEmail   string          `json:"user_email" jsonschema:"Email of the routine owner"`
	Name        string          `json:"name" jsonschema:"Routine name"`
	Description string          `json:"description,omitempty" jsonschema:"Routine description"`
	Days        []string        `json:"days,omitempty" jsonschema:"Weekdays by name or index (Sunday is 0)"`
	LocationID  int64           `json:"location_id,omitempty" jsonschema:"Saved location ID"`
	Exercises   []exerciseInput `json:"exercises,omitempty" jsonschema:"Exercises in order"`
}

type routineOutput struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Days      []string `json:"days"`
	Exercises int      `json:"exercises"`
	Message   string   `json:"message"`
}

type listRoutinesInput struct {
	UserEmail string `json:"user_email" jsonschema:"Email of the routine owner"`
	Day       string `json:"day,omitempty" jsonschema:"Only routines on this weekday"`
	Pending   bool   `json:"pending,omitempty" jsonschema:"Only scheduled routines not yet completed"`
}

type routineIDInput struct {
	ID int64 `json:"id" jsonschema:"Routine ID"`
}

type completeRoutineInput struct {
	ID        int64 `json:"id" jsonschema:"Routine ID"`
	Completed *bool `json:"completed,omitempty" jsonschema:"Completion state (default true)"`
}

type addLocationInput struct {
	UserEmail string  `json:"user_email" jsonschema:"Email of the location owner"`
	Name      string  `json:"name" jsonschema:"Location name"`
	Latitude  float64 `json:"latitude" jsonschema:"Latitude in degrees"`
	Longitude float64 `json:"longitude" jsonschema:"Longitude in degrees"`
	Type      string  `json:"type,omitempty" jsonschema:"GYM, YOGA_STUDIO, PARK, HOME, POOL or OTHER (default GYM)"`
	Address   string  `json:"address,omitempty" jsonschema:"Street address"`
}

type locationOutput struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

type listLocationsInput struct {
	UserEmail string `json:"user_email" jsonschema:"Email of the location owner"`
	Type      string `json:"type,omitempty" jsonschema:"Only locations of this type"`
}

type checklistInput struct {
	UserEmail string `json:"user_email" jsonschema:"Email of the user"`
	Markdown  bool   `json:"markdown,omitempty" jsonschema:"Return the shareable text checklist instead of items"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

// value returns the result's value, or the rejection as the tool error.
func value[T any](res repository.Result[T], err error) (T, error) {
	if err != nil {
		var zero T
		return zero, err
	}
	if !res.OK() {
		var zero T
		return zero, res.Err()
	}
	return res.Value, nil
}

func (s *Server) userByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := s.repos.Users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user not found: %s", email)
	}
	return u, nil
}

func dayNames(w models.Weekdays) []string {
	days := []string{}
	for _, d := range w.List() {
		days = append(days, models.DayName(d))
	}
	return days
}

func parseDays(names []string) (models.Weekdays, error) {
	var days models.Weekdays
	for _, n := range names {
		d, ok := models.ParseDayName(n)
		if !ok {
			return 0, fmt.Errorf("unknown day: %s", n)
		}
		days = days.Add(d)
	}
	return days, nil
}

// Tool handlers

func (s *Server) handleRegisterUser(ctx context.Context, req *mcp.CallToolRequest, input registerUserInput) (*mcp.CallToolResult, userOutput, error) {
	u, err := value(s.repos.Users.Register(ctx, input.Email, input.Password, input.Name))
	if err != nil {
		return nil, userOutput{}, err
	}
	return nil, userOutput{
		ID:      u.ID,
		Email:   u.Email,
		Name:    u.Name,
		Message: fmt.Sprintf("Registered %s (ID: %d)", u.Email, u.ID),
	}, nil
}

func (s *Server) handleLogin(ctx context.Context, req *mcp.CallToolRequest, input loginInput) (*mcp.CallToolResult, userOutput, error) {
	u, err := value(s.repos.Users.Login(ctx, input.Email, input.Password))
	if err != nil {
		return nil, userOutput{}, err
	}
	return nil, userOutput{
		ID:      u.ID,
		Email:   u.Email,
		Name:    u.Name,
		Message: fmt.Sprintf("Welcome back, %s", u.Name),
	}, nil
}

func (s *Server) handleAddRoutine(ctx context.Context, req *mcp.CallToolRequest, input addRoutineInput) (*mcp.CallToolResult, routineOutput, error) {
	u, err := s.userByEmail(ctx, input.UserEmail)
	if err != nil {
		return nil, routineOutput{}, err
	}
	days, err := parseDays(input.Days)
	if err != nil {
		return nil, routineOutput{}, err
	}

	r := models.NewRoutine(u.ID, input.Name).WithDescription(input.Description)
	r.Days = days
	if input.LocationID != 0 {
		r.WithLocation(input.LocationID)
	}

	exercises := make([]models.ExerciseWithEquipment, 0, len(input.Exercises))
	for _, in := range input.Exercises {
		ex := models.NewExercise(0, in.Name).WithInstructions(in.Instructions)
		if in.Sets > 0 {
			ex.Sets = in.Sets
		}
		if in.Reps > 0 {
			ex.Reps = in.Reps
		}
		var equipment []models.Equipment
		for _, name := range in.Equipment {
			if strings.TrimSpace(name) == "" {
				continue
			}
			equipment = append(equipment, models.Equipment{Name: name})
		}
		exercises = append(exercises, models.ExerciseWithEquipment{Exercise: *ex, Equipment: equipment})
	}

	saved, err := value(s.repos.Workouts.SaveRoutine(ctx, r, exercises))
	if err != nil {
		return nil, routineOutput{}, err
	}
	return nil, routineOutput{
		ID:        saved.Routine.ID,
		Name:      saved.Routine.Name,
		Days:      dayNames(saved.Routine.Days),
		Exercises: len(saved.Exercises),
		Message:   fmt.Sprintf("Added routine %s (ID: %d)", saved.Routine.Name, saved.Routine.ID),
	}, nil
}

func (s *Server) handleListRoutines(ctx context.Context, req *mcp.CallToolRequest, input listRoutinesInput) (*mcp.CallToolResult, any, error) {
	u, err := s.userByEmail(ctx, input.UserEmail)
	if err != nil {
		return nil, nil, err
	}

	day := models.Unscheduled
	if input.Day != "" {
		d, ok := models.ParseDayName(input.Day)
		if !ok {
			return nil, nil, fmt.Errorf("unknown day: %s", input.Day)
		}
		day = d
	}

	routines, err := s.repos.Workouts.RoutinesByUser(ctx, u.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list routines: %w", err)
	}

	out := []map[string]any{}
	for _, r := range routines {
		if day != models.Unscheduled && !r.ContainsDay(day) {
			continue
		}
		if input.Pending && (!r.IsScheduled() || r.IsCompleted) {
			continue
		}
		out = append(out, map[string]any{
			"id":           r.ID,
			"name":         r.Name,
			"days":         dayNames(r.Days),
			"is_completed": r.IsCompleted,
			"location_id":  r.LocationID,
		})
	}

	if len(out) == 0 {
		return nil, map[string]any{"message": "No routines found."}, nil
	}
	return nil, map[string]any{"routines": out, "count": len(out)}, nil
}

func (s *Server) handleGetRoutine(ctx context.Context, req *mcp.CallToolRequest, input routineIDInput) (*mcp.CallToolResult, any, error) {
	agg, err := s.repos.Workouts.RoutineWithExercisesAndEquipment(ctx, input.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get routine: %w", err)
	}
	if agg == nil {
		return nil, nil, fmt.Errorf("routine not found: %d", input.ID)
	}

	result := map[string]any{
		"routine":   agg.Routine,
		"days":      dayNames(agg.Routine.Days),
		"exercises": agg.Exercises,
	}
	if agg.Routine.LocationID != nil {
		loc, err := s.repos.Locations.GetLocation(ctx, *agg.Routine.LocationID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get location: %w", err)
		}
		if loc != nil {
			result["location"] = loc
		}
	}
	return nil, result, nil
}

func (s *Server) handleCompleteRoutine(ctx context.Context, req *mcp.CallToolRequest, input completeRoutineInput) (*mcp.CallToolResult, simpleOutput, error) {
	completed := true
	if input.Completed != nil {
		completed = *input.Completed
	}
	if _, err := value(s.repos.Workouts.UpdateRoutineCompletionStatus(ctx, input.ID, completed)); err != nil {
		return nil, simpleOutput{}, err
	}

	state := "completed"
	if !completed {
		state = "not completed"
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Marked routine %d %s", input.ID, state),
	}, nil
}

func (s *Server) handleDeleteRoutine(ctx context.Context, req *mcp.CallToolRequest, input routineIDInput) (*mcp.CallToolResult, simpleOutput, error) {
	if _, err := value(s.repos.Workouts.DeleteRoutine(ctx, input.ID)); err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted routine: %d", input.ID),
	}, nil
}

func (s *Server) handleAddLocation(ctx context.Context, req *mcp.CallToolRequest, input addLocationInput) (*mcp.CallToolResult, locationOutput, error) {
	u, err := s.userByEmail(ctx, input.UserEmail)
	if err != nil {
		return nil, locationOutput{}, err
	}

	l := models.NewLocation(u.ID, input.Name, input.Latitude, input.Longitude).WithAddress(input.Address)
	if input.Type != "" {
		l.WithType(models.LocationType(input.Type))
	}

	saved, err := value(s.repos.Locations.AddLocation(ctx, l))
	if err != nil {
		return nil, locationOutput{}, err
	}
	return nil, locationOutput{
		ID:      saved.ID,
		Name:    saved.Name,
		Type:    string(saved.LocationType),
		Message: fmt.Sprintf("Saved %s %s (ID: %d)", saved.LocationType.DisplayName(), saved.Name, saved.ID),
	}, nil
}

func (s *Server) handleListLocations(ctx context.Context, req *mcp.CallToolRequest, input listLocationsInput) (*mcp.CallToolResult, any, error) {
	u, err := s.userByEmail(ctx, input.UserEmail)
	if err != nil {
		return nil, nil, err
	}

	var filter models.LocationType
	if input.Type != "" {
		t, ok := models.ParseLocationType(input.Type)
		if !ok {
			return nil, nil, fmt.Errorf("unknown location type: %s", input.Type)
		}
		filter = t
	}

	locations, err := s.repos.Locations.AllLocationsForUser(ctx, u.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list locations: %w", err)
	}

	out := []models.Location{}
	for _, l := range locations {
		if filter == "" || l.LocationType == filter {
			out = append(out, l)
		}
	}

	if len(out) == 0 {
		return nil, map[string]any{"message": "No locations found."}, nil
	}
	return nil, map[string]any{"locations": out, "count": len(out)}, nil
}

func (s *Server) handleGetChecklist(ctx context.Context, req *mcp.CallToolRequest, input checklistInput) (*mcp.CallToolResult, any, error) {
	u, err := s.userByEmail(ctx, input.UserEmail)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.repos.Workouts.Checklist(ctx, u.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load checklist: %w", err)
	}

	if input.Markdown {
		return nil, map[string]any{"checklist": storage.ChecklistMarkdown(items)}, nil
	}

	checked := 0
	for _, e := range items {
		if e.IsChecked {
			checked++
		}
	}
	return nil, map[string]any{
		"items":   items,
		"checked": checked,
		"total":   len(items),
	}, nil
}
