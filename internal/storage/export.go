// ABOUTME: Export functionality for FitLife data.
// ABOUTME: Supports JSON and YAML backups plus the shareable Markdown equipment checklist.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/fitlife/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format. Credentials are never included.
type ExportData struct {
	Version    string       `json:"version" yaml:"version"`
	ExportedAt time.Time    `json:"exported_at" yaml:"exported_at"`
	Tool       string       `json:"tool" yaml:"tool"`
	Schema     int          `json:"schema" yaml:"schema"`
	Users      []UserExport `json:"users" yaml:"users"`
}

// UserExport is one user with everything they own.
type UserExport struct {
	User      models.User                               `json:"user" yaml:"user"`
	Locations []models.Location                         `json:"locations" yaml:"locations"`
	Routines  []models.RoutineWithExercisesAndEquipment `json:"routines" yaml:"routines"`
}

// GetAllData reads every user aggregate from one snapshot.
func (d *DB) GetAllData(ctx context.Context) (*ExportData, error) {
	data := &ExportData{
		Version:    "1.0",
		ExportedAt: d.now(),
		Tool:       "fitlife",
		Schema:     CurrentVersion,
	}

	err := d.View(ctx, func(r *Reader) error {
		users, err := r.AllUsers()
		if err != nil {
			return err
		}
		for _, u := range users {
			ue, err := r.userExport(u)
			if err != nil {
				return fmt.Errorf("export user %d: %w", u.ID, err)
			}
			data.Users = append(data.Users, *ue)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (r *Reader) userExport(u models.User) (*UserExport, error) {
	locations, err := r.LocationsByUser(u.ID)
	if err != nil {
		return nil, err
	}
	routines, err := r.RoutinesByUser(u.ID)
	if err != nil {
		return nil, err
	}

	ue := &UserExport{User: u, Locations: locations}
	for _, rt := range routines {
		exercises, err := r.ExercisesWithEquipment(rt.ID)
		if err != nil {
			return nil, err
		}
		ue.Routines = append(ue.Routines, models.RoutineWithExercisesAndEquipment{Routine: rt, Exercises: exercises})
	}
	return ue, nil
}

// ExportJSON exports all data as JSON.
func (d *DB) ExportJSON(ctx context.Context) ([]byte, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML with schedules spelled out by day name.
func (d *DB) ExportYAML(ctx context.Context) ([]byte, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version    string     `yaml:"version"`
		ExportedAt string     `yaml:"exported_at"`
		Tool       string     `yaml:"tool"`
		Users      []yamlUser `yaml:"users"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Users:      make([]yamlUser, 0, len(data.Users)),
	}

	for _, ue := range data.Users {
		yu := yamlUser{
			Email: ue.User.Email,
			Name:  ue.User.Name,
			Photo: ue.User.ProfilePhoto.String(),
		}
		locNames := make(map[int64]string, len(ue.Locations))
		for _, l := range ue.Locations {
			locNames[l.ID] = l.Name
			yu.Locations = append(yu.Locations, yamlLocation{
				Name:    l.Name,
				Type:    l.LocationType.DisplayName(),
				Lat:     l.Latitude,
				Lng:     l.Longitude,
				Address: l.Address,
			})
		}
		for _, rt := range ue.Routines {
			yr := yamlRoutine{
				Name:        rt.Routine.Name,
				Description: rt.Routine.Description,
				Completed:   rt.Routine.IsCompleted,
			}
			for _, day := range rt.Routine.DaysList() {
				yr.Days = append(yr.Days, models.DayName(day))
			}
			if rt.Routine.LocationID != nil {
				yr.Location = locNames[*rt.Routine.LocationID]
			}
			for _, ex := range rt.Exercises {
				ye := yamlExercise{
					Name:         ex.Exercise.Name,
					Sets:         ex.Exercise.Sets,
					Reps:         ex.Exercise.Reps,
					Instructions: ex.Exercise.Instructions,
				}
				for _, eq := range ex.Equipment {
					ye.Equipment = append(ye.Equipment, eq.Name)
				}
				yr.Exercises = append(yr.Exercises, ye)
			}
			yu.Routines = append(yu.Routines, yr)
		}
		yamlData.Users = append(yamlData.Users, yu)
	}

	return yaml.Marshal(yamlData)
}

type yamlUser struct {
	Email     string         `yaml:"email"`
	Name      string         `yaml:"name"`
	Photo     string         `yaml:"photo,omitempty"`
	Locations []yamlLocation `yaml:"locations,omitempty"`
	Routines  []yamlRoutine  `yaml:"routines,omitempty"`
}

type yamlLocation struct {
	Name    string  `yaml:"name"`
	Type    string  `yaml:"type"`
	Lat     float64 `yaml:"lat"`
	Lng     float64 `yaml:"lng"`
	Address string  `yaml:"address,omitempty"`
}

type yamlRoutine struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Days        []string       `yaml:"days,omitempty"`
	Completed   bool           `yaml:"completed"`
	Location    string         `yaml:"location,omitempty"`
	Exercises   []yamlExercise `yaml:"exercises,omitempty"`
}

type yamlExercise struct {
	Name         string   `yaml:"name"`
	Sets         int      `yaml:"sets"`
	Reps         int      `yaml:"reps"`
	Instructions string   `yaml:"instructions,omitempty"`
	Equipment    []string `yaml:"equipment,omitempty"`
}

// ChecklistMarkdown renders the equipment a user needs for scheduled routines,
// grouped by category, in the shareable checklist format.
func ChecklistMarkdown(items []models.Equipment) string {
	var sb strings.Builder
	sb.WriteString("📋 FitLife Equipment Checklist\n")
	sb.WriteString(strings.Repeat("=", 30) + "\n\n")

	var order []models.EquipmentCategory
	groups := make(map[models.EquipmentCategory][]models.Equipment)
	checked := 0
	for _, e := range items {
		if _, ok := groups[e.Category]; !ok {
			order = append(order, e.Category)
		}
		groups[e.Category] = append(groups[e.Category], e)
		if e.IsChecked {
			checked++
		}
	}

	for _, c := range order {
		sb.WriteString(fmt.Sprintf("%s %s\n", c.Emoji(), c.DisplayName()))
		for _, e := range groups[c] {
			box := "⬜"
			if e.IsChecked {
				box = "✅"
			}
			sb.WriteString(fmt.Sprintf("  %s %s\n", box, e.Name))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Progress: %d/%d items\n\n", checked, len(items)))
	sb.WriteString("Sent from FitLife App\n")
	return sb.String()
}

// ExportChecklist reads a user's checklist and renders it as Markdown.
func (d *DB) ExportChecklist(ctx context.Context, userID int64) (string, error) {
	items, err := Get(ctx, d, func(r *Reader) ([]models.Equipment, error) {
		return r.EquipmentForUser(userID)
	})
	if err != nil {
		return "", fmt.Errorf("load checklist: %w", err)
	}
	return ChecklistMarkdown(items), nil
}
