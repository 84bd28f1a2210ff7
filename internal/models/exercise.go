// ABOUTME: Exercise model belonging to a routine.
// ABOUTME: Carries display defaults (3 sets, 10 reps, 💪) and optional images.
package models

// Exercise defaults applied when a caller leaves the field unset.
const (
	DefaultSets  = 3
	DefaultReps  = 10
	DefaultEmoji = "💪"
)

// Exercise is one movement within a routine. OrderIndex is a sort key only.
type Exercise struct {
	ID           int64    `json:"id" yaml:"id"`
	RoutineID    int64    `json:"routine_id" yaml:"routine_id"`
	Name         string   `json:"name" yaml:"name"`
	Sets         int      `json:"sets" yaml:"sets"`
	Reps         int      `json:"reps" yaml:"reps"`
	Instructions string   `json:"instructions,omitempty" yaml:"instructions,omitempty"`
	Emoji        string   `json:"emoji" yaml:"emoji"`
	PresetImage  *string  `json:"preset_image,omitempty" yaml:"preset_image,omitempty"`
	Image        ImageRef `json:"image,omitempty" yaml:"image,omitempty"`
	IsCompleted  bool     `json:"is_completed" yaml:"is_completed"`
	OrderIndex   int      `json:"order_index" yaml:"order_index"`
}

// NewExercise creates an exercise with the default sets, reps and emoji.
func NewExercise(routineID int64, name string) *Exercise {
	return &Exercise{
		RoutineID: routineID,
		Name:      name,
		Sets:      DefaultSets,
		Reps:      DefaultReps,
		Emoji:     DefaultEmoji,
	}
}

// WithSetsReps sets the set and rep counts.
func (e *Exercise) WithSetsReps(sets, reps int) *Exercise {
	e.Sets = sets
	e.Reps = reps
	return e
}

// WithInstructions sets the free-text instructions.
func (e *Exercise) WithInstructions(s string) *Exercise {
	e.Instructions = s
	return e
}

// WithOrder sets the display order key.
func (e *Exercise) WithOrder(i int) *Exercise {
	e.OrderIndex = i
	return e
}

// WithPresetImage sets the bundled image identifier.
func (e *Exercise) WithPresetImage(name string) *Exercise {
	e.PresetImage = &name
	return e
}

// WithImage sets the user-supplied image.
func (e *Exercise) WithImage(ref ImageRef) *Exercise {
	e.Image = ref
	return e
}
