// ABOUTME: Aggregate views composing a parent entity with its resolved children.
// ABOUTME: Built by the storage resolver inside a single read snapshot.
package models

// RoutineWithExercises is a routine and its exercises sorted by OrderIndex.
type RoutineWithExercises struct {
	Routine   Routine    `json:"routine" yaml:"routine"`
	Exercises []Exercise `json:"exercises" yaml:"exercises"`
}

// ExerciseWithEquipment is an exercise and its equipment.
type ExerciseWithEquipment struct {
	Exercise  Exercise    `json:"exercise" yaml:"exercise"`
	Equipment []Equipment `json:"equipment" yaml:"equipment"`
}

// RoutineWithExercisesAndEquipment is the full three-level routine aggregate.
type RoutineWithExercisesAndEquipment struct {
	Routine   Routine                 `json:"routine" yaml:"routine"`
	Exercises []ExerciseWithEquipment `json:"exercises" yaml:"exercises"`
}

// RoutineWithLocation is a routine and its location, nil when unset.
type RoutineWithLocation struct {
	Routine  Routine   `json:"routine" yaml:"routine"`
	Location *Location `json:"location,omitempty" yaml:"location,omitempty"`
}

// AllEquipment flattens the equipment of every exercise.
func (r RoutineWithExercisesAndEquipment) AllEquipment() []Equipment {
	var out []Equipment
	for _, ex := range r.Exercises {
		out = append(out, ex.Equipment...)
	}
	return out
}
