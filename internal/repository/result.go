// ABOUTME: Tagged facade results separating domain rejections from infrastructure errors.
// ABOUTME: Maps storage constraint and not-found errors onto rejection reasons.
package repository

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/harperreed/fitlife/internal/storage"
)

// ErrDomainRejection is the sentinel every *Rejection unwraps to.
var ErrDomainRejection = errors.New("domain rejection")

// Reason is a stable code for a domain rejection.
type Reason string

const (
	ReasonEmailRegistered    Reason = "email_registered"
	ReasonInvalidCredentials Reason = "invalid_credentials"
	ReasonUserNotFound       Reason = "user_not_found"
	ReasonRoutineNotFound    Reason = "routine_not_found"
	ReasonExerciseNotFound   Reason = "exercise_not_found"
	ReasonEquipmentNotFound  Reason = "equipment_not_found"
	ReasonLocationNotFound   Reason = "location_not_found"
	ReasonInvalidInput       Reason = "invalid_input"
)

var reasonMessages = map[Reason]string{
	ReasonEmailRegistered:    "email already registered",
	ReasonInvalidCredentials: "invalid email or password",
	ReasonUserNotFound:       "user not found",
	ReasonRoutineNotFound:    "routine not found",
	ReasonExerciseNotFound:   "exercise not found",
	ReasonEquipmentNotFound:  "equipment not found",
	ReasonLocationNotFound:   "location not found",
	ReasonInvalidInput:       "invalid input",
}

// constraintReasons maps the column a store constraint failed on to the
// rejection a caller sees.
var constraintReasons = map[string]Reason{
	"email":       ReasonEmailRegistered,
	"user_id":     ReasonUserNotFound,
	"routine_id":  ReasonRoutineNotFound,
	"exercise_id": ReasonExerciseNotFound,
	"location_id": ReasonLocationNotFound,
}

// Rejection is an expected domain failure such as a duplicate email.
type Rejection struct {
	Reason  Reason `json:"reason"`
	Message string `json:"message"`
}

func (r *Rejection) Error() string { return r.Message }

func (r *Rejection) Unwrap() error { return ErrDomainRejection }

// Result is the outcome of a facade operation that did not fail on
// infrastructure. Exactly one of Value and Rejection is meaningful.
type Result[T any] struct {
	Value     T
	Rejection *Rejection
}

// OK reports whether the operation succeeded.
func (r Result[T]) OK() bool {
	return r.Rejection == nil
}

// Err returns the rejection as an error, or nil on success.
func (r Result[T]) Err() error {
	if r.Rejection == nil {
		return nil
	}
	return r.Rejection
}

func newRejection(reason Reason, detail string) *Rejection {
	msg := reasonMessages[reason]
	if detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, detail)
	}
	return &Rejection{Reason: reason, Message: msg}
}

func ok[T any](v T) (Result[T], error) {
	return Result[T]{Value: v}, nil
}

func reject[T any](logger *log.Logger, op string, reason Reason, detail string) (Result[T], error) {
	rej := newRejection(reason, detail)
	logger.Debug("rejected", "op", op, "reason", rej.Reason)
	return Result[T]{Rejection: rej}, nil
}

// fromError turns err into a rejection when it is domain-expected and
// passes it through otherwise. missing is the reason used for ErrNotFound.
func fromError[T any](logger *log.Logger, op string, err error, missing Reason) (Result[T], error) {
	var rej *Rejection
	if errors.As(err, &rej) {
		logger.Debug("rejected", "op", op, "reason", rej.Reason)
		return Result[T]{Rejection: rej}, nil
	}
	var ce *storage.ConstraintError
	if errors.As(err, &ce) {
		if reason, found := constraintReasons[ce.Column]; found {
			return reject[T](logger, op, reason, "")
		}
	}
	if missing != "" && errors.Is(err, storage.ErrNotFound) {
		return reject[T](logger, op, missing, "")
	}
	return Result[T]{}, fmt.Errorf("%s: %w", op, err)
}
