// Package feedback persists the user feedback form.
package feedback

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Feedback is one submitted form. Experience is the only required field.
type Feedback struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name" validate:"max=200"`
	Email       string    `json:"email" validate:"omitempty,email,max=320"`
	Experience  string    `json:"experience" validate:"required,max=5000"`
	Suggestions string    `json:"suggestions" validate:"max=5000"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store persists feedback.
type Store interface {
	Save(ctx context.Context, f Feedback) (Feedback, error)
	Recent(ctx context.Context, limit int) ([]Feedback, error)
	Ping(ctx context.Context) error
}

// ErrInvalid wraps validation failures.
var ErrInvalid = errors.New("invalid feedback")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Normalize trims every field and validates the result.
func Normalize(f Feedback) (Feedback, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Experience = strings.TrimSpace(f.Experience)
	f.Suggestions = strings.TrimSpace(f.Suggestions)
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return Feedback{}, invalidError{field: strings.ToLower(verrs[0].Field()), tag: verrs[0].Tag()}
		}
		return Feedback{}, err
	}
	return f, nil
}

type invalidError struct{ field, tag string }

func (e invalidError) Error() string {
	switch e.tag {
	case "required":
		return e.field + " is required"
	case "email":
		return e.field + " must be a valid email address"
	default:
		return e.field + " is too long"
	}
}

func (e invalidError) Is(target error) bool { return target == ErrInvalid }

// stamp assigns id and creation time to a normalized form.
func stamp(f Feedback, now time.Time) Feedback {
	f.ID = uuid.New()
	f.CreatedAt = now.UTC()
	return f
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}
