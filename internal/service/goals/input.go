package goals

import "github.com/heartmarshall/nutriplan-backend/internal/domain"

// UpdateProfileInput holds partial biometric updates (nil = don't change).
type UpdateProfileInput struct {
	Gender   *domain.Gender
	Age      *int
	Height   *float64
	Weight   *float64
	Activity *domain.ActivityLevel
	Goal     *domain.GoalType
}

// Validate validates the profile update input.
func (i UpdateProfileInput) Validate() error {
	var errs []domain.FieldError

	if i.Gender != nil && !i.Gender.IsValid() {
		errs = append(errs, domain.FieldError{Field: "gender", Message: "must be male or female"})
	}
	if i.Age != nil && *i.Age <= 0 {
		errs = append(errs, domain.FieldError{Field: "age", Message: "must be positive"})
	}
	if i.Height != nil && *i.Height <= 0 {
		errs = append(errs, domain.FieldError{Field: "height", Message: "must be positive"})
	}
	if i.Weight != nil && *i.Weight <= 0 {
		errs = append(errs, domain.FieldError{Field: "weight", Message: "must be positive"})
	}
	if i.Activity != nil && !i.Activity.IsValid() {
		errs = append(errs, domain.FieldError{Field: "activity", Message: "unknown activity level"})
	}
	if i.Goal != nil && !i.Goal.IsValid() {
		errs = append(errs, domain.FieldError{Field: "goal", Message: "unknown goal type"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateGoalInput holds partial manual target updates (nil = don't change).
type UpdateGoalInput struct {
	Calories *float64
	Protein  *float64
	Carbs    *float64
	Fat      *float64
}

// Validate validates the goal update input.
func (i UpdateGoalInput) Validate() error {
	var errs []domain.FieldError

	check := func(field string, v *float64) {
		if v != nil && *v < 0 {
			errs = append(errs, domain.FieldError{Field: field, Message: "must not be negative"})
		}
	}
	check("calories", i.Calories)
	check("protein", i.Protein)
	check("carbs", i.Carbs)
	check("fat", i.Fat)

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
