package domain

// UserProfile holds the biometrics the Target Calculator works from.
// IsManual records whether the user has taken over goal entry; while it is
// set, computed-target inputs are frozen.
type UserProfile struct {
	Gender   Gender        `json:"gender"`
	Age      int           `json:"age"`
	Height   float64       `json:"height"` // cm
	Weight   float64       `json:"weight"` // kg
	Activity ActivityLevel `json:"activity"`
	Goal     GoalType      `json:"goal"`
	IsManual bool          `json:"isManual"`
}

// Validate checks that all profile fields carry plausible values.
func (p UserProfile) Validate() error {
	var errs []FieldError

	if !p.Gender.IsValid() {
		errs = append(errs, FieldError{Field: "gender", Message: "must be male or female"})
	}
	if p.Age <= 0 {
		errs = append(errs, FieldError{Field: "age", Message: "must be positive"})
	}
	if p.Height <= 0 {
		errs = append(errs, FieldError{Field: "height", Message: "must be positive"})
	}
	if p.Weight <= 0 {
		errs = append(errs, FieldError{Field: "weight", Message: "must be positive"})
	}
	if !p.Activity.IsValid() {
		errs = append(errs, FieldError{Field: "activity", Message: "unknown activity level"})
	}
	if !p.Goal.IsValid() {
		errs = append(errs, FieldError{Field: "goal", Message: "unknown goal type"})
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
