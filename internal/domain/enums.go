package domain

// Gender is the biological sex used by the Mifflin-St Jeor formula.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) String() string { return string(g) }

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale:
		return true
	}
	return false
}

// ActivityLevel maps to a fixed TDEE multiplier.
type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityHeavy     ActivityLevel = "heavy"
)

func (a ActivityLevel) String() string { return string(a) }

func (a ActivityLevel) IsValid() bool {
	switch a {
	case ActivitySedentary, ActivityLight, ActivityModerate, ActivityHeavy:
		return true
	}
	return false
}

// GoalType is the user's primary objective; it drives the calorie
// adjustment and the macro split.
type GoalType string

const (
	GoalLose     GoalType = "lose"
	GoalMaintain GoalType = "maintain"
	GoalGain     GoalType = "gain"
)

func (g GoalType) String() string { return string(g) }

func (g GoalType) IsValid() bool {
	switch g {
	case GoalLose, GoalMaintain, GoalGain:
		return true
	}
	return false
}

// SessionState is the application state gating food-logging and
// plan-generation submissions. Exactly one instance exists per active day.
type SessionState string

const (
	StateIdle           SessionState = "IDLE"
	StateParsingFood    SessionState = "PARSING_FOOD"
	StateGeneratingPlan SessionState = "GENERATING_PLAN"
	StateError          SessionState = "ERROR"
)

func (s SessionState) String() string { return string(s) }

func (s SessionState) IsValid() bool {
	switch s {
	case StateIdle, StateParsingFood, StateGeneratingPlan, StateError:
		return true
	}
	return false
}
