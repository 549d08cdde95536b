package prescription

import "alcyxob/adaptive-trainer/internal/domain"

// Equipment tags used by the catalog.
const (
	EquipmentBarbell      = "barbell"
	EquipmentDumbbells    = "dumbbells"
	EquipmentRack         = "rack"
	EquipmentBench        = "bench"
	EquipmentPullUpBar    = "pull_up_bar"
	EquipmentBox          = "plyo_box"
	EquipmentMedicineBall = "medicine_ball"
	EquipmentVolleyball   = "volleyball"
	EquipmentNet          = "net"
	EquipmentBike         = "bike"
	EquipmentJumpRope     = "jump_rope"
	EquipmentFoamRoller   = "foam_roller"
)

// Template is one catalog entry. An empty Phases list means every phase.
type Template struct {
	Type     domain.SessionType
	Phases   []string
	Exercise domain.Exercise
}

func loadRule(increment float64) domain.ProgressionRule {
	return domain.ProgressionRule{Type: "load", Increment: increment, Frequency: "weekly"}
}

func repsRule() domain.ProgressionRule {
	return domain.ProgressionRule{Type: "reps", Increment: 1, Frequency: "weekly"}
}

func timeRule() domain.ProgressionRule {
	return domain.ProgressionRule{Type: "time", Increment: 5, Frequency: "weekly"}
}

func kg(v float64) *float64 { return &v }

// Catalog is the static exercise table the prescription pipeline draws from.
var Catalog = []Template{
	// strength
	{
		Type:     domain.SessionStrength,
		Exercise: domain.Exercise{
			ID:           "back-squat",
			Name:         "Back Squat",
			Sets:         4,
			Reps:         "6-8",
			Load:         kg(60),
			Instructions: []string{"Brace before each rep", "Sit between the hips", "Drive up through mid-foot"},
			Difficulty:   "intermediate",
			Equipment:    []string{EquipmentBarbell, EquipmentRack},
			MuscleGroups: []string{"quadriceps", "glutes", "core"},
			TargetRPE:    7,
			RestTime:     120,
			Progression:  loadRule(0.05),
		},
	},
	{
		Type:     domain.SessionStrength,
		Exercise: domain.Exercise{
			ID:           "romanian-deadlift",
			Name:         "Romanian Deadlift",
			Sets:         3,
			Reps:         "8-10",
			Load:         kg(50),
			Instructions: []string{"Soft knees", "Push the hips back", "Keep the bar close to the legs"},
			Difficulty:   "intermediate",
			Equipment:    []string{EquipmentBarbell},
			MuscleGroups: []string{"hamstrings", "glutes", "lower back"},
			TargetRPE:    7,
			RestTime:     90,
			Progression:  loadRule(0.05),
		},
	},
	{
		Type:     domain.SessionStrength,
		Exercise: domain.Exercise{
			ID:           "bench-press",
			Name:         "Bench Press",
			Sets:         4,
			Reps:         "6-8",
			Load:         kg(45),
			Instructions: []string{"Retract the shoulder blades", "Touch the lower chest", "Press in a slight arc"},
			Difficulty:   "intermediate",
			Equipment:    []string{EquipmentBarbell, EquipmentBench, EquipmentRack},
			MuscleGroups: []string{"chest", "triceps", "shoulders"},
			TargetRPE:    7,
			RestTime:     120,
			Progression:  loadRule(0.05),
		},
	},
	{
		Type:     domain.SessionStrength,
		Phases:   []string{domain.PhaseFoundation, domain.PhaseHypertrophy, domain.PhaseDeload},
		Exercise: domain.Exercise{
			ID:           "dumbbell-row",
			Name:         "Single-Arm Dumbbell Row",
			Sets:         3,
			Reps:         "10-12",
			Load:         kg(20),
			Instructions: []string{"Support on the bench", "Pull the elbow to the hip"},
			Difficulty:   "beginner",
			Equipment:    []string{EquipmentDumbbells, EquipmentBench},
			MuscleGroups: []string{"lats", "upper back", "biceps"},
			TargetRPE:    7,
			RestTime:     75,
			Progression:  loadRule(0.05),
		},
	},
	{
		Type:     domain.SessionStrength,
		Phases:   []string{domain.PhaseStrength, domain.PhaseHypertrophy, domain.PhasePower},
		Exercise: domain.Exercise{
			ID:           "pull-up",
			Name:         "Pull-Up",
			Sets:         3,
			Reps:         "5-8",
			Instructions: []string{"Start from a dead hang", "Chin over the bar"},
			Difficulty:   "intermediate",
			Equipment:    []string{EquipmentPullUpBar},
			MuscleGroups: []string{"lats", "biceps"},
			TargetRPE:    8,
			RestTime:     90,
			Progression:  repsRule(),
		},
	},
	{
		Type:     domain.SessionStrength,
		Phases:   []string{domain.PhasePower},
		Exercise: domain.Exercise{
			ID:           "box-jump",
			Name:         "Box Jump",
			Sets:         4,
			Reps:         "3-5",
			Instructions: []string{"Swing the arms", "Land softly", "Step down between reps"},
			Difficulty:   "intermediate",
			Equipment:    []string{EquipmentBox},
			MuscleGroups: []string{"quadriceps", "glutes", "calves"},
			TargetRPE:    7,
			RestTime:     90,
			Progression:  repsRule(),
		},
	},
	{
		Type:     domain.SessionStrength,
		Exercise: domain.Exercise{
			ID:           "split-squat",
			Name:         "Bulgarian Split Squat",
			Sets:         3,
			Reps:         "8-10",
			Instructions: []string{"Rear foot on a raised surface", "Keep the torso tall"},
			Difficulty:   "beginner",
			MuscleGroups: []string{"quadriceps", "glutes"},
			TargetRPE:    7,
			RestTime:     60,
			Progression:  repsRule(),
		},
	},
	{
		Type:     domain.SessionStrength,
		Exercise: domain.Exercise{
			ID:           "plank",
			Name:         "Plank",
			Sets:         3,
			Reps:         "30s",
			Instructions: []string{"Squeeze the glutes", "Keep a straight line from head to heels"},
			Difficulty:   "beginner",
			MuscleGroups: []string{"core"},
			TargetRPE:    6,
			RestTime:     45,
			Progression:  timeRule(),
		},
	},

	// volleyball
	{
		Type:     domain.SessionVolleyball,
		Exercise: domain.Exercise{
			ID:           "approach-jump",
			Name:         "Approach Jump",
			Sets:         4,
			Reps:         "5",
			Instructions: []string{"Accelerate through the last two steps", "Full arm swing", "Land on both feet"},
			Difficulty:   "intermediate",
			MuscleGroups: []string{"quadriceps", "glutes", "calves"},
			TargetRPE:    7,
			RestTime:     60,
			Progression:  repsRule(),
		},
	},
	{
		Type:     domain.SessionVolleyball,
		Exercise: domain.Exercise{
			ID:           "serve-receive",
			Name:         "Serve Receive Drill",
			Sets:         3,
			Reps:         "10",
			Instructions: []string{"Platform angled to target", "Move feet before the ball arrives"},
			Difficulty:   "beginner",
			Equipment:    []string{EquipmentVolleyball, EquipmentNet},
			MuscleGroups: []string{"shoulders", "legs"},
			TargetRPE:    6,
			RestTime:     45,
			Progression:  repsRule(),
		},
	},
	{
		Type:     domain.SessionVolleyball,
		Exercise: domain.Exercise{
			ID:           "block-footwork",
			Name:         "Block Footwork",
			Sets:         3,
			Reps:         "6",
			Instructions: []string{"Shuffle along the net", "Press hands over the tape"},
			Difficulty:   "intermediate",
			Equipment:    []string{EquipmentNet},
			MuscleGroups: []string{"calves", "shoulders"},
			TargetRPE:    7,
			RestTime:     60,
			Progression:  repsRule(),
		},
	},
	{
		Type:     domain.SessionVolleyball,
		Phases:   []string{domain.PhaseStrength, domain.PhasePower},
		Exercise: domain.Exercise{
			ID:           "med-ball-slam",
			Name:         "Medicine Ball Slam",
			Sets:         3,
			Reps:         "8",
			Instructions: []string{"Reach tall overhead", "Slam through the floor"},
			Difficulty:   "beginner",
			Equipment:    []string{EquipmentMedicineBall},
			MuscleGroups: []string{"core", "lats", "shoulders"},
			TargetRPE:    7,
			RestTime:     60,
			Progression:  repsRule(),
		},
	},
	{
		Type:     domain.SessionVolleyball,
		Exercise: domain.Exercise{
			ID:           "lateral-shuffle",
			Name:         "Lateral Shuffle",
			Sets:         3,
			Reps:         "20s",
			Instructions: []string{"Stay low", "Do not cross the feet"},
			Difficulty:   "beginner",
			MuscleGroups: []string{"adductors", "glutes"},
			TargetRPE:    6,
			RestTime:     40,
			Progression:  timeRule(),
		},
	},

	// conditioning
	{
		Type:     domain.SessionConditioning,
		Exercise: domain.Exercise{
			ID:           "shuttle-run",
			Name:         "Shuttle Run",
			Sets:         6,
			Reps:         "30s",
			Instructions: []string{"Touch each line", "Decelerate under control"},
			Difficulty:   "intermediate",
			MuscleGroups: []string{"legs", "cardiovascular"},
			TargetRPE:    8,
			RestTime:     60,
			Progression:  timeRule(),
		},
	},
	{
		Type:     domain.SessionConditioning,
		Exercise: domain.Exercise{
			ID:           "bike-interval",
			Name:         "Bike Intervals",
			Sets:         8,
			Reps:         "20s",
			Instructions: []string{"All-out effort on work intervals", "Easy spin between"},
			Difficulty:   "beginner",
			Equipment:    []string{EquipmentBike},
			MuscleGroups: []string{"legs", "cardiovascular"},
			TargetRPE:    8,
			RestTime:     40,
			Progression:  timeRule(),
		},
	},
	{
		Type:     domain.SessionConditioning,
		Exercise: domain.Exercise{
			ID:           "jump-rope",
			Name:         "Jump Rope",
			Sets:         5,
			Reps:         "60s",
			Instructions: []string{"Stay on the balls of the feet", "Wrists drive the rope"},
			Difficulty:   "beginner",
			Equipment:    []string{EquipmentJumpRope},
			MuscleGroups: []string{"calves", "cardiovascular"},
			TargetRPE:    6,
			RestTime:     30,
			Progression:  timeRule(),
		},
	},
	{
		Type:     domain.SessionConditioning,
		Phases:   []string{domain.PhaseFoundation, domain.PhaseHypertrophy, domain.PhasePower},
		Exercise: domain.Exercise{
			ID:           "burpee",
			Name:         "Burpee",
			Sets:         4,
			Reps:         "10",
			Instructions: []string{"Chest to the floor", "Jump with hands overhead"},
			Difficulty:   "beginner",
			MuscleGroups: []string{"full body", "cardiovascular"},
			TargetRPE:    7,
			RestTime:     60,
			Progression:  repsRule(),
		},
	},

	// rest
	{
		Type:     domain.SessionRest,
		Exercise: domain.Exercise{
			ID:           "hip-mobility",
			Name:         "Hip Mobility Flow",
			Sets:         2,
			Reps:         "5 min",
			Instructions: []string{"Move slowly", "Breathe through end ranges"},
			Difficulty:   "beginner",
			MuscleGroups: []string{"hips"},
			TargetRPE:    3,
			Progression:  timeRule(),
		},
	},
	{
		Type:     domain.SessionRest,
		Exercise: domain.Exercise{
			ID:           "foam-rolling",
			Name:         "Foam Rolling",
			Sets:         1,
			Reps:         "10 min",
			Instructions: []string{"Roll each area for 60-90 seconds"},
			Difficulty:   "beginner",
			Equipment:    []string{EquipmentFoamRoller},
			MuscleGroups: []string{"full body"},
			TargetRPE:    2,
			Progression:  timeRule(),
		},
	},
	{
		Type:     domain.SessionRest,
		Exercise: domain.Exercise{
			ID:           "easy-walk",
			Name:         "Easy Walk",
			Sets:         1,
			Reps:         "20 min",
			Instructions: []string{"Conversational pace"},
			Difficulty:   "beginner",
			MuscleGroups: []string{"cardiovascular"},
			TargetRPE:    2,
			Progression:  timeRule(),
		},
	},
}

// BaseExercises returns copies of the catalog entries for a session type and phase, in catalog order.
func BaseExercises(t domain.SessionType, phaseID string) []domain.Exercise {
	var out []domain.Exercise
	for _, tpl := range Catalog {
		if tpl.Type != t || !inPhase(tpl.Phases, phaseID) {
			continue
		}
		ex := copyExercise(tpl.Exercise)
		ex.Phase = phaseID
		out = append(out, ex)
	}
	return out
}

func inPhase(phases []string, id string) bool {
	if len(phases) == 0 {
		return true
	}
	for _, p := range phases {
		if p == id {
			return true
		}
	}
	return false
}

func copyExercise(ex domain.Exercise) domain.Exercise {
	out := ex
	out.Instructions = append([]string(nil), ex.Instructions...)
	out.Equipment = append([]string{}, ex.Equipment...)
	out.MuscleGroups = append([]string(nil), ex.MuscleGroups...)
	if ex.Load != nil {
		load := *ex.Load
		out.Load = &load
	}
	return out
}
