package schema

// Column names referenced directly by the validator.
const (
	ColDate      = "date"
	ColClarity   = "clarity"
	ColCalm      = "calm"
	ColRoutine   = "routine"
	ColStability = "stability"
	ColNotes     = "notes"
)

func rng(lo, hi float64) *Range { return &Range{Lo: lo, Hi: hi} }

// HabitFieldSpecs defines the expected CSV columns for the daily habit log.
var HabitFieldSpecs = []FieldSpec{
	{Name: ColDate, Type: FieldDate},
	{Name: ColClarity, Type: FieldNumeric, Range: rng(0, 10)},
	{Name: ColCalm, Type: FieldNumeric, Range: rng(0, 10)},
	{Name: ColRoutine, Type: FieldNumeric, Range: rng(0, 10)},
	{Name: ColStability, Type: FieldNumeric, Range: rng(0, 10)},
	{Name: "sleep_hours", Type: FieldNumeric, Range: rng(0, 16)},
	{Name: "sleep_quality", Type: FieldNumeric, Range: rng(1, 5), Integer: true},
	{Name: "exercise_minutes", Type: FieldNumeric, Range: rng(0, 300), Integer: true},
	{Name: "caffeine_units", Type: FieldNumeric, Range: rng(0, 20), Integer: true},
	{Name: "social_minutes", Type: FieldNumeric, Range: rng(0, 1440), Integer: true},
	{Name: "stressors", Type: FieldNumeric, Range: rng(0, 3), Integer: true},
	{Name: ColNotes, Type: FieldText},
}

var habits = MustNew(HabitFieldSpecs)

// Habits returns the fixed habit-log schema.
func Habits() *Schema {
	return habits
}
