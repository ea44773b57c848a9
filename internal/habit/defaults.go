package habit

// Defaults is the seed set used when nothing usable is persisted.
func Defaults() []Habit {
	water := New("1", "Drink Water", IconDroplet.String())
	water.Goal, water.Unit = 8, "glasses"

	exercise := New("2", "Exercise", IconActivity.String())
	exercise.Goal, exercise.Unit = 30, "minutes"

	read := New("3", "Read", IconBook.String())
	read.Goal, read.Unit = 20, "pages"

	return []Habit{water, exercise, read}
}
