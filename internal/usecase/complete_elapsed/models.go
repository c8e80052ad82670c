package complete_elapsed

// Response итог одного прохода
type Response struct {
	Found     int
	Completed int
	Failed    int
}
