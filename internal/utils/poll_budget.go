package utils

// PollBudget counts consecutive failed checks. A budget with Ceiling 60
// tolerates 60 failures and is exhausted by the 61st.
type PollBudget struct {
	Ceiling  int
	failures int
}

func NewPollBudget(ceiling int) *PollBudget {
	return &PollBudget{Ceiling: ceiling}
}

// Fail records one failed check and reports whether the ceiling was exceeded.
func (b *PollBudget) Fail() bool {
	b.failures++
	return b.failures > b.Ceiling
}

func (b *PollBudget) Reset() {
	b.failures = 0
}

func (b *PollBudget) Failures() int {
	return b.failures
}
