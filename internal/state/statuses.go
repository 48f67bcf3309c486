package state

// RunStatus is the lifecycle status of a single keep-alive ping run.
type RunStatus string

const (
	StatusPending   RunStatus = "pending"
	StatusSucceeded RunStatus = "succeeded"
	StatusFailed    RunStatus = "failed"
)

func (s RunStatus) String() string {
	return string(s)
}

var AllStatuses = []RunStatus{
	StatusPending,
	StatusSucceeded,
	StatusFailed,
}

type Transition struct {
	From RunStatus
	To   RunStatus
}

var ValidTransitions = []Transition{
	{From: StatusPending, To: StatusSucceeded},
	{From: StatusPending, To: StatusFailed},
}

func IsValidTransition(from, to RunStatus) bool {
	for _, t := range ValidTransitions {
		if t.From == from && t.To == to {
			return true
		}
	}
	return false
}

// FromError maps a ping outcome to its terminal status.
func FromError(err error) RunStatus {
	if err != nil {
		return StatusFailed
	}
	return StatusSucceeded
}

// ReportedOutcome collapses any terminal status to the status a run
// reports outward. Failures are recorded, never reported: a run always
// reports success, and the next scheduled tick is the retry.
func ReportedOutcome(RunStatus) RunStatus {
	return StatusSucceeded
}
