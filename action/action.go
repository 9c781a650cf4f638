package action

// Kind is the closed tag identifying an action type
// Same-kind checks are plain integer compares, no reflection
type Kind uint16

const (
	KindNone Kind = iota
	KindNavigate
	KindSteer
	KindTurn

	// KindUser is the first tag available to actions defined outside this package
	KindUser Kind = 64
)

var kindNames = map[Kind]string{
	KindNone:     "none",
	KindNavigate: "navigate",
	KindSteer:    "steer",
	KindTurn:     "turn",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "user"
}

// Action is a queued unit of agent behaviour
// Implementations are value types so the zero value reports the kind
type Action interface {
	Kind() Kind
}

// Activator is implemented by actions with activation side effects
// The returned status becomes the initial status, StatusInvalid is treated as StatusRunning
type Activator interface {
	Activate(q *Queue, h Handle) Status
}

// Deactivator is implemented by actions that release resources on deactivation
// Called exactly once per activated action
type Deactivator interface {
	Deactivate(q *Queue, h Handle)
}

// Status is the externally visible progress of an action
type Status uint8

const (
	StatusInvalid Status = iota
	StatusRunning
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "invalid"
	}
}

// Finished reports whether s is terminal
func (s Status) Finished() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Phase is the internal lifecycle position of an action record
type Phase uint8

const (
	PhaseInactive Phase = iota
	PhaseActivating
	PhaseRunning
	PhaseFinished
	PhaseDeactivating
	PhaseDeactivated
)

// CancelState tracks cooperative cancellation
// Requested by CancelAction, Acknowledged and Terminated by the next Queue.Update
type CancelState uint8

const (
	CancelNone CancelState = iota
	CancelRequested
	CancelAcknowledged
	CancelTerminated
)
