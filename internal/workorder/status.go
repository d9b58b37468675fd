package workorder

// Status is the lifecycle state of a work order, persisted as a string.
type Status string

const (
	StatusReported     Status = "reported"      // initial state
	StatusAssigned     Status = "assigned"      // technician assigned
	StatusInProgress   Status = "in_progress"   // work started
	StatusPendingParts Status = "pending_parts" // waiting for parts
	StatusCompleted    Status = "completed"     // terminal
	StatusCancelled    Status = "cancelled"     // terminal
)

// Transitions is the allowed edge set of the work order state machine.
// Any edge not listed here must be rejected.
var Transitions = map[Status][]Status{
	StatusReported:     {StatusAssigned, StatusCancelled},
	StatusAssigned:     {StatusInProgress, StatusCancelled},
	StatusInProgress:   {StatusPendingParts, StatusCompleted, StatusCancelled},
	StatusPendingParts: {StatusInProgress, StatusCancelled},
	StatusCompleted:    {},
	StatusCancelled:    {},
}

// ActiveStatuses are the states in which a work order still occupies its
// machine and, once started, its technician. Used for the "any other active
// work order?" queries that gate status restoration.
var ActiveStatuses = []Status{StatusAssigned, StatusInProgress, StatusPendingParts}

// Valid reports whether s is a known work order status.
func Valid(s Status) bool {
	_, ok := Transitions[s]
	return ok
}

// CanTransition reports whether from -> to is an allowed edge.
func CanTransition(from, to Status) bool {
	for _, s := range Transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Allowed returns the statuses reachable from the given status. The returned
// slice is a copy; callers may keep it (it ends up in error payloads).
func Allowed(from Status) []Status {
	src := Transitions[from]
	out := make([]Status, len(src))
	copy(out, src)
	return out
}

// IsTerminal reports whether no further transitions exist from s.
func IsTerminal(s Status) bool {
	return Valid(s) && len(Transitions[s]) == 0
}

// IsActive reports whether s is one of the active statuses.
func IsActive(s Status) bool {
	for _, a := range ActiveStatuses {
		if s == a {
			return true
		}
	}
	return false
}

// Type classifies a work order.
type Type string

const (
	TypeCorrective Type = "corrective"
	TypePreventive Type = "preventive"
	TypeInspection Type = "inspection"
)

// ValidType reports whether t is a known work order type.
func ValidType(t Type) bool {
	return t == TypeCorrective || t == TypePreventive || t == TypeInspection
}

// Origin records how a work order came to exist.
type Origin string

const (
	OriginBreakdown Origin = "breakdown"
	OriginScheduled Origin = "scheduled"
	OriginRequest   Origin = "request"
)

// ValidOrigin reports whether o is a known origin.
func ValidOrigin(o Origin) bool {
	return o == OriginBreakdown || o == OriginScheduled || o == OriginRequest
}

// Priority of a work order.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// ValidPriority reports whether p is a known priority.
func ValidPriority(p Priority) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh || p == PriorityCritical
}

// Severity of the underlying issue, used for corrective work.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

// ValidSeverity reports whether s is a known severity.
func ValidSeverity(s Severity) bool {
	return s == SeverityMinor || s == SeverityModerate || s == SeverityMajor || s == SeverityCritical
}
