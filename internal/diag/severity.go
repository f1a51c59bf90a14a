package diag

// Severity orders diagnostics from advisory to internal defect.
type Severity uint8

const (
	SevWarning Severity = iota
	SevError
	// SevBug marks an internal defect: a state upstream passes should have
	// ruled out, or a construct code generation does not handle yet.
	SevBug
)

var severityNames = [...]string{
	SevWarning: "WARNING",
	SevError:   "ERROR",
	SevBug:     "BUG",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}
