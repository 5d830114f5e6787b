package db

// Event sources
const (
	// SourceManual marks events entered by people; the allocator never modifies them
	SourceManual = "manual"

	// SourceGenerated marks events written by a generation run
	SourceGenerated = "generated"
)

// Worker represents a database worker record
type Worker struct {
	ID         string
	FirstName  string
	LastName   string
	Skills     []string
	FixedRoles []string
	Active     bool
}

// Event represents a database calendar event record.
// Start and End are inclusive YYYY-MM-DD dates.
type Event struct {
	ID         string
	WorkerName string
	Start      string
	End        string
	Type       string
	Source     string

	// RunID is set on generated events only
	RunID string
}

// GenerationRun represents one persisted allocation run
type GenerationRun struct {
	ID    string
	Year  int
	Month int

	// PeriodStart and PeriodEnd bound the month the run covered
	PeriodStart string
	PeriodEnd   string

	// Seed reproduces the tie-break order of the run
	Seed uint64

	// Replaced is true if the run deleted earlier generated events of the period
	Replaced bool

	EventCount   int
	WarningCount int
	CreatedAt    string
}

// ShortageWarning represents a persisted staffing shortfall of a run
type ShortageWarning struct {
	ID       string
	RunID    string
	Date     string
	Role     string
	Severity string
	Missing  int
	Message  string
}
