package output

// DefaultAssumptions lists key modeling assumptions rendered in detailed outputs.
var DefaultAssumptions = []string{
	"Returns compound monthly at the profile's annual rate divided by 12",
	"Contributions are made at the end of each month",
	"Duration bands use the profile's optimistic and pessimistic annual returns",
	"Committed plans fall back to a 7% annual return when no simulation is available",
	"Confidence is a coarse heuristic score, not a probability",
}
