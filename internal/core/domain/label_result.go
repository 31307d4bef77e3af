package domain

// LabelResult is the unit of cache exchanged between invocations: everything one label's
// invocation produced, plus the bookkeeping dependents need to re-key it.
type LabelResult struct {
	Label          Label
	Configurations []*Configuration
	Results        []*Result

	// ConfigOwner maps a configuration identifier of this session to the label whose
	// artifact defined that configuration.
	ConfigOwner map[int]string

	// OriginalIDs maps a configuration identifier of this session to the identifier the
	// configuration had in its owner's artifact.
	OriginalIDs map[int]int
}

// NewLabelResult creates an empty LabelResult for a label.
func NewLabelResult(label Label) *LabelResult {
	return &LabelResult{
		Label:       label,
		ConfigOwner: make(map[int]string),
		OriginalIDs: make(map[int]int),
	}
}
