package bridge

import "go.trai.ch/cachebridge/internal/core/domain"

// filterResults keeps what this invocation computed. Records whose targets were all loaded
// from dependency artifacts are dropped; records mixing loaded and new targets are reduced
// to the new ones. A record without targets is kept unless its configuration came from a
// dependency artifact.
func (b *Bridge) filterResults(results []*domain.Result) []*domain.Result {
	b.mu.Lock()
	defer b.mu.Unlock()

	kept := make([]*domain.Result, 0, len(results))
	for _, r := range results {
		if len(r.Targets) == 0 {
			if _, input := b.inputIDs[r.ConfigurationID]; !input {
				kept = append(kept, r)
			}
			continue
		}

		var fresh []string
		for _, name := range r.TargetNames() {
			if _, ok := b.carried[provenanceKey{target: name, result: r.Targets[name]}]; !ok {
				fresh = append(fresh, name)
			}
		}

		switch len(fresh) {
		case 0:
		case len(r.Targets):
			kept = append(kept, r)
		default:
			kept = append(kept, r.Reduced(fresh))
		}
	}
	return kept
}
