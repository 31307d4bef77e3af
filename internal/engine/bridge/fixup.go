package bridge

import "go.trai.ch/cachebridge/internal/core/domain"

// fixupConfigs rewrites project paths and global property values of every configuration
// in place and rebuilds the identity index. With ToReal or ToVirtual as rewrite it is
// idempotent.
func fixupConfigs(configs *domain.ConfigCache, rewrite func(string) string) {
	for _, cfg := range configs.All() {
		cfg.ProjectPath = rewrite(cfg.ProjectPath)
		for k, v := range cfg.GlobalProperties {
			cfg.GlobalProperties[k] = rewrite(v)
		}
	}
	configs.Reindex()
}

// fixupResults rewrites item specs, item metadata and messages of every target result in
// place. Target results shared between records are rewritten once.
func fixupResults(results *domain.ResultsCache, rewrite func(string) string) {
	seen := make(map[*domain.TargetResult]struct{})
	for _, r := range results.All() {
		for _, tr := range r.Targets {
			if _, ok := seen[tr]; ok || tr == nil {
				continue
			}
			seen[tr] = struct{}{}
			fixupTarget(tr, rewrite)
		}
	}
}

func fixupTarget(tr *domain.TargetResult, rewrite func(string) string) {
	for _, item := range tr.Items {
		if item == nil {
			continue
		}
		item.Spec = rewrite(item.Spec)
		for k, v := range item.Metadata {
			item.Metadata[k] = rewrite(v)
		}
	}
	for i, msg := range tr.Messages {
		tr.Messages[i] = rewrite(msg)
	}
}
