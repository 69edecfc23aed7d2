// Package sources holds the per-site adapters that turn Korean news
// pages into candidate articles.
package sources

import (
	"github.com/ternarybob/newsflow/internal/common"
	"github.com/ternarybob/newsflow/internal/interfaces"
)

// NewAdapters builds the enabled source adapters. An empty
// collector.sources list enables every registered source.
func NewAdapters(cfg *common.Config) []interfaces.SourceAdapter {
	all := []interfaces.SourceAdapter{
		NewNaverAdapter(cfg),
		NewHankyungAdapter(cfg),
		NewMKAdapter(cfg),
		NewKRXAdapter(cfg),
	}

	if len(cfg.Collector.Sources) == 0 {
		return all
	}

	enabled := make(map[string]struct{}, len(cfg.Collector.Sources))
	for _, name := range cfg.Collector.Sources {
		enabled[name] = struct{}{}
	}

	var adapters []interfaces.SourceAdapter
	for _, adapter := range all {
		if _, ok := enabled[adapter.Name()]; ok {
			adapters = append(adapters, adapter)
		}
	}
	return adapters
}
