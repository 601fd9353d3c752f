package livingset

import (
	"sync"

	"github.com/agentstation/livingset/pkg/dataset"
	"github.com/agentstation/livingset/pkg/differ"
	"github.com/agentstation/livingset/pkg/merge"
)

// Hook function types for merge events
type (
	// MergedHook is called after a data type's merge finishes, whatever its status
	MergedHook func(outcome *merge.Outcome)

	// RecordUpdatedHook is called for each living record a persisted merge changed
	RecordUpdatedHook func(dt dataset.DataType, update differ.RecordUpdate)
)

// hooks manages event callbacks for merges
type hooks struct {
	mu              sync.RWMutex
	onMerged        []MergedHook
	onRecordUpdated []RecordUpdatedHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnMerged registers a callback for finished merges
func (h *hooks) OnMerged(fn MergedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onMerged = append(h.onMerged, fn)
}

// OnRecordUpdated registers a callback for updated living records
func (h *hooks) OnRecordUpdated(fn RecordUpdatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRecordUpdated = append(h.onRecordUpdated, fn)
}

func (h *hooks) triggerMerged(outcome *merge.Outcome) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onMerged {
		hook(outcome)
	}
}

func (h *hooks) triggerUpdates(dt dataset.DataType, updates []differ.RecordUpdate) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, u := range updates {
		for _, hook := range h.onRecordUpdated {
			hook(dt, u)
		}
	}
}
