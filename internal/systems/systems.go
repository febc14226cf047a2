package systems

import (
	"fmt"
	"sync"
)

// MemoryStore is the in-process key-value store backing the narrative
// engine's working memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryStore constructs an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]string)}
}

// Put stores a value under a key.
func (s *MemoryStore) Put(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
}

// Get returns the value stored under a key.
func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok
}

// Len returns the number of stored entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// ParameterStore holds the engine's tunable generation parameters.
type ParameterStore struct {
	mu     sync.RWMutex
	params map[string]string
}

// NewParameterStore constructs a parameter store seeded with defaults.
func NewParameterStore(defaults map[string]string) *ParameterStore {
	params := make(map[string]string, len(defaults))
	for k, v := range defaults {
		params[k] = v
	}
	return &ParameterStore{params: params}
}

// Lookup returns a parameter value.
func (s *ParameterStore) Lookup(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.params[name]
	return v, ok
}

// Set overrides a parameter value.
func (s *ParameterStore) Set(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params[name] = value
}

// CharacterService manages character records on top of the memory store.
type CharacterService struct {
	store *MemoryStore
}

// NewCharacterService constructs the character service. The memory store
// must already be initialized; the orchestrator's tier ordering guarantees
// that.
func NewCharacterService(store *MemoryStore) (*CharacterService, error) {
	if store == nil {
		return nil, fmt.Errorf("character service requires an initialized memory store")
	}
	return &CharacterService{store: store}, nil
}

// Add records a character sketch.
func (s *CharacterService) Add(name, sketch string) {
	s.store.Put("character:"+name, sketch)
}

// Get returns a character sketch.
func (s *CharacterService) Get(name string) (string, bool) {
	return s.store.Get("character:" + name)
}

// PlotService manages plot threads on top of the memory store.
type PlotService struct {
	store *MemoryStore
}

// NewPlotService constructs the plot service over an initialized memory
// store.
func NewPlotService(store *MemoryStore) (*PlotService, error) {
	if store == nil {
		return nil, fmt.Errorf("plot service requires an initialized memory store")
	}
	return &PlotService{store: store}, nil
}

// Add records a plot thread.
func (s *PlotService) Add(name, summary string) {
	s.store.Put("plot:"+name, summary)
}

// Get returns a plot thread summary.
func (s *PlotService) Get(name string) (string, bool) {
	return s.store.Get("plot:" + name)
}

// AnalysisService inspects characters and plots for consistency. It is an
// optional system: the engine degrades to unanalyzed output without it.
type AnalysisService struct {
	characters *CharacterService
	plots      *PlotService
}

// NewAnalysisService constructs the analysis service over the character and
// plot services.
func NewAnalysisService(characters *CharacterService, plots *PlotService) (*AnalysisService, error) {
	if characters == nil || plots == nil {
		return nil, fmt.Errorf("analysis service requires character and plot services")
	}
	return &AnalysisService{characters: characters, plots: plots}, nil
}

// Ready reports whether the service has both collaborators wired.
func (s *AnalysisService) Ready() bool {
	return s.characters != nil && s.plots != nil
}
