package pipeline

import "sync"

// Cache stores stage artifacts keyed by candidate identifier with write-once
// semantics, so a retried stage cannot overwrite what an earlier attempt
// already produced. It is the only structure shared across batch goroutines.
type Cache struct {
	mu      sync.Mutex
	entries map[string]map[Stage]any
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]map[Stage]any)}
}

// Put stores an artifact and reports whether the write won. A second write
// for the same candidate and stage is ignored.
func (c *Cache) Put(candidateID string, stage Stage, artifact any) bool {
	if c == nil || candidateID == "" || artifact == nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	stages, ok := c.entries[candidateID]
	if !ok {
		stages = make(map[Stage]any)
		c.entries[candidateID] = stages
	}
	if _, exists := stages[stage]; exists {
		return false
	}
	stages[stage] = artifact
	return true
}

// Get returns the stored artifact for a candidate and stage.
func (c *Cache) Get(candidateID string, stage Stage) (any, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	artifact, ok := c.entries[candidateID][stage]
	return artifact, ok
}

// Candidates returns the identifiers with at least one stored artifact.
func (c *Cache) Candidates() []string {
	if c == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, 0, len(c.entries))
	for id := range c.entries {
		out = append(out, id)
	}
	return out
}
