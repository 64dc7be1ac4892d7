package experiment

import (
	"github.com/apurvsibal/pycaret/core/model"
	"github.com/apurvsibal/pycaret/crossval"
	"github.com/apurvsibal/pycaret/pkg/errors"
)

// ContainerEntry records one trained model: the fitted estimator, the
// splitter its scores were produced with, and its score table.
//
// CVGenerator identity matters: an entry counts as scored under default fold
// settings only when its splitter is the very same object as the session's
// fold generator.
type ContainerEntry struct {
	Model       model.Estimator
	CVGenerator crossval.Splitter
	Scores      *ScoreTable

	// IsSpecial marks internal entries excluded from default listings.
	IsSpecial bool
}

// ModelContainer is the session-scoped, append-only log of every model
// trained in the session. Entries are never mutated in place; transient
// entries created for comparison are removed with Pop. The container is
// owned by a single session and is not safe for concurrent use.
type ModelContainer struct {
	entries []*ContainerEntry
}

// NewModelContainer creates an empty container.
func NewModelContainer() *ModelContainer {
	return &ModelContainer{}
}

// Append adds an entry at the end.
func (c *ModelContainer) Append(entry *ContainerEntry) {
	c.entries = append(c.entries, entry)
}

// Pop removes and returns the last entry.
func (c *ModelContainer) Pop() (*ContainerEntry, error) {
	if len(c.entries) == 0 {
		return nil, errors.NewValueError("ModelContainer.Pop", "container is empty")
	}
	last := c.entries[len(c.entries)-1]
	c.entries[len(c.entries)-1] = nil
	c.entries = c.entries[:len(c.entries)-1]
	return last, nil
}

// Len returns the number of entries.
func (c *ModelContainer) Len() int {
	return len(c.entries)
}

// At returns the entry at index i, in insertion order.
func (c *ModelContainer) At(i int) *ContainerEntry {
	return c.entries[i]
}

// Entries returns the entries in insertion order. Special entries are
// excluded unless includeSpecial is set.
func (c *ModelContainer) Entries(includeSpecial bool) []*ContainerEntry {
	if includeSpecial {
		out := make([]*ContainerEntry, len(c.entries))
		copy(out, c.entries)
		return out
	}
	out := make([]*ContainerEntry, 0, len(c.entries))
	for _, e := range c.entries {
		if !e.IsSpecial {
			out = append(out, e)
		}
	}
	return out
}
