package domain

// Action represents the kind of mutation applied to a record.
type Action string

// Mutation actions recorded for every store write.
const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Change describes one record mutation. Cascading deletes produce one change
// per removed child so observers can see every touched collection.
type Change struct {
	Collection Collection `json:"collection"`
	Action     Action     `json:"action"`
	ID         string     `json:"id"`
	ParentID   string     `json:"parentId,omitempty"`
}

// ChangeObserver receives the changes produced by a single store mutation.
type ChangeObserver interface {
	OnChange(changes []Change)
}

// ChangeObserverFunc adapts a function to ChangeObserver.
type ChangeObserverFunc func(changes []Change)

// OnChange implements ChangeObserver.
func (f ChangeObserverFunc) OnChange(changes []Change) { f(changes) }

// TouchedCollections returns the distinct collections referenced by changes
// in first-seen order.
func TouchedCollections(changes []Change) []Collection {
	seen := make(map[Collection]struct{}, len(changes))
	out := make([]Collection, 0, len(changes))
	for _, c := range changes {
		if _, ok := seen[c.Collection]; ok {
			continue
		}
		seen[c.Collection] = struct{}{}
		out = append(out, c.Collection)
	}
	return out
}
