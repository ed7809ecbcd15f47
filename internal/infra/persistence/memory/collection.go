package memory

import "trackcore/pkg/domain"

// recordPtr constrains P to be a pointer to T implementing domain.Record.
type recordPtr[T any] interface {
	*T
	domain.Record
}

type parented interface {
	ParentID() string
}

// collection is an insertion-ordered list of records. Lookups are linear
// scans; duplicate ids are tolerated and the later record shadows the earlier.
type collection[T any, P recordPtr[T]] struct {
	name  domain.Collection
	items []T
}

func newCollection[T any, P recordPtr[T]](name domain.Collection) collection[T, P] {
	return collection[T, P]{name: name, items: []T{}}
}

func (c *collection[T, P]) idAt(i int) string {
	return P(&c.items[i]).RecordID()
}

// index returns the position of the last record carrying id, or -1.
func (c *collection[T, P]) index(id string) int {
	for i := len(c.items) - 1; i >= 0; i-- {
		if c.idAt(i) == id {
			return i
		}
	}
	return -1
}

func (c *collection[T, P]) find(id string) (T, bool) {
	if i := c.index(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

func (c *collection[T, P]) add(v T) change {
	c.items = append(c.items, v)
	return c.change(domain.ActionCreate, v)
}

func (c *collection[T, P]) update(id string, mutator func(*T)) (T, []change, bool) {
	i := c.index(id)
	if i < 0 {
		var zero T
		return zero, nil, false
	}
	merged := c.items[i]
	if mutator != nil {
		mutator(&merged)
	}
	P(&merged).SetRecordID(id)
	c.items[i] = merged
	return merged, []change{c.change(domain.ActionUpdate, merged)}, true
}

// removeWhere filters out every record matching pred.
func (c *collection[T, P]) removeWhere(pred func(T) bool) []change {
	var changes []change
	kept := c.items[:0:0]
	for _, item := range c.items {
		if pred(item) {
			changes = append(changes, c.change(domain.ActionDelete, item))
			continue
		}
		kept = append(kept, item)
	}
	if len(changes) == 0 {
		return nil
	}
	c.items = kept
	return changes
}

func (c *collection[T, P]) remove(id string) []change {
	return c.removeWhere(func(v T) bool { return P(&v).RecordID() == id })
}

func (c *collection[T, P]) removeChildrenOf(parentID string) []change {
	return c.removeWhere(func(v T) bool {
		p, ok := any(v).(parented)
		return ok && p.ParentID() == parentID
	})
}

func (c *collection[T, P]) filter(pred func(T) bool) []T {
	out := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

func (c *collection[T, P]) list() []T {
	return append(make([]T, 0, len(c.items)), c.items...)
}

func (c *collection[T, P]) replace(items []T) {
	c.items = append(make([]T, 0, len(items)), items...)
}

func (c *collection[T, P]) duplicates() []string {
	seen := make(map[string]int, len(c.items))
	var dups []string
	for i := range c.items {
		id := c.idAt(i)
		seen[id]++
		if seen[id] == 2 {
			dups = append(dups, id)
		}
	}
	return dups
}

func (c *collection[T, P]) change(action domain.Action, v T) change {
	ch := change{Collection: c.name, Action: action, ID: P(&v).RecordID()}
	if p, ok := any(v).(parented); ok {
		ch.ParentID = p.ParentID()
	}
	return ch
}

type change = domain.Change
