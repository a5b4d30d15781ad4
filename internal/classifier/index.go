package classifier

import "sort"

// Index is the deduplicated set of known classifier labels.
// The zero value is ready to use.
type Index struct {
	labels map[string]struct{}
}

// Add records labels. Adding a label twice has no effect.
func (i *Index) Add(labels ...string) {
	if i.labels == nil {
		i.labels = make(map[string]struct{}, len(labels))
	}
	for _, l := range labels {
		i.labels[l] = struct{}{}
	}
}

// Has reports whether label is known.
func (i *Index) Has(label string) bool {
	_, ok := i.labels[label]
	return ok
}

// Len returns the number of known labels.
func (i *Index) Len() int { return len(i.labels) }

// Sorted returns the known labels in alphabetical order.
func (i *Index) Sorted() []string {
	out := make([]string, 0, len(i.labels))
	for l := range i.labels {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
