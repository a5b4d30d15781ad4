// Package classifier defines the labels used to select diagnostic sources.
// A requested Set either names specific labels or holds the All sentinel,
// which matches every label.
package classifier

import (
	"sort"
	"strings"
)

// AllLabel is the textual form of the All sentinel on the command line.
const AllLabel = "all"

// Classifier is either the All sentinel or a named, case-sensitive label.
type Classifier struct {
	label string
	all   bool
}

// All matches every classifier.
var All = Classifier{all: true}

// Named returns a classifier for a concrete label. Named("all") is a real
// label, not the sentinel; use Parse for user input.
func Named(label string) Classifier {
	return Classifier{label: label}
}

// Parse maps "all" to the All sentinel and anything else to a named label.
func Parse(s string) Classifier {
	if s == AllLabel {
		return All
	}
	return Named(s)
}

// IsAll reports whether c is the All sentinel.
func (c Classifier) IsAll() bool { return c.all }

// Label returns the named label, or "" for the sentinel.
func (c Classifier) Label() string { return c.label }

func (c Classifier) String() string {
	if c.all {
		return AllLabel
	}
	return c.label
}

// Set is a requested set of classifiers.
type Set struct {
	all    bool
	labels map[string]struct{}
}

// NewSet builds a set from classifiers.
func NewSet(cs ...Classifier) Set {
	s := Set{labels: make(map[string]struct{}, len(cs))}
	for _, c := range cs {
		if c.all {
			s.all = true
			continue
		}
		s.labels[c.label] = struct{}{}
	}
	return s
}

// ParseSet builds a set from user-supplied labels. Empty strings are ignored.
func ParseSet(labels ...string) Set {
	cs := make([]Classifier, 0, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		cs = append(cs, Parse(l))
	}
	return NewSet(cs...)
}

// IsAll reports whether the set holds the All sentinel.
func (s Set) IsAll() bool { return s.all }

// Contains reports whether label was requested by name.
func (s Set) Contains(label string) bool {
	_, ok := s.labels[label]
	return ok
}

// Matches reports whether a source registered under label is selected.
// The sentinel takes precedence over any named labels in the set.
func (s Set) Matches(label string) bool {
	return s.all || s.Contains(label)
}

// Empty reports whether nothing was requested.
func (s Set) Empty() bool { return !s.all && len(s.labels) == 0 }

// Labels returns the named labels in alphabetical order.
func (s Set) Labels() []string {
	out := make([]string, 0, len(s.labels))
	for l := range s.labels {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

func (s Set) String() string {
	parts := s.Labels()
	if s.all {
		parts = append([]string{AllLabel}, parts...)
	}
	return strings.Join(parts, ",")
}
