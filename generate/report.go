package generate

import (
	"sort"
)

// Entry is one expanded item.
type Entry struct {
	Feature  string `json:"feature" yaml:"feature"`
	Tag      string `json:"tag" yaml:"tag"`
	Issue    string `json:"issue,omitempty" yaml:"issue,omitempty"`
	Kind     string `json:"kind" yaml:"kind"`
	Name     string `json:"name" yaml:"name"`
	Receiver string `json:"receiver,omitempty" yaml:"receiver,omitempty"`
	Hidden   string `json:"hidden" yaml:"hidden"`
	Pos      string `json:"pos" yaml:"pos"`
	File     string `json:"-" yaml:"-"`

	line int
}

// Feature groups the items gated by one feature.
type Feature struct {
	Name   string   `json:"name" yaml:"name"`
	Tag    string   `json:"tag" yaml:"tag"`
	Issues []string `json:"issues,omitempty" yaml:"issues,omitempty"`
	Items  []Entry  `json:"items" yaml:"items"`
}

// Features groups entries by feature name. Features are sorted by name,
// items by position.
func Features(entries []Entry) []Feature {
	byName := map[string]*Feature{}
	var names []string
	for _, e := range entries {
		f, ok := byName[e.Feature]
		if !ok {
			f = &Feature{Name: e.Feature, Tag: e.Tag}
			byName[e.Feature] = f
			names = append(names, e.Feature)
		}
		if e.Issue != "" && !contains(f.Issues, e.Issue) {
			f.Issues = append(f.Issues, e.Issue)
		}
		f.Items = append(f.Items, e)
	}
	sort.Strings(names)

	features := make([]Feature, 0, len(names))
	for _, name := range names {
		f := byName[name]
		sort.Strings(f.Issues)
		sort.SliceStable(f.Items, func(i, j int) bool {
			a, b := f.Items[i], f.Items[j]
			if a.File != b.File {
				return a.File < b.File
			}
			return a.line < b.line
		})
		features = append(features, *f)
	}
	return features
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
