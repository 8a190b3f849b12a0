package report

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Section names one step of the report. Sections always run in the order of
// AllSections.
type Section string

const (
	Overview      Section = "overview"
	Quality       Section = "quality"
	Coerce        Section = "coerce"
	Describe      Section = "describe"
	Distributions Section = "distributions"
	Categories    Section = "categories"
	Target        Section = "target"
	Correlation   Section = "correlation"
	Trends        Section = "trends"
)

// AllSections lists every section in report order.
var AllSections = []Section{
	Overview, Quality, Coerce, Describe, Distributions, Categories, Target, Correlation, Trends,
}

var sectionTitles = map[Section]string{
	Overview:      "Overview",
	Quality:       "Missing values and duplicates",
	Coerce:        "Type coercion",
	Describe:      "Descriptive statistics",
	Distributions: "Numeric distributions",
	Categories:    "Categorical distributions",
	Target:        "Relationship with target",
	Correlation:   "Correlation matrix",
	Trends:        "Yearly trends",
}

// Title returns the heading printed above the section.
func (s Section) Title() string {
	if t, ok := sectionTitles[s]; ok {
		return t
	}
	return string(s)
}

// ParseSections parses a comma-separated section list. An empty list or "all"
// selects every section. The result is in report order without duplicates.
func ParseSections(list string) ([]Section, error) {
	list = strings.TrimSpace(list)
	if list == "" || strings.EqualFold(list, "all") {
		return append([]Section(nil), AllSections...), nil
	}
	want := map[Section]bool{}
	for _, part := range strings.Split(list, ",") {
		name := Section(strings.ToLower(strings.TrimSpace(part)))
		if name == "" {
			continue
		}
		if _, ok := sectionTitles[name]; !ok {
			return nil, eris.Errorf("unknown section %q (valid: %s)", name, validSections())
		}
		want[name] = true
	}
	var out []Section
	for _, s := range AllSections {
		if want[s] {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, eris.New("no sections selected")
	}
	return out, nil
}

func validSections() string {
	names := make([]string, len(AllSections))
	for i, s := range AllSections {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
