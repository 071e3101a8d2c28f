package core

// DefaultProjectCount is how many leading dataset projects seed the
// project filter on first load.
const DefaultProjectCount = 5

// SelectionPolicy controls how an incomplete selection is completed.
type SelectionPolicy struct {
	DefaultProjects int
}

// DefaultPolicy returns the first-load policy of the dashboard.
func DefaultPolicy() SelectionPolicy {
	return SelectionPolicy{DefaultProjects: DefaultProjectCount}
}

// Options are the selectable values of the three cascading filters.
type Options struct {
	ThematicAreas []string `json:"thematic_areas"`
	Indicators    []string `json:"indicators"`
	Projects      []string `json:"projects"`
}

// Resolution is the outcome of resolving a selection against a dataset.
type Resolution struct {
	Options   Options
	Selection FilterSelection
	Rows      []ResultRecord
}

// ThematicAreas returns the distinct thematic areas in first-seen order.
func ThematicAreas(ds Dataset) []string {
	return distinct(ds.Records, func(r ResultRecord) (string, bool) {
		return r.ThematicArea, true
	})
}

// Indicators returns the distinct indicators reported under area.
func Indicators(ds Dataset, area string) []string {
	return distinct(ds.Records, func(r ResultRecord) (string, bool) {
		return r.IndicatorDefinition, r.ThematicArea == area
	})
}

// Projects returns the distinct project numbers reported under area and indicator.
func Projects(ds Dataset, area, indicator string) []string {
	return distinct(ds.Records, func(r ResultRecord) (string, bool) {
		return r.ProjectNumber, r.ThematicArea == area && r.IndicatorDefinition == indicator
	})
}

// AllProjects returns every distinct project number in dataset order.
func AllProjects(ds Dataset) []string {
	return distinct(ds.Records, func(r ResultRecord) (string, bool) {
		return r.ProjectNumber, true
	})
}

// Filter returns the records matching area and indicator whose project is in
// projects. An empty projects list matches every project.
func Filter(ds Dataset, area, indicator string, projects []string) []ResultRecord {
	var allowed map[string]struct{}
	if len(projects) > 0 {
		allowed = make(map[string]struct{}, len(projects))
		for _, p := range projects {
			allowed[p] = struct{}{}
		}
	}

	out := make([]ResultRecord, 0)
	for _, r := range ds.Records {
		if r.ThematicArea != area || r.IndicatorDefinition != indicator {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[r.ProjectNumber]; !ok {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// Resolve completes sel against ds and returns the option sets, the resolved
// selection and the filtered rows.
//
// An unknown or empty thematic area or indicator falls back to the first
// option. A nil project list is replaced by the leading dataset projects that
// are valid under the chosen area and indicator. Any project list is reduced
// to its valid members; when nothing remains, the resolved list is empty and
// every project under the area and indicator is shown.
func Resolve(ds Dataset, sel FilterSelection, policy SelectionPolicy) Resolution {
	var res Resolution

	res.Options.ThematicAreas = ThematicAreas(ds)
	area := pick(sel.ThematicArea, res.Options.ThematicAreas)

	res.Options.Indicators = Indicators(ds, area)
	indicator := pick(sel.Indicator, res.Options.Indicators)

	res.Options.Projects = Projects(ds, area, indicator)

	requested := sel.Projects
	if requested == nil {
		requested = firstN(AllProjects(ds), policy.DefaultProjects)
	}
	projects := intersect(requested, res.Options.Projects)

	res.Selection = FilterSelection{
		ThematicArea: area,
		Indicator:    indicator,
		Projects:     projects,
	}
	res.Rows = Filter(ds, area, indicator, projects)
	return res
}

func pick(value string, options []string) string {
	for _, o := range options {
		if o == value {
			return value
		}
	}
	if len(options) > 0 {
		return options[0]
	}
	return ""
}

// intersect keeps the members of values present in valid, in the order of
// values, without duplicates. The result is never nil.
func intersect(values, valid []string) []string {
	ok := make(map[string]struct{}, len(valid))
	for _, v := range valid {
		ok[v] = struct{}{}
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, hit := ok[v]; !hit {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func firstN(values []string, n int) []string {
	if n < 0 {
		n = 0
	}
	if len(values) > n {
		return values[:n]
	}
	return values
}

func distinct(records []ResultRecord, key func(ResultRecord) (string, bool)) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range records {
		k, ok := key(r)
		if !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
