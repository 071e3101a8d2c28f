package core

import (
	"reflect"
	"sort"
	"testing"
)

func rec(project, area, indicator string, female, male int64) ResultRecord {
	return ResultRecord{
		ProjectNumber:       project,
		ThematicArea:        area,
		IndicatorDefinition: indicator,
		FemaleResult:        female,
		MaleResult:          male,
		TotalResult:         female + male,
	}
}

func datasetFixture() Dataset {
	return Dataset{Records: []ResultRecord{
		rec("1", "Education", "Learners", 10, 5),
		rec("2", "Education", "Learners", 1, 1),
		rec("3", "Livelihoods", "Jobs", 4, 4),
		rec("4", "Education", "Teachers", 2, 0),
		rec("5", "Livelihoods", "Jobs", 3, 9),
		rec("6", "Education", "Learners", 0, 7),
		rec("7", "Peace", "Dialogues", 6, 6),
		rec("1", "Education", "Learners", 3, 3),
	}}
}

func TestOptionsFirstSeenOrder(t *testing.T) {
	ds := datasetFixture()
	if got, want := ThematicAreas(ds), []string{"Education", "Livelihoods", "Peace"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("areas=%v want %v", got, want)
	}
	if got, want := Indicators(ds, "Education"), []string{"Learners", "Teachers"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("indicators=%v want %v", got, want)
	}
	if got, want := Projects(ds, "Education", "Learners"), []string{"1", "2", "6"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("projects=%v want %v", got, want)
	}
	if got := Indicators(ds, "Unknown"); len(got) != 0 {
		t.Fatalf("unknown area must have no indicators, got %v", got)
	}
}

func TestProjectOptionsMatchFilteredRows(t *testing.T) {
	ds := datasetFixture()
	for _, area := range ThematicAreas(ds) {
		for _, indicator := range Indicators(ds, area) {
			got := Projects(ds, area, indicator)
			want := map[string]bool{}
			for _, r := range ds.Records {
				if r.ThematicArea == area && r.IndicatorDefinition == indicator {
					want[r.ProjectNumber] = true
				}
			}
			if len(got) != len(want) {
				t.Fatalf("%s/%s: got %v want %v", area, indicator, got, want)
			}
			for _, p := range got {
				if !want[p] {
					t.Fatalf("%s/%s: unexpected project %s", area, indicator, p)
				}
			}
		}
	}
}

func TestResolveDefaults(t *testing.T) {
	ds := datasetFixture()
	res := Resolve(ds, FilterSelection{}, DefaultPolicy())

	if res.Selection.ThematicArea != "Education" || res.Selection.Indicator != "Learners" {
		t.Fatalf("unexpected default selection: %+v", res.Selection)
	}
	// First five dataset projects are 1..5; only 1 and 2 report Education/Learners.
	if want := []string{"1", "2"}; !reflect.DeepEqual(res.Selection.Projects, want) {
		t.Fatalf("default projects=%v want %v", res.Selection.Projects, want)
	}
	if len(res.Rows) != 3 {
		t.Fatalf("expected 3 rows for projects 1 and 2, got %d", len(res.Rows))
	}
}

func TestResolveDegenerateDefaultFallsBackToAll(t *testing.T) {
	ds := Dataset{Records: []ResultRecord{
		rec("A", "Area", "Ind", 1, 1),
		rec("B", "Other", "X", 1, 1),
		rec("C", "Area", "Ind", 2, 2),
	}}
	res := Resolve(ds, FilterSelection{}, SelectionPolicy{DefaultProjects: 0})
	if res.Selection.Projects == nil || len(res.Selection.Projects) != 0 {
		t.Fatalf("expected empty non-nil projects, got %#v", res.Selection.Projects)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("empty default must show all projects, got %d rows", len(res.Rows))
	}
}

func TestResolveUpstreamFallbacks(t *testing.T) {
	ds := datasetFixture()
	res := Resolve(ds, FilterSelection{ThematicArea: "Livelihoods", Indicator: "Learners", Projects: []string{}}, DefaultPolicy())
	if res.Selection.Indicator != "Jobs" {
		t.Fatalf("indicator not valid under area must fall back to first option, got %q", res.Selection.Indicator)
	}
	if got, want := res.Options.Projects, []string{"3", "5"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("projects=%v want %v", got, want)
	}

	res = Resolve(ds, FilterSelection{ThematicArea: "Nope"}, DefaultPolicy())
	if res.Selection.ThematicArea != "Education" {
		t.Fatalf("unknown area must fall back to first option, got %q", res.Selection.ThematicArea)
	}
}

func TestResolveStaleProjectsShowAll(t *testing.T) {
	ds := datasetFixture()
	stale := Resolve(ds, FilterSelection{ThematicArea: "Education", Indicator: "Learners", Projects: []string{"999"}}, DefaultPolicy())
	all := Resolve(ds, FilterSelection{ThematicArea: "Education", Indicator: "Learners", Projects: []string{}}, DefaultPolicy())

	if len(stale.Selection.Projects) != 0 {
		t.Fatalf("stale projects must be dropped, got %v", stale.Selection.Projects)
	}
	if len(stale.Rows) == 0 {
		t.Fatalf("stale selection must not show nothing")
	}
	if !reflect.DeepEqual(stale.Rows, all.Rows) {
		t.Fatalf("stale rows %v != all rows %v", stale.Rows, all.Rows)
	}
	if len(all.Rows) != 4 {
		t.Fatalf("expected 4 Education/Learners rows, got %d", len(all.Rows))
	}
}

func TestResolveKeepsValidPartOfSelection(t *testing.T) {
	ds := datasetFixture()
	res := Resolve(ds, FilterSelection{ThematicArea: "Education", Indicator: "Learners", Projects: []string{"6", "3", "6", "1"}}, DefaultPolicy())
	if want := []string{"6", "1"}; !reflect.DeepEqual(res.Selection.Projects, want) {
		t.Fatalf("projects=%v want %v", res.Selection.Projects, want)
	}
	for _, r := range res.Rows {
		if r.ProjectNumber != "6" && r.ProjectNumber != "1" {
			t.Fatalf("unexpected row %+v", r)
		}
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	ds := datasetFixture()
	sels := []FilterSelection{
		{},
		{ThematicArea: "Livelihoods"},
		{ThematicArea: "Education", Indicator: "Learners", Projects: []string{"2"}},
		{ThematicArea: "Education", Indicator: "Learners", Projects: []string{"999"}},
	}
	for _, sel := range sels {
		first := Resolve(ds, sel, DefaultPolicy())
		second := Resolve(ds, sel, DefaultPolicy())
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("resolve not idempotent for %+v", sel)
		}
		again := Resolve(ds, first.Selection, DefaultPolicy())
		if !reflect.DeepEqual(first.Rows, again.Rows) || !reflect.DeepEqual(first.Selection, again.Selection) {
			t.Fatalf("re-resolving a resolved selection changed it: %+v -> %+v", first.Selection, again.Selection)
		}
	}
}

func TestResolveEmptyDataset(t *testing.T) {
	res := Resolve(Dataset{}, FilterSelection{ThematicArea: "x"}, DefaultPolicy())
	if len(res.Options.ThematicAreas) != 0 || len(res.Rows) != 0 {
		t.Fatalf("expected empty resolution, got %+v", res)
	}
	if res.Selection.ThematicArea != "" || res.Selection.Indicator != "" {
		t.Fatalf("expected blank selection, got %+v", res.Selection)
	}
}

func TestFilterDoesNotAliasDataset(t *testing.T) {
	ds := datasetFixture()
	rows := Filter(ds, "Education", "Learners", nil)
	rows[0].FemaleResult = 1000
	if ds.Records[0].FemaleResult == 1000 {
		t.Fatalf("filter must not expose dataset rows for mutation")
	}
}

func TestSelectionKeyDistinguishesNilProjects(t *testing.T) {
	a := FilterSelection{ThematicArea: "a", Indicator: "b"}
	b := FilterSelection{ThematicArea: "a", Indicator: "b", Projects: []string{}}
	if a.Key() == b.Key() {
		t.Fatalf("nil and empty project lists must have different keys")
	}
	c := FilterSelection{ThematicArea: "a", Indicator: "b", Projects: []string{"2", "1"}}
	d := FilterSelection{ThematicArea: "a", Indicator: "b", Projects: []string{"1", "2"}}
	keys := []string{c.Key(), d.Key()}
	sort.Strings(keys)
	if keys[0] == keys[1] {
		t.Fatalf("project order is part of the key")
	}
}
