package checklist

import (
	"reflect"
	"testing"
)

func scenarioSnapshot() Snapshot {
	return Snapshot{
		Categories: []Category{
			{Name: "A", Tasks: []Task{{ID: NumericID(1), Name: "Rotate firewall logs", Priority: PriorityHigh}}},
			{Name: "B", Tasks: []Task{{ID: NumericID(2), Name: "Verify backups", Priority: PriorityLow, Completed: true}}},
		},
	}
}

func richSnapshot() Snapshot {
	return Snapshot{
		Categories: []Category{
			{
				Name: "Network Security",
				Tasks: []Task{
					{ID: NumericID(1), Name: "Review firewall rules", Description: "Check inbound ACLs", Priority: PriorityHigh, AutomationMethod: "n8n cron"},
					{ID: NumericID(2), Name: "Scan open ports", Description: "nmap sweep", Priority: PriorityMedium, Completed: true},
					{ID: NumericID(3), Name: "Rotate VPN keys", Priority: PriorityLow, Notes: "waiting on vendor"},
				},
			},
			{Name: "Empty"},
			{
				Name: "Access Management",
				Tasks: []Task{
					{ID: NumericID(4), Name: "Disable stale accounts", Description: "AD accounts idle 90 days", Priority: PriorityHigh},
					{ID: NumericID(5), Name: "Review admin group", Priority: PriorityMedium, Completed: true, Notes: "Foo approved by BAR"},
				},
			},
		},
	}
}

func ids(r Result) [][]string {
	var out [][]string
	for _, g := range r.Groups {
		var row []string
		row = append(row, g.Category.Name)
		for _, t := range g.Tasks {
			row = append(row, t.ID.String())
		}
		out = append(out, row)
	}
	return out
}

func TestFilterScenario(t *testing.T) {
	snap := scenarioSnapshot()
	tests := []struct {
		name     string
		criteria Criteria
		want     [][]string
		visible  bool
	}{
		{
			name:     "high priority",
			criteria: Criteria{Category: All, Priority: "high", Status: StatusAll},
			want:     [][]string{{"A", "1"}},
			visible:  true,
		},
		{
			name:     "completed",
			criteria: Criteria{Category: All, Priority: All, Status: StatusCompleted},
			want:     [][]string{{"B", "2"}},
			visible:  true,
		},
		{
			name:     "low and pending",
			criteria: Criteria{Category: All, Priority: "low", Status: StatusPending},
			want:     nil,
			visible:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(tt.criteria, snap)
			if !reflect.DeepEqual(ids(got), tt.want) {
				t.Fatalf("groups = %v, want %v", ids(got), tt.want)
			}
			if got.AnyVisible != tt.visible {
				t.Fatalf("AnyVisible = %v, want %v", got.AnyVisible, tt.visible)
			}
		})
	}
}

func TestFilterAllKeepsOrderAndDropsEmptyCategories(t *testing.T) {
	got := Filter(DefaultCriteria(), richSnapshot())
	want := [][]string{
		{"Network Security", "1", "2", "3"},
		{"Access Management", "4", "5"},
	}
	if !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("groups = %v, want %v", ids(got), want)
	}
	if got.Count() != 5 {
		t.Fatalf("Count() = %d, want 5", got.Count())
	}
}

func TestFilterCategorySkipsOtherCategories(t *testing.T) {
	c := DefaultCriteria()
	c.Category = "Access Management"
	got := Filter(c, richSnapshot())
	want := [][]string{{"Access Management", "4", "5"}}
	if !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("groups = %v, want %v", ids(got), want)
	}

	c.Category = "Unknown"
	if got := Filter(c, richSnapshot()); got.AnyVisible || len(got.Groups) != 0 {
		t.Fatalf("unknown category produced output: %v", ids(got))
	}
}

func TestFilterSearch(t *testing.T) {
	tests := []struct {
		search string
		want   [][]string
	}{
		{"  Foo   bar ", [][]string{{"Access Management", "5"}}},
		{"REVIEW", [][]string{{"Network Security", "1"}, {"Access Management", "5"}}},
		{"vendor", [][]string{{"Network Security", "3"}}},
		{"n8n", [][]string{{"Network Security", "1"}}},
		{"firewall acls", [][]string{{"Network Security", "1"}}},
		{"firewall nmap", nil},
		{"   ", [][]string{{"Network Security", "1", "2", "3"}, {"Access Management", "4", "5"}}},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			c := DefaultCriteria()
			c.SearchText = tt.search
			got := Filter(c, richSnapshot())
			if !reflect.DeepEqual(ids(got), tt.want) {
				t.Fatalf("groups = %v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestFilterEmptySnapshot(t *testing.T) {
	got := Filter(DefaultCriteria(), Snapshot{})
	if got.AnyVisible || len(got.Groups) != 0 {
		t.Fatalf("expected empty result, got %v", ids(got))
	}
}

func TestFilterIsIdempotent(t *testing.T) {
	snap := richSnapshot()
	c := Criteria{Category: All, Priority: "medium", Status: StatusCompleted, SearchText: "review"}
	first := Filter(c, snap)
	second := Filter(c, snap)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ:\n%v\n%v", first, second)
	}
}

func TestFilterPartitionsTasks(t *testing.T) {
	snap := richSnapshot()
	criteria := []Criteria{
		{Category: All, Priority: "high", Status: StatusPending},
		{Category: "Network Security", Priority: All, Status: StatusAll, SearchText: "r"},
		{Category: All, Priority: "medium", Status: StatusCompleted, SearchText: "review"},
	}
	for _, c := range criteria {
		got := Filter(c, snap)
		shown := map[TaskID]bool{}
		for _, g := range got.Groups {
			for _, task := range g.Tasks {
				shown[task.ID] = true
				if !Matches(c, task) {
					t.Fatalf("%+v: task %s shown but does not match", c, task.ID)
				}
			}
		}
		for _, cat := range snap.Categories {
			inCategory := isAll(c.Category) || c.Category == cat.Name
			for _, task := range cat.Tasks {
				if shown[task.ID] {
					continue
				}
				if inCategory && Matches(c, task) {
					t.Fatalf("%+v: task %s hidden but matches", c, task.ID)
				}
			}
		}
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"  Foo   bar ", []string{"foo", "bar"}},
		{"", nil},
		{"\t\n", nil},
		{"ONE", []string{"one"}},
	}
	for _, tt := range tests {
		got := Tokenize(tt.in)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCriteriaCycles(t *testing.T) {
	p := All
	var seen []string
	for i := 0; i < 4; i++ {
		p = NextPriority(p)
		seen = append(seen, p)
	}
	if !reflect.DeepEqual(seen, []string{"high", "medium", "low", All}) {
		t.Fatalf("priority cycle = %v", seen)
	}

	if got := NextStatus(StatusAll); got != StatusPending {
		t.Fatalf("NextStatus(all) = %s", got)
	}
	if got := NextStatus(StatusCompleted); got != StatusAll {
		t.Fatalf("NextStatus(completed) = %s", got)
	}

	c := Criteria{Category: "A", Priority: "high", Status: StatusPending, SearchText: "x"}
	cleared := c.Clear()
	if cleared.Category != "A" || cleared.Priority != All || cleared.Status != StatusAll || cleared.SearchText != "" {
		t.Fatalf("Clear() = %+v", cleared)
	}
	if cleared.IsDefault() {
		t.Fatal("criteria with a category selected should not be default")
	}
}

func TestNextCategory(t *testing.T) {
	snap := scenarioSnapshot()
	if got := NextCategory(snap, All, 1); got != "A" {
		t.Fatalf("next after all = %q", got)
	}
	if got := NextCategory(snap, "B", 1); got != All {
		t.Fatalf("next after B = %q", got)
	}
	if got := NextCategory(snap, All, -1); got != "B" {
		t.Fatalf("previous before all = %q", got)
	}
	if got := NextCategory(snap, "gone", 1); got != All {
		t.Fatalf("unknown category = %q", got)
	}
	opts := CategoryOptions(Snapshot{Categories: []Category{{Name: "Net", CompletedTasks: 2, TotalTasks: 5}}})
	if opts[1].Label != "Net (2/5)" {
		t.Fatalf("label = %q", opts[1].Label)
	}
}
