package doctree

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestSplitRow(t *testing.T) {
	tests := []struct {
		in   string
		want Row
	}{
		{"a|b|c|", Row{"a", "b", "c"}},
		{"a|", Row{"a"}},
		{"|", Row{""}},
		{"", Row{}},
		{"a|b", Row{"a"}},
		{"web1|10.0.0.1|", Row{"web1", "10.0.0.1"}},
	}
	for _, tt := range tests {
		got := SplitRow(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitRow(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestNewTree_SeedsRoot(t *testing.T) {
	tree := NewTree()
	root := tree.Section(RootSection)
	if root == nil {
		t.Fatal("expected Root section")
	}
	if root.Level != 0 {
		t.Errorf("expected level 0, got %d", root.Level)
	}
	if len(root.Paragraphs) != 0 || len(root.Tables) != 0 {
		t.Errorf("expected empty Root, got %+v", root)
	}
}

func TestOpenSection_Overwrites(t *testing.T) {
	tree := NewTree()
	s := tree.OpenSection("A", 1)
	s.Paragraphs = append(s.Paragraphs, "old")
	s.OpenTable("T")

	tree.OpenSection("A", 2)
	got := tree.Section("A")
	if got.Level != 2 {
		t.Errorf("expected level 2, got %d", got.Level)
	}
	if len(got.Paragraphs) != 0 || len(got.Tables) != 0 {
		t.Errorf("expected fresh section, got %+v", got)
	}
}

func TestAppendRow_RequiresOpenTable(t *testing.T) {
	s := NewSection(1)
	if s.AppendRow("Undefined", Row{"x"}) {
		t.Error("expected append to a missing table to fail")
	}
	if len(s.Tables) != 0 {
		t.Fatalf("expected no tables, got %v", s.Tables)
	}

	s.OpenTable("T")
	if !s.AppendRow("T", Row{"x"}) {
		t.Error("expected append to an open table to succeed")
	}
	if len(s.Tables["T"]) != 1 {
		t.Fatalf("expected 1 row, got %d", len(s.Tables["T"]))
	}
}

func TestMarshalJSON_Shape(t *testing.T) {
	tree := NewTree()
	s := tree.OpenSection("Machines", 1)
	s.Paragraphs = append(s.Paragraphs, "intro")
	s.OpenTable("Empty")
	s.OpenTable("Inventory")
	s.AppendRow("Inventory", Row{"host", "ip"})
	tree.Metadata["owner"] = "infra-team"

	data, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]any{
		"Root": map[string]any{
			"level":      float64(0),
			"paragraphs": []any{},
			"tables":     map[string]any{},
		},
		"Machines": map[string]any{
			"level":      float64(1),
			"paragraphs": []any{"intro"},
			"tables": map[string]any{
				"Empty":     []any{},
				"Inventory": []any{[]any{"host", "ip"}},
			},
		},
		"Metadata": map[string]any{"owner": "infra-team"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestMarshalJSON_MetadataShadowsSection(t *testing.T) {
	tree := NewTree()
	tree.OpenSection(MetadataKey, 1)

	data, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got map[string]map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := got[MetadataKey]["level"]; ok {
		t.Errorf("expected metadata mapping, got section %v", got[MetadataKey])
	}
}
