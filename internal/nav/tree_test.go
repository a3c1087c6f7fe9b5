package nav

import (
	"reflect"
	"testing"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	raw := []any{
		"index.md",
		map[string]any{"About": "about.md"},
		map[string]any{"Guides": []any{
			"guides/install.md",
			map[string]any{"Advanced": []any{"guides/tuning.md"}},
		}},
	}

	nodes, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(nodes))
	}
	if !nodes[0].IsLeaf() || nodes[0].Path != "index.md" {
		t.Fatalf("unexpected first node: %+v", nodes[0])
	}
	if nodes[1].Title != "About" || nodes[1].Path != "about.md" {
		t.Fatalf("unexpected titled leaf: %+v", nodes[1])
	}
	if nodes[2].Name != "Guides" || len(nodes[2].Children) != 2 {
		t.Fatalf("unexpected group: %+v", nodes[2])
	}

	if got := Encode(nodes); !reflect.DeepEqual(got, raw) {
		t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", got, raw)
	}
}

func TestDecodeRejectsInvalidEntries(t *testing.T) {
	cases := []struct {
		name string
		raw  []any
	}{
		{"unsupported scalar", []any{42}},
		{"multi key mapping", []any{map[string]any{"A": "a.md", "B": "b.md"}}},
		{"mapping to scalar", []any{map[string]any{"A": 42}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(tc.raw); err == nil {
				t.Fatalf("expected error for %#v", tc.raw)
			}
		})
	}
}

func TestBuildGroupsBySegmentBelowRoot(t *testing.T) {
	tree := Build([]string{
		"features/a.feature",
		"features/group/b.feature",
		"features/group/deeper/c.feature",
		"features/other/d.feature",
	})

	want := []*Node{
		Leaf("features/a.feature"),
		Group("group",
			Leaf("features/group/b.feature"),
			Group("deeper", Leaf("features/group/deeper/c.feature")),
		),
		Group("other", Leaf("features/other/d.feature")),
	}
	if !reflect.DeepEqual(tree, want) {
		t.Fatalf("tree mismatch:\n got %s\nwant %s", dump(tree), dump(want))
	}
}

func TestMergeAppendsWithoutDuplicates(t *testing.T) {
	dst := Group("Features", Leaf("features/a.md"))
	src := []*Node{
		Leaf("features/a.md"),
		Leaf("features/b.feature"),
		Group("group", Leaf("features/group/c.feature")),
	}

	Merge(dst, src)

	want := Group("Features",
		Leaf("features/a.md"),
		Leaf("features/b.feature"),
		Group("Group", Leaf("features/group/c.feature")),
	)
	if !reflect.DeepEqual(dst, want) {
		t.Fatalf("merge mismatch:\n got %s\nwant %s", dump(dst.Children), dump(want.Children))
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	dst := Group("Features",
		Leaf("features/kept.md"),
		Group("Existing", Leaf("features/existing/x.feature")),
	)
	src := []*Node{
		Leaf("features/a.feature"),
		Group("existing", Leaf("features/existing/y.feature")),
		Group("new_group", Leaf("features/new_group/z.feature")),
	}

	Merge(dst, src)
	once := dump(dst.Children)
	Merge(dst, src)
	twice := dump(dst.Children)

	if once != twice {
		t.Fatalf("second merge changed the tree:\nfirst  %s\nsecond %s", once, twice)
	}
}

func TestMergeResolvesGroupsByDisplayName(t *testing.T) {
	dst := Group("Features", Group("My group", Leaf("features/my_group/a.feature")))
	src := []*Node{Group("my_group", Leaf("features/my_group/b.feature"))}

	Merge(dst, src)

	if len(dst.Children) != 1 {
		t.Fatalf("expected group reuse, got %d children", len(dst.Children))
	}
	group := dst.Children[0]
	if len(group.Children) != 2 {
		t.Fatalf("expected 2 leaves under %q, got %d", group.Name, len(group.Children))
	}
}

func TestRewriteSuffixPreservesDirectoryAndStem(t *testing.T) {
	root := Group("/",
		Leaf("features/a.feature"),
		Leaf("features/readme.md"),
		Group("Group",
			Leaf("features/group/b.feature"),
			Leaf("features/group/unrelated.txt"),
		),
	)

	RewriteSuffix(root, ".feature", ".md")

	want := Group("/",
		Leaf("features/a.md"),
		Leaf("features/readme.md"),
		Group("Group",
			Leaf("features/group/b.md"),
			Leaf("features/group/unrelated.txt"),
		),
	)
	if !reflect.DeepEqual(root, want) {
		t.Fatalf("rewrite mismatch:\n got %s\nwant %s", dump(root.Children), dump(want.Children))
	}
}

func TestLeavesWithSuffixWalksInOrder(t *testing.T) {
	root := Group("/",
		Leaf("a.feature"),
		Group("G", Leaf("g/b.feature"), Leaf("g/c.md")),
		Leaf("d.feature"),
	)

	got := LeavesWithSuffix(root, ".feature")
	want := []string{"a.feature", "g/b.feature", "d.feature"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("leaves mismatch: got %v want %v", got, want)
	}
}

func TestEnsureGroupAppendsAtEnd(t *testing.T) {
	root := Group("/", Leaf("index.md"))

	created := EnsureGroup(root, "Features")
	if created == nil || created.Name != "Features" {
		t.Fatalf("unexpected group: %+v", created)
	}
	if root.Children[len(root.Children)-1] != created {
		t.Fatalf("expected new group appended at the end")
	}

	if again := EnsureGroup(root, "Features"); again != created {
		t.Fatalf("expected existing group to be reused")
	}
}

func TestDisplayName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"group", "Group"},
		{"my_group", "My group"},
		{"ALREADY", "Already"},
		{"mixed_CASE_name", "Mixed case name"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := DisplayName(tc.in); got != tc.want {
			t.Fatalf("DisplayName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// dump renders a tree compactly for failure messages.
func dump(nodes []*Node) string {
	out := "["
	for i, node := range nodes {
		if i > 0 {
			out += " "
		}
		if node.IsLeaf() {
			out += node.Path
			continue
		}
		out += node.Name + dump(node.Children)
	}
	return out + "]"
}
