package tags

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDashify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"foo bar", "foo-bar"},
		{"  padded  ", "padded"},
		{"a  b", "a--b"},
		{"tab\there", "tab-here"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Dashify(tt.in); got != tt.want {
			t.Errorf("Dashify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Go", "go", true},
		{" go ", "GO", true},
		{"go", "golang", false},
		{"", "", true},
	}
	for _, tt := range tests {
		if got := Equal(tt.a, tt.b); got != tt.want {
			t.Errorf("Equal(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestFind(t *testing.T) {
	items := []Tag{{"text": "red"}, {"text": "Green"}}

	if got := Find(items, Tag{"text": "green"}, "text", nil); got != 1 {
		t.Errorf("Find(green) = %d, want 1", got)
	}
	if got := Find(items, Tag{"text": "blue"}, "text", nil); got != -1 {
		t.Errorf("Find(blue) = %d, want -1", got)
	}

	exact := func(a, b string) bool { return a == b }
	if got := Find(items, Tag{"text": "green"}, "text", exact); got != -1 {
		t.Errorf("Find(green, exact) = %d, want -1", got)
	}
}

func TestFromStringsAndBack(t *testing.T) {
	got := FromStrings([]string{"a", "b"}, "name")
	want := []Tag{{"name": "a"}, {"name": "b"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromStrings() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b"}, Strings(got, "name")); diff != "" {
		t.Errorf("Strings() mismatch (-want +got):\n%s", diff)
	}
}

func TestTag_Clone(t *testing.T) {
	orig := Tag{"text": "a"}
	c := orig.Clone()
	c["text"] = "b"
	if orig["text"] != "a" {
		t.Error("Clone() shares storage with the original")
	}
	if Tag(nil).Clone() != nil {
		t.Error("nil.Clone() != nil")
	}
}
