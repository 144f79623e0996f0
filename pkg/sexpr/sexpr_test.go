package sexpr

import "testing"

func TestParseNested(t *testing.T) {
	nodes, err := ParseString(`(footprint "R_0603" (layer "F.Cu") (at 10 20 90) (attr smd))`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("got %d top-level nodes, want 1", len(nodes))
	}

	fp := nodes[0]
	if fp.Key() != "footprint" {
		t.Errorf("key = %q, want footprint", fp.Key())
	}
	name, err := fp.Arg(1)
	if err != nil || name != "R_0603" {
		t.Errorf("name = %q (%v)", name, err)
	}

	at, ok := fp.Find("at")
	if !ok {
		t.Fatal("missing (at ...)")
	}
	x, _ := at.Float(1)
	y, _ := at.Float(2)
	angle := at.FloatOr(3, 0)
	if x != 10 || y != 20 || angle != 90 {
		t.Errorf("at = %v %v %v", x, y, angle)
	}

	if _, ok := fp.Find("missing"); ok {
		t.Error("Find returned a node for a missing key")
	}
}

func TestParseStringsAndComments(t *testing.T) {
	input := `
# top comment
(pad "1" smd rect ; trailing comment
  (size 0.9 0.95)
  (layers "F.Cu" "F.Paste" "F.Mask"))
`
	nodes, err := ParseString(input)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	pad := nodes[0]

	layers, ok := pad.Find("layers")
	if !ok {
		t.Fatal("missing layers")
	}
	got := layers.Args()
	if len(got) != 3 || got[0] != "F.Cu" {
		t.Errorf("layers = %v", got)
	}

	if s, _ := pad.Arg(1); s != "1" {
		t.Errorf("pad number = %q", s)
	}
	if !pad.Children[1].Quoted {
		t.Error("pad number lost its quoting")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unbalanced open", "(pad (size 1 2)"},
		{"stray close", ")"},
		{"unterminated string", `(name "abc`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseString(tt.input); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestEscapes(t *testing.T) {
	nodes, err := ParseString(`(descr "a \"quoted\" name\nsecond line")`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	s, err := nodes[0].Arg(1)
	if err != nil {
		t.Fatal(err)
	}
	want := "a \"quoted\" name\nsecond line"
	if s != want {
		t.Errorf("got %q, want %q", s, want)
	}
}
