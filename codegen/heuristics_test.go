package codegen

import "testing"

func TestOperatorClass(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		op    string
		class string
		ok    bool
	}{
		{"+.money", "+", "money", true},
		{"==.point", "==", "point", true},
		{"%%.x", "%%", "x", true},
		{"print.money", "", "", false},
		{"+++.money", "", "", false},
		{"=.money", "", "", false},
		{"+.", "", "", false},
		{"a.b.c", "", "", false},
		{"plain", "", "", false},
	}
	for _, c := range cases {
		op, class, ok := operatorClass(c.name)
		if op != c.op || class != c.class || ok != c.ok {
			t.Errorf("operatorClass(%q) = %q, %q, %v; expected %q, %q, %v", c.name, op, class, ok, c.op, c.class, c.ok)
		}
	}
}

func TestJuliaOperator(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"%%": "%",
		"+":  "+",
		"==": "==",
	}
	for op, want := range cases {
		if got := juliaOperator(op); got != want {
			t.Errorf("juliaOperator(%q) = %q, expected %q", op, got, want)
		}
	}
}

func TestIsIdentifier(t *testing.T) {
	t.Parallel()
	cases := map[string]bool{
		"x":      true,
		"_tmp1":  true,
		"my.var": false,
		"1x":     false,
		"a b":    false,
		"":       false,
	}
	for name, want := range cases {
		if got := isIdentifier(name); got != want {
			t.Errorf("isIdentifier(%q) = %v, expected %v", name, got, want)
		}
	}
}

func TestRecordName(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"money":    "Money",
		"MONEY":    "Money",
		"my.class": "My_class",
		"point2d":  "Point2d",
	}
	for class, want := range cases {
		if got := recordName(class); got != want {
			t.Errorf("recordName(%q) = %q, expected %q", class, got, want)
		}
	}
}

func TestQuote(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		`plain`:   `"plain"`,
		`a"b`:     `"a\"b"`,
		`cost $5`: `"cost \$5"`,
		`line\n`:  `"line\n"`,
		`back\\`:  `"back\\"`,
		"":        `""`,
	}
	for s, want := range cases {
		if got := quote(s); got != want {
			t.Errorf("quote(%q) = %s, expected %s", s, got, want)
		}
	}
}
