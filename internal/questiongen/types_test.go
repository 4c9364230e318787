package questiongen

import "testing"

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile(" English = 21, Mathematics=18 ,Reading=-3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Profile{"English": 21, "Mathematics": 18, "Reading": -3}
	if len(p) != len(want) {
		t.Fatalf("got %v, want %v", p, want)
	}
	for k, v := range want {
		if p[k] != v {
			t.Errorf("%s: got %d, want %d", k, p[k], v)
		}
	}
}

func TestParseProfile_Empty(t *testing.T) {
	p, err := ParseProfile("  ")
	if err != nil || len(p) != 0 {
		t.Fatalf("expected empty profile, got %v, %v", p, err)
	}
}

func TestParseProfile_Errors(t *testing.T) {
	for _, in := range []string{"English", "English=abc", "=5", "English=1,,Science=2"} {
		if _, err := ParseProfile(in); err == nil {
			t.Errorf("ParseProfile(%q): expected error", in)
		}
	}
}

func TestProfile_StringRoundTrip(t *testing.T) {
	p := Profile{"Science": 19, "English": 20}
	if got := p.String(); got != "English=20,Science=19" {
		t.Fatalf("unexpected string: %q", got)
	}
	back, err := ParseProfile(p.String())
	if err != nil || back["Science"] != 19 || back["English"] != 20 {
		t.Fatalf("round trip failed: %v, %v", back, err)
	}
}

func TestOptions_GetSet(t *testing.T) {
	var o Options
	for i, l := range OptionLetters {
		o.Set(l, string(rune('w'+i)))
	}
	o.Set("E", "ignored")
	if o != (Options{A: "w", B: "x", C: "y", D: "z"}) {
		t.Fatalf("unexpected options: %+v", o)
	}
	if o.Get("C") != "y" || o.Get("E") != "" {
		t.Fatal("Get returned unexpected values")
	}
}
