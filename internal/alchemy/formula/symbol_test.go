package formula

import "testing"

func TestSymbolSetOperations(t *testing.T) {
	set := AllSymbols()
	if set.String() != "RrGgBb" {
		t.Fatalf("AllSymbols = %s, want RrGgBb", set)
	}
	set.Remove(Symbol{Color: Green, Size: Small})
	set.Remove(Symbol{Color: Red, Size: Large})
	if set.String() != "rGBb" {
		t.Fatalf("after removals = %s, want rGBb", set)
	}
	if set.Len() != 4 {
		t.Fatalf("Len = %d, want 4", set.Len())
	}
	if set.Has(Symbol{Color: Red, Size: Large}) {
		t.Fatal("expected R removed")
	}
}

func TestParseSymbolSet(t *testing.T) {
	set, err := ParseSymbolSet("bRg")
	if err != nil {
		t.Fatalf("ParseSymbolSet: %v", err)
	}
	if set.String() != "Rgb" {
		t.Fatalf("set = %s, want Rgb", set)
	}
	if _, err := ParseSymbolSet("Rx"); err == nil {
		t.Fatal("expected error for unknown symbol")
	}
	empty, err := ParseSymbolSet("")
	if err != nil || empty.Len() != 0 {
		t.Fatalf("empty set = %v, %v", empty, err)
	}
}

func TestSymbolOppositeAndCharge(t *testing.T) {
	r := Symbol{Color: Red, Size: Large}
	if r.Opposite().String() != "r" {
		t.Fatalf("Opposite(R) = %s, want r", r.Opposite())
	}
	if r.Opposite().Opposite() != r {
		t.Fatal("Opposite must be an involution")
	}
	if r.Charge() != Positive || r.Opposite().Charge() != Negative {
		t.Fatal("large symbols charge positive, small negative")
	}
}

func TestFormulaHas(t *testing.T) {
	f := MustParse("r-g+B-")
	for _, tc := range []struct {
		symbol string
		want   bool
	}{
		{"r", true}, {"R", false}, {"g", true}, {"G", false}, {"B", true}, {"b", false},
	} {
		s, err := ParseSymbol(tc.symbol)
		if err != nil {
			t.Fatalf("ParseSymbol(%q): %v", tc.symbol, err)
		}
		if got := f.Has(s); got != tc.want {
			t.Fatalf("Has(%s) = %v, want %v", s, got, tc.want)
		}
	}
}

func TestCommon(t *testing.T) {
	p := Common([]Formula{MustParse("R+g+b-"), MustParse("R-g-b+")})
	if p.String() != "R_g_b_" {
		t.Fatalf("Common = %s, want R_g_b_", p)
	}
	if p.Complete() {
		t.Fatal("expected incomplete knowledge")
	}
	symbols := p.Symbols()
	if len(symbols) != 3 {
		t.Fatalf("Symbols = %v, want 3 sizes", symbols)
	}

	single := Common([]Formula{MustParse("r-G+b+")})
	f, ok := single.Formula()
	if !ok || f.String() != "r-G+b+" {
		t.Fatalf("Formula() = %s, %v, want r-G+b+", f, ok)
	}

	mixed := Common([]Formula{MustParse("r-g+B-"), MustParse("R-G-B-")})
	if mixed.String() != "_-__B-" {
		t.Fatalf("Common = %s, want _-__B-", mixed)
	}

	if got := Common(nil).String(); got != "______" {
		t.Fatalf("Common(nil) = %s, want ______", got)
	}
}
