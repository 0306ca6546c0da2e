package dice

import "testing"

func TestNewDescriptionRejectsEmptyText(t *testing.T) {
	if _, err := NewDescription("", DescriptionInline); err == nil {
		t.Fatal("expected MissingArgument for empty description text")
	}
}

func TestNewDescriptionRoundTripsFields(t *testing.T) {
	d, err := NewDescription("fireball damage", DescriptionMultiline)
	if err != nil {
		t.Fatalf("NewDescription: %v", err)
	}
	if d.Text != "fireball damage" || d.Type != DescriptionMultiline {
		t.Errorf("got %+v, want Text=%q Type=%q", d, "fireball damage", DescriptionMultiline)
	}
}

func TestDieTypeString(t *testing.T) {
	cases := map[DieType]string{
		TypeStandard:   "standard",
		TypePercentile: "percentile",
		TypeFudge:      "fudge",
		TypeRollGroup:  "roll-group",
		DieType("bogus"): "unknown",
	}
	for in, want := range cases {
		if got := in.String(); got != want {
			t.Errorf("DieType(%q).String() = %q, want %q", in, got, want)
		}
	}
}
