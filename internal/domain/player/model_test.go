package player

import "testing"

func TestPlayer_TeamLabel(t *testing.T) {
	zero := int64(0)
	team := int64(412)

	cases := []struct {
		name   string
		teamID *int64
		want   string
	}{
		{name: "nil team", teamID: nil, want: "Unassigned"},
		{name: "zero team", teamID: &zero, want: "Unassigned"},
		{name: "assigned", teamID: &team, want: "412"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Player{ID: 1, Name: "Fido", TeamID: tc.teamID}.TeamLabel()
			if got != tc.want {
				t.Fatalf("TeamLabel() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPlayer_Validate(t *testing.T) {
	if err := (Player{ID: 1, Name: "Fido"}).Validate(); err != nil {
		t.Fatalf("expected valid player: %v", err)
	}
	if err := (Player{ID: 0, Name: "Fido"}).Validate(); err == nil {
		t.Fatalf("expected error for zero id")
	}
	if err := (Player{ID: 3, Name: "  "}).Validate(); err == nil {
		t.Fatalf("expected error for blank name")
	}
}
