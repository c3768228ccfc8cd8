package moderator

import "testing"

func TestScopeFromAssignment_EmptyIsUnrestricted(t *testing.T) {
	scope := ScopeFromAssignment(Assignment{UserID: "u1"})
	if !scope.Unrestricted() {
		t.Fatal("empty assignment must resolve to the unrestricted scope")
	}
	if !scope.AllowsSport("Cricket") || !scope.AllowsVenue("North Ground") {
		t.Fatal("unrestricted scope must allow any sport and venue")
	}
}

func TestScopeFromAssignment_SportRestriction(t *testing.T) {
	scope := ScopeFromAssignment(Assignment{
		UserID: "u1",
		Sports: []string{"Cricket"},
	})

	if scope.Unrestricted() {
		t.Fatal("assignment with sports must not be unrestricted")
	}
	if !scope.AllowsSport("cricket") {
		t.Fatal("assigned sport must be allowed regardless of case")
	}
	if scope.AllowsSport("Football") {
		t.Fatal("unassigned sport must be rejected")
	}
	if !scope.AllowsVenue("Anywhere") {
		t.Fatal("empty venue set must not restrict venues")
	}
}

func TestScopeFromAssignment_VenueRestriction(t *testing.T) {
	scope := ScopeFromAssignment(Assignment{
		UserID: "u1",
		Sports: []string{"Cricket"},
		Venues: []string{"North Ground"},
	})

	if !scope.AllowsVenue("north ground") {
		t.Fatal("assigned venue must be allowed")
	}
	if scope.AllowsVenue("South Ground") {
		t.Fatal("unassigned venue must be rejected")
	}
}
