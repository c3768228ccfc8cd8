package usecase

import (
	"fmt"

	"github.com/arenaops/matchdesk/internal/domain/moderator"
	"github.com/arenaops/matchdesk/internal/domain/user"
)

// AuthorizeFixtureAccess decides whether the actor may mutate a fixture in
// the given sport at the given venue. Admins bypass scoping entirely; an
// unrestricted scope (including the empty-assignment case) allows
// everything. Pure, no side effects.
func AuthorizeFixtureAccess(actor user.Principal, scope moderator.AccessScope, sport, venue string) error {
	if actor.IsAdmin() {
		return nil
	}
	if !actor.CanModerate() {
		return fmt.Errorf("%w: role %q cannot update fixtures", ErrPermissionDenied, actor.Role)
	}
	if scope.Unrestricted() {
		return nil
	}
	if !scope.AllowsSport(sport) {
		return fmt.Errorf("%w: %s", ErrSportNotAssigned, sport)
	}
	if !scope.AllowsVenue(venue) {
		return fmt.Errorf("%w: %s", ErrVenueNotAssigned, venue)
	}
	return nil
}
