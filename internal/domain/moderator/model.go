package moderator

import "strings"

// Assignment is the read-only record of which sports and venues a
// moderator may administer. This service never mutates assignments.
type Assignment struct {
	UserID string
	Sports []string
	Venues []string
	Role   string
}

// AccessScope is the explicit form of an assignment used for gating. An
// empty assignment resolves to the unrestricted variant; that open-by-
// default behavior is an inherited product decision, kept visible here
// instead of being inferred from set emptiness at every call site.
type AccessScope struct {
	unrestricted bool
	sports       map[string]struct{}
	venues       map[string]struct{}
}

func UnrestrictedScope() AccessScope {
	return AccessScope{unrestricted: true}
}

func RestrictedScope(sports, venues []string) AccessScope {
	return AccessScope{
		sports: toSet(sports),
		venues: toSet(venues),
	}
}

// ScopeFromAssignment resolves an assignment into its scope variant.
func ScopeFromAssignment(a Assignment) AccessScope {
	sports := toSet(a.Sports)
	venues := toSet(a.Venues)
	if len(sports) == 0 && len(venues) == 0 {
		return UnrestrictedScope()
	}
	return AccessScope{sports: sports, venues: venues}
}

func (s AccessScope) Unrestricted() bool {
	return s.unrestricted
}

// AllowsSport reports whether the sport is administrable under this scope.
// A restricted scope with no sport set does not restrict by sport.
func (s AccessScope) AllowsSport(sport string) bool {
	if s.unrestricted || len(s.sports) == 0 {
		return true
	}
	_, ok := s.sports[normalize(sport)]
	return ok
}

// AllowsVenue reports whether the venue is administrable under this scope.
// A restricted scope with no venue set does not restrict by venue.
func (s AccessScope) AllowsVenue(venue string) bool {
	if s.unrestricted || len(s.venues) == 0 {
		return true
	}
	_, ok := s.venues[normalize(venue)]
	return ok
}

func toSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = normalize(v)
		if v == "" {
			continue
		}
		out[v] = struct{}{}
	}
	return out
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
