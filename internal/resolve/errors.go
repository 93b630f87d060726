package resolve

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// UnknownTeamError is a team token that matched nothing, even after a
// metadata refresh.
type UnknownTeamError struct {
	Token      string
	Available  []string
	Suggestion string
}

func (e *UnknownTeamError) Error() string {
	msg := fmt.Sprintf("unknown team %q", e.Token)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	if len(e.Available) > 0 {
		msg += fmt.Sprintf(": available teams: %s", strings.Join(e.Available, ", "))
	}
	return msg
}

// UnknownStateError is a workflow state token that matched nothing in
// its team, even after a metadata refresh.
type UnknownStateError struct {
	Token      string
	Team       string
	Available  []string
	Suggestion string
}

func (e *UnknownStateError) Error() string {
	msg := fmt.Sprintf("unknown state %q for team %s", e.Token, e.Team)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	if len(e.Available) > 0 {
		msg += fmt.Sprintf(": available states: %s", strings.Join(e.Available, ", "))
	}
	return msg
}

// UnknownEstimateError is an estimate token that is neither numeric nor
// a scale name of its team.
type UnknownEstimateError struct {
	Token     string
	Team      string
	Available []string
}

func (e *UnknownEstimateError) Error() string {
	msg := fmt.Sprintf("unknown estimate %q for team %s", e.Token, e.Team)
	if len(e.Available) > 0 {
		msg += fmt.Sprintf(": available scale names: %s", strings.Join(e.Available, ", "))
	}
	return msg
}

// InvalidPriorityError is a priority token outside 0-4 that is not a
// recognized priority name.
type InvalidPriorityError struct {
	Token string
}

func (e *InvalidPriorityError) Error() string {
	return fmt.Sprintf("invalid priority %q: use 0-4 or none, urgent, high, normal, low", e.Token)
}

// suggest returns the closest candidate to token, or "" when nothing
// is close enough to be worth proposing.
func suggest(token string, candidates []string) string {
	matches := fuzzy.Find(strings.ToLower(token), lowered(candidates))
	if len(matches) == 0 {
		return ""
	}
	return candidates[matches[0].Index]
}

func lowered(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
