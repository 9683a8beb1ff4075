package stats

import "sort"

// SumByEntry collapses per-set rows into one line per roster entry. The team
// id of the entry's last seen row wins (entries never switch teams mid-match
// in practice).
func SumByEntry(lines []SetLine) map[string]MatchLine {
	out := make(map[string]MatchLine, len(lines))
	for _, l := range lines {
		current := out[l.RosterEntryID]
		current.MatchID = l.MatchID
		current.RosterEntryID = l.RosterEntryID
		current.TeamID = l.TeamID
		current.Line = current.Line.Add(l.Line)
		out[l.RosterEntryID] = current
	}
	return out
}

// SumByTeam collapses per-set rows into one aggregate per team.
func SumByTeam(lines []SetLine) []TeamAggregate {
	byTeam := make(map[string]TeamAggregate, 2)
	for _, l := range lines {
		if l.TeamID == "" {
			continue
		}
		current := byTeam[l.TeamID]
		current.MatchID = l.MatchID
		current.TeamID = l.TeamID
		current.Line = current.Line.Add(l.Line)
		byTeam[l.TeamID] = current
	}

	out := make([]TeamAggregate, 0, len(byTeam))
	for _, agg := range byTeam {
		agg.Effectiveness = RoundEffectiveness(agg.Line.Effectiveness())
		out = append(out, agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })
	return out
}

// TeamTotal sums the rows belonging to one team.
func TeamTotal(lines []SetLine, teamID string) Line {
	var total Line
	for _, l := range lines {
		if l.TeamID == teamID {
			total = total.Add(l.Line)
		}
	}
	return total
}
