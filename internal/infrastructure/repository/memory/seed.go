package memory

import (
	"time"

	"github.com/overtimehq/overtime-api/internal/domain/match"
	"github.com/overtimehq/overtime-api/internal/domain/matchset"
	"github.com/overtimehq/overtime-api/internal/domain/roster"
)

const (
	TeamIDThunder  = "team-thunder"
	TeamIDComets   = "team-comets"
	TeamIDRaptors  = "team-raptors"
	TeamIDMariners = "team-mariners"
)

const (
	MatchIDOpening = "match-opening-night"
	MatchIDDerby   = "match-harbor-derby"
)

func seedTime(day, hour int) time.Time {
	return time.Date(2026, time.March, day, hour, 0, 0, 0, time.UTC)
}

func SeedMatches() []match.Match {
	return []match.Match{
		{
			ID:          MatchIDOpening,
			ScheduledAt: seedTime(7, 18),
			Venue:       "North Hall",
			HomeTeamID:  TeamIDThunder,
			AwayTeamID:  TeamIDComets,
			Status:      match.StatusLive,
			CaptureMode: match.ModeAutomatic,
			DisplayMode: match.ModeAutomatic,
			CreatedAt:   seedTime(1, 9),
			UpdatedAt:   seedTime(7, 18),
		},
		{
			ID:          MatchIDDerby,
			ScheduledAt: seedTime(14, 20),
			Venue:       "Harbor Arena",
			HomeTeamID:  TeamIDRaptors,
			AwayTeamID:  TeamIDMariners,
			Status:      match.StatusScheduled,
			CaptureMode: match.ModeManual,
			DisplayMode: match.ModeManual,
			CreatedAt:   seedTime(1, 9),
			UpdatedAt:   seedTime(1, 9),
		},
	}
}

func SeedSets() []matchset.Set {
	return []matchset.Set{
		{
			ID:        "set-opening-1",
			MatchID:   MatchIDOpening,
			Number:    1,
			Status:    matchset.StatusFinished,
			Winner:    matchset.WinnerHome,
			CreatedAt: seedTime(7, 18),
			UpdatedAt: seedTime(7, 19),
		},
		{
			ID:        "set-opening-2",
			MatchID:   MatchIDOpening,
			Number:    2,
			Status:    matchset.StatusLive,
			Winner:    matchset.WinnerPending,
			CreatedAt: seedTime(7, 19),
			UpdatedAt: seedTime(7, 19),
		},
	}
}

func SeedRosterEntries() []roster.Entry {
	return []roster.Entry{
		{ID: "roster-thunder-01", MatchID: MatchIDOpening, PlayerID: "player-aya-rosen", TeamID: TeamIDThunder, CreatedAt: seedTime(6, 12)},
		{ID: "roster-thunder-02", MatchID: MatchIDOpening, PlayerID: "player-milo-grant", TeamID: TeamIDThunder, CreatedAt: seedTime(6, 12)},
		{ID: "roster-comets-01", MatchID: MatchIDOpening, PlayerID: "player-tess-okafor", TeamID: TeamIDComets, CreatedAt: seedTime(6, 13)},
		{ID: "roster-comets-02", MatchID: MatchIDOpening, PlayerID: "player-juno-velez", TeamID: TeamIDComets, CreatedAt: seedTime(6, 13)},
	}
}
