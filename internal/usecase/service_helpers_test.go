package usecase

import (
	"fmt"
	"sync"

	"github.com/overtimehq/overtime-api/internal/infrastructure/repository/memory"
	"github.com/overtimehq/overtime-api/internal/platform/logging"
)

type seqIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

func (g *seqIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%03d", g.prefix, g.n), nil
}

type serviceFixture struct {
	matchRepo     *memory.MatchRepository
	setRepo       *memory.SetRepository
	rosterRepo    *memory.RosterRepository
	setLineRepo   *memory.SetLineRepository
	matchLineRepo *memory.MatchLineRepository
	aggregateRepo *memory.TeamAggregateRepository

	matchSvc      *MatchService
	setSvc        *SetService
	rosterSvc     *RosterService
	setStatsSvc   *SetStatsService
	matchStatsSvc *MatchStatsService
	recalcSvc     *RecalcService
}

// newServiceFixture wires the full service graph over seeded memory repos,
// the same shape the app assembles at boot.
func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		matchRepo:     memory.NewMatchRepository(memory.SeedMatches()),
		setRepo:       memory.NewSetRepository(memory.SeedSets()),
		rosterRepo:    memory.NewRosterRepository(memory.SeedRosterEntries()),
		setLineRepo:   memory.NewSetLineRepository(nil),
		matchLineRepo: memory.NewMatchLineRepository(nil),
		aggregateRepo: memory.NewTeamAggregateRepository(),
	}

	idGen := &seqIDGenerator{prefix: "id"}
	logger := logging.NewNop()

	f.matchSvc = NewMatchService(f.matchRepo, idGen, logger)
	f.setSvc = NewSetService(f.matchSvc, f.setRepo, f.setLineRepo, idGen, logger)
	f.rosterSvc = NewRosterService(f.matchSvc, f.rosterRepo, idGen, logger)
	f.setStatsSvc = NewSetStatsService(f.setSvc, f.rosterRepo, f.setLineRepo, idGen, logger)
	f.matchStatsSvc = NewMatchStatsService(
		f.matchSvc,
		f.rosterRepo,
		f.setLineRepo,
		f.matchLineRepo,
		f.aggregateRepo,
		idGen,
		logger,
	)
	f.recalcSvc = NewRecalcService(f.matchSvc, f.matchStatsSvc, logger)

	return f
}
