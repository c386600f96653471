// Package ranking implements the relative ranking engine: sector-grouped,
// strategic-score-ordered ranks plus the capital priority ladder. The ladder
// is a fixed, ordered list of guard clauses; exactly one rule fires per
// stock and later rules never re-examine earlier ones.
package ranking

import (
	"fmt"
	"sort"

	"github.com/oakmont/vantage/internal/domain"
)

// accumulateMaxRank is the deepest in-sector rank that still qualifies for
// ACCUMULATE.
const accumulateMaxRank = 2

// Entry is one stock's combined signal state entering the ranking engine.
type Entry struct {
	Symbol          string
	Sector          string
	StrategicScore  float64
	StrategicStatus domain.StrategicStatus
	TacticalStatus  domain.TacticalStatus
	SectorRegime    domain.SectorRegime
	PortfolioAction domain.PortfolioAction
}

// Engine ranks stocks within sectors. Stateless.
type Engine struct{}

// NewEngine creates the ranking engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Rank groups entries by sector, drops REJECT-status stocks, sorts each
// group by strategic score descending (stable, so equal scores keep their
// input order), assigns 1-based ranks, and derives capital priority.
// Output preserves the input order of the surviving stocks.
func (e *Engine) Rank(entries []Entry) []domain.RankedStock {
	bySector := make(map[string][]int)
	for i, entry := range entries {
		if entry.StrategicStatus == domain.StrategicReject {
			continue
		}
		bySector[entry.Sector] = append(bySector[entry.Sector], i)
	}

	rankOf := make(map[int]int, len(entries))
	for _, idxs := range bySector {
		sorted := make([]int, len(idxs))
		copy(sorted, idxs)
		sort.SliceStable(sorted, func(a, b int) bool {
			return entries[sorted[a]].StrategicScore > entries[sorted[b]].StrategicScore
		})
		for rank, idx := range sorted {
			rankOf[idx] = rank + 1
		}
	}

	out := make([]domain.RankedStock, 0, len(rankOf))
	for i, entry := range entries {
		rank, ok := rankOf[i]
		if !ok {
			continue
		}
		priority, reasons := capitalPriority(entry, rank)
		out = append(out, domain.RankedStock{
			Symbol:          entry.Symbol,
			Sector:          entry.Sector,
			StrategicScore:  entry.StrategicScore,
			RankInSector:    rank,
			CapitalPriority: priority,
			Reasons:         reasons,
		})
	}
	return out
}

// capitalPriority walks the fixed rule ladder. First match wins.
func capitalPriority(e Entry, rank int) (domain.CapitalPriority, []string) {
	if e.PortfolioAction == domain.ActionBlock || e.SectorRegime == domain.SectorAvoid {
		return domain.PriorityBlocked, []string{"Hard block: portfolio constraints or sector regime AVOID"}
	}

	if e.TacticalStatus == domain.TacticalTrade && e.PortfolioAction == domain.ActionAllow {
		return domain.PriorityBuy, []string{"Tactical TRADE with portfolio clearance"}
	}

	if e.StrategicStatus == domain.StrategicEligible && e.SectorRegime == domain.SectorFavored && rank <= accumulateMaxRank {
		return domain.PriorityAccumulate, []string{fmt.Sprintf("Eligible, favored sector, ranked #%d", rank)}
	}

	if e.StrategicStatus == domain.StrategicWatch && rank == 1 {
		return domain.PriorityPilot, []string{"Top of sector on watch status"}
	}

	return domain.PriorityWatch, []string{fmt.Sprintf("Ranked #%d in %s, monitoring", rank, e.Sector)}
}
