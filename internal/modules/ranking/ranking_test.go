package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakmont/vantage/internal/domain"
)

func TestRejectNeverRanked(t *testing.T) {
	entries := []Entry{
		{Symbol: "AAA", Sector: "Technology", StrategicScore: 80, StrategicStatus: domain.StrategicEligible},
		{Symbol: "BBB", Sector: "Technology", StrategicScore: 40, StrategicStatus: domain.StrategicReject},
		{Symbol: "CCC", Sector: "Technology", StrategicScore: 60, StrategicStatus: domain.StrategicWatch},
	}

	ranked := NewEngine().Rank(entries)

	require.Len(t, ranked, 2)
	for _, r := range ranked {
		assert.NotEqual(t, "BBB", r.Symbol, "REJECT stocks never appear in ranked output")
	}
}

func TestRankOrderWithinSector(t *testing.T) {
	entries := []Entry{
		{Symbol: "LOW", Sector: "Energy", StrategicScore: 55, StrategicStatus: domain.StrategicWatch},
		{Symbol: "HIGH", Sector: "Energy", StrategicScore: 85, StrategicStatus: domain.StrategicEligible},
		{Symbol: "MID", Sector: "Energy", StrategicScore: 70, StrategicStatus: domain.StrategicEligible},
	}

	ranked := NewEngine().Rank(entries)
	require.Len(t, ranked, 3)

	ranks := map[string]int{}
	for _, r := range ranked {
		ranks[r.Symbol] = r.RankInSector
	}
	assert.Equal(t, 1, ranks["HIGH"])
	assert.Equal(t, 2, ranks["MID"])
	assert.Equal(t, 3, ranks["LOW"])
}

func TestStableSortOnTies(t *testing.T) {
	// Equal scores keep input order: FIRST was supplied first so it takes
	// rank 1.
	entries := []Entry{
		{Symbol: "FIRST", Sector: "Healthcare", StrategicScore: 75, StrategicStatus: domain.StrategicEligible},
		{Symbol: "SECOND", Sector: "Healthcare", StrategicScore: 75, StrategicStatus: domain.StrategicEligible},
	}

	ranked := NewEngine().Rank(entries)
	require.Len(t, ranked, 2)
	assert.Equal(t, "FIRST", ranked[0].Symbol)
	assert.Equal(t, 1, ranked[0].RankInSector)
	assert.Equal(t, 2, ranked[1].RankInSector)
}

func TestSectorsRankedIndependently(t *testing.T) {
	entries := []Entry{
		{Symbol: "TECH1", Sector: "Technology", StrategicScore: 90, StrategicStatus: domain.StrategicEligible},
		{Symbol: "FIN1", Sector: "Financials", StrategicScore: 65, StrategicStatus: domain.StrategicWatch},
	}

	ranked := NewEngine().Rank(entries)
	require.Len(t, ranked, 2)
	assert.Equal(t, 1, ranked[0].RankInSector)
	assert.Equal(t, 1, ranked[1].RankInSector, "each sector ranks from 1")
}

func TestCapitalPriorityLadder(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		rank  int
		want  domain.CapitalPriority
	}{
		{
			name:  "portfolio block wins over everything",
			entry: Entry{StrategicStatus: domain.StrategicEligible, TacticalStatus: domain.TacticalTrade, SectorRegime: domain.SectorFavored, PortfolioAction: domain.ActionBlock},
			rank:  1,
			want:  domain.PriorityBlocked,
		},
		{
			name:  "sector avoid blocks even a trade setup",
			entry: Entry{StrategicStatus: domain.StrategicEligible, TacticalStatus: domain.TacticalTrade, SectorRegime: domain.SectorAvoid, PortfolioAction: domain.ActionAllow},
			rank:  1,
			want:  domain.PriorityBlocked,
		},
		{
			name:  "trade plus allow is a buy",
			entry: Entry{StrategicStatus: domain.StrategicWatch, TacticalStatus: domain.TacticalTrade, SectorRegime: domain.SectorNeutral, PortfolioAction: domain.ActionAllow},
			rank:  3,
			want:  domain.PriorityBuy,
		},
		{
			name:  "trade with reduce falls through to watch",
			entry: Entry{StrategicStatus: domain.StrategicWatch, TacticalStatus: domain.TacticalTrade, SectorRegime: domain.SectorNeutral, PortfolioAction: domain.ActionReduce},
			rank:  2,
			want:  domain.PriorityWatch,
		},
		{
			name:  "eligible favored top two accumulates",
			entry: Entry{StrategicStatus: domain.StrategicEligible, TacticalStatus: domain.TacticalWatch, SectorRegime: domain.SectorFavored, PortfolioAction: domain.ActionReduce},
			rank:  2,
			want:  domain.PriorityAccumulate,
		},
		{
			name:  "eligible favored rank three only watches",
			entry: Entry{StrategicStatus: domain.StrategicEligible, TacticalStatus: domain.TacticalWatch, SectorRegime: domain.SectorFavored, PortfolioAction: domain.ActionAllow},
			rank:  3,
			want:  domain.PriorityWatch,
		},
		{
			name:  "watch status top of sector pilots",
			entry: Entry{StrategicStatus: domain.StrategicWatch, TacticalStatus: domain.TacticalWatch, SectorRegime: domain.SectorNeutral, PortfolioAction: domain.ActionAllow},
			rank:  1,
			want:  domain.PriorityPilot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reasons := capitalPriority(tt.entry, tt.rank)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, reasons)
		})
	}
}
