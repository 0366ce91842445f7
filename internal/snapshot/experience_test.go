package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lol-coach/internal/domain"
	"lol-coach/internal/regions"
	"lol-coach/internal/riot"
)

func soloEntry(tier string) riot.LeagueEntry {
	return riot.LeagueEntry{QueueType: regions.QueueRankedSolo, Tier: tier, Rank: "II"}
}

func flexEntry(tier string) riot.LeagueEntry {
	return riot.LeagueEntry{QueueType: regions.QueueRankedFlex, Tier: tier, Rank: "IV"}
}

func TestClassifyExperience(t *testing.T) {
	tests := []struct {
		name    string
		entries []riot.LeagueEntry
		level   int
		want    domain.ExperienceLevel
	}{
		{"no entries, low level", nil, 25, domain.ExperienceBeginner},
		{"no entries, level boundary", nil, 30, domain.ExperienceCasual},
		{"no entries, higher level", nil, 45, domain.ExperienceCasual},
		{"iron solo", []riot.LeagueEntry{soloEntry("IRON")}, 200, domain.ExperienceBeginner},
		{"bronze solo", []riot.LeagueEntry{soloEntry("BRONZE")}, 50, domain.ExperienceBeginner},
		{"silver solo", []riot.LeagueEntry{soloEntry("SILVER")}, 50, domain.ExperienceIntermediate},
		{"gold solo regardless of level", []riot.LeagueEntry{soloEntry("GOLD")}, 10, domain.ExperienceIntermediate},
		{"gold lowercase", []riot.LeagueEntry{soloEntry("gold")}, 50, domain.ExperienceIntermediate},
		{"platinum solo", []riot.LeagueEntry{soloEntry("PLATINUM")}, 50, domain.ExperienceAdvanced},
		{"emerald solo", []riot.LeagueEntry{soloEntry("EMERALD")}, 50, domain.ExperienceAdvanced},
		{"diamond solo", []riot.LeagueEntry{soloEntry("DIAMOND")}, 50, domain.ExperiencePro},
		{"challenger solo", []riot.LeagueEntry{soloEntry("CHALLENGER")}, 50, domain.ExperiencePro},
		{"unrecognized tier", []riot.LeagueEntry{soloEntry("OBSIDIAN")}, 50, domain.ExperienceCasual},
		{"flex only", []riot.LeagueEntry{flexEntry("DIAMOND")}, 50, domain.ExperiencePro},
		{"solo wins over flex", []riot.LeagueEntry{flexEntry("DIAMOND"), soloEntry("SILVER")}, 50, domain.ExperienceIntermediate},
		{"other queues ignored", []riot.LeagueEntry{{QueueType: "CHERRY", Tier: "GOLD"}}, 25, domain.ExperienceBeginner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyExperience(tt.entries, tt.level))
		})
	}
}
