package snapshot

import (
	"strings"

	"lol-coach/internal/domain"
	"lol-coach/internal/regions"
	"lol-coach/internal/riot"
)

// ClassifyExperience derives the experience level from ranked standings and
// account level. The solo-queue entry wins over flex; with neither, the
// account level alone decides.
func ClassifyExperience(entries []riot.LeagueEntry, summonerLevel int) domain.ExperienceLevel {
	entry := findQueueEntry(entries, regions.QueueRankedSolo)
	if entry == nil {
		entry = findQueueEntry(entries, regions.QueueRankedFlex)
	}

	if entry == nil {
		if summonerLevel < 30 {
			return domain.ExperienceBeginner
		}
		return domain.ExperienceCasual
	}

	switch strings.ToUpper(entry.Tier) {
	case "IRON", "BRONZE":
		return domain.ExperienceBeginner
	case "SILVER", "GOLD":
		return domain.ExperienceIntermediate
	case "PLATINUM", "EMERALD":
		return domain.ExperienceAdvanced
	case "DIAMOND", "MASTER", "GRANDMASTER", "CHALLENGER":
		return domain.ExperiencePro
	}

	// unrecognized tier string
	return domain.ExperienceCasual
}

func findQueueEntry(entries []riot.LeagueEntry, queueType string) *riot.LeagueEntry {
	for i := range entries {
		if entries[i].QueueType == queueType {
			return &entries[i]
		}
	}
	return nil
}
