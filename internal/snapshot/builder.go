// Package snapshot aggregates Riot API data for one player into an immutable
// PlayerSnapshot.
package snapshot

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"lol-coach/internal/constants"
	"lol-coach/internal/domain"
	"lol-coach/internal/gamedata"
	"lol-coach/internal/regions"
	"lol-coach/internal/riot"
)

// RiotAPI is the slice of the Riot client the builder consumes.
type RiotAPI interface {
	GetAccount(ctx context.Context, gameName, tagLine string) (*riot.Account, bool, error)
	GetSummoner(ctx context.Context, region, puuid string) (*riot.Summoner, bool, error)
	GetLeagueEntries(ctx context.Context, region, summonerID string) ([]riot.LeagueEntry, error)
	GetMatchIDs(ctx context.Context, region, puuid string, count int) ([]string, error)
	GetMatchDetail(ctx context.Context, region, matchID string) (*riot.MatchDetail, bool, error)
	GetMatchTimeline(ctx context.Context, region, matchID string) (*riot.MatchTimeline, bool, error)
	GetTopMastery(ctx context.Context, region, puuid string) ([]riot.ChampionMastery, error)
}

type Builder struct {
	riot   RiotAPI
	logger zerolog.Logger
}

func NewBuilder(api RiotAPI, logger zerolog.Logger) *Builder {
	return &Builder{riot: api, logger: logger}
}

// Build resolves the identity and profile (both mandatory), then fans out the
// enrichment calls. Enrichment failures degrade to empty or partial data;
// only a missing account or summoner aborts the build.
func (b *Builder) Build(ctx context.Context, gameName, tagLine, region string) (*domain.PlayerSnapshot, error) {
	account, found, err := b.riot.GetAccount(ctx, gameName, tagLine)
	if err != nil {
		return nil, fmt.Errorf("fetch account: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("account %s#%s: %w", gameName, tagLine, riot.ErrNotFound)
	}

	summoner, found, err := b.riot.GetSummoner(ctx, region, account.PUUID)
	if err != nil {
		return nil, fmt.Errorf("fetch summoner: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("summoner for %s#%s: %w", gameName, tagLine, riot.ErrNotFound)
	}

	entries, matchIDs, masteries := b.fetchEnrichment(ctx, region, account.PUUID, summoner.ID)

	recent := matchIDs
	if len(recent) > constants.DeepAnalysisCount {
		recent = recent[:constants.DeepAnalysisCount]
	}
	matches := b.fetchMatches(ctx, region, account.PUUID, recent)

	soloEntry := findQueueEntry(entries, regions.QueueRankedSolo)
	tier := domain.UnrankedTier
	var rank *string
	if soloEntry != nil {
		tier = soloEntry.Tier
		r := soloEntry.Rank
		rank = &r
	}

	if len(masteries) > constants.TopMasteryCount {
		masteries = masteries[:constants.TopMasteryCount]
	}
	topMastery := make([]domain.MasteryEntry, 0, len(masteries))
	for _, m := range masteries {
		topMastery = append(topMastery, domain.MasteryEntry{
			ChampionID:     m.ChampionID,
			ChampionName:   gamedata.ChampionName(m.ChampionID),
			ChampionLevel:  m.ChampionLevel,
			ChampionPoints: m.ChampionPoints,
		})
	}

	snap := &domain.PlayerSnapshot{
		GameName:        account.GameName,
		TagLine:         account.TagLine,
		Region:          region,
		SummonerLevel:   summoner.SummonerLevel,
		Tier:            tier,
		Rank:            rank,
		RecentMatches:   matches,
		TopMastery:      topMastery,
		ExperienceLevel: ClassifyExperience(entries, summoner.SummonerLevel),
	}

	b.logger.Info().
		Str("player", account.GameName+"#"+account.TagLine).
		Str("tier", snap.Tier).
		Str("experience", string(snap.ExperienceLevel)).
		Int("matches", len(snap.RecentMatches)).
		Int("masteries", len(snap.TopMastery)).
		Msg("snapshot built")

	return snap, nil
}

// fetchEnrichment runs the rank/match-id/mastery calls concurrently. The
// rank call is skipped entirely when the summoner has no regional id. Each
// branch degrades to an empty result on failure.
func (b *Builder) fetchEnrichment(ctx context.Context, region, puuid, summonerID string) ([]riot.LeagueEntry, []string, []riot.ChampionMastery) {
	var (
		entries   []riot.LeagueEntry
		matchIDs  []string
		masteries []riot.ChampionMastery
	)

	g := new(errgroup.Group)

	if summonerID != "" {
		g.Go(func() error {
			var err error
			entries, err = b.riot.GetLeagueEntries(ctx, region, summonerID)
			if err != nil {
				b.logger.Warn().Err(err).Str("puuid", puuid).Msg("league entries unavailable")
				entries = nil
			}
			return nil
		})
	} else {
		b.logger.Debug().Str("puuid", puuid).Msg("summoner has no id, skipping rank lookup")
	}

	g.Go(func() error {
		var err error
		matchIDs, err = b.riot.GetMatchIDs(ctx, region, puuid, constants.MatchHistoryCount)
		if err != nil {
			b.logger.Warn().Err(err).Str("puuid", puuid).Msg("match ids unavailable")
			matchIDs = nil
		}
		return nil
	})

	g.Go(func() error {
		var err error
		masteries, err = b.riot.GetTopMastery(ctx, region, puuid)
		if err != nil {
			b.logger.Warn().Err(err).Str("puuid", puuid).Msg("mastery unavailable")
			masteries = nil
		}
		return nil
	})

	_ = g.Wait()
	return entries, matchIDs, masteries
}

// fetchMatches fans out detail and timeline fetches for every match id in one
// launch, then assembles participant stats in the original id order. A match
// with no detail is dropped; a match with no timeline keeps end-of-game stats
// only.
func (b *Builder) fetchMatches(ctx context.Context, region, puuid string, matchIDs []string) []domain.MatchParticipantStats {
	n := len(matchIDs)
	if n == 0 {
		return []domain.MatchParticipantStats{}
	}

	details := make([]*riot.MatchDetail, n)
	timelines := make([]*riot.MatchTimeline, n)

	g := new(errgroup.Group)
	for i, id := range matchIDs {
		i, id := i, id
		g.Go(func() error {
			detail, found, err := b.riot.GetMatchDetail(ctx, region, id)
			if err != nil {
				b.logger.Warn().Err(err).Str("match_id", id).Msg("match detail unavailable")
				return nil
			}
			if found {
				details[i] = detail
			}
			return nil
		})
		g.Go(func() error {
			timeline, found, err := b.riot.GetMatchTimeline(ctx, region, id)
			if err != nil {
				b.logger.Warn().Err(err).Str("match_id", id).Msg("match timeline unavailable")
				return nil
			}
			if found {
				timelines[i] = timeline
			}
			return nil
		})
	}
	_ = g.Wait()

	matches := make([]domain.MatchParticipantStats, 0, n)
	for i, id := range matchIDs {
		detail := details[i]
		if detail == nil {
			continue
		}

		participant := findParticipant(detail, puuid)
		if participant == nil {
			b.logger.Warn().Str("match_id", id).Str("puuid", puuid).Msg("participant not in match, skipping")
			continue
		}

		stats := domain.MatchParticipantStats{
			ChampionName:           participant.ChampionName,
			QueueName:              regions.QueueName(detail.Info.QueueID),
			Kills:                  participant.Kills,
			Deaths:                 participant.Deaths,
			Assists:                participant.Assists,
			TotalMinionsKilled:     participant.TotalMinionsKilled + participant.NeutralMinionsKilled,
			TotalDamageToChampions: participant.TotalDamageDealtToChampions,
			GoldEarned:             participant.GoldEarned,
			Win:                    participant.Win,
			Items:                  participant.Items(),
			EarlyItems:             []int{},
		}

		if timeline := timelines[i]; timeline != nil {
			applyTimeline(&stats, timeline, participant.ParticipantID)
		}

		matches = append(matches, stats)
	}
	return matches
}

// applyTimeline fills the at-10-minute fields and early purchases. The three
// at-10 fields are set together or not at all.
func applyTimeline(stats *domain.MatchParticipantStats, timeline *riot.MatchTimeline, participantID int) {
	frames := timeline.Info.Frames
	if len(frames) > constants.AtTenMinuteFrame {
		frame := frames[constants.AtTenMinuteFrame]
		if pf, ok := frame.ParticipantFrames[strconv.Itoa(participantID)]; ok {
			gold := pf.TotalGold
			cs := pf.MinionsKilled + pf.JungleMinionsKilled
			xp := pf.XP
			stats.GoldAt10 = &gold
			stats.CSAt10 = &cs
			stats.XPAt10 = &xp
		}
	}

	earlyCutoff := constants.EarlyGameWindow.Milliseconds()
	for _, event := range timeline.Info.Events {
		if event.Type != "ITEM_PURCHASED" || event.ParticipantID != participantID {
			continue
		}
		if event.Timestamp < earlyCutoff {
			stats.EarlyItems = append(stats.EarlyItems, event.ItemID)
		}
	}
}

func findParticipant(detail *riot.MatchDetail, puuid string) *riot.MatchParticipant {
	for i := range detail.Info.Participants {
		if detail.Info.Participants[i].PUUID == puuid {
			return &detail.Info.Participants[i]
		}
	}
	return nil
}
