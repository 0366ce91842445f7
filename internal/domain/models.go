package domain

import "time"

// ExperienceLevel is a derived classification, never set from external input.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "Beginner"
	ExperienceCasual       ExperienceLevel = "Casual"
	ExperienceIntermediate ExperienceLevel = "Intermediate"
	ExperienceAdvanced     ExperienceLevel = "Advanced"
	ExperiencePro          ExperienceLevel = "Pro"
)

// UnrankedTier is the literal tier reported when no solo-queue entry exists.
const UnrankedTier = "UNRANKED"

// MasteryEntry is one champion mastery record, top 5 retained.
type MasteryEntry struct {
	ChampionID     int    `json:"championId"`
	ChampionName   string `json:"championName"`
	ChampionLevel  int    `json:"championLevel"`
	ChampionPoints int    `json:"championPoints"`
}

// MatchParticipantStats is the subject player's record for one analyzed
// match. GoldAt10/CSAt10/XPAt10 are simultaneously present or simultaneously
// absent: absent when no timeline exists or the match is shorter than ten
// minutes.
type MatchParticipantStats struct {
	ChampionName           string `json:"championName"`
	QueueName              string `json:"queueName"`
	Kills                  int    `json:"kills"`
	Deaths                 int    `json:"deaths"`
	Assists                int    `json:"assists"`
	TotalMinionsKilled     int    `json:"totalMinionsKilled"`
	TotalDamageToChampions int    `json:"totalDamageDealtToChampions"`
	GoldEarned             int    `json:"goldEarned"`
	Win                    bool   `json:"win"`
	Items                  [7]int `json:"items"`
	GoldAt10               *int   `json:"goldAt10,omitempty"`
	CSAt10                 *int   `json:"csAt10,omitempty"`
	XPAt10                 *int   `json:"xpAt10,omitempty"`
	EarlyItems             []int  `json:"earlyItems"`
}

// PlayerSnapshot is the aggregate produced once per analysis request and
// immutable thereafter.
type PlayerSnapshot struct {
	GameName        string                  `json:"gameName"`
	TagLine         string                  `json:"tagLine"`
	Region          string                  `json:"region"`
	SummonerLevel   int                     `json:"summonerLevel"`
	Tier            string                  `json:"tier"`
	Rank            *string                 `json:"rank"`
	RecentMatches   []MatchParticipantStats `json:"recentMatches"`
	TopMastery      []MasteryEntry          `json:"topMastery"`
	ExperienceLevel ExperienceLevel         `json:"experienceLevel"`
}

// AnalysisResult is produced once per analysis and frozen inside the session.
type AnalysisResult struct {
	Rating      float64  `json:"rating"`
	Percentile  *float64 `json:"percentile,omitempty"`
	Summary     string   `json:"summary"`
	CoachingTip string   `json:"coachingTip"`
}

// ChatTurn is one user message and the coach's reply.
type ChatTurn struct {
	User  string `json:"user"`
	Coach string `json:"coach"`
}

// Session owns one snapshot and its analysis for the lifetime of a coaching
// conversation.
type Session struct {
	ID          string         `json:"sessionId"`
	Snapshot    PlayerSnapshot `json:"snapshot"`
	Analysis    AnalysisResult `json:"analysis"`
	ChatHistory []ChatTurn     `json:"chatHistory"`
	CreatedAt   time.Time      `json:"createdAt"`
	ExpiresAt   time.Time      `json:"expiresAt"`
}
