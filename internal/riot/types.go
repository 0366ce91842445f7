package riot

// Account is the account-v1 identity record, fetched once per analysis.
type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// Summoner is the summoner-v4 profile. ID is absent for very-low-activity
// accounts; its absence disables the rank lookup.
type Summoner struct {
	ID            string `json:"id"`
	AccountID     string `json:"accountId"`
	PUUID         string `json:"puuid"`
	SummonerLevel int    `json:"summonerLevel"`
}

// LeagueEntry is one ranked-queue standing from league-v4.
type LeagueEntry struct {
	QueueType    string `json:"queueType"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

// ChampionMastery is one champion-mastery-v4 entry, ranked by points
// descending by the API.
type ChampionMastery struct {
	ChampionID     int `json:"championId"`
	ChampionLevel  int `json:"championLevel"`
	ChampionPoints int `json:"championPoints"`
}

// MatchDetail is the match-v5 detail payload, decoded down to the participant
// fields the snapshot needs.
type MatchDetail struct {
	Info MatchInfo `json:"info"`
}

type MatchInfo struct {
	GameDuration int64              `json:"gameDuration"`
	QueueID      int                `json:"queueId"`
	Participants []MatchParticipant `json:"participants"`
}

type MatchParticipant struct {
	PUUID                       string `json:"puuid"`
	ParticipantID               int    `json:"participantId"`
	ChampionName                string `json:"championName"`
	Kills                       int    `json:"kills"`
	Deaths                      int    `json:"deaths"`
	Assists                     int    `json:"assists"`
	TotalMinionsKilled          int    `json:"totalMinionsKilled"`
	NeutralMinionsKilled        int    `json:"neutralMinionsKilled"`
	TotalDamageDealtToChampions int    `json:"totalDamageDealtToChampions"`
	GoldEarned                  int    `json:"goldEarned"`
	Win                         bool   `json:"win"`
	Item0                       int    `json:"item0"`
	Item1                       int    `json:"item1"`
	Item2                       int    `json:"item2"`
	Item3                       int    `json:"item3"`
	Item4                       int    `json:"item4"`
	Item5                       int    `json:"item5"`
	Item6                       int    `json:"item6"`
}

// Items returns the seven slot-indexed item ids, zero meaning an empty slot.
func (p *MatchParticipant) Items() [7]int {
	return [7]int{p.Item0, p.Item1, p.Item2, p.Item3, p.Item4, p.Item5, p.Item6}
}

// MatchTimeline is the match-v5 timeline: per-minute cumulative frames plus a
// chronological event log.
type MatchTimeline struct {
	Info TimelineInfo `json:"info"`
}

type TimelineInfo struct {
	Frames []TimelineFrame `json:"frames"`
	Events []TimelineEvent `json:"events"`
}

// TimelineFrame holds cumulative per-participant state at one minute mark.
// ParticipantFrames is keyed by the stringified participant id ("1".."10").
type TimelineFrame struct {
	Timestamp         int64                       `json:"timestamp"`
	ParticipantFrames map[string]ParticipantFrame `json:"participantFrames"`
}

type ParticipantFrame struct {
	TotalGold           int `json:"totalGold"`
	MinionsKilled       int `json:"minionsKilled"`
	JungleMinionsKilled int `json:"jungleMinionsKilled"`
	XP                  int `json:"xp"`
}

type TimelineEvent struct {
	Type          string `json:"type"`
	ParticipantID int    `json:"participantId"`
	Timestamp     int64  `json:"timestamp"`
	ItemID        int    `json:"itemId"`
}
