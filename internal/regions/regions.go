// Package regions maps game-server region codes (na1, euw1, ...) to the broad
// routing clusters used by the regionally-sharded match endpoints.
package regions

import (
	"strconv"
	"strings"
)

// DefaultCluster is used when a region code is unrecognized. Callers get
// best-effort routing instead of an error.
const DefaultCluster = "americas"

// GlobalCluster routes the account-identity endpoint family, which is
// globally sharded regardless of the player's region.
const GlobalCluster = "americas"

var platformRouting = map[string]string{
	"na1":  "americas",
	"br1":  "americas",
	"la1":  "americas",
	"la2":  "americas",
	"kr":   "asia",
	"jp1":  "asia",
	"euw1": "europe",
	"eun1": "europe",
	"tr1":  "europe",
	"ru":   "europe",
	"oc1":  "sea",
	"ph2":  "sea",
	"sg2":  "sea",
	"th2":  "sea",
	"tw2":  "sea",
	"vn2":  "sea",
}

// PlatformFor returns the routing cluster for a region code. Unknown codes
// fall back to DefaultCluster.
func PlatformFor(region string) string {
	if cluster, ok := platformRouting[strings.ToLower(region)]; ok {
		return cluster
	}
	return DefaultCluster
}

// Ranked queue identifiers as reported by the league endpoints.
const (
	QueueRankedSolo = "RANKED_SOLO_5x5"
	QueueRankedFlex = "RANKED_FLEX_SR"
)

// QueueNames maps numeric queue ids from match data to their string names.
var QueueNames = map[int]string{
	420: QueueRankedSolo,
	440: QueueRankedFlex,
	450: "ARAM",
	400: "NORMAL_DRAFT_PICK",
	430: "NORMAL_BLIND_PICK",
}

// QueueName resolves a numeric queue id, falling back to a synthetic name for
// ids not in the table.
func QueueName(id int) string {
	if name, ok := QueueNames[id]; ok {
		return name
	}
	return "QUEUE_" + strconv.Itoa(id)
}
