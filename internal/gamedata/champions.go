// Package gamedata carries the static champion lookup table used to resolve
// mastery entries to display names.
package gamedata

import "strconv"

// Static subset; unlisted ids fall back to the numeric id as a string.
var championNames = map[int]string{
	1:   "Annie",
	2:   "Olaf",
	3:   "Galio",
	4:   "TwistedFate",
	5:   "XinZhao",
	6:   "Urgot",
	7:   "LeBlanc",
	8:   "Vladimir",
	9:   "Fiddlesticks",
	10:  "Kayle",
	11:  "MasterYi",
	12:  "Alistar",
	13:  "Ryze",
	14:  "Sion",
	15:  "Sivir",
	16:  "Soraka",
	17:  "Teemo",
	18:  "Tristana",
	19:  "Warwick",
	20:  "Nunu",
	21:  "MissFortune",
	22:  "Ashe",
	23:  "Tryndamere",
	24:  "Jax",
	25:  "Morgana",
	26:  "Zilean",
	27:  "Singed",
	28:  "Evelynn",
	29:  "Twitch",
	30:  "Karthus",
	64:  "LeeSin",
	81:  "Ezreal",
	145: "KaiSa",
	157: "Yasuo",
	202: "Jhin",
	222: "Jinx",
	235: "Senna",
	236: "Lucian",
	238: "Zed",
	412: "Thresh",
	555: "Pyke",
	777: "Yone",
}

// ChampionName resolves a champion id to its name, or the id itself when the
// table has no entry.
func ChampionName(id int) string {
	if name, ok := championNames[id]; ok {
		return name
	}
	return strconv.Itoa(id)
}
