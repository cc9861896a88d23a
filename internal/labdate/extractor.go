// Package labdate picks the sample-collection date out of report text. Dates
// are scored by surrounding context, not just matched: draw-date keywords pull
// a candidate up, report/print keywords push it down.
package labdate

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

var dateTokenRe = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b|\b(\d{1,2})[./](\d{1,2})[./](\d{4})\b|\b(\d{1,2})\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+(\d{4})\b`)

var monthIndex = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var (
	collectedRe = regexp.MustCompile(`(?i)\b(collect\w*|draw\w*|specimen|sample[dt]?|afgenomen|entnommen)\b`)
	receivedRe  = regexp.MustCompile(`(?i)\b(receiv\w*|arriv\w*|eingang)\b`)
	reportedRe  = regexp.MustCompile(`(?i)\b(report\w*|print\w*|issued|erstellt)\b`)
	datumRe     = regexp.MustCompile(`(?i)datum\s*:`)
	bareISORe   = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
)

type candidate struct {
	date      time.Time
	score     int
	count     int
	firstLine int
}

// Extract returns the best sample-collection date in ISO form, using
// context-scored candidates with frequency and ISO-pattern fallbacks, and
// "today" as a last resort.
func Extract(lines []string, now time.Time) string {
	cands := map[string]*candidate{}

	record := func(d time.Time, score, lineIdx int) {
		if !plausible(d, now) {
			return
		}
		key := d.Format("2006-01-02")
		c, ok := cands[key]
		if !ok {
			c = &candidate{date: d, firstLine: lineIdx}
			cands[key] = c
		}
		c.score += score
		c.count++
	}

	for i, line := range lines {
		dates := findDates(line)
		if len(dates) == 0 {
			continue
		}

		lineScore := 0
		if scoreNearby(line, collectedRe) {
			lineScore += 8
		}
		if scoreNearby(line, receivedRe) {
			lineScore += 4
		}
		if reportedRe.MatchString(line) {
			lineScore -= 3
		}

		if datumRe.MatchString(line) && len(dates) >= 2 {
			// "Datum: 01.03.2024 05.03.2024"; the later is the draw date.
			later := dates[0]
			for _, d := range dates[1:] {
				if d.After(later) {
					later = d
				}
			}
			record(later, lineScore+6, i)
			continue
		}
		for _, d := range dates {
			record(d, lineScore, i)
		}
	}

	if best := pickBest(cands); best != "" {
		return best
	}
	if iso := bareISORe.FindString(strings.Join(lines, "\n")); iso != "" {
		if d, err := time.Parse("2006-01-02", iso); err == nil && plausible(d, now) {
			return iso
		}
	}
	return now.Format("2006-01-02")
}

// scoreNearby checks that a keyword sits within 30 characters of a date-like
// token on the line.
func scoreNearby(line string, kw *regexp.Regexp) bool {
	kwLoc := kw.FindStringIndex(line)
	if kwLoc == nil {
		return false
	}
	dateLoc := dateTokenRe.FindStringIndex(line)
	if dateLoc == nil {
		return false
	}
	gap := dateLoc[0] - kwLoc[1]
	if gap < 0 {
		gap = kwLoc[0] - dateLoc[1]
	}
	return gap >= 0 && gap <= 30
}

func pickBest(cands map[string]*candidate) string {
	if len(cands) == 0 {
		return ""
	}
	list := make([]*candidate, 0, len(cands))
	hasContext := false
	for _, c := range cands {
		if c.score > 0 {
			hasContext = true
		}
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.count != b.count {
			return a.count > b.count
		}
		if a.firstLine != b.firstLine {
			return a.firstLine < b.firstLine
		}
		return a.date.Format("2006-01-02") < b.date.Format("2006-01-02")
	})
	if hasContext {
		return list[0].date.Format("2006-01-02")
	}
	// No contextual winner: fall back to the most frequent raw date.
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.count != b.count {
			return a.count > b.count
		}
		return a.firstLine < b.firstLine
	})
	return list[0].date.Format("2006-01-02")
}

// plausible bounds candidates to real lab dates: 1990 through tomorrow.
func plausible(d, now time.Time) bool {
	min := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	return !d.Before(min) && !d.After(now.AddDate(0, 0, 1))
}

func findDates(line string) []time.Time {
	var out []time.Time
	for _, m := range dateTokenRe.FindAllStringSubmatch(line, -1) {
		if d, ok := parseMatch(m); ok {
			out = append(out, d)
		}
	}
	return out
}

func parseMatch(m []string) (time.Time, bool) {
	switch {
	case m[1] != "":
		d, err := time.Parse("2006-01-02", m[1]+"-"+m[2]+"-"+m[3])
		return d, err == nil
	case m[4] != "":
		// DD.MM.YYYY / DD/MM/YYYY (European labs)
		d, err := time.Parse("2.1.2006", m[4]+"."+m[5]+"."+m[6])
		return d, err == nil
	case m[7] != "":
		mon, ok := monthIndex[strings.ToLower(m[8])[:3]]
		if !ok {
			return time.Time{}, false
		}
		d, err := time.Parse("2-1-2006", m[7]+"-"+itoa(int(mon))+"-"+m[9])
		return d, err == nil
	}
	return time.Time{}, false
}

func itoa(n int) string {
	if n < 10 {
		return string(rune('0' + n))
	}
	return string(rune('0'+n/10)) + string(rune('0'+n%10))
}
