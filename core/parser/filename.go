package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	mpReplayPattern = regexp.MustCompile(`^MP Replay v(\S+) @(\d{4})\.(\d{2})\.(\d{2}) (\d{2})(\d{2})(\d{2})`)
	recPattern      = regexp.MustCompile(`^rec\.(\d{4})(\d{2})(\d{2})-(\d{2})(\d{2})(\d{2})`)
	recordedPattern = regexp.MustCompile("^recorded game -\\s+(\\d{2})-([A-Za-z]{3})-(\\d{4}) (\\d{2})`(\\d{2})`(\\d{2})")
	partidaPattern  = regexp.MustCompile(`^partida-grabada-(\d{2})-([A-Za-z]{3})-(\d{4})-(\d{2})-(\d{2})-(\d{2})`)
)

var monthAbbreviations = map[string]time.Month{
	"jan": time.January, "ene": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April, "abr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August, "ago": time.August,
	"sep": time.September, "set": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December, "dic": time.December,
}

// ParseFilename extracts the played timestamp from well-known default
// recording names. The game version is returned when the name carries one.
func ParseFilename(name string) (played time.Time, version string, ok bool) {
	if m := mpReplayPattern.FindStringSubmatch(name); m != nil {
		t, ok := build(m[2], monthNumber(m[3]), m[4], m[5], m[6], m[7])
		return t, m[1], ok
	}
	if m := recPattern.FindStringSubmatch(name); m != nil {
		t, ok := build(m[1], monthNumber(m[2]), m[3], m[4], m[5], m[6])
		return t, "", ok
	}
	if m := recordedPattern.FindStringSubmatch(name); m != nil {
		t, ok := build(m[3], monthAbbreviations[strings.ToLower(m[2])], m[1], m[4], m[5], m[6])
		return t, "", ok
	}
	if m := partidaPattern.FindStringSubmatch(name); m != nil {
		t, ok := build(m[3], monthAbbreviations[strings.ToLower(m[2])], m[1], m[4], m[5], m[6])
		return t, "", ok
	}
	return time.Time{}, "", false
}

func monthNumber(s string) time.Month {
	n, _ := strconv.Atoi(s)
	return time.Month(n)
}

func build(year string, month time.Month, day, hour, minute, second string) (time.Time, bool) {
	if month < time.January || month > time.December {
		return time.Time{}, false
	}
	parts := make([]int, 0, 5)
	for _, s := range []string{year, day, hour, minute, second} {
		n, err := strconv.Atoi(s)
		if err != nil {
			return time.Time{}, false
		}
		parts = append(parts, n)
	}
	t := time.Date(parts[0], month, parts[1], parts[2], parts[3], parts[4], 0, time.UTC)
	if t.Day() != parts[1] || t.Hour() != parts[2] {
		return time.Time{}, false
	}
	return t, true
}
