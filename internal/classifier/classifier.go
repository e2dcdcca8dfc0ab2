// Package classifier decides whether a playlist entry name describes a
// time-bounded live event or an ongoing channel. The gate is purely
// lexical: a name must carry an explicit date token AND an explicit
// time token to count as an event, which keeps generically-named
// channels from being misclassified.
package classifier

import "regexp"

var (
	// "5/1/2025", "5/1/25" or "Jan 5, 2025" style dates.
	dateRe = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}|\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\b \d{1,2}, \d{4}`)
	// "10:00 PM", "22:00:00 UTC", "8:30PM ET" style times.
	timeRe = regexp.MustCompile(`(?i)\d{1,2}:\d{2}(?::\d{2})?\s*(?:AM|PM|ET|EST|EDT|UTC)`)
)

// IsEvent reports whether name looks like a live event title.
func IsEvent(name string) bool {
	return dateRe.MatchString(name) && timeRe.MatchString(name)
}

// DateToken returns the earliest date substring in name, or "".
func DateToken(name string) string {
	return dateRe.FindString(name)
}

// TimeToken returns the earliest time substring in name, or "".
func TimeToken(name string) string {
	return timeRe.FindString(name)
}
