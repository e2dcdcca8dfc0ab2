// Package eventtime extracts an event start time from free-text titles
// like "Boxing: Fury vs Smith Jan 5, 2025 10:00 PM ET". The date and
// time tokens are located lexically (same patterns as the classifier)
// and the earliest date hit is authoritative.
package eventtime

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/voyagen/livecatalog/internal/classifier"
)

// zoneRe must try the longer abbreviations first so "EST" is not
// consumed as "ES"+"T" ambiguity around the bare "ET" form.
var zoneRe = regexp.MustCompile(`(?i)\b(EST|EDT|ET|UTC)\b`)

var zones = map[string]*time.Location{
	"ET":  time.FixedZone("ET", -5*3600),
	"EST": time.FixedZone("EST", -5*3600),
	"EDT": time.FixedZone("EDT", -4*3600),
	"UTC": time.UTC,
}

// Extract parses the event start time out of title. It fails when no
// date token is present, which is expected for a fraction of free-text
// titles and treated as skip-and-continue by callers.
func Extract(title string) (time.Time, error) {
	dateTok := classifier.DateToken(title)
	if dateTok == "" {
		return time.Time{}, fmt.Errorf("no date found in %q", title)
	}

	text := dateTok
	if timeTok := classifier.TimeToken(title); timeTok != "" {
		// Zone abbreviations are resolved here, not by the parser.
		clock := strings.TrimSpace(zoneRe.ReplaceAllString(timeTok, ""))
		text = dateTok + " " + clock
	}

	loc := time.Local
	if z := zoneRe.FindString(title); z != "" {
		if l, ok := zones[strings.ToUpper(z)]; ok {
			loc = l
		}
	}

	t, err := dateparse.ParseIn(text, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q from %q: %w", text, title, err)
	}
	return t, nil
}
