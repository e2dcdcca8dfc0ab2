package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ChannelID derives the stable channel id from a normalized title.
// Deterministic: the same title always yields the same id, which is
// what makes bulk upserts converge across runs.
func ChannelID(normalizedTitle string) string {
	return "tv." + textHash(normalizedTitle)
}

// EventID derives an event id from the raw title and start timestamp.
// The timestamp is part of the hash so recurring events with identical
// titles on different days do not collide.
func EventID(rawTitle string, startTimestamp int64) string {
	return "event" + textHash(fmt.Sprintf("%s%d", rawTitle, startTimestamp))
}

func textHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}
