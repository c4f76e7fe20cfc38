package util

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

var nonDigit = regexp.MustCompile(`\D+`)

// NormalizeSenderID reduces a transport sender id (E.164-style) to digits
// only, without leading zeros.
func NormalizeSenderID(raw string) string {
	return strings.TrimLeft(nonDigit.ReplaceAllString(raw, ""), "0")
}

// SenderHash derives the stable user identity from a normalized sender id.
// The salt is mandatory; callers must have validated configuration first.
func SenderHash(senderID, salt string) string {
	h := sha256.Sum256([]byte(senderID + salt))
	return hex.EncodeToString(h[:])
}

// SenderLast4 returns the last four digits for support-only lookups. The full
// number is never stored.
func SenderLast4(senderID string) string {
	if len(senderID) < 4 {
		return ""
	}
	return senderID[len(senderID)-4:]
}
