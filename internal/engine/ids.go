package engine

import (
	"crypto/rand"
	"strconv"
	"time"
)

// Ids are short base36 strings, the format the persisted documents
// have always carried. Materialized transactions get a "rec_" prefix
// as provenance marking; custom categories get "cat_".

const (
	idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	idLength   = 7
)

func newID() string {
	buf := make([]byte, idLength)
	if _, err := rand.Read(buf); err != nil {
		// Entropy exhaustion is effectively unreachable; a timestamp id
		// keeps the engine moving if it ever happens.
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	for i, b := range buf {
		buf[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return string(buf)
}

func newRecurringID() string { return "rec_" + newID() }

func newCategoryID() string { return "cat_" + newID() }
