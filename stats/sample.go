package stats

import (
	"strings"

	"github.com/dustin/go-humanize"
)

// LastSample returns the counter value of the newest entry: the text
// after the last ','. An entry without a ',' is returned whole.
func LastSample(entries []string) (string, bool) {
	if len(entries) == 0 {
		return "", false
	}
	last := entries[len(entries)-1]
	return last[strings.LastIndexByte(last, ',')+1:], true
}

// RawKBps converts a byte count sample into whole KiB. Values of 1000
// and above get thousands separators ("1,000"), unlike a bare integer.
// Text that does not start with a number counts as 0.
func RawKBps(sample string) string {
	return humanize.Comma(leadingInt(sample) / 1024)
}

// leadingInt parses an optionally signed run of leading digits, ignoring
// leading blanks and whatever follows the digits.
func leadingInt(s string) int64 {
	s = strings.TrimLeft(s, " \t")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	var n int64
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int64(s[i]-'0')
	}
	if neg {
		return -n
	}
	return n
}
