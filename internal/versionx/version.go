// Package versionx parses and compares app version markers of the form
// "v<major>.<minor>" (a leading "v" is optional). The startup version gate
// uses it to decide whether a stored session predates the running client.
package versionx

import (
	"regexp"
	"strconv"
)

var versionRe = regexp.MustCompile(`^v?(\d+)\.(\d+)`)

// parse extracts major/minor from a version marker. Unparseable input is
// treated as 0.0 so unknown markers compare older than any real version.
func parse(v string) (int, int) {
	m := versionRe.FindStringSubmatch(v)
	if m == nil {
		return 0, 0
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	return major, minor
}

// Compare returns 1 if a is newer than b, -1 if older, 0 if equal.
func Compare(a, b string) int {
	aMajor, aMinor := parse(a)
	bMajor, bMinor := parse(b)

	if aMajor != bMajor {
		if aMajor > bMajor {
			return 1
		}
		return -1
	}
	if aMinor != bMinor {
		if aMinor > bMinor {
			return 1
		}
		return -1
	}
	return 0
}
