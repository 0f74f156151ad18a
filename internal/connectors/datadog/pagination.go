package datadog

import (
	"net/url"
	"regexp"
	"strconv"
)

const (
	paramLimit   = "page[limit]"
	paramOffset  = "page[offset]"
	paramInclude = "include"
)

// offsetRegex matches a raw or percent-encoded page[offset] parameter.
var offsetRegex = regexp.MustCompile(`page(?:\[|%5B|%5b)offset(?:\]|%5D|%5d)=(\d+)`)

// ParseNextOffset extracts the page offset encoded in a links.next URL.
// Returns false if the URL carries no numeric offset.
func ParseNextOffset(next string) (int, bool) {
	if next == "" {
		return 0, false
	}

	if u, err := url.Parse(next); err == nil {
		if v := u.Query().Get(paramOffset); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return 0, false
			}
			return n, true
		}
	}

	// Fall back to scanning the raw string for URLs net/url rejects.
	matches := offsetRegex.FindStringSubmatch(next)
	if len(matches) != 2 {
		return 0, false
	}
	n, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// BuildPageURL returns the entity listing URL for one page.
func BuildPageURL(entityURL string, limit, offset int) string {
	q := url.Values{}
	q.Set(paramInclude, "schema")
	q.Set(paramLimit, strconv.Itoa(limit))
	q.Set(paramOffset, strconv.Itoa(offset))
	return entityURL + "?" + q.Encode()
}
