package sentry

import "strings"

// Sentry paginates list endpoints through the Link response header:
//
//	<https://.../?cursor=0:0:1>; rel="previous"; results="false"; cursor="0:0:1",
//	<https://.../?cursor=0:100:0>; rel="next"; results="true"; cursor="0:100:0"
//
// The next cursor is only followed when results="true"; Sentry emits a next
// link even on the final page.
func nextCursor(linkHeader string) (string, bool) {
	for _, link := range strings.Split(linkHeader, ",") {
		var rel, results, cursor string
		for _, part := range strings.Split(link, ";") {
			part = strings.TrimSpace(part)
			switch {
			case strings.HasPrefix(part, "rel="):
				rel = strings.Trim(strings.TrimPrefix(part, "rel="), `"`)
			case strings.HasPrefix(part, "results="):
				results = strings.Trim(strings.TrimPrefix(part, "results="), `"`)
			case strings.HasPrefix(part, "cursor="):
				cursor = strings.Trim(strings.TrimPrefix(part, "cursor="), `"`)
			}
		}
		if rel == "next" && results == "true" && cursor != "" {
			return cursor, true
		}
	}
	return "", false
}
