package config

import (
	"regexp"
	"strings"
	"sync"
)

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

var (
	regexCacheMu sync.Mutex
	regexCache   = map[string]*regexp.Regexp{}
)

// matchesRegex compiles and caches pattern, reporting false (not an
// error) if the pattern fails to compile, since a malformed rule should
// never abort classification of an otherwise-manageable window.
func matchesRegex(pattern, s string) bool {
	regexCacheMu.Lock()
	re, ok := regexCache[pattern]
	if !ok {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			regexCache[pattern] = nil
		} else {
			regexCache[pattern] = compiled
		}
		re = regexCache[pattern]
	}
	regexCacheMu.Unlock()

	if re == nil {
		return false
	}
	return re.MatchString(s)
}
