package services

import (
	"regexp"
	"strconv"
)

var percentageRegex = regexp.MustCompile(`(?:^|\D)(\d{1,3})%`)

// ExtractPercentage returns the first standalone 1-3 digit number directly followed by
// "%". It is best effort: nil means no usable number. A first token above 100
// counts as no match, and later tokens are not consulted.
func ExtractPercentage(text string) *int {
	match := percentageRegex.FindStringSubmatch(text)
	if match == nil {
		return nil
	}

	value, err := strconv.Atoi(match[1])
	if err != nil || value < 0 || value > 100 {
		return nil
	}
	return &value
}
