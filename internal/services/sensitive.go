package services

import (
	"fmt"
	"regexp"
)

type SensitiveDataDetector interface {
	// Detect returns the patterns that matched text, or nil.
	Detect(text string) []string
}

type sensitiveDataDetector struct {
	patterns []*regexp.Regexp
}

func NewSensitiveDataDetector(patterns []string) (SensitiveDataDetector, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid sensitive data pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return &sensitiveDataDetector{patterns: compiled}, nil
}

func (d *sensitiveDataDetector) Detect(text string) []string {
	var hits []string
	for _, re := range d.patterns {
		if re.MatchString(text) {
			hits = append(hits, re.String())
		}
	}
	return hits
}
