package generation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/kathalab/lesson-api/internal/domain"
	"github.com/kathalab/lesson-api/internal/prompt"
)

var (
	openingFence = regexp.MustCompile("^```[A-Za-z0-9_+-]*[ \t]*\r?\n?")
	closingFence = regexp.MustCompile("\r?\n?[ \t]*```$")
)

// ParseReport records the repairs made while parsing a lesson plan.
type ParseReport struct {
	// UnknownKeys are top-level keys the model returned outside the schema.
	// They are dropped from the plan.
	UnknownKeys []string
}

// StripFences removes markdown code fences and surrounding whitespace from a
// model response. It repeats until nothing changes, so it is idempotent.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	for {
		next := openingFence.ReplaceAllString(s, "")
		next = closingFence.ReplaceAllString(next, "")
		next = strings.TrimSpace(next)
		if next == s {
			return s
		}
		s = next
	}
}

// ParseLessonPlan converts raw model output into a normalized, validated lesson
// plan. Any failure wraps ErrMalformedResponse.
func ParseLessonPlan(raw string) (*domain.LessonPlan, ParseReport, error) {
	var report ParseReport

	body := StripFences(raw)
	if body == "" {
		return nil, report, fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return nil, report, fmt.Errorf("%w: response is not a JSON object: %v", ErrMalformedResponse, err)
	}
	if fields == nil {
		return nil, report, fmt.Errorf("%w: response is not a JSON object", ErrMalformedResponse)
	}

	report.UnknownKeys = unknownKeys(fields)

	var plan domain.LessonPlan
	if err := json.Unmarshal([]byte(body), &plan); err != nil {
		return nil, report, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	plan.Normalize()
	if err := plan.Validate(); err != nil {
		return nil, report, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return &plan, report, nil
}

func unknownKeys(fields map[string]json.RawMessage) []string {
	known := make(map[string]struct{}, len(fields))
	for _, k := range prompt.Keys() {
		known[k] = struct{}{}
	}

	var unknown []string
	for k := range fields {
		if _, ok := known[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	return unknown
}
