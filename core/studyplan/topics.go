package studyplan

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Difficulty drives the hour estimate for topics that come without one.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
	Expert       Difficulty = "expert"
)

var Difficulties = []Difficulty{Beginner, Intermediate, Advanced, Expert}

const defaultBaseHours = 2

var difficultyBaseHours = map[Difficulty]float64{
	Beginner:     1.5,
	Intermediate: 2.5,
	Advanced:     3.5,
	Expert:       4,
}

// keyword multipliers applied to the difficulty base; first match wins
var hourMultipliers = []struct {
	factor   float64
	keywords []string
}{
	{1.5, []string{"advanced", "complex", "architecture", "optimization", "algorithm"}},
	{1.3, []string{"practical", "project", "application", "hands-on", "exercise"}},
	{1.1, []string{"core", "fundamental", "essential", "principle"}},
	{0.7, []string{"introduction", "intro", "overview", "getting started", "basics"}},
	{0.6, []string{"review", "recap", "summary", "revision"}},
}

type (
	// RawTopic is a topic as supplied by the caller; Hours may be 0 to
	// request auto-estimation. It unmarshals from either a JSON string or a
	// {"title": ..., "hours": ...} object, so loosely-shaped input is
	// resolved here and nowhere else.
	RawTopic struct {
		Title string
		Hours float64
	}

	// Topic is a normalized topic; Hours is always > 0.
	Topic struct {
		Title string
		Hours float64
	}
)

func (t *RawTopic) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		t.Title = s
		return nil
	}

	var obj struct {
		Title string  `json:"title"`
		Name  string  `json:"name"`
		Hours float64 `json:"hours"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	t.Title = obj.Title
	if t.Title == "" {
		t.Title = obj.Name
	}
	t.Hours = obj.Hours
	return nil
}

func (t RawTopic) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Title string  `json:"title"`
		Hours float64 `json:"hours"`
	}{t.Title, t.Hours})
}

// NormalizeTopics sanitizes raw topics before packing: titles are trimmed
// (with a placeholder synthesized for blank ones) and missing or
// non-positive hours are estimated from the difficulty base adjusted by
// keyword heuristics on the title, never below 1.
func NormalizeTopics(raw []RawTopic, diff Difficulty) []Topic {
	topics := make([]Topic, 0, len(raw))
	for i, rt := range raw {
		title := strings.TrimSpace(rt.Title)
		if title == "" {
			title = fmt.Sprintf("Topic %d", i+1)
		}

		hours := rt.Hours
		if !(hours > 0) { // catches 0, negatives and NaN
			hours = estimateHours(title, diff)
		}
		topics = append(topics, Topic{Title: title, Hours: hours})
	}
	return topics
}

func estimateHours(title string, diff Difficulty) float64 {
	base, ok := difficultyBaseHours[diff]
	if !ok {
		base = defaultBaseHours
	}

	hours := base
	lower := strings.ToLower(title)
	for _, m := range hourMultipliers {
		if containsAny(lower, m.keywords) {
			hours = base * m.factor
			break
		}
	}

	if hours < 1 {
		hours = 1
	}
	return hours
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
