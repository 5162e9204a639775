package studyplan

import (
	"encoding/json"
	"testing"
)

func TestNormalizeTopics(t *testing.T) {
	tests := []struct {
		name      string
		raw       RawTopic
		diff      Difficulty
		wantTitle string
		wantHours float64
	}{
		{name: "explicit hours kept", raw: RawTopic{Title: "Goroutines", Hours: 2}, diff: Beginner, wantTitle: "Goroutines", wantHours: 2},
		{name: "title trimmed", raw: RawTopic{Title: "  Channels  ", Hours: 1}, diff: Beginner, wantTitle: "Channels", wantHours: 1},
		{name: "blank title placeholder", raw: RawTopic{Title: "   ", Hours: 1}, diff: Beginner, wantTitle: "Topic 1", wantHours: 1},
		{name: "zero hours estimated", raw: RawTopic{Title: "Slices"}, diff: Advanced, wantTitle: "Slices", wantHours: 3.5},
		{name: "negative hours estimated", raw: RawTopic{Title: "Maps", Hours: -4}, diff: Expert, wantTitle: "Maps", wantHours: 4},
		{name: "unknown difficulty default base", raw: RawTopic{Title: "Strings"}, diff: Difficulty("wizard"), wantTitle: "Strings", wantHours: 2},
		{name: "advanced keyword", raw: RawTopic{Title: "Advanced Algorithms"}, diff: Advanced, wantTitle: "Advanced Algorithms", wantHours: 3.5 * 1.5},
		{name: "practical keyword", raw: RawTopic{Title: "Practical Project Work"}, diff: Intermediate, wantTitle: "Practical Project Work", wantHours: 2.5 * 1.3},
		{name: "core keyword", raw: RawTopic{Title: "Core Principles"}, diff: Intermediate, wantTitle: "Core Principles", wantHours: 2.5 * 1.1},
		{name: "intro keyword", raw: RawTopic{Title: "Introduction to Testing"}, diff: Intermediate, wantTitle: "Introduction to Testing", wantHours: 2.5 * 0.7},
		{name: "review keyword clamped to 1", raw: RawTopic{Title: "Review Session"}, diff: Beginner, wantTitle: "Review Session", wantHours: 1}, // 1.5*0.6=0.9
		{name: "first multiplier wins", raw: RawTopic{Title: "Advanced Review"}, diff: Intermediate, wantTitle: "Advanced Review", wantHours: 2.5 * 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTopics([]RawTopic{tt.raw}, tt.diff)
			if len(got) != 1 {
				t.Fatalf("NormalizeTopics() returned %d topics, want 1", len(got))
			}
			if got[0].Title != tt.wantTitle {
				t.Errorf("Title = %q; want %q", got[0].Title, tt.wantTitle)
			}
			if got[0].Hours != tt.wantHours {
				t.Errorf("Hours = %v; want %v", got[0].Hours, tt.wantHours)
			}
		})
	}
}

func TestNormalizeTopicsAlwaysPositive(t *testing.T) {
	raw := []RawTopic{
		{Title: "A", Hours: 0},
		{Title: "Review of B", Hours: -1},
		{Title: ""},
	}
	for _, diff := range append(Difficulties, Difficulty("")) {
		for _, topic := range NormalizeTopics(raw, diff) {
			if !(topic.Hours > 0) {
				t.Errorf("NormalizeTopics(%q): topic %q has non-positive hours %v", diff, topic.Title, topic.Hours)
			}
		}
	}
}

func TestRawTopicUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    RawTopic
		wantErr bool
	}{
		{name: "plain string", data: `"Interfaces"`, want: RawTopic{Title: "Interfaces"}},
		{name: "object", data: `{"title":"Structs","hours":1.5}`, want: RawTopic{Title: "Structs", Hours: 1.5}},
		{name: "object with name key", data: `{"name":"Embedding"}`, want: RawTopic{Title: "Embedding"}},
		{name: "title wins over name", data: `{"title":"A","name":"B"}`, want: RawTopic{Title: "A"}},
		{name: "invalid", data: `42`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got RawTopic
			err := json.Unmarshal([]byte(tt.data), &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Unmarshal() = %+v; want %+v", got, tt.want)
			}
		})
	}
}
