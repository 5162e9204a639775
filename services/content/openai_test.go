package contentsvc

import (
	"context"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/elimuhq/elimu/core/studyplan"
)

func TestParseTopics(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []studyplan.RawTopic
		wantErr bool
	}{
		{
			name:    "plain array",
			content: `[{"title": "Syntax", "hours": 2}, {"title": "Slices"}]`,
			want:    []studyplan.RawTopic{{Title: "Syntax", Hours: 2}, {Title: "Slices"}},
		},
		{
			name:    "string items",
			content: `["Syntax", "Slices"]`,
			want:    []studyplan.RawTopic{{Title: "Syntax"}, {Title: "Slices"}},
		},
		{
			name:    "code fence and prose around the array",
			content: "Here you go:\n```json\n[{\"title\": \"Syntax\", \"hours\": 1}]\n```",
			want:    []studyplan.RawTopic{{Title: "Syntax", Hours: 1}},
		},
		{
			name:    "blank titles are dropped",
			content: `[{"title": "  "}, {"title": "Maps"}]`,
			want:    []studyplan.RawTopic{{Title: "Maps"}},
		},
		{
			name:    "not json",
			content: "I cannot help with that.",
			wantErr: true,
		},
		{
			name:    "only blank titles",
			content: `[{"title": ""}]`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTopics(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d topics, got %+v", len(tt.want), got)
			}
			for i, topic := range got {
				if topic != tt.want[i] {
					t.Errorf("topic %d: expected %+v, got %+v", i, tt.want[i], topic)
				}
			}
		})
	}
}

type fakeChatClient struct {
	content string
	err     error
	lastReq openai.ChatCompletionRequest
}

func (c *fakeChatClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	c.lastReq = req
	if c.err != nil {
		return openai.ChatCompletionResponse{}, c.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: c.content}},
		},
	}, nil
}

func TestOpenAIGenerateTopics(t *testing.T) {
	client := &fakeChatClient{content: `[{"title": "Goroutines", "hours": 3}]`}
	gen := &openaiGenerator{client: client, model: defaultModel}

	topics, err := gen.GenerateTopics(context.Background(), "Concurrency in Go", "channels and sync", studyplan.Advanced)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(topics) != 1 || topics[0].Title != "Goroutines" || topics[0].Hours != 3 {
		t.Errorf("unexpected topics %+v", topics)
	}
	if client.lastReq.Model != defaultModel {
		t.Errorf("unexpected model %q", client.lastReq.Model)
	}
	if len(client.lastReq.Messages) != 2 {
		t.Fatalf("expected system + user messages, got %d", len(client.lastReq.Messages))
	}
}
