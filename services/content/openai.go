// Package contentsvc provides course content generators backed by LLM APIs.
package contentsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"

	"github.com/elimuhq/elimu/core"
	"github.com/elimuhq/elimu/core/course"
	"github.com/elimuhq/elimu/core/studyplan"
)

const (
	defaultModel = openai.GPT3Dot5Turbo
	maxTopics    = 30

	systemPrompt = "You are a curriculum designer. Respond only with a JSON array of topic " +
		"objects of the form {\"title\": string, \"hours\": number}. Do not wrap the " +
		"array in prose or code fences."
)

// chatClient is the slice of the OpenAI API we use; satisfied by *openai.Client.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type openaiGenerator struct {
	client chatClient
	model  string
}

var _ course.ContentGenerator = (*openaiGenerator)(nil)

func NewOpenAIGenerator(conf *core.Config) course.ContentGenerator {
	model := conf.OpenAI.Model
	if model == "" {
		model = defaultModel
	}
	return &openaiGenerator{
		client: openai.NewClient(conf.OpenAI.APIKey),
		model:  model,
	}
}

func (gen *openaiGenerator) GenerateTopics(ctx context.Context, title, description string, diff studyplan.Difficulty) ([]studyplan.RawTopic, error) {
	prompt := fmt.Sprintf("Design a %s-level topic list for a course titled %q.", diff, title)
	if description != "" {
		prompt += " Course description: " + description
	}
	prompt += fmt.Sprintf(" Return at most %d topics in study order.", maxTopics)

	res, err := gen.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: gen.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "requesting topic list")
	}
	if len(res.Choices) == 0 {
		return nil, errors.New("empty completion response")
	}

	topics, err := parseTopics(res.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	if len(topics) > maxTopics {
		topics = topics[:maxTopics]
	}
	return topics, nil
}

// parseTopics decodes the model output; stray prose and code fences around
// the JSON array are tolerated.
func parseTopics(content string) ([]studyplan.RawTopic, error) {
	content = strings.TrimSpace(content)
	if start, end := strings.Index(content, "["), strings.LastIndex(content, "]"); start >= 0 && end > start {
		content = content[start : end+1]
	}

	var topics []studyplan.RawTopic
	if err := json.Unmarshal([]byte(content), &topics); err != nil {
		return nil, errors.Wrap(err, "decoding topic list")
	}

	clean := topics[:0]
	for _, t := range topics {
		if strings.TrimSpace(t.Title) == "" {
			continue
		}
		clean = append(clean, t)
	}
	if len(clean) == 0 {
		return nil, errors.New("no usable topics in completion response")
	}
	return clean, nil
}
