package contentsvc

import (
	"context"
	"fmt"

	"github.com/elimuhq/elimu/core/course"
	"github.com/elimuhq/elimu/core/studyplan"
)

// dummyGenerator produces a fixed-shape topic list; used in dev and tests
// when no API key is configured.
type dummyGenerator struct{}

var _ course.ContentGenerator = (*dummyGenerator)(nil)

func NewDummyGenerator() course.ContentGenerator {
	return &dummyGenerator{}
}

func (dummyGenerator) GenerateTopics(ctx context.Context, title, description string, diff studyplan.Difficulty) ([]studyplan.RawTopic, error) {
	return []studyplan.RawTopic{
		{Title: fmt.Sprintf("Introduction to %s", title)},
		{Title: fmt.Sprintf("Core concepts of %s", title)},
		{Title: fmt.Sprintf("Practical exercises: %s", title)},
		{Title: fmt.Sprintf("Review of %s", title)},
	}, nil
}
