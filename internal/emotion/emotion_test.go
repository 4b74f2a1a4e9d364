package emotion

import (
	"context"
	"errors"
	"testing"

	"github.com/bowerhall/vera/internal/llm"
)

type fakeLLM struct {
	reply string
	err   error
}

func (f *fakeLLM) Chat(ctx context.Context, system string, messages []llm.Message) (string, error) {
	return f.reply, f.err
}

func TestClassifyValidLabel(t *testing.T) {
	c := NewClassifier(&fakeLLM{reply: "tired"})

	if got := c.Classify(context.Background(), "so exhausted after overtime"); got != "tired" {
		t.Errorf("expected tired, got %s", got)
	}
}

func TestClassifyExtractsLabelFromChattyReply(t *testing.T) {
	c := NewClassifier(&fakeLLM{reply: "The user sounds quite anxious here."})

	if got := c.Classify(context.Background(), "what if the demo fails tomorrow"); got != "anxious" {
		t.Errorf("expected anxious, got %s", got)
	}
}

func TestClassifyUnknownFallsBack(t *testing.T) {
	c := NewClassifier(&fakeLLM{reply: "bewildered"})

	if got := c.Classify(context.Background(), "hmm"); got != "normal" {
		t.Errorf("expected normal fallback, got %s", got)
	}
}

func TestClassifyErrorFallsBack(t *testing.T) {
	c := NewClassifier(&fakeLLM{err: errors.New("provider down")})

	if got := c.Classify(context.Background(), "hello"); got != "normal" {
		t.Errorf("expected normal on error, got %s", got)
	}
}

func TestClassifyNilModel(t *testing.T) {
	c := NewClassifier(nil)

	if got := c.Classify(context.Background(), "hello"); got != "normal" {
		t.Errorf("expected normal without a model, got %s", got)
	}
}
