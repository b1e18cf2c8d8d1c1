package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goodypm20014-source/hapche-social/models"
)

// fakeCompleter returns a canned reply and records the prompts it saw.
type fakeCompleter struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestModerator(chat Completer) *ModerationService {
	return NewModerationService(chat, time.Second, newFakeClock(testEpoch), zap.NewNop())
}

func TestModerate_ShortContentBypassesClassifier(t *testing.T) {
	chat := &fakeCompleter{err: fmt.Errorf("should not be called")}
	m := newTestModerator(chat)

	res := m.Moderate(context.Background(), "ок")

	assert.Equal(t, models.ModerationApproved, res.Status)
	assert.Equal(t, 1.0, res.Confidence)
	assert.Empty(t, chat.prompts)
}

func TestModerate_Approved(t *testing.T) {
	chat := &fakeCompleter{reply: `Here is my assessment:
{"approved": true, "status": "approved", "reason": "", "confidence": 0.97}
Let me know if you need anything else.`}
	m := newTestModerator(chat)

	res := m.Moderate(context.Background(), "Приемам витамин D сутрин")

	assert.Equal(t, models.ModerationApproved, res.Status)
	assert.Equal(t, 0.97, res.Confidence)
	assert.Equal(t, testEpoch, res.CheckedAt)
	require.Len(t, chat.prompts, 1)
	assert.Contains(t, chat.prompts[0], "Приемам витамин D сутрин")
}

func TestModerate_Rejected(t *testing.T) {
	chat := &fakeCompleter{reply: `{"approved": false, "status": "rejected", "reason": "Спам съдържание", "confidence": 0.9}`}
	m := newTestModerator(chat)

	res := m.Moderate(context.Background(), "КУПЕТЕ СЕГА!!! eвтини добавки")

	assert.Equal(t, models.ModerationRejected, res.Status)
	assert.Equal(t, "Спам съдържание", res.Reason)
}

func TestModerate_FailsSafeToFlagged(t *testing.T) {
	tests := []struct {
		name string
		chat *fakeCompleter
	}{
		{"transport error", &fakeCompleter{err: fmt.Errorf("connection refused")}},
		{"no JSON in reply", &fakeCompleter{reply: "I cannot help with that."}},
		{"malformed JSON", &fakeCompleter{reply: `{"approved": maybe}`}},
		{"unknown status", &fakeCompleter{reply: `{"approved": true, "status": "ok", "confidence": 1}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModerator(tt.chat)
			res := m.Moderate(context.Background(), "нормално съдържание")

			assert.Equal(t, models.ModerationFlagged, res.Status, "failures must never approve")
			assert.Equal(t, 0.0, res.Confidence)
			assert.Equal(t, "Автоматична проверка се провали, изисква ръчна проверка", res.Reason)
		})
	}
}

func TestModerate_Timeout(t *testing.T) {
	chat := &slowCompleter{delay: 200 * time.Millisecond}
	m := NewModerationService(chat, 10*time.Millisecond, newFakeClock(testEpoch), zap.NewNop())

	res := m.Moderate(context.Background(), "нормално съдържание")

	assert.Equal(t, models.ModerationFlagged, res.Status)
	assert.Equal(t, 0.0, res.Confidence)
}

type slowCompleter struct {
	delay time.Duration
}

func (s *slowCompleter) Complete(ctx context.Context, _ string) (string, error) {
	select {
	case <-time.After(s.delay):
		return `{"status": "approved", "confidence": 1}`, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestModerateStack_PromptShape(t *testing.T) {
	chat := &fakeCompleter{reply: `{"approved": true, "status": "approved", "confidence": 1}`}
	m := newTestModerator(chat)

	m.ModerateStack(context.Background(), "Сутрешен стак", "Витамини за енергия")
	require.Len(t, chat.prompts, 1)
	assert.Contains(t, chat.prompts[0], "Stack Name: Сутрешен стак")
	assert.Contains(t, chat.prompts[0], "Description: Витамини за енергия")

	chat.prompts = nil
	m.ModerateStack(context.Background(), "Сутрешен стак", "")
	require.Len(t, chat.prompts, 1)
	assert.True(t, strings.Contains(chat.prompts[0], "Description: None"), "empty description becomes None")
}
