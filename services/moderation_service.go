package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/goodypm20014-source/hapche-social/models"
)

// Moderator classifies user-generated public content before it is
// committed to shared state.
type Moderator interface {
	Moderate(ctx context.Context, content string) models.ModerationResult
}

// Completer is the slice of ChatClient the moderation service needs.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

const moderationPrompt = `You are a content moderator for a Bulgarian supplement tracking social network app.

Analyze the following content and determine if it should be approved, rejected, or flagged.

Content to moderate:
---
%s
---

Check for:
1. Spam or promotional content
2. Offensive, abusive, or discriminatory language
3. Medical misinformation or dangerous health advice
4. Dangerous supplement recommendations (e.g., excessive dosages)
5. Inappropriate or explicit content
6. Personal information sharing (emails, phone numbers, addresses)

Respond in JSON format:
{
  "approved": true/false,
  "status": "approved" | "rejected" | "flagged",
  "reason": "Brief reason if not approved (in Bulgarian)",
  "confidence": 0.0-1.0
}

- Use "approved" if content is safe and appropriate
- Use "rejected" if content clearly violates guidelines
- Use "flagged" if uncertain and needs human review
- Confidence should be your certainty (0.0 = very uncertain, 1.0 = very certain)`

const failSafeReason = "Автоматична проверка се провали, изисква ръчна проверка"

// minModeratedLength: content shorter than this (in runes) skips the
// classifier and is auto-approved.
const minModeratedLength = 3

var jsonBlockRe = regexp.MustCompile(`\{[\s\S]*\}`)

// ModerationService asks the LLM collaborator for a verdict. Any
// failure (transport, timeout, unparseable reply) fails safe to a
// flagged verdict with zero confidence, never to approved.
type ModerationService struct {
	chat    Completer
	timeout time.Duration
	clock   Clock
	log     *zap.Logger
}

func NewModerationService(chat Completer, timeout time.Duration, clock Clock, log *zap.Logger) *ModerationService {
	return &ModerationService{chat: chat, timeout: timeout, clock: clock, log: log}
}

type moderationVerdict struct {
	Approved   bool    `json:"approved"`
	Status     string  `json:"status"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}

// Moderate classifies one piece of content.
func (m *ModerationService) Moderate(ctx context.Context, content string) models.ModerationResult {
	now := m.clock.Now()

	if utf8.RuneCountInString(strings.TrimSpace(content)) < minModeratedLength {
		return models.ModerationResult{
			Status:     models.ModerationApproved,
			CheckedAt:  now,
			Confidence: 1.0,
		}
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	verdict, err := m.classify(ctx, content)
	if err != nil {
		m.log.Warn("moderation check failed, flagging for manual review", zap.Error(err))
		return models.ModerationResult{
			Status:     models.ModerationFlagged,
			CheckedAt:  now,
			Reason:     failSafeReason,
			Confidence: 0,
		}
	}

	return models.ModerationResult{
		Status:     verdict.Status,
		CheckedAt:  now,
		Reason:     verdict.Reason,
		Confidence: verdict.Confidence,
	}
}

type classified struct {
	Status     models.ModerationStatus
	Reason     string
	Confidence float64
}

func (m *ModerationService) classify(ctx context.Context, content string) (classified, error) {
	reply, err := m.chat.Complete(ctx, fmt.Sprintf(moderationPrompt, content))
	if err != nil {
		return classified{}, err
	}

	block := jsonBlockRe.FindString(reply)
	if block == "" {
		return classified{}, fmt.Errorf("no JSON object in moderation reply")
	}

	var v moderationVerdict
	if err := json.Unmarshal([]byte(block), &v); err != nil {
		return classified{}, fmt.Errorf("invalid moderation reply: %w", err)
	}

	switch models.ModerationStatus(v.Status) {
	case models.ModerationApproved, models.ModerationRejected, models.ModerationFlagged:
	default:
		return classified{}, fmt.Errorf("unknown moderation status %q", v.Status)
	}

	return classified{
		Status:     models.ModerationStatus(v.Status),
		Reason:     v.Reason,
		Confidence: v.Confidence,
	}, nil
}

// ModerateStack checks a stack's name and description together.
func (m *ModerationService) ModerateStack(ctx context.Context, name, description string) models.ModerationResult {
	if description == "" {
		description = "None"
	}
	return m.Moderate(ctx, fmt.Sprintf("Stack Name: %s\nDescription: %s", name, description))
}
