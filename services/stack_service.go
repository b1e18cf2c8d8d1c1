package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goodypm20014-source/hapche-social/models"
)

// ModerationRejectedError aborts a commit and carries the classifier's
// reason for the user.
type ModerationRejectedError struct {
	Reason string
}

func (e *ModerationRejectedError) Error() string {
	return fmt.Sprintf("content rejected by moderation: %s", e.Reason)
}

// StackService orchestrates stack creation: moderation gate first, then
// the optional compatibility analysis, then the store commit.
type StackService struct {
	store     *Store
	moderator *ModerationService
	chat      Completer
	log       *zap.Logger
}

func NewStackService(store *Store, moderator *ModerationService, chat Completer, log *zap.Logger) *StackService {
	return &StackService{store: store, moderator: moderator, chat: chat, log: log}
}

// StackInput is the creation payload.
type StackInput struct {
	Name        string
	Description string
	Category    string
	Supplements []string
	Reminders   []models.StackReminder
	IsPublic    bool
}

// CreateStack runs the moderated creation flow. A rejected verdict
// aborts with ModerationRejectedError and nothing is committed; a
// flagged verdict commits the stack with the record attached, hidden
// from other users' feeds until review.
func (s *StackService) CreateStack(ctx context.Context, in StackInput) (models.Stack, error) {
	if !CanAccessStacks(s.store.EffectiveTier()) {
		return models.Stack{}, ErrTierInsufficient
	}

	verdict := s.moderator.ModerateStack(ctx, in.Name, in.Description)
	if verdict.Status == models.ModerationRejected {
		return models.Stack{}, &ModerationRejectedError{Reason: verdict.Reason}
	}

	u := s.store.User()
	stack := models.Stack{
		ID:            s.store.ids.NewID(),
		Name:          in.Name,
		Description:   in.Description,
		Category:      in.Category,
		Supplements:   in.Supplements,
		Reminders:     in.Reminders,
		IsPublic:      in.IsPublic,
		CreatedBy:     u.ID,
		CreatedByName: u.Name,
		Likes:         []string{},
		Comments:      []models.StackComment{},
		Followers:     []string{},
		CreatedAt:     s.store.clock.Now(),
		Moderation:    &verdict,
	}

	if analysis := s.analyzeCompatibility(ctx, in.Supplements); analysis != nil {
		stack.AIAnalysis = analysis
	}

	if !s.store.AddStack(stack) {
		return models.Stack{}, ErrTierInsufficient
	}
	return stack, nil
}

// CommentOnStack moderates and appends a comment. The append itself
// never rejects; only the moderation precondition can.
func (s *StackService) CommentOnStack(ctx context.Context, stackID, text string) (models.StackComment, error) {
	verdict := s.moderator.Moderate(ctx, text)
	if verdict.Status == models.ModerationRejected {
		return models.StackComment{}, &ModerationRejectedError{Reason: verdict.Reason}
	}

	u := s.store.User()
	comment, ok := s.store.AddStackComment(stackID, u.ID, u.Name, text, &verdict)
	if !ok {
		return models.StackComment{}, fmt.Errorf("stack %s not found", stackID)
	}
	return comment, nil
}

const compatibilityPrompt = `You are a supplement interaction checker. Assess how well these supplements combine when taken together:

%s

Respond with JSON only:
{
  "compatibility": 0-100,
  "warnings": ["..."],
  "recommendations": ["..."]
}`

// analyzeCompatibility asks the chat collaborator for a combination
// verdict. Best-effort: on any failure the stack simply carries no
// analysis.
func (s *StackService) analyzeCompatibility(ctx context.Context, supplements []string) *models.CompatibilityAnalysis {
	if s.chat == nil || len(supplements) < 2 {
		return nil
	}

	reply, err := s.chat.Complete(ctx, fmt.Sprintf(compatibilityPrompt, strings.Join(supplements, ", ")))
	if err != nil {
		s.log.Warn("compatibility analysis failed", zap.Error(err))
		return nil
	}
	block := jsonBlockRe.FindString(reply)
	if block == "" {
		s.log.Warn("compatibility reply had no JSON object")
		return nil
	}
	var a models.CompatibilityAnalysis
	if err := json.Unmarshal([]byte(block), &a); err != nil {
		s.log.Warn("compatibility reply unparseable", zap.Error(err))
		return nil
	}
	if a.Compatibility < 0 || a.Compatibility > 100 {
		return nil
	}
	return &a
}

// VisibleComments filters a stack's comments for a viewer: flagged
// comments stay visible to their own author, hidden from everyone else.
func VisibleComments(stack models.Stack, viewerID string) []models.StackComment {
	out := make([]models.StackComment, 0, len(stack.Comments))
	for _, c := range stack.Comments {
		if c.UserID == viewerID || models.IsContentVisible(c.Moderation) {
			out = append(out, c)
		}
	}
	return out
}
