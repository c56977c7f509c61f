package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/driftr-app/driftr-backend/internal/domain"
	"github.com/driftr-app/driftr-backend/internal/observability"
	"github.com/driftr-app/driftr-backend/internal/repository"
)

// Broker fans messages out to live subscribers.
type Broker interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func())
}

// ReadMarker tracks when a user last opened a conversation.
type ReadMarker interface {
	MarkRead(ctx context.Context, matchID, userID string, at time.Time) error
	LastRead(ctx context.Context, matchID, userID string) (time.Time, error)
}

type ChatUseCase struct {
	matchRepo   repository.MatchRepository
	messageRepo repository.MessageRepository
	profileRepo repository.ProfileRepository
	broker      Broker
	readMarker  ReadMarker
	log         *slog.Logger
}

func NewChatUseCase(
	matchRepo repository.MatchRepository,
	messageRepo repository.MessageRepository,
	profileRepo repository.ProfileRepository,
	broker Broker,
	readMarker ReadMarker,
	log *slog.Logger,
) *ChatUseCase {
	return &ChatUseCase{
		matchRepo:   matchRepo,
		messageRepo: messageRepo,
		profileRepo: profileRepo,
		broker:      broker,
		readMarker:  readMarker,
		log:         log,
	}
}

func matchChannel(matchID string) string {
	return "messages:" + matchID
}

// ListMatches returns the user's matches with the other side's profile, the
// latest message, and an unread count. Enrichment is best-effort per match: a
// profile that fails to load drops that match from the list rather than
// failing the whole call.
func (uc *ChatUseCase) ListMatches(ctx context.Context, userID string) ([]domain.MatchWithProfile, error) {
	matches, err := uc.matchRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	result := make([]domain.MatchWithProfile, 0, len(matches))
	for _, match := range matches {
		other, err := uc.profileRepo.GetByID(ctx, match.OtherUser(userID))
		if err != nil {
			uc.log.Warn("skipping match with unloadable profile", "match_id", match.ID, "error", err)
			continue
		}

		enriched := domain.MatchWithProfile{
			Match:        *match,
			OtherProfile: *other,
		}

		if last, err := uc.messageRepo.LastForMatch(ctx, match.ID); err == nil {
			enriched.LastMessage = last
		}

		if uc.readMarker != nil {
			since, err := uc.readMarker.LastRead(ctx, match.ID, userID)
			if err == nil {
				if count, err := uc.messageRepo.UnreadCount(ctx, match.ID, userID, since); err == nil {
					enriched.UnreadCount = count
				}
			}
		}

		result = append(result, enriched)
	}
	return result, nil
}

// Messages returns the conversation history and marks it read.
func (uc *ChatUseCase) Messages(ctx context.Context, matchID, userID string) ([]domain.Message, error) {
	match, err := uc.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasUser(userID) {
		return nil, domain.ErrNotMatchParticipant
	}

	messages, err := uc.messageRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	if uc.readMarker != nil {
		if err := uc.readMarker.MarkRead(ctx, matchID, userID, time.Now()); err != nil {
			uc.log.Warn("failed to mark conversation read", "match_id", matchID, "error", err)
		}
	}
	return messages, nil
}

// SendMessage persists a message and publishes it to live subscribers.
// Publish failure is logged, not returned: the message is already stored and
// will appear on the next history load.
func (uc *ChatUseCase) SendMessage(ctx context.Context, matchID, senderID, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.ErrInvalidInput
	}

	match, err := uc.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasUser(senderID) {
		return nil, domain.ErrNotMatchParticipant
	}

	msg := &domain.Message{
		MatchID:  matchID,
		SenderID: senderID,
		Content:  content,
	}
	if err := uc.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}
	observability.MessagesTotal.Inc()

	if uc.broker != nil {
		payload, err := json.Marshal(msg)
		if err == nil {
			err = uc.broker.Publish(ctx, matchChannel(matchID), payload)
		}
		if err != nil {
			uc.log.Warn("failed to publish message", "match_id", matchID, "error", err)
		}
	}
	return msg, nil
}

// Subscribe streams new messages in the match to the caller. The returned
// cancel func must be called when the consumer goes away.
func (uc *ChatUseCase) Subscribe(ctx context.Context, matchID, userID string) (<-chan []byte, func(), error) {
	match, err := uc.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, nil, err
	}
	if !match.HasUser(userID) {
		return nil, nil, domain.ErrNotMatchParticipant
	}
	if uc.broker == nil {
		return nil, nil, fmt.Errorf("realtime messaging is not configured")
	}

	ch, cancel := uc.broker.Subscribe(ctx, matchChannel(matchID))
	return ch, cancel, nil
}
