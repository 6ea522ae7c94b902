package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sup-api/errors"
	"sup-api/moderation"
	"sup-api/repositories"
)

// MessageIndex is the full-text index the message service writes to.
// Satisfied by *search.Index.
type MessageIndex interface {
	IndexMessage(id, text string) error
	Search(ctx context.Context, terms string, limit int) ([]string, error)
}

// ExpandedMessage pairs a message with its resolved sender and recipient for
// serialization. A dangling reference (deleted user) leaves the corresponding
// User with only its id set.
type ExpandedMessage struct {
	Message repositories.Message
	From    repositories.User
	To      repositories.User
}

type IMessageService interface {
	// Send runs the creation pipeline: resolve from, then to, moderate,
	// persist, index. The first unresolved username aborts the chain.
	Send(text, from, to string) (uuid.UUID, error)
	// ListFor returns the caller's messages, optionally narrowed to a
	// sender id and/or recipient id.
	ListFor(callerID, fromID, toID string) ([]ExpandedMessage, error)
	// Get returns a message readable by the caller, who must be its
	// sender or recipient.
	Get(callerID string, id uuid.UUID) (ExpandedMessage, error)
	// Search finds the caller's messages matching the given terms.
	Search(ctx context.Context, callerID, terms string, limit int) ([]ExpandedMessage, error)
}

type MessageService struct {
	messageRepository repositories.IMessageRepository
	userRepository    repositories.IUserRepository
	index             MessageIndex
	moderator         *moderation.Moderator
	log               *slog.Logger
}

func NewMessageService(
	messageRepository repositories.IMessageRepository,
	userRepository repositories.IUserRepository,
	index MessageIndex,
	moderator *moderation.Moderator,
	log *slog.Logger,
) IMessageService {
	return &MessageService{
		messageRepository: messageRepository,
		userRepository:    userRepository,
		index:             index,
		moderator:         moderator,
		log:               log,
	}
}

func (s *MessageService) Send(text, from, to string) (uuid.UUID, error) {
	// The from lookup always runs first: when both usernames are unknown
	// the reported error names from.
	sender, err := s.resolve(from, "from")
	if err != nil {
		return uuid.Nil, err
	}
	recipient, err := s.resolve(to, "to")
	if err != nil {
		return uuid.Nil, err
	}

	// Detection runs on the original text: masked runs carry no language
	// signal.
	lang := moderation.DetectLanguage(text)
	if s.moderator != nil {
		text = s.moderator.Censor(text)
	}

	message := repositories.Message{
		ID:   uuid.New(),
		From: sender.ID,
		To:   recipient.ID,
		Text: text,
		Lang: lang,
		At:   time.Now().UTC(),
	}
	if err := s.messageRepository.StoreMessage(message); err != nil {
		return uuid.Nil, err
	}

	// Indexing failure must not undo a stored message.
	if s.index != nil {
		if err := s.index.IndexMessage(message.ID.String(), message.Text); err != nil {
			s.log.Warn("Indexing message failed", "id", message.ID, "err", err)
		}
	}
	return message.ID, nil
}

func (s *MessageService) resolve(username, field string) (repositories.User, error) {
	user, err := s.userRepository.GetUserByUsername(username)
	if err != nil {
		return repositories.User{}, errors.NewValidation("Incorrect field value", field)
	}
	return user, nil
}

func (s *MessageService) ListFor(callerID, fromID, toID string) ([]ExpandedMessage, error) {
	messages, err := s.messageRepository.ListForUser(callerID)
	if err != nil {
		return nil, err
	}

	expanded := make([]ExpandedMessage, 0, len(messages))
	for _, message := range messages {
		if fromID != "" && message.From != fromID {
			continue
		}
		if toID != "" && message.To != toID {
			continue
		}
		expanded = append(expanded, s.expand(message))
	}
	return expanded, nil
}

func (s *MessageService) Get(callerID string, id uuid.UUID) (ExpandedMessage, error) {
	message, err := s.messageRepository.GetMessageByID(id)
	if err != nil {
		return ExpandedMessage{}, err
	}
	if message.From != callerID && message.To != callerID {
		return ExpandedMessage{}, errors.ErrForbidden
	}
	return s.expand(message), nil
}

func (s *MessageService) Search(ctx context.Context, callerID, terms string, limit int) ([]ExpandedMessage, error) {
	ids, err := s.index.Search(ctx, terms, limit)
	if err != nil {
		return nil, err
	}

	var results []ExpandedMessage
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		message, err := s.messageRepository.GetMessageByID(id)
		if err != nil {
			// The index may briefly trail the store.
			continue
		}
		if message.From != callerID && message.To != callerID {
			continue
		}
		results = append(results, s.expand(message))
	}
	return results, nil
}

// expand resolves user references best-effort: a deleted participant keeps
// its id so the message remains readable.
func (s *MessageService) expand(message repositories.Message) ExpandedMessage {
	from, err := s.userRepository.GetUserByID(message.From)
	if err != nil {
		from = repositories.User{ID: message.From}
	}
	to, err := s.userRepository.GetUserByID(message.To)
	if err != nil {
		to = repositories.User{ID: message.To}
	}
	return ExpandedMessage{Message: message, From: from, To: to}
}
