//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	goerrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"sup-api/errors"
)

type IMessageRepository interface {
	StoreMessage(message Message) error
	GetMessageByID(id uuid.UUID) (Message, error)
	// ListForUser returns the messages where the user is sender or
	// recipient, in creation order.
	ListForUser(userID string) ([]Message, error)
}

// Message is the repository-level representation of a message document.
// From and To hold user ids; resolution to usernames happens upstream.
type Message struct {
	ID   uuid.UUID
	From string
	To   string
	Text string
	Lang string
	At   time.Time
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) IMessageRepository {
	return &MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

type messageDoc struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
	Lang string `json:"lang,omitempty"`
	At   int64  `json:"at"`
}

const messageDocPrefix = "msg:id:"

func messageKey(id string) []byte { return []byte(messageDocPrefix + id) }

// partyKey indexes a message under one participant. The 19-digit zero-padded
// nanosecond timestamp keeps prefix scans in chronological order; the message
// id disambiguates two messages stored in the same nanosecond.
func partyKey(userID string, at time.Time, id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("msg:party:%s:%019d:%s", userID, at.UnixNano(), id))
}

func partyPrefix(userID string) []byte {
	return []byte(fmt.Sprintf("msg:party:%s:", userID))
}

// StoreMessage writes the message document plus one index entry per
// participant. A message to oneself gets a single index entry.
func (r *MessageRepository) StoreMessage(message Message) error {
	data, err := json.Marshal(fromMessage(message))
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(messageKey(message.ID.String()), data); err != nil {
			return err
		}
		idValue := []byte(message.ID.String())
		if err := txn.Set(partyKey(message.From, message.At, message.ID), idValue); err != nil {
			return err
		}
		if message.To == message.From {
			return nil
		}
		return txn.Set(partyKey(message.To, message.At, message.ID), idValue)
	})
}

func (r *MessageRepository) GetMessageByID(id uuid.UUID) (Message, error) {
	var doc messageDoc
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(messageKey(id.String()))
		if goerrors.Is(err, badger.ErrKeyNotFound) {
			return errors.ErrMessageNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		})
	})
	if err != nil {
		return Message{}, err
	}
	return toMessage(doc)
}

func (r *MessageRepository) ListForUser(userID string) ([]Message, error) {
	var docs []messageDoc
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := partyPrefix(userID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if r.limitMessages != nil && len(docs) == *r.limitMessages {
				r.log.Debug(fmt.Sprintf("Maximum of %d messages reached", *r.limitMessages))
				break
			}
			var id string
			err := it.Item().Value(func(val []byte) error {
				id = string(val)
				return nil
			})
			if err != nil {
				return err
			}
			item, err := txn.Get(messageKey(id))
			if err != nil {
				return err
			}
			err = item.Value(func(val []byte) error {
				var doc messageDoc
				if err := json.Unmarshal(val, &doc); err != nil {
					return err
				}
				docs = append(docs, doc)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	messages := make([]Message, 0, len(docs))
	for _, doc := range docs {
		message, err := toMessage(doc)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}

func fromMessage(message Message) messageDoc {
	return messageDoc{
		ID:   message.ID.String(),
		From: message.From,
		To:   message.To,
		Text: message.Text,
		Lang: message.Lang,
		At:   message.At.UnixNano(),
	}
}

func toMessage(doc messageDoc) (Message, error) {
	parsedID, err := uuid.Parse(doc.ID)
	if err != nil {
		return Message{}, err
	}
	return Message{
		ID:   parsedID,
		From: doc.From,
		To:   doc.To,
		Text: doc.Text,
		Lang: doc.Lang,
		At:   time.Unix(0, doc.At).UTC(),
	}, nil
}
