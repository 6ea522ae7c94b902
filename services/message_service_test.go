package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"sup-api/errors"
	"sup-api/mocks"
	"sup-api/moderation"
	"sup-api/repositories"
)

// fakeIndex records indexed messages and serves canned search results.
type fakeIndex struct {
	indexed map[string]string
	results []string
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{indexed: make(map[string]string)}
}

func (f *fakeIndex) IndexMessage(id, text string) error {
	f.indexed[id] = text
	return nil
}

func (f *fakeIndex) Search(context.Context, string, int) ([]string, error) {
	return f.results, nil
}

func TestMessageService_Send(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockMessages := mocks.NewMockIMessageRepository(ctrl)
	mockUsers := mocks.NewMockIUserRepository(ctrl)

	joe := repositories.User{ID: "joe-id", Username: "joe"}
	alice := repositories.User{ID: "alice-id", Username: "alice"}

	t.Run("should resolve users and persist the message", func(t *testing.T) {
		req := require.New(t)
		index := newFakeIndex()
		svc := NewMessageService(mockMessages, mockUsers, index, nil, slog.Default())

		mockUsers.EXPECT().GetUserByUsername("joe").Return(joe, nil).Times(1)
		mockUsers.EXPECT().GetUserByUsername("alice").Return(alice, nil).Times(1)

		var stored repositories.Message
		mockMessages.EXPECT().
			StoreMessage(gomock.Any()).
			DoAndReturn(func(message repositories.Message) error {
				stored = message
				return nil
			}).
			Times(1)

		id, err := svc.Send("hello alice", "joe", "alice")
		req.NoError(err)
		req.Equal(id, stored.ID)
		req.Equal("joe-id", stored.From)
		req.Equal("alice-id", stored.To)
		req.Equal("hello alice", stored.Text)
		req.Contains(index.indexed, id.String())
	})

	t.Run("should report from before to when both are unknown", func(t *testing.T) {
		req := require.New(t)
		svc := NewMessageService(mockMessages, mockUsers, newFakeIndex(), nil, slog.Default())

		mockUsers.EXPECT().
			GetUserByUsername("ghost").
			Return(repositories.User{}, errors.ErrUserNotFound).
			Times(1)
		// The to lookup must never run once from failed.
		mockMessages.EXPECT().StoreMessage(gomock.Any()).Times(0)

		_, err := svc.Send("boo", "ghost", "phantom")
		req.Error(err)
		req.Equal("Incorrect field value: from", err.Error())
	})

	t.Run("should report an unknown recipient", func(t *testing.T) {
		req := require.New(t)
		svc := NewMessageService(mockMessages, mockUsers, newFakeIndex(), nil, slog.Default())

		mockUsers.EXPECT().GetUserByUsername("joe").Return(joe, nil).Times(1)
		mockUsers.EXPECT().
			GetUserByUsername("phantom").
			Return(repositories.User{}, errors.ErrUserNotFound).
			Times(1)
		mockMessages.EXPECT().StoreMessage(gomock.Any()).Times(0)

		_, err := svc.Send("boo", "joe", "phantom")
		req.Error(err)
		req.Equal("Incorrect field value: to", err.Error())
	})

	t.Run("should censor text before storing", func(t *testing.T) {
		req := require.New(t)
		moderator, err := moderation.NewModerator([]string{"secret"}, '*')
		req.NoError(err)
		svc := NewMessageService(mockMessages, mockUsers, newFakeIndex(), moderator, slog.Default())

		mockUsers.EXPECT().GetUserByUsername("joe").Return(joe, nil).Times(1)
		mockUsers.EXPECT().GetUserByUsername("alice").Return(alice, nil).Times(1)

		var stored repositories.Message
		mockMessages.EXPECT().
			StoreMessage(gomock.Any()).
			DoAndReturn(func(message repositories.Message) error {
				stored = message
				return nil
			}).
			Times(1)

		_, err = svc.Send("this is secret stuff", "joe", "alice")
		req.NoError(err)
		req.Equal("this is ****** stuff", stored.Text)
	})

	t.Run("should detect the language of the uncensored text", func(t *testing.T) {
		req := require.New(t)
		words := []string{"clearly", "english", "sentence", "weather"}
		moderator, err := moderation.NewModerator(words, '*')
		req.NoError(err)
		svc := NewMessageService(mockMessages, mockUsers, newFakeIndex(), moderator, slog.Default())

		mockUsers.EXPECT().GetUserByUsername("joe").Return(joe, nil).Times(1)
		mockUsers.EXPECT().GetUserByUsername("alice").Return(alice, nil).Times(1)

		var stored repositories.Message
		mockMessages.EXPECT().
			StoreMessage(gomock.Any()).
			DoAndReturn(func(message repositories.Message) error {
				stored = message
				return nil
			}).
			Times(1)

		_, err = svc.Send("this is clearly an english sentence about the weather", "joe", "alice")
		req.NoError(err)
		req.Equal("this is ******* an ******* ******** about the *******", stored.Text)
		req.Equal("en", stored.Lang)
	})
}

func TestMessageService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockMessages := mocks.NewMockIMessageRepository(ctrl)
	mockUsers := mocks.NewMockIUserRepository(ctrl)
	svc := NewMessageService(mockMessages, mockUsers, newFakeIndex(), nil, slog.Default())

	joe := repositories.User{ID: "joe-id", Username: "joe"}
	alice := repositories.User{ID: "alice-id", Username: "alice"}
	message := repositories.Message{
		ID:   uuid.New(),
		From: "joe-id",
		To:   "alice-id",
		Text: "hi",
		At:   time.Now().UTC(),
	}

	t.Run("should expand participants for a party", func(t *testing.T) {
		req := require.New(t)
		mockMessages.EXPECT().GetMessageByID(message.ID).Return(message, nil).Times(1)
		mockUsers.EXPECT().GetUserByID("joe-id").Return(joe, nil).Times(1)
		mockUsers.EXPECT().GetUserByID("alice-id").Return(alice, nil).Times(1)

		expanded, err := svc.Get("joe-id", message.ID)
		req.NoError(err)
		req.Equal(joe, expanded.From)
		req.Equal(alice, expanded.To)
	})

	t.Run("should forbid a third party", func(t *testing.T) {
		req := require.New(t)
		mockMessages.EXPECT().GetMessageByID(message.ID).Return(message, nil).Times(1)

		_, err := svc.Get("bob-id", message.ID)
		req.ErrorIs(err, errors.ErrForbidden)
	})

	t.Run("should keep a dangling reference readable", func(t *testing.T) {
		req := require.New(t)
		mockMessages.EXPECT().GetMessageByID(message.ID).Return(message, nil).Times(1)
		mockUsers.EXPECT().
			GetUserByID("joe-id").
			Return(repositories.User{}, errors.ErrUserNotFound).
			Times(1)
		mockUsers.EXPECT().GetUserByID("alice-id").Return(alice, nil).Times(1)

		expanded, err := svc.Get("alice-id", message.ID)
		req.NoError(err)
		req.Equal(repositories.User{ID: "joe-id"}, expanded.From)
	})
}

func TestMessageService_ListFor(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockMessages := mocks.NewMockIMessageRepository(ctrl)
	mockUsers := mocks.NewMockIUserRepository(ctrl)
	svc := NewMessageService(mockMessages, mockUsers, newFakeIndex(), nil, slog.Default())

	joe := repositories.User{ID: "joe-id", Username: "joe"}
	alice := repositories.User{ID: "alice-id", Username: "alice"}
	sent := repositories.Message{ID: uuid.New(), From: "joe-id", To: "alice-id", Text: "hi"}
	received := repositories.Message{ID: uuid.New(), From: "alice-id", To: "joe-id", Text: "hello"}

	t.Run("should narrow by sender", func(t *testing.T) {
		req := require.New(t)
		mockMessages.EXPECT().
			ListForUser("joe-id").
			Return([]repositories.Message{sent, received}, nil).
			Times(1)
		mockUsers.EXPECT().GetUserByID("alice-id").Return(alice, nil).Times(1)
		mockUsers.EXPECT().GetUserByID("joe-id").Return(joe, nil).Times(1)

		expanded, err := svc.ListFor("joe-id", "alice-id", "")
		req.NoError(err)
		req.Len(expanded, 1)
		req.Equal(received.ID, expanded[0].Message.ID)
	})
}

func TestMessageService_Search(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockMessages := mocks.NewMockIMessageRepository(ctrl)
	mockUsers := mocks.NewMockIUserRepository(ctrl)

	joe := repositories.User{ID: "joe-id", Username: "joe"}
	alice := repositories.User{ID: "alice-id", Username: "alice"}
	mine := repositories.Message{ID: uuid.New(), From: "joe-id", To: "alice-id", Text: "deploy at noon"}
	foreign := repositories.Message{ID: uuid.New(), From: "alice-id", To: "bob-id", Text: "deploy later"}

	t.Run("should only surface the caller's messages", func(t *testing.T) {
		req := require.New(t)
		index := newFakeIndex()
		index.results = []string{mine.ID.String(), foreign.ID.String()}
		svc := NewMessageService(mockMessages, mockUsers, index, nil, slog.Default())

		mockMessages.EXPECT().GetMessageByID(mine.ID).Return(mine, nil).Times(1)
		mockMessages.EXPECT().GetMessageByID(foreign.ID).Return(foreign, nil).Times(1)
		mockUsers.EXPECT().GetUserByID("joe-id").Return(joe, nil).Times(1)
		mockUsers.EXPECT().GetUserByID("alice-id").Return(alice, nil).Times(1)

		results, err := svc.Search(context.Background(), "joe-id", "deploy", 10)
		req.NoError(err)
		req.Len(results, 1)
		req.Equal(mine.ID, results[0].Message.ID)
	})
}
