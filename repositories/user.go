//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	goerrors "errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"sup-api/errors"
)

type IUserRepository interface {
	// CreateUser persists a new user and returns its generated id.
	// Returns errors.ErrUsernameTaken when the username is already indexed.
	CreateUser(username, passwordHash string) (string, error)
	GetUserByID(id string) (User, error)
	GetUserByUsername(username string) (User, error)
	ListUsers() ([]User, error)
	// RenameUser changes the username of an existing user, keeping the
	// username index consistent.
	RenameUser(id, username string) error
	DeleteUser(id string) error
}

// User is the repository-level representation of a user document.
// The password hash never leaves the service layer.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

// userDoc is the JSON document written to disk.
type userDoc struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	CreatedAt    int64  `json:"created_at"`
}

const (
	userDocPrefix   = "user:id:"
	usernamePrefix  = "user:name:"
)

func userKey(id string) []byte       { return []byte(userDocPrefix + id) }
func usernameKey(name string) []byte { return []byte(usernamePrefix + name) }

func (r *UserRepository) CreateUser(username, passwordHash string) (string, error) {
	id := uuid.New().String()
	doc := userDoc{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC().Unix(),
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(usernameKey(username)); err == nil {
			return errors.ErrUsernameTaken
		} else if !goerrors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(usernameKey(username), []byte(id)); err != nil {
			return err
		}
		return txn.Set(userKey(id), data)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *UserRepository) GetUserByID(id string) (User, error) {
	var doc userDoc
	err := r.db.View(func(txn *badger.Txn) error {
		return loadUserDoc(txn, id, &doc)
	})
	if err != nil {
		return User{}, err
	}
	return toUser(doc), nil
}

func (r *UserRepository) GetUserByUsername(username string) (User, error) {
	var doc userDoc
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(usernameKey(username))
		if goerrors.Is(err, badger.ErrKeyNotFound) {
			return errors.ErrUserNotFound
		}
		if err != nil {
			return err
		}
		var id string
		if err := item.Value(func(val []byte) error {
			id = string(val)
			return nil
		}); err != nil {
			return err
		}
		return loadUserDoc(txn, id, &doc)
	})
	if err != nil {
		return User{}, err
	}
	return toUser(doc), nil
}

func (r *UserRepository) ListUsers() ([]User, error) {
	var users []User
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(userDocPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var doc userDoc
				if err := json.Unmarshal(val, &doc); err != nil {
					return err
				}
				users = append(users, toUser(doc))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return users, err
}

func (r *UserRepository) RenameUser(id, username string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		var doc userDoc
		if err := loadUserDoc(txn, id, &doc); err != nil {
			return err
		}
		if doc.Username == username {
			return nil
		}
		if _, err := txn.Get(usernameKey(username)); err == nil {
			return errors.ErrUsernameTaken
		} else if !goerrors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Delete(usernameKey(doc.Username)); err != nil {
			return err
		}
		if err := txn.Set(usernameKey(username), []byte(id)); err != nil {
			return err
		}
		doc.Username = username
		data, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		return txn.Set(userKey(id), data)
	})
}

func (r *UserRepository) DeleteUser(id string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		var doc userDoc
		if err := loadUserDoc(txn, id, &doc); err != nil {
			return err
		}
		if err := txn.Delete(usernameKey(doc.Username)); err != nil {
			return err
		}
		return txn.Delete(userKey(id))
	})
}

func loadUserDoc(txn *badger.Txn, id string, doc *userDoc) error {
	item, err := txn.Get(userKey(id))
	if goerrors.Is(err, badger.ErrKeyNotFound) {
		return errors.ErrUserNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, doc)
	})
}

func toUser(doc userDoc) User {
	return User{
		ID:           doc.ID,
		Username:     doc.Username,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    time.Unix(doc.CreatedAt, 0).UTC(),
	}
}
