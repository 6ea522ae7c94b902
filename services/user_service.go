package services

import (
	"fmt"

	"sup-api/auth"
	"sup-api/errors"
	"sup-api/repositories"
)

type IUserService interface {
	// Signup creates a user from validated input and returns its id.
	Signup(username, password string) (string, error)
	List() ([]repositories.User, error)
	Get(id string) (repositories.User, error)
	// Rename changes the target user's username. Only the owner may do it.
	Rename(callerID, targetID, username string) error
	// Delete removes the target user. Only the owner may do it. Messages
	// referencing the user are left in place.
	Delete(callerID, targetID string) error

	auth.CredentialChecker
}

type UserService struct {
	userRepository repositories.IUserRepository
}

func NewUserService(userRepository repositories.IUserRepository) IUserService {
	return &UserService{userRepository: userRepository}
}

func (s *UserService) Signup(username, password string) (string, error) {
	// Hashing happens here so the repository never sees a plain password.
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}
	return s.userRepository.CreateUser(username, hashedPassword)
}

// Authenticate verifies a username/password pair against the stored hash.
// Both unknown-user and bad-password collapse into ErrUnauthenticated to
// prevent user enumeration.
func (s *UserService) Authenticate(username, password string) (auth.Identity, error) {
	user, err := s.userRepository.GetUserByUsername(username)
	if err != nil {
		return auth.Identity{}, errors.ErrUnauthenticated
	}
	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return auth.Identity{}, errors.ErrUnauthenticated
	}
	return auth.Identity{ID: user.ID, Username: user.Username}, nil
}

// IdentityByID resolves a token subject back to a live user.
func (s *UserService) IdentityByID(id string) (auth.Identity, error) {
	user, err := s.userRepository.GetUserByID(id)
	if err != nil {
		return auth.Identity{}, errors.ErrUnauthenticated
	}
	return auth.Identity{ID: user.ID, Username: user.Username}, nil
}

func (s *UserService) List() ([]repositories.User, error) {
	return s.userRepository.ListUsers()
}

func (s *UserService) Get(id string) (repositories.User, error) {
	return s.userRepository.GetUserByID(id)
}

func (s *UserService) Rename(callerID, targetID, username string) error {
	// Ownership is checked before touching the store, so a non-owner gets
	// 403 even for a target that does not exist.
	if callerID != targetID {
		return errors.ErrForbidden
	}
	return s.userRepository.RenameUser(targetID, username)
}

func (s *UserService) Delete(callerID, targetID string) error {
	if callerID != targetID {
		return errors.ErrForbidden
	}
	return s.userRepository.DeleteUser(targetID)
}
