package services

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"messenger-be/apperrors"
	"messenger-be/models"
)

// Usernames shorter than this cannot be searched for, to keep prefix scans
// from matching half the user table.
const MinSearchPrefixLength = 4

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Register creates a user with a bcrypt digest of the password. bcrypt embeds
// a random per-password salt in the digest, so no separate salt column is kept.
func (s *UserService) Register(username, password string, email, about *string) (*models.User, error) {
	var existing models.User
	err := s.db.Select("id").First(&existing, "username = ?", username).Error
	if err == nil {
		return nil, fmt.Errorf("%w: username %q is already taken", apperrors.ErrConflict, username)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}

	user := models.User{
		ID:       uuid.New(),
		Username: username,
		Password: string(digest),
		Email:    email,
		About:    about,
	}
	if err := s.db.Create(&user).Error; err != nil {
		// Unique index backstop for a racing register with the same name.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: username %q is already taken", apperrors.ErrConflict, username)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}
	return &user, nil
}

// Authenticate checks the credentials and returns the matching user. Unknown
// username and wrong password are indistinguishable to the caller.
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrForbidden)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrForbidden)
	}
	return &user, nil
}

func (s *UserService) ChangePassword(userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.FindByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return fmt.Errorf("%w: current password does not match", apperrors.ErrForbidden)
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}

	user.Password = string(digest)
	if err := s.db.Save(user).Error; err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}
	return nil
}

func (s *UserService) UpdateAbout(userID uuid.UUID, about string) error {
	user, err := s.FindByID(userID)
	if err != nil {
		return err
	}
	user.About = &about
	if err := s.db.Save(user).Error; err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}
	return nil
}

// SearchUsers lists users whose username starts with the given prefix.
func (s *UserService) SearchUsers(prefix string) ([]models.User, error) {
	if utf8.RuneCountInString(prefix) < MinSearchPrefixLength {
		return nil, fmt.Errorf("%w: search prefix must be at least %d characters", apperrors.ErrValidation, MinSearchPrefixLength)
	}

	var users []models.User
	err := s.db.
		Where("username LIKE ?", prefix+"%").
		Order("username asc").
		Limit(20).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}
	return users, nil
}

func (s *UserService) FindByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}
	return &user, nil
}
