// Package staff manages user accounts and checks credentials at login.
package staff

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cafe-pos/internal/audit"
	"cafe-pos/internal/auth"
	"cafe-pos/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordRequired   = errors.New("password is required")
	ErrUsernameRequired   = errors.New("username is required")
	ErrInvalidRole        = errors.New("role must be admin or cashier")
	ErrUsernameTaken      = errors.New("username already exists")
)

// Input is a create or update request. An empty Password on update keeps the current one.
type Input struct {
	ID       uint    `json:"id"`
	Username string  `json:"username"`
	Password string  `json:"password"`
	Name     string  `json:"name"`
	Role     string  `json:"role"`
	Salary   float64 `json:"salary"`
}

type Store struct {
	db    *gorm.DB
	audit audit.Recorder
}

func NewStore(db *gorm.DB, rec audit.Recorder) *Store {
	return &Store{db: db, audit: rec}
}

func (s *Store) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Authenticate returns the user when the password matches. Unknown users and
// wrong passwords give the same error.
func (s *Store) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	s.audit.Record(ctx, &auth.Identity{ID: user.ID, Username: user.Username, Name: user.Name, Role: user.Role}, "Login", fmt.Sprintf("User %s logged in", user.Username))
	return &user, nil
}

func (in *Input) validate() error {
	in.Username = strings.TrimSpace(in.Username)
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	if in.Username == "" {
		return ErrUsernameRequired
	}
	if in.Role == "" {
		in.Role = models.RoleCashier
	}
	if in.Role != models.RoleAdmin && in.Role != models.RoleCashier {
		return ErrInvalidRole
	}
	if in.Name == "" {
		in.Name = in.Username
	}
	return nil
}

func mapWriteErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrUsernameTaken
	}
	return err
}

// Save creates the user when ID is zero and updates it otherwise.
func (s *Store) Save(ctx context.Context, actor *auth.Identity, in Input) (*models.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	if in.ID == 0 {
		if in.Password == "" {
			return nil, ErrPasswordRequired
		}
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		user := models.User{Username: in.Username, PasswordHash: hash, Name: in.Name, Role: in.Role, Salary: in.Salary}
		if err := db.Create(&user).Error; err != nil {
			return nil, mapWriteErr(fmt.Errorf("create user: %w", err))
		}
		s.audit.Record(ctx, actor, "Create User", fmt.Sprintf("Created user: %s (%s)", user.Username, user.Role))
		return &user, nil
	}

	var user models.User
	if err := db.First(&user, in.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.Username, user.Name, user.Role, user.Salary = in.Username, in.Name, in.Role, in.Salary
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if err := db.Save(&user).Error; err != nil {
		return nil, mapWriteErr(fmt.Errorf("update user %d: %w", user.ID, err))
	}
	s.audit.Record(ctx, actor, "Update User", "Updated user: "+user.Username)
	return &user, nil
}

func (s *Store) Delete(ctx context.Context, actor *auth.Identity, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	s.audit.Record(ctx, actor, "Delete User", fmt.Sprintf("Deleted user ID: %d", id))
	return nil
}
