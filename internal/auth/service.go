package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DaniilYevlanov/serverwok/internal/config"
	"github.com/DaniilYevlanov/serverwok/internal/models"
	"github.com/DaniilYevlanov/serverwok/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrUserExists means the username is already registered.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials covers both an unknown user and a wrong
	// password; callers must not tell the two apart in responses.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrEmptyField means username or password was blank.
	ErrEmptyField = errors.New("username and password are required")
)

// Service handles registration and login. Registration creates the user
// together with their ten incomplete levels in one transaction; login
// verifies the bcrypt hash and issues a signed session token.
type Service struct {
	db         *gorm.DB
	jwt        config.JWTConfig
	bcryptCost int
}

func NewService(db *gorm.DB, jwtCfg config.JWTConfig, bcryptCost int) *Service {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		db:         db,
		jwt:        jwtCfg,
		bcryptCost: bcryptCost,
	}
}

// Register creates a new user with all levels incomplete and a
// locale-formatted registration date.
func (s *Service) Register(username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrEmptyField
	}

	var count int64
	if err := s.db.Model(&models.User{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if count > 0 {
		return ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username:         username,
		PasswordHash:     string(hash),
		RegistrationDate: time.Now().Format("02.01.2006"),
		Levels:           models.DefaultLevels(),
	}
	// Create inserts the user and all ten level rows in one transaction
	if err := s.db.Create(&user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Login checks the password and returns a signed session token embedding
// the username.
func (s *Service) Login(username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	ttl := time.Duration(s.jwt.ExpireHours) * time.Hour
	token, err := util.GenerateToken(s.jwt.Secret, s.jwt.Issuer, user.Username, ttl)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}
