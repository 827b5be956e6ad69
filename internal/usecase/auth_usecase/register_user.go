package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// ユーザー作成の入力。Emailは任意。
type RegisterUserInput struct {
	Username string
	Email    string
	Password string
	IsAdmin  bool
}

var (
	// 入力が不正
	ErrUsernameRequired   = errors.New("username required")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password too short")

	// 競合
	ErrUsernameAlreadyExists = errors.New("username already exists")
)

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// RegisterUserUsecase はseedと起動時の管理者作成から使う。公開の会員登録はない。
type RegisterUserUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	clock    Clock
}

// DI
func NewRegisterUserUsecase(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	clock Clock,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo: userRepo,
		hasher:   hasher,
		clock:    clock,
	}
}

func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (model.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return model.User{}, ErrUsernameRequired
	}

	var email *string
	if e := strings.TrimSpace(in.Email); e != "" {
		if _, err := mail.ParseAddress(e); err != nil {
			return model.User{}, ErrInvalidEmailFormat
		}
		email = &e
	}

	// 最小8文字
	if len(in.Password) < 8 {
		return model.User{}, ErrPasswordTooShort
	}

	_, err := u.userRepo.FindByUsername(ctx, username)
	if err == nil {
		return model.User{}, ErrUsernameAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return model.User{}, err
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		IsAdmin:      in.IsAdmin,
		CreatedAt:    u.clock.Now(),
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return model.User{}, err
	}

	safeUser := *user
	safeUser.PasswordHash = ""
	return safeUser, nil
}

// EnsureAdmin は管理者がいなければ作る。既にいれば何もしない。
// 戻り値のcreatedで新規作成かどうか分かる。
func (u *RegisterUserUsecase) EnsureAdmin(ctx context.Context, username, password string) (created bool, err error) {
	_, err = u.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}

	if _, err := u.Execute(ctx, RegisterUserInput{
		Username: username,
		Password: password,
		IsAdmin:  true,
	}); err != nil {
		return false, err
	}
	return true, nil
}

// bcryptハッシュ化
type BcryptPasswordHasher struct {
	cost int
}

// DI
func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost}
}

// bcryptでハッシュ化
func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}

	return string(hashedBytes), nil
}
