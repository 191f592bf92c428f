package usecase

import (
	"context"
	"strings"

	"app/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type UserUsecase struct {
	users repository.UserRepository
}

func NewUserUsecase(users repository.UserRepository) *UserUsecase {
	return &UserUsecase{users: users}
}

type UpdateMeRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (u *UserUsecase) Me(ctx context.Context, userID int64) (UserDTO, error) {
	if userID <= 0 {
		return UserDTO{}, ErrUnauthorized
	}

	user, err := u.users.FindByID(ctx, userID)
	if err == repository.ErrUserNotFound {
		return UserDTO{}, ErrUnauthorized
	}
	if err != nil {
		return UserDTO{}, ErrInternal
	}

	return toUserDTO(user), nil
}

// 名前と電話だけ更新できる
func (u *UserUsecase) UpdateMe(ctx context.Context, userID int64, req UpdateMeRequest) (UserDTO, error) {
	if userID <= 0 {
		return UserDTO{}, ErrUnauthorized
	}

	user, err := u.users.FindByID(ctx, userID)
	if err == repository.ErrUserNotFound {
		return UserDTO{}, ErrUnauthorized
	}
	if err != nil {
		return UserDTO{}, ErrInternal
	}

	if strings.TrimSpace(req.Name) != "" {
		user.Name = req.Name
	}
	if strings.TrimSpace(req.Phone) != "" {
		user.Phone = req.Phone
	}

	if err := u.users.Update(ctx, user); err != nil {
		return UserDTO{}, ErrInternal
	}

	return toUserDTO(user), nil
}

func (u *UserUsecase) ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) error {
	if userID <= 0 {
		return ErrUnauthorized
	}
	if len(req.NewPassword) < 8 {
		return ErrValidation
	}

	user, err := u.users.FindByID(ctx, userID)
	if err == repository.ErrUserNotFound {
		return ErrUnauthorized
	}
	if err != nil {
		return ErrInternal
	}

	//旧パスワード照合
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrUnauthorized
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrInternal
	}

	user.PasswordHash = string(newHash)
	if err := u.users.Update(ctx, user); err != nil {
		return ErrInternal
	}

	return nil
}
