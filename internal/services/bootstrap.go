package services

import (
	"context"
	"errors"
)

const AdminUsername = "admin"

// EnsureAdmin создает учетную запись admin с паролем по умолчанию, если ее нет.
// Пароль по умолчанию известен всем: перед реальным деплоем его нужно сменить через ADMIN_PASSWORD.
func (s *UserService) EnsureAdmin(ctx context.Context, password string) (bool, error) {
	existing, err := s.GetUser(ctx, AdminUsername)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	if _, err := s.CreateUser(ctx, AdminUsername, password); err != nil {
		// параллельный старт другого инстанса успел раньше
		if errors.Is(err, ErrDuplicateUsername) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
