package generate

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"pnodev/internal/core/apperror"
	"pnodev/internal/domain/directory"
)

// UsersReport lists the users a run created.
type UsersReport struct {
	Created []int64
	Skipped int
}

// Users creates amount users with random credentials. A login collision is
// logged and skipped.
func (s *Service) Users(ctx context.Context, amount int) (UsersReport, error) {
	if amount <= 0 {
		return UsersReport{}, apperror.NewInvalidInput("amount must be positive")
	}
	existing, err := s.store.ListUserIDs(ctx)
	if err != nil {
		return UsersReport{}, fmt.Errorf("list users: %w", err)
	}
	offset := int64(len(existing))

	var report UsersReport
	for i := 0; i < amount; i++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		f := s.source.ForScope("users", offset+int64(i))
		first, last := f.FirstName(), f.LastName()
		login := strings.ToLower(fmt.Sprintf("%s.%s%d", first, last, f.Number(1, 9999)))

		hash, err := bcrypt.GenerateFromPassword([]byte(f.Password(true, true, true, true, false, 16)), s.settings.BcryptCost)
		if err != nil {
			return report, fmt.Errorf("hash password: %w", err)
		}

		id, err := s.store.CreateUser(ctx, directory.User{
			Login:        login,
			Email:        login + "@" + f.DomainName(),
			PasswordHash: string(hash),
			DisplayName:  first + " " + last,
		})
		if err != nil {
			s.log.Warnw("user skipped", "login", login, "error", err)
			report.Skipped++
			continue
		}
		report.Created = append(report.Created, id)
	}

	s.log.Infow("users generated", "created", len(report.Created), "skipped", report.Skipped)
	return report, nil
}
