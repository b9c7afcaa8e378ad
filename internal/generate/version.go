package generate

import (
	"context"

	"pnodev/internal/core/apperror"
	"pnodev/internal/domain/directory"
)

// Version reads the installed plugin version, or fallback when none is stored.
func (s *Service) Version(ctx context.Context, fallback string) (string, error) {
	v, err := s.store.GetOption(ctx, directory.VersionOption)
	if apperror.IsNotFound(err) {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}
