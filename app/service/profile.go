package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/vibast-solutions/ms-go-contacts/app/dto"
	"github.com/vibast-solutions/ms-go-contacts/app/entity"

	"github.com/google/uuid"
)

const MaxAvatarSize = 5 << 20

type ObjectUploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

type avatarRepository interface {
	UpdateAvatar(ctx context.Context, id uint64, url string) error
}

type ProfileService struct {
	uploader ObjectUploader
	users    avatarRepository
}

func NewProfileService(uploader ObjectUploader, users avatarRepository) *ProfileService {
	return &ProfileService{uploader: uploader, users: users}
}

func (s *ProfileService) UploadAvatar(
	ctx context.Context,
	user *entity.User,
	filename, contentType string,
	body io.Reader,
	size int64,
) (*dto.AvatarResult, error) {
	if size > MaxAvatarSize {
		return nil, ErrFileTooLarge
	}

	key := fmt.Sprintf("avatars/%d/%s%s", user.ID, uuid.NewString(), strings.ToLower(filepath.Ext(filename)))
	url, err := s.uploader.Upload(ctx, key, contentType, body, size)
	if err != nil {
		return nil, err
	}

	if err = s.users.UpdateAvatar(ctx, user.ID, url); err != nil {
		return nil, err
	}
	user.Avatar = sql.NullString{String: url, Valid: true}

	return &dto.AvatarResult{PublicID: key, URL: url}, nil
}
