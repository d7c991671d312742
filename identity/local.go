package identity

import (
	"context"

	"lingo/dbctx"
	"lingo/repositories"
)

type localProfiles struct {
	users repositories.UserRepo
}

// NewLocalProfiles reads profiles from the local users table.
func NewLocalProfiles(users repositories.UserRepo) ProfileSource {
	return &localProfiles{users: users}
}

func (p *localProfiles) Profile(ctx context.Context, userID string) (*Profile, error) {
	u, err := p.users.GetByPublicID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{
		UserID:   u.PublicID,
		Name:     u.Name,
		ImageSrc: u.ProfileImage,
		Email:    u.Email,
	}, nil
}
