package identity

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"lingo/apierr"
	"lingo/logger"

	"github.com/go-resty/resty/v2"
)

type profileBody struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
	Email    string `json:"email"`
}

type remoteProfiles struct {
	client *resty.Client
	log    *logger.Logger
}

// NewRemoteProfiles fetches profiles from GET {baseURL}/users/{id} of an external identity service.
func NewRemoteProfiles(baseURL, apiKey string, log *logger.Logger) ProfileSource {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(5 * time.Second).
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	return &remoteProfiles{client: client, log: log.With("service", "RemoteProfiles")}
}

func (p *remoteProfiles) Profile(ctx context.Context, userID string) (*Profile, error) {
	var body profileBody
	resp, err := p.client.R().
		SetContext(ctx).
		SetPathParam("id", userID).
		SetResult(&body).
		ForceContentType("application/json").
		Get("/users/{id}")
	if err != nil {
		return nil, apierr.Transient("identity profile", err)
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, apierr.NotFound("user", userID)
	case resp.StatusCode() != http.StatusOK:
		p.log.Warn("identity service error", "status", resp.StatusCode(), "user_id", userID)
		return nil, apierr.Transient("identity profile", fmt.Errorf("status %d", resp.StatusCode()))
	}
	return &Profile{UserID: userID, Name: body.Name, ImageSrc: body.ImageURL, Email: body.Email}, nil
}
