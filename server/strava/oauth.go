package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

// AuthCodeURL returns the link an athlete follows to grant read access to their activities.
// The Discord user ID travels on the redirect URI so the callback can link both accounts.
func (c *Client) AuthCodeURL(state string, discordUserID string) string {
	opts := []oauth2.AuthCodeOption{
		// Strava wants the scopes comma separated
		oauth2.SetAuthURLParam("scope", strings.Join(c.oauth2Cfg.Scopes, ",")),
		oauth2.SetAuthURLParam("approval_prompt", "force"),
	}
	if discordUserID != "" && c.oauth2Cfg.RedirectURL != "" {
		opts = append(opts, oauth2.SetAuthURLParam("redirect_uri", redirectWithDiscordID(c.oauth2Cfg.RedirectURL, discordUserID)))
	}
	return c.oauth2Cfg.AuthCodeURL(state, opts...)
}

func redirectWithDiscordID(redirectURL string, discordUserID string) string {
	u, err := url.Parse(redirectURL)
	if err != nil {
		return redirectURL
	}
	query := u.Query()
	query.Set("discord_id", discordUserID)
	u.RawQuery = query.Encode()
	return u.String()
}

// Exchange trades an authorization code for a token. Strava usually includes the athlete in
// the token response. When it does not, the returned athlete is nil and callers fetch it
// with GetAthlete.
func (c *Client) Exchange(ctx context.Context, code string) (*oauth2.Token, *Athlete, error) {
	token, err := c.oauth2Cfg.Exchange(c.oauth2Context(ctx), code)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	raw := token.Extra("athlete")
	if raw == nil {
		return token, nil, nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode athlete: %w", err)
	}

	var athlete Athlete
	if err = json.Unmarshal(data, &athlete); err != nil {
		return nil, nil, fmt.Errorf("failed to decode athlete: %w", err)
	}
	if athlete.ID == 0 {
		return token, nil, nil
	}

	return token, &athlete, nil
}

// TokenSource refreshes the token when it expired. Callers persist the token it returns
// when it differs from the stored one.
func (c *Client) TokenSource(ctx context.Context, token *oauth2.Token) oauth2.TokenSource {
	return c.oauth2Cfg.TokenSource(c.oauth2Context(ctx), token)
}

func (c *Client) oauth2Context(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}
