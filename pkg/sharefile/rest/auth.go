package rest

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// authenticate performs the OAuth2 password grant and returns an HTTP client
// that attaches and refreshes the bearer token, plus the API base URL the
// token response points at.
func authenticate(ctx context.Context, cfg *Config) (*http.Client, string, error) {
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	// The token exchange and later refreshes use the configured base client.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, cfg.HTTPClient)

	token, err := oauthCfg.PasswordCredentialsToken(ctx, cfg.Username, cfg.Password)
	if err != nil {
		return nil, "", fmt.Errorf("rest: authenticate %s: %w", cfg.Username, err)
	}

	base := cfg.BaseURL
	if base == "" {
		subdomain, _ := token.Extra("subdomain").(string)
		apicp, _ := token.Extra("apicp").(string)
		if subdomain == "" || apicp == "" {
			return nil, "", fmt.Errorf("rest: token response carries no subdomain/apicp; set BaseURL")
		}
		base = fmt.Sprintf("https://%s.%s/sf/v3/", subdomain, apicp)
	}

	client := &http.Client{
		Timeout: cfg.HTTPClient.Timeout,
		Transport: &oauth2.Transport{
			Source: oauthCfg.TokenSource(ctx, token),
			Base:   cfg.HTTPClient.Transport,
		},
	}
	return client, base, nil
}
