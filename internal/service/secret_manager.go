package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"coursefinder/internal/config"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/rs/zerolog"
)

type SecretManagerService interface {
	// AccessSecret reads a secret version. name is either a full resource
	// name or a bare secret id resolved against the configured project.
	AccessSecret(ctx context.Context, name string) (string, error)
	Close() error
}

type secretManagerService struct {
	client    *secretmanager.Client
	projectID string
}

func NewSecretManagerService(ctx context.Context, cfg *config.Config) (SecretManagerService, error) {
	// Secret Manager requires a real GCP project even for local development.
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}

	return &secretManagerService{
		client:    client,
		projectID: cfg.GCPProjectID,
	}, nil
}

func (s *secretManagerService) AccessSecret(ctx context.Context, name string) (string, error) {
	resourceName, err := secretResourceName(s.projectID, name)
	if err != nil {
		return "", err
	}

	result, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: resourceName,
	})
	if err != nil {
		return "", fmt.Errorf("failed to access secret version: %w", err)
	}

	return strings.TrimSpace(string(result.Payload.Data)), nil
}

func (s *secretManagerService) Close() error {
	return s.client.Close()
}

func secretResourceName(projectID, name string) (string, error) {
	if strings.HasPrefix(name, "projects/") {
		if !strings.Contains(name, "/versions/") {
			name += "/versions/latest"
		}
		return name, nil
	}
	if projectID == "" {
		return "", fmt.Errorf("GCP Project ID is required to resolve secret %q", name)
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, name), nil
}

// ResolveSessionSecret picks the session signing secret: Secret Manager when
// SESSION_SECRET_NAME is set, then SESSION_SECRET, then a random per-process
// secret in development.
func ResolveSessionSecret(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (string, error) {
	if cfg.SessionSecretName != "" {
		sm, err := NewSecretManagerService(ctx, cfg)
		if err != nil {
			return "", err
		}
		defer sm.Close()
		secret, err := sm.AccessSecret(ctx, cfg.SessionSecretName)
		if err != nil {
			return "", err
		}
		logger.Info().Msg("Session secret loaded from Secret Manager")
		return secret, nil
	}
	if cfg.SessionSecret != "" {
		return cfg.SessionSecret, nil
	}
	if !cfg.IsDevelopment() {
		return "", fmt.Errorf("SESSION_SECRET or SESSION_SECRET_NAME must be set outside development")
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	logger.Warn().Msg("SESSION_SECRET not set, using a random secret; sessions will not survive restarts")
	return hex.EncodeToString(buf), nil
}
