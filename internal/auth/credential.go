package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// Audience scopes for the two credentialed backends.
const (
	FoundryScope   = "https://ai.azure.com/.default"
	CognitiveScope = "https://cognitiveservices.azure.com/.default"
)

// refreshSlack is how long before expiry a cached token is considered stale.
const refreshSlack = 2 * time.Minute

// TokenSource yields a bearer token for one audience scope.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// AzureTokenSource wraps a TokenCredential and caches the issued token
// until shortly before expiry, so calls do not serialize on the token
// endpoint.
type AzureTokenSource struct {
	cred  azcore.TokenCredential
	scope string

	mu  sync.Mutex
	tok azcore.AccessToken
}

// NewAzureTokenSource builds a source backed by the ambient credential
// chain (environment, workload identity, managed identity, CLI).
func NewAzureTokenSource(scope string) (*AzureTokenSource, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("default azure credential: %w", err)
	}
	return NewTokenSource(cred, scope), nil
}

// NewTokenSource builds a source from an explicit credential.
func NewTokenSource(cred azcore.TokenCredential, scope string) *AzureTokenSource {
	return &AzureTokenSource{cred: cred, scope: scope}
}

func (s *AzureTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tok.Token != "" && time.Until(s.tok.ExpiresOn) > refreshSlack {
		return s.tok.Token, nil
	}

	tok, err := s.cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{s.scope}})
	if err != nil {
		return "", fmt.Errorf("acquire token for %s: %w", s.scope, err)
	}
	s.tok = tok
	return tok.Token, nil
}

// StaticTokenSource returns a fixed token. Test use only.
type StaticTokenSource string

func (s StaticTokenSource) Token(context.Context) (string, error) {
	return string(s), nil
}
