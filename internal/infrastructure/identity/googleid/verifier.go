package googleid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/indexcol-web/document-chat/internal/core/domain"
	"github.com/indexcol-web/document-chat/internal/core/ports"
)

const defaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// Verifier validates Google ID tokens against the tokeninfo endpoint and
// checks they were issued for this application's client id.
type Verifier struct {
	clientID     string
	tokenInfoURL string
	httpClient   *http.Client
}

type Options struct {
	TokenInfoURL string
	Timeout      time.Duration
}

func New(clientID string) *Verifier {
	return NewWithOptions(clientID, Options{})
}

func NewWithOptions(clientID string, options Options) *Verifier {
	tokenInfoURL := options.TokenInfoURL
	if tokenInfoURL == "" {
		tokenInfoURL = defaultTokenInfoURL
	}
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Verifier{
		clientID:     clientID,
		tokenInfoURL: tokenInfoURL,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

type tokenInfo struct {
	Audience      string `json:"aud"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (v *Verifier) Verify(ctx context.Context, credential string) (ports.Identity, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return ports.Identity{}, domain.WrapError(domain.ErrUnauthorized, "verify credential", errors.New("empty credential"))
	}

	endpoint := v.tokenInfoURL + "?id_token=" + url.QueryEscape(credential)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ports.Identity{}, fmt.Errorf("create tokeninfo request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return ports.Identity{}, domain.WrapError(domain.ErrUpstream, "verify credential", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
		return ports.Identity{}, domain.WrapError(domain.ErrUnauthorized, "verify credential", errors.New("credential rejected"))
	}
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return ports.Identity{}, domain.WrapError(
			domain.ErrUpstream,
			"verify credential",
			fmt.Errorf("tokeninfo status %s: %s", resp.Status, strings.TrimSpace(string(raw))),
		)
	}

	var info tokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return ports.Identity{}, fmt.Errorf("decode tokeninfo response: %w", err)
	}

	if v.clientID != "" && info.Audience != v.clientID {
		return ports.Identity{}, domain.WrapError(domain.ErrUnauthorized, "verify credential", errors.New("audience mismatch"))
	}
	if info.Email == "" {
		return ports.Identity{}, domain.WrapError(domain.ErrUnauthorized, "verify credential", errors.New("token carries no email"))
	}

	return ports.Identity{
		Email:     info.Email,
		Name:      info.Name,
		AvatarURL: info.Picture,
	}, nil
}
