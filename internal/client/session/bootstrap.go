package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chainviewhq/chainview/internal/client/models"
)

// bootstrap restores a previously authenticated session from the credential
// store and re-validates it against the service. Anything questionable, a
// half-written pair, a malformed record, a stale token, a rejected profile
// fetch, clears the store and leaves the client unauthenticated rather than
// trusting local data.
func (c *Controller) bootstrap(ctx context.Context) {
	defer c.dispatch(SetLoading{Loading: false})

	token, err := c.store.Token(ctx)
	if err != nil {
		c.log.Error(ctx, "read persisted token", "error", err)
		return
	}
	data, err := c.store.User(ctx)
	if err != nil {
		c.log.Error(ctx, "read persisted user", "error", err)
		return
	}
	if token == "" && len(data) == 0 {
		return
	}
	if token == "" || len(data) == 0 {
		// Half a credential pair is as good as none.
		c.clearPersisted(ctx)
		return
	}

	var stored models.User
	if err := json.Unmarshal(data, &stored); err != nil {
		c.log.Warn(ctx, "persisted user is malformed, discarding", "error", err)
		c.clearPersisted(ctx)
		return
	}
	if err := c.validate.Struct(&stored); err != nil {
		c.log.Warn(ctx, "persisted user failed validation, discarding", "error", err)
		c.clearPersisted(ctx)
		return
	}
	if !tokenUsable(token, c.now()) {
		c.log.Info(ctx, "persisted token expired, discarding")
		c.clearPersisted(ctx)
		return
	}

	c.apiClient.SetToken(token)
	raw, err := c.apiClient.GetProfile(ctx)
	if err != nil {
		c.log.Warn(ctx, "session re-validation failed, discarding credentials", "error", err)
		c.apiClient.SetToken("")
		c.clearPersisted(ctx)
		return
	}
	user := normalizeUser(raw)
	if user == nil {
		c.apiClient.SetToken("")
		c.clearPersisted(ctx)
		return
	}

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	expiry := c.now().Add(c.cfg.SessionDuration)
	c.dispatch(SetUser{User: user})
	c.dispatch(SetSessionExpiry{Expiry: &expiry})
	// The service may have updated the profile since it was stored.
	c.persistCredentials(ctx, token, user)

	c.log.Info(ctx, "session restored", "user_id", user.ID)
}

// tokenUsable inspects a bearer token locally, without the signing key.
// JWTs with an elapsed exp claim are rejected; opaque tokens pass on
// presence alone and get settled by the profile fetch.
func tokenUsable(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return now.Before(exp.Time)
}
