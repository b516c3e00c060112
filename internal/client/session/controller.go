package session

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/chainviewhq/chainview/internal/client/api"
	"github.com/chainviewhq/chainview/internal/client/credstore"
	"github.com/chainviewhq/chainview/internal/client/models"
	"github.com/chainviewhq/chainview/internal/logging"
)

// Config holds the timing parameters of the session controller.
type Config struct {
	// SessionDuration is how long a freshly established session lives
	// before the expiry check terminates it.
	SessionDuration time.Duration

	// CheckInterval is the period of the expiry check.
	CheckInterval time.Duration

	// BootstrapTimeout bounds how long the loading flag may stay up while
	// bootstrap runs.
	BootstrapTimeout time.Duration

	// Policy carries the lockout parameters.
	Policy Policy
}

// DefaultConfig returns the production parameters.
func DefaultConfig() Config {
	return Config{
		SessionDuration:  30 * time.Minute,
		CheckInterval:    time.Minute,
		BootstrapTimeout: 3 * time.Second,
		Policy:           DefaultPolicy(),
	}
}

// Controller is the public session facade. It owns the session state, the
// expiry and lockout timers, and the activity subscription; everything else
// (API client, credential store, logger) is injected.
type Controller struct {
	cfg       Config
	apiClient api.Client
	store     credstore.Store
	log       logging.Logger
	now       func() time.Time
	validate  *validator.Validate
	source    SignalSource

	mu            sync.Mutex
	state         State
	token         string
	loginInFlight bool
	lockoutTimer  *time.Timer
	started       bool

	stopOnce sync.Once
	stopCh   chan struct{}
	watchdog *time.Timer
	wg       sync.WaitGroup
}

// Option customizes a Controller at construction time.
type Option func(*Controller)

// WithNowFunc substitutes the wall clock, for deterministic tests.
func WithNowFunc(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithSignalSource installs the interaction-observer the activity monitor
// subscribes to. Without one, only explicit Touch calls register activity.
func WithSignalSource(src SignalSource) Option {
	return func(c *Controller) { c.source = src }
}

// New constructs a stopped controller. Call Start to bootstrap the session
// and launch the timers.
func New(client api.Client, store credstore.Store, log logging.Logger, cfg Config, opts ...Option) *Controller {
	c := &Controller{
		cfg:       cfg,
		apiClient: client,
		store:     store,
		log:       log,
		now:       time.Now,
		validate:  validator.New(),
		stopCh:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state = State{LastActivity: c.now()}
	return c
}

// Start bootstraps the session from persisted credentials and launches the
// expiry check and the activity monitor. It returns immediately; progress
// is observable through State.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	c.dispatch(SetLoading{Loading: true})

	// The application must never sit on a loading screen because
	// bootstrap hung on the network.
	c.watchdog = time.AfterFunc(c.cfg.BootstrapTimeout, func() {
		c.dispatch(SetLoading{Loading: false})
	})

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.bootstrap(ctx)
	}()

	c.wg.Add(1)
	go c.watchSessionExpiry()

	if c.source != nil {
		c.wg.Add(1)
		go c.watchActivity(c.source)
	}
}

// Stop cancels the timers and subscriptions and waits for the background
// goroutines to drain. The state container must not be dispatched to after
// teardown.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
	if c.watchdog != nil {
		c.watchdog.Stop()
	}
	c.mu.Lock()
	if c.lockoutTimer != nil {
		c.lockoutTimer.Stop()
		c.lockoutTimer = nil
	}
	c.mu.Unlock()
	c.wg.Wait()
}

// dispatch applies one transition atomically against the latest state.
func (c *Controller) dispatch(ev Event) {
	c.mu.Lock()
	c.state = c.cfg.Policy.reduce(c.state, ev)
	c.syncLockoutTimer()
	c.mu.Unlock()
}

// State returns a snapshot of the session state. The embedded user is
// cloned so callers cannot mutate controller-owned data.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.User = s.User.Clone()
	return s
}

// Touch records a user interaction now.
func (c *Controller) Touch() {
	c.dispatch(ActivityTick{At: c.now()})
}

// Login authenticates against the remote service. During an active lockout
// it fails locally with *LockedOutError and no network request is made.
// ErrTwoFactorRequired means the credentials were accepted and the login
// must be completed with ConfirmTwoFactor.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	if err := c.beginLogin(); err != nil {
		return err
	}
	defer c.endLogin()

	c.dispatch(SetLoading{Loading: true})
	defer c.dispatch(SetLoading{Loading: false})

	res, err := c.apiClient.Login(ctx, email, password)
	if err != nil {
		c.recordLoginFailure(ctx, err)
		return err
	}
	if res.RequiresTwoFactor {
		c.dispatch(SetTwoFactorRequired{Required: true})
		return ErrTwoFactorRequired
	}
	return c.completeLogin(ctx, res.AccessToken, res.User)
}

// ConfirmTwoFactor completes a login that stopped at the two-factor gate.
// A rejected code counts as a failed login attempt and can engage the
// lockout like any other failure.
func (c *Controller) ConfirmTwoFactor(ctx context.Context, code string) error {
	c.mu.Lock()
	if !c.state.RequiresTwoFactor {
		c.mu.Unlock()
		return ErrNoTwoFactorPending
	}
	if err := c.lockoutGate(); err != nil {
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	c.dispatch(SetLoading{Loading: true})
	defer c.dispatch(SetLoading{Loading: false})

	res, err := c.apiClient.ConfirmTwoFactor(ctx, code)
	if err != nil {
		c.recordLoginFailure(ctx, err)
		return err
	}
	c.dispatch(SetTwoFactorRequired{Required: false})
	return c.completeLogin(ctx, res.AccessToken, res.User)
}

// Register creates a new account and signs it in. Failures never touch the
// lockout counters.
func (c *Controller) Register(ctx context.Context, email, password, name string) error {
	c.dispatch(SetLoading{Loading: true})
	defer c.dispatch(SetLoading{Loading: false})

	res, err := c.apiClient.Register(ctx, email, password, name)
	if err != nil {
		c.dispatch(SetError{Message: err.Error()})
		return err
	}
	user := normalizeUser(res.User)
	if user == nil {
		err := errors.New("registration response missing user profile")
		c.dispatch(SetError{Message: err.Error()})
		return err
	}
	// A freshly created account is unverified regardless of what the
	// payload claims.
	user.IsVerified = false

	c.persistCredentials(ctx, res.AccessToken, user)
	c.apiClient.SetToken(res.AccessToken)

	expiry := c.now().Add(c.cfg.SessionDuration)
	c.dispatch(SetUser{User: user})
	c.dispatch(SetSessionExpiry{Expiry: &expiry})

	c.mu.Lock()
	c.token = res.AccessToken
	c.mu.Unlock()

	c.log.Info(ctx, "registered", "user_id", user.ID)
	return nil
}

// Logout terminates the session. The remote call is fire-and-forget, its
// errors are only logged; local state and persisted credentials are always
// cleared.
func (c *Controller) Logout(ctx context.Context) {
	if err := c.apiClient.Logout(ctx); err != nil {
		c.log.Warn(ctx, "remote logout failed", "error", err)
	}
	c.clearPersisted(ctx)
	c.apiClient.SetToken("")

	c.dispatch(SetUser{User: nil})
	c.dispatch(SetSessionExpiry{Expiry: nil})
	c.dispatch(SetTwoFactorRequired{Required: false})
	c.dispatch(LoginAttemptSucceeded{})

	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()

	c.log.Info(ctx, "logged out")
}

// RefreshToken reports whether a persisted token exists and is still
// usable. A missing or expired token tears the session down.
func (c *Controller) RefreshToken(ctx context.Context) bool {
	token, err := c.store.Token(ctx)
	if err != nil || token == "" {
		c.Logout(ctx)
		return false
	}
	if !tokenUsable(token, c.now()) {
		c.Logout(ctx)
		return false
	}
	return true
}

// CheckPermission reports whether the authenticated user holds the given
// permission; false while unauthenticated.
func (c *Controller) CheckPermission(perm string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.IsAuthenticated {
		return false
	}
	return c.state.User.HasPermission(perm)
}

// HasRole reports whether the authenticated user carries the role.
func (c *Controller) HasRole(role string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.IsAuthenticated {
		return false
	}
	return c.state.User.HasRole(role)
}

// HasAnyRole reports whether the authenticated user carries at least one
// of the roles.
func (c *Controller) HasAnyRole(roles ...string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.IsAuthenticated {
		return false
	}
	for _, role := range roles {
		if c.state.User.HasRole(role) {
			return true
		}
	}
	return false
}

// ResetPassword requests a password-reset email for the given address.
func (c *Controller) ResetPassword(ctx context.Context, email string) error {
	return c.apiClient.ResetPassword(ctx, email)
}

// ConfirmPasswordReset exchanges a reset token for a new password.
func (c *Controller) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	return c.apiClient.ConfirmPasswordReset(ctx, token, newPassword)
}

// VerifyEmail confirms the address behind the token; on success the user's
// verification flag flips without touching any other field.
func (c *Controller) VerifyEmail(ctx context.Context, token string) error {
	if err := c.apiClient.VerifyEmail(ctx, token); err != nil {
		return err
	}
	verified := true
	c.dispatch(PatchUser{Patch: UserPatch{IsVerified: &verified}})
	c.persistCurrentUser(ctx)
	return nil
}

// Enable2FA starts two-factor enrollment and returns the otpauth URI plus
// backup codes for the user to store.
func (c *Controller) Enable2FA(ctx context.Context) (*api.TwoFactorEnrollment, error) {
	return c.apiClient.Enable2FA(ctx)
}

// Disable2FA turns two-factor auth off, authorized by a current code.
func (c *Controller) Disable2FA(ctx context.Context, code string) error {
	return c.apiClient.Disable2FA(ctx, code)
}

// UpdateUser pushes profile updates to the service and applies the
// refreshed record it returns.
func (c *Controller) UpdateUser(ctx context.Context, updates map[string]any) error {
	raw, err := c.apiClient.UpdateProfile(ctx, updates)
	if err != nil {
		c.dispatch(SetError{Message: err.Error()})
		return err
	}
	if user := normalizeUser(raw); user != nil {
		c.dispatch(SetUser{User: user})
		c.persistCurrentUser(ctx)
	}
	return nil
}

// UpdateSettings pushes account settings to the service.
func (c *Controller) UpdateSettings(ctx context.Context, settings map[string]any) error {
	return c.apiClient.UpdateSettings(ctx, settings)
}

func (c *Controller) beginLogin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.lockoutGate(); err != nil {
		return err
	}
	if c.loginInFlight {
		return ErrLoginInFlight
	}
	c.loginInFlight = true
	return nil
}

func (c *Controller) endLogin() {
	c.mu.Lock()
	c.loginInFlight = false
	c.mu.Unlock()
}

// lockoutGate rejects while the lock is active. Must be called with mu
// held.
func (c *Controller) lockoutGate() error {
	if !c.state.IsLocked || c.state.LockoutExpiry == nil {
		return nil
	}
	now := c.now()
	if !now.Before(*c.state.LockoutExpiry) {
		return nil
	}
	mins := int(math.Ceil(c.state.LockoutExpiry.Sub(now).Minutes()))
	if mins < 1 {
		mins = 1
	}
	return &LockedOutError{RetryAfterMinutes: mins}
}

func (c *Controller) recordLoginFailure(ctx context.Context, cause error) {
	c.dispatch(LoginAttemptFailed{At: c.now()})
	c.dispatch(SetError{Message: cause.Error()})

	st := c.State()
	if st.IsLocked {
		c.log.Warn(ctx, "account locked after repeated login failures", "attempts", st.LoginAttempts)
	} else {
		c.log.Info(ctx, "login failed", "attempts", st.LoginAttempts)
	}
}

// completeLogin establishes the session for a fully authenticated login:
// persist the credential pair, install the bearer token, reset the attempt
// counters, and arm the session deadline.
func (c *Controller) completeLogin(ctx context.Context, token string, raw *api.RawUser) error {
	user := normalizeUser(raw)
	if user == nil {
		err := errors.New("login response missing user profile")
		c.dispatch(SetError{Message: err.Error()})
		return err
	}

	c.persistCredentials(ctx, token, user)
	c.apiClient.SetToken(token)

	expiry := c.now().Add(c.cfg.SessionDuration)
	c.dispatch(LoginAttemptSucceeded{})
	c.dispatch(SetUser{User: user})
	c.dispatch(SetSessionExpiry{Expiry: &expiry})

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	c.log.Info(ctx, "logged in", "user_id", user.ID)
	return nil
}

// persistCredentials writes the token+user pair. Persistence failures are
// logged; the in-memory session stays usable.
func (c *Controller) persistCredentials(ctx context.Context, token string, user *models.User) {
	data, err := json.Marshal(user)
	if err != nil {
		c.log.Error(ctx, "serialize user for persistence", "error", err)
		return
	}
	if err := c.store.Save(ctx, token, data); err != nil {
		c.log.Error(ctx, "persist credentials", "error", err)
	}
}

// persistCurrentUser rewrites the stored pair with the in-memory user.
func (c *Controller) persistCurrentUser(ctx context.Context) {
	c.mu.Lock()
	token := c.token
	user := c.state.User.Clone()
	c.mu.Unlock()

	if token == "" || user == nil {
		return
	}
	c.persistCredentials(ctx, token, user)
}

func (c *Controller) clearPersisted(ctx context.Context) {
	if err := c.store.Clear(ctx); err != nil {
		c.log.Error(ctx, "clear persisted credentials", "error", err)
	}
}

// normalizeUser converts a wire profile into the canonical User record.
// Tier normalization lives here so login, registration, profile load, and
// two-factor completion all share it.
func normalizeUser(raw *api.RawUser) *models.User {
	if raw == nil {
		return nil
	}
	u := &models.User{
		ID:         raw.ID,
		Email:      raw.Email,
		Username:   raw.Username,
		FirstName:  raw.FirstName,
		LastName:   raw.LastName,
		Roles:      append([]string(nil), raw.Roles...),
		Perms:      append([]string(nil), raw.Permissions...),
		IsActive:   raw.IsActive,
		IsVerified: raw.IsVerified,
		CreatedAt:  raw.CreatedAt,
		UpdatedAt:  raw.UpdatedAt,
	}
	if raw.Subscription != nil {
		u.Subscription = &models.Subscription{
			Tier:     models.NormalizeTier(raw.Subscription.Tier),
			Features: append([]string(nil), raw.Subscription.Features...),
		}
	}
	return u
}
