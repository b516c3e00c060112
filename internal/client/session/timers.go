package session

import (
	"context"
	"time"
)

// watchSessionExpiry runs the periodic expiry check until Stop.
func (c *Controller) watchSessionExpiry() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.checkSessionExpiry()
		case <-c.stopCh:
			return
		}
	}
}

// checkSessionExpiry terminates the session once its deadline has passed.
// It only ever acts on an authenticated session with a deadline set.
func (c *Controller) checkSessionExpiry() {
	c.mu.Lock()
	authed := c.state.IsAuthenticated
	expiry := c.state.SessionExpiry
	last := c.state.LastActivity
	c.mu.Unlock()

	if !authed || expiry == nil {
		return
	}
	now := c.now()
	if now.Before(*expiry) {
		return
	}

	ctx := context.Background()
	c.log.Info(ctx, "session expired", "idle", now.Sub(last).String())
	c.Logout(ctx)
}

// syncLockoutTimer keeps exactly one release timer armed for the current
// lockout. Must be called with mu held; dispatch calls it after every
// transition.
func (c *Controller) syncLockoutTimer() {
	if c.lockoutTimer != nil {
		c.lockoutTimer.Stop()
		c.lockoutTimer = nil
	}
	if !c.state.IsLocked || c.state.LockoutExpiry == nil {
		return
	}

	expiry := *c.state.LockoutExpiry
	d := expiry.Sub(c.now())
	if d < 0 {
		d = 0
	}
	c.lockoutTimer = time.AfterFunc(d, func() { c.releaseLockout(expiry) })
}

// releaseLockout clears the lock armed for the given expiry. If the lockout
// was re-armed with a later deadline in the meantime, the stale fire is
// ignored; the newer timer owns the release.
func (c *Controller) releaseLockout(expiry time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.IsLocked || c.state.LockoutExpiry == nil || !c.state.LockoutExpiry.Equal(expiry) {
		return
	}
	c.state = c.cfg.Policy.reduce(c.state, SetLocked{Locked: false})
	c.state.LoginAttempts = 0
	c.lockoutTimer = nil
	c.log.Info(context.Background(), "lockout released")
}
