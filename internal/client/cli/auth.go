package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/chainviewhq/chainview/internal/client/session"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and authenticates through the session
// controller. When the account has two-factor auth enabled, the user is
// immediately prompted for a code; an active lockout is reported with the
// remaining wait.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	err = a.controller.Login(ctx, email, string(password))

	var locked *session.LockedOutError
	switch {
	case err == nil:
		fmt.Println("Logged in.")
		return nil
	case errors.Is(err, session.ErrTwoFactorRequired):
		return a.confirmTwoFactor(ctx)
	case errors.As(err, &locked):
		fmt.Printf("Account locked, retry in %d minute(s).\n", locked.RetryAfterMinutes)
		return err
	default:
		fmt.Println("Login failed:", err)
		return err
	}
}

func (a *App) confirmTwoFactor(ctx context.Context) error {
	code, err := getSimpleText(a.reader, "Enter two-factor code", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.controller.ConfirmTwoFactor(ctx, code); err != nil {
		fmt.Println("Two-factor confirmation failed:", err)
		return err
	}
	fmt.Println("Logged in.")
	return nil
}

// Register prompts for account details and creates a new account. The new
// session is signed in immediately; the account starts unverified.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Enter display name", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.controller.Register(ctx, email, string(password), name); err != nil {
		fmt.Println("Registration failed:", err)
		return err
	}

	fmt.Println("Account created. Check your inbox for a verification link.")
	return nil
}

func (a *App) Logout(ctx context.Context) {
	a.controller.Logout(ctx)
	fmt.Println("Logged out.")
}

// Status prints the session state in one line.
func (a *App) Status() {
	st := a.controller.State()
	switch {
	case st.IsLocked:
		fmt.Println("Locked out until", st.LockoutExpiry.Format("15:04:05"))
	case st.IsAuthenticated:
		fmt.Printf("Logged in as %s, session expires at %s\n",
			st.User.Username, st.SessionExpiry.Format("15:04:05"))
	case st.IsLoading:
		fmt.Println("Working...")
	default:
		fmt.Println("Not logged in.")
	}
	if st.Err != "" {
		fmt.Println("Last error:", st.Err)
	}
}

// Whoami prints the authenticated profile.
func (a *App) Whoami() {
	st := a.controller.State()
	if !st.IsAuthenticated {
		fmt.Println("Not logged in.")
		return
	}
	u := st.User
	fmt.Printf("%s <%s>\n", u.Username, u.Email)
	if u.Subscription != nil {
		fmt.Println("Tier:", u.Subscription.Tier)
	}
	if len(u.Roles) > 0 {
		fmt.Println("Roles:", u.Roles)
	}
	if !u.IsVerified {
		fmt.Println("Email not verified.")
	}
}

// UpdateProfile prompts for a new display name and pushes it.
func (a *App) UpdateProfile(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Println("Not logged in.")
		return nil
	}
	name, err := getSimpleText(a.reader, "Enter new display name", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.controller.UpdateUser(ctx, map[string]any{"firstName": name}); err != nil {
		fmt.Println("Update failed:", err)
		return err
	}
	fmt.Println("Profile updated.")
	return nil
}

// ResetPassword requests a password-reset email.
func (a *App) ResetPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.controller.ResetPassword(ctx, email); err != nil {
		fmt.Println("Reset request failed:", err)
		return err
	}
	fmt.Println("Reset email sent.")
	return nil
}

// VerifyEmail confirms the address with a token from the verification link.
func (a *App) VerifyEmail(ctx context.Context, token string) error {
	if err := a.controller.VerifyEmail(ctx, token); err != nil {
		fmt.Println("Verification failed:", err)
		return err
	}
	fmt.Println("Email verified.")
	return nil
}
