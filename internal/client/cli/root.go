package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	st := a.controller.State()
	switch {
	case st.IsLocked:
		return "(locked)"
	case st.IsAuthenticated:
		return fmt.Sprintf("(%s)", st.User.Username)
	case st.IsLoading:
		return "(...)"
	default:
		return ""
	}
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to ChainView CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("cv %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]
		a.touch()

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: status, whoami, update, 2fa-on, 2fa-off, verify, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, reset, status, exit")
			}

		case "register":
			a.Register(ctx)
		case "login":
			a.Login(ctx)
		case "logout":
			a.Logout(ctx)
		case "status":
			a.Status()
		case "whoami":
			a.Whoami()
		case "update":
			a.UpdateProfile(ctx)
		case "reset":
			a.ResetPassword(ctx)
		case "verify":
			if len(args) == 0 {
				fmt.Println("Usage: verify <token>")
				continue
			}
			a.VerifyEmail(ctx, args[0])
		case "2fa-on":
			a.EnableTwoFactor(ctx)
		case "2fa-off":
			a.DisableTwoFactor(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}

}
