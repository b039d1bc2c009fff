package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"civic-cli/internal/model"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCmd(app *App) *cobra.Command {
	var username string
	var password string
	var withSession bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closer, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closer()

			u := strings.TrimSpace(username)
			if u == "" {
				return writeErr(cmd, errors.New("missing --username"))
			}
			pw := password
			if pw == "" {
				pw, err = promptPassword(cmd, "Password: ")
				if err != nil {
					return writeErr(cmd, err)
				}
			}

			// The cookie channel backs the server-rendered pages; it is
			// established first so its CSRF cookie covers any follow-up
			// POST in this process.
			var role model.Role
			if withSession {
				role, err = c.SessionLogin(cmd.Context(), u, pw)
				if err != nil {
					return writeErr(cmd, err)
				}
			}

			profile, err := c.TokenLogin(cmd.Context(), u, pw)
			if err != nil {
				return writeErr(cmd, err)
			}
			if withSession && role != "" && profile.Role == "" {
				profile.Role = role
			}
			return writeOut(cmd, app, profile)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Account username")
	cmd.Flags().StringVar(&password, "password", "", "Account password (omit to be prompted)")
	cmd.Flags().BoolVar(&withSession, "session", false, "Also establish the cookie session (server-rendered pages)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closer, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closer()

			if err := c.Session.Clear(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]bool{"ok": true})
		},
	}
}

func newRegisterCmd(app *App) *cobra.Command {
	var reg model.Registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a citizen account",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closer, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closer()

			if strings.TrimSpace(reg.Username) == "" || strings.TrimSpace(reg.Email) == "" {
				return writeErr(cmd, errors.New("missing --username or --email"))
			}
			if reg.Password == "" {
				reg.Password, err = promptPassword(cmd, "Password: ")
				if err != nil {
					return writeErr(cmd, err)
				}
			}

			if err := c.Register(cmd.Context(), reg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]string{"username": reg.Username, "status": "registered"})
		},
	}

	cmd.Flags().StringVar(&reg.Username, "username", "", "Account username")
	cmd.Flags().StringVar(&reg.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&reg.Password, "password", "", "Password (omit to be prompted)")
	cmd.Flags().StringVar(&reg.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&reg.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&reg.Phone, "phone", "", "Phone number")
	return cmd
}

func newWhoamiCmd(app *App) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closer, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closer()

			if !refresh {
				if p := c.Session.Profile(); p != nil {
					return writeOut(cmd, app, p)
				}
			}
			p, err := c.Profile(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			_ = c.Session.SetProfile(p)
			return writeOut(cmd, app, p)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Re-fetch the profile from the server")
	return cmd
}

// promptPassword reads without echo when stdin is a terminal, and falls
// back to a plain line read otherwise so pipes keep working.
func promptPassword(cmd *cobra.Command, prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(cmd.ErrOrStderr(), prompt)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	r := bufio.NewReader(cmd.InOrStdin())
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", errors.New("no password provided")
	}
	return strings.TrimRight(line, "\r\n"), nil
}
