package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"fotohogar/internal/model"
)

// readPassword prompts on the terminal without echo. When stdin is not a
// terminal the first line is read instead.
func readPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, prompt)
		pw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

var loginCmd = &cobra.Command{
	Use:   "login EMAIL",
	Short: "Log in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		if !cmd.Flags().Changed("password") {
			var err error
			if password, err = readPassword("Password: "); err != nil {
				return err
			}
		}

		a, err := newApp(cmd, "Login")
		if err != nil {
			return err
		}
		defer a.Close()

		user, err := a.Login(cmd.Context(), args[0], password)
		return render(user, err, func(u *model.User) {
			fmt.Printf("Logged in as %s <%s>\n", u.FullName(), u.Email)
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "Logout")
		if err != nil {
			return err
		}
		defer a.Close()

		a.Logout()
		return render(true, nil, func(bool) {
			fmt.Println("Logged out.")
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "CurrentUser")
		if err != nil {
			return err
		}
		defer a.Close()

		user, err := a.CurrentUser()
		return render(user, err, printUser)
	},
}

// user command
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "ListUsers")
		if err != nil {
			return err
		}
		defer a.Close()

		users, err := a.ListUsers(cmd.Context())
		return render(users, err, func(users []*model.User) {
			for _, u := range users {
				printUser(u)
			}
		})
	},
}

var userHashPasswordCmd = &cobra.Command{
	Use:   "hash-password [PASSWORD]",
	Short: "Print a password digest for a dataset file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var password string
		if len(args) > 0 {
			password = args[0]
		} else {
			var err error
			if password, err = readPassword("Password: "); err != nil {
				return err
			}
		}

		a, err := newApp(cmd, "HashPassword")
		if err != nil {
			return err
		}
		defer a.Close()

		digest, err := a.HashPassword(password)
		return render(digest, err, func(d string) {
			fmt.Println(d)
		})
	},
}
