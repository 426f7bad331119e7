package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"duetrack/internal/api"
)

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in to the deadline service.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Usage: "Account email."},
			&cli.StringFlag{Name: "password", Usage: "Account password. Prompted when omitted."},
		},
		Action: func(c *cli.Context) error {
			svc, err := newServices()
			if err != nil {
				return err
			}

			email := c.String("email")
			if email == "" {
				email = prompt("Email: ")
			}
			password := c.String("password")
			if password == "" {
				password = prompt("Password: ")
			}

			if err := svc.session.Login(c.Context, email, password); err != nil {
				svc.toasts.Error("Login failed", err.Error())
				return err
			}
			svc.toasts.Info("Logged in", fmt.Sprintf("Welcome back, %s.", svc.session.User().Username))
			return nil
		},
	}
}

func registerCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Create an account and log in.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Usage: "Account email."},
			&cli.StringFlag{Name: "username", Usage: "Display name, 3-20 characters."},
			&cli.StringFlag{Name: "password", Usage: "Password, at least 8 characters. Prompted when omitted."},
		},
		Action: func(c *cli.Context) error {
			svc, err := newServices()
			if err != nil {
				return err
			}

			email := c.String("email")
			if email == "" {
				email = prompt("Email: ")
			}
			username := c.String("username")
			if username == "" {
				username = prompt("Username: ")
			}
			password := c.String("password")
			if password == "" {
				password = prompt("Password: ")
			}

			if err := svc.session.Register(c.Context, email, username, password); err != nil {
				svc.toasts.Error("Registration failed", err.Error())
				return err
			}
			svc.toasts.Info("Account created", fmt.Sprintf("Logged in as %s.", username))
			return nil
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Discard the stored session token.",
		Action: func(c *cli.Context) error {
			svc, err := newServices()
			if err != nil {
				return err
			}
			svc.session.Logout()
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the logged-in account.",
		Action: func(c *cli.Context) error {
			svc, err := newServices()
			if err != nil {
				return err
			}
			if err := svc.requireAuth(c); err != nil {
				return err
			}
			user := svc.session.User()
			fmt.Printf("%s <%s> (id %d, member since %s)\n",
				user.Username, user.Email, user.ID, user.CreatedAt.Local().Format("2006-01-02"))
			return nil
		},
	}
}

func profileCommand() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Update the logged-in account. Only the given flags change.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Usage: "New account email."},
			&cli.StringFlag{Name: "username", Usage: "New display name, 3-20 characters."},
			&cli.StringFlag{Name: "password", Usage: "New password, at least 8 characters."},
		},
		Action: func(c *cli.Context) error {
			svc, err := newServices()
			if err != nil {
				return err
			}
			if err := svc.requireAuth(c); err != nil {
				return err
			}

			var req api.UpdateUserRequest
			if c.IsSet("email") {
				email := c.String("email")
				req.Email = &email
			}
			if c.IsSet("username") {
				username := c.String("username")
				req.Username = &username
			}
			if c.IsSet("password") {
				password := c.String("password")
				req.Password = &password
			}
			if req.Email == nil && req.Username == nil && req.Password == nil {
				return fmt.Errorf("nothing to update: pass --email, --username or --password")
			}

			user, err := svc.client.UpdateCurrentUser(c.Context, req)
			if err != nil {
				svc.toasts.Error("Update failed", err.Error())
				return err
			}
			svc.toasts.Info("Profile updated", fmt.Sprintf("Now %s <%s>.", user.Username, user.Email))
			return nil
		},
	}
}

func prompt(label string) string {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	value, _ := reader.ReadString('\n')
	return strings.TrimSpace(value)
}
