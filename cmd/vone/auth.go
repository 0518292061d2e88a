package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	vone "github.com/HardM1nd/V-One-sub000"
)

var loginUsername string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and persist the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		username := loginUsername
		reader := bufio.NewReader(os.Stdin)
		if username == "" {
			fmt.Fprint(os.Stderr, "username: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			username = strings.TrimSpace(line)
		}
		fmt.Fprint(os.Stderr, "password: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		password := strings.TrimRight(line, "\r\n")

		identity, err := client.Login(ctx, username, password)
		if err != nil {
			var vErr *vone.ValidationError
			if errors.As(err, &vErr) {
				printFieldErrors(vErr)
				return errors.New("login failed")
			}
			return err
		}
		fmt.Printf("signed in as user %s\n", identity.SubjectID)
		return nil
	},
}

var signupEmail string

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Register a new account and sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		reader := bufio.NewReader(os.Stdin)
		username := loginUsername
		if username == "" {
			fmt.Fprint(os.Stderr, "username: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			username = strings.TrimSpace(line)
		}
		email := signupEmail
		if email == "" {
			fmt.Fprint(os.Stderr, "email: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			email = strings.TrimSpace(line)
		}
		fmt.Fprint(os.Stderr, "password: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		password := strings.TrimRight(line, "\r\n")

		identity, err := client.Signup(ctx, vone.SignupParams{
			Username: username,
			Email:    email,
			Password: password,
		})
		if err != nil {
			var vErr *vone.ValidationError
			if errors.As(err, &vErr) {
				printFieldErrors(vErr)
				return errors.New("signup failed")
			}
			return err
		}
		fmt.Printf("registered and signed in as user %s\n", identity.SubjectID)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		client.Logout(context.Background())
		fmt.Println("signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		if err := client.Start(ctx); err != nil {
			return err
		}
		identity := client.Identity()
		if !identity.IsAuthenticated {
			fmt.Println("not signed in")
			return nil
		}
		fmt.Printf("user %s (staff: %v)\n", identity.SubjectID, identity.IsStaff)
		if profile, ok := client.Profile(); ok {
			fmt.Printf("username: %s\nfollowers: %d  following: %d  posts: %d\n",
				profile.Username, profile.Followers, profile.Following, profile.Posts)
		}
		return nil
	},
}

func printFieldErrors(vErr *vone.ValidationError) {
	keys := make([]string, 0, len(vErr.Fields))
	for k := range vErr.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		for _, msg := range vErr.Fields[key] {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, msg)
		}
	}
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "username (prompted when omitted)")
	signupCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "username (prompted when omitted)")
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "email address (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
