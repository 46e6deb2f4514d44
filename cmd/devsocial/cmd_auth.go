package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"devsocial/internal/domain"

	"github.com/spf13/cobra"
)

// readSecret returns flagValue, or the first line of in when the flag is
// empty.
func readSecret(in io.Reader, out io.Writer, flagValue, prompt string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(prompt, ": "), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLoginCmd(flags *globalFlags) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readSecret(cmd.InOrStdin(), cmd.ErrOrStderr(), password, "Password: ")
			if err != nil {
				return err
			}
			return run(cmd, flags, func(ctx context.Context, rt *runtime) error {
				user, err := rt.session.Login(ctx, email, pw)
				if err != nil {
					rt.notifier.Error(domain.UserMessage(err, "Login failed"))
					return err
				}
				rt.notifier.Success("Welcome back!")
				fmt.Fprintf(rt.out, "Logged in as @%s\n", user.Username)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (read from stdin when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newRegisterCmd(flags *globalFlags) *cobra.Command {
	var req domain.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readSecret(cmd.InOrStdin(), cmd.ErrOrStderr(), req.Password, "Password: ")
			if err != nil {
				return err
			}
			req.Password = pw
			return run(cmd, flags, func(ctx context.Context, rt *runtime) error {
				user, err := rt.session.Register(ctx, req)
				if err != nil {
					rt.notifier.Error(domain.UserMessage(err, "Registration failed"))
					return err
				}
				rt.notifier.Success("Account created successfully!")
				fmt.Fprintf(rt.out, "Logged in as @%s\n", user.Username)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Username, "username", "", "username")
	f.StringVar(&req.Email, "email", "", "email")
	f.StringVar(&req.Password, "password", "", "password (read from stdin when omitted)")
	f.StringVar(&req.FullName, "full-name", "", "display name")
	f.StringVar(&req.Bio, "bio", "", "short bio")
	f.StringSliceVar(&req.Skills, "skill", nil, "skill to list on the profile (repeatable)")
	return cmd
}

func newLogoutCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the persisted session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags, func(ctx context.Context, rt *runtime) error {
				if err := rt.session.Logout(ctx); err != nil {
					return err
				}
				fmt.Fprintln(rt.out, "Logged out")
				return nil
			})
		},
	}
}

func newWhoamiCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Verify the persisted session and show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags, func(ctx context.Context, rt *runtime) error {
				user, err := rt.requireSession(ctx)
				if err != nil {
					return err
				}
				printUser(rt.out, user)
				return nil
			})
		},
	}
}
