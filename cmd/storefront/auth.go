package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	domainauth "github.com/target/storefront/internal/domain/auth"
)

const passwordEnv = "STOREFRONT_PASSWORD"

func passwordFrom(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv(passwordEnv)
}

func newLoginCmd(a *app) *cobra.Command {
	var in domainauth.LoginInput
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Password = passwordFrom(in.Password)
			user, err := a.session().Login(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.printJSON(user)
		},
	}
	cmd.Flags().StringVarP(&in.Username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&in.Email, "email", "e", "", "account email (instead of username)")
	cmd.Flags().StringVarP(&in.Password, "password", "p", "", "password (default $"+passwordEnv+")")
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var in domainauth.RegisterInput
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Password = passwordFrom(in.Password)
			if in.ConfirmationPassword == "" {
				in.ConfirmationPassword = in.Password
			}
			user, err := a.session().Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.printJSON(user)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&in.Username, "username", "u", "", "account username")
	f.StringVarP(&in.Email, "email", "e", "", "account email")
	f.StringVar(&in.FirstName, "first-name", "", "first name")
	f.StringVar(&in.LastName, "last-name", "", "last name")
	f.StringVar(&in.Bio, "bio", "", "profile bio")
	f.StringVarP(&in.Password, "password", "p", "", "password (default $"+passwordEnv+")")
	f.StringVar(&in.ConfirmationPassword, "confirm-password", "", "password confirmation (defaults to --password)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.session().Logout(cmd.Context()); err != nil {
				return err
			}
			a.printf("signed out\n")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			return a.printJSON(a.session().CurrentUser())
		},
	}
}

func newRefreshCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the refresh token for a new access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.session().RefreshAccessToken(cmd.Context()); err != nil {
				return err
			}
			a.printf("access token refreshed\n")
			return nil
		},
	}
}

func newProfileCmd(a *app) *cobra.Command {
	var (
		in      domainauth.ProfileInput
		replace bool
	)
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the profile",
		Long:  "Without flags the profile is reloaded from the backend. With flags it is updated (PATCH, or PUT with --replace).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			ctx := cmd.Context()
			var (
				user *domainauth.User
				err  error
			)
			switch {
			case in == (domainauth.ProfileInput{}):
				user, err = a.session().ReloadProfile(ctx)
			case replace:
				user, err = a.session().UpdateProfile(ctx, in)
			default:
				user, err = a.session().PatchProfile(ctx, in)
			}
			if err != nil {
				return err
			}
			return a.printJSON(user)
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.FirstName, "first-name", "", "first name")
	f.StringVar(&in.LastName, "last-name", "", "last name")
	f.StringVar(&in.Avatar, "avatar", "", "avatar URL (see `storefront upload`)")
	f.StringVar(&in.Bio, "bio", "", "profile bio")
	f.BoolVar(&replace, "replace", false, "send a full update instead of a partial one")
	return cmd
}

func newPasswordCmd(a *app) *cobra.Command {
	var in domainauth.ChangePasswordInput
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change the account password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in.NewPasswordConfirm == "" {
				in.NewPasswordConfirm = in.NewPassword
			}
			msg, err := a.session().ChangePassword(cmd.Context(), in)
			if err != nil {
				return err
			}
			if msg == "" {
				msg = "password changed"
			}
			a.printf("%s\n", msg)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.OldPassword, "old", "", "current password")
	f.StringVar(&in.NewPassword, "new", "", "new password")
	f.StringVar(&in.NewPasswordConfirm, "confirm", "", "new password confirmation (defaults to --new)")
	return cmd
}

func newUploadCmd(a *app) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload an image and print its URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open image: %w", err)
			}
			defer f.Close()

			var progress func(int)
			if !quiet {
				progress = func(pct int) {
					_, _ = fmt.Fprintf(a.errOut, "\ruploading %s: %3d%%", filepath.Base(args[0]), pct)
					if pct >= 100 {
						_, _ = fmt.Fprintln(a.errOut)
					}
				}
			}
			res, err := a.container.Client.UploadImage(cmd.Context(), filepath.Base(args[0]), f, progress)
			if err != nil {
				return err
			}
			if res.URL == "" {
				return errors.New("upload succeeded without a URL")
			}
			return a.printJSON(res)
		},
	}
	cmd.Flags().BoolVar(&quiet, "quiet", false, "do not report progress")
	return cmd
}
