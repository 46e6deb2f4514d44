package main

import (
	"context"
	"fmt"
	"os"

	"devsocial/internal/app"
	"devsocial/internal/domain"

	"github.com/spf13/cobra"
)

// loadProfile opens username's profile, or the signed-in user's when
// username is empty.
func loadProfile(ctx context.Context, rt *runtime, username string) (*app.ProfileView, error) {
	if username == "" {
		username = rt.session.CurrentUser().Username
	}
	view := app.NewProfileView(rt.client, rt.client, rt.session, rt.viewOptions()...)
	if err := view.Load(ctx, username); err != nil {
		view.Close()
		return nil, err
	}
	return view, nil
}

func newProfileCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "profile [USERNAME]",
		Short: "Show a profile and its posts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return authed(cmd, flags, func(ctx context.Context, rt *runtime) error {
				var username string
				if len(args) == 1 {
					username = args[0]
				}
				view, err := loadProfile(ctx, rt, username)
				if err != nil {
					return err
				}
				defer view.Close()

				printUser(rt.out, view.Profile())
				if !view.Own() && view.Following() {
					fmt.Fprintln(rt.out, "You follow this developer.")
				}
				fmt.Fprintln(rt.out)
				printPosts(rt.out, view.Posts().Posts())
				return nil
			})
		},
	}
}

func newFollowCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "follow USERNAME",
		Short: "Toggle following a developer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return authed(cmd, flags, func(ctx context.Context, rt *runtime) error {
				view, err := loadProfile(ctx, rt, args[0])
				if err != nil {
					return err
				}
				defer view.Close()

				res, err := view.ToggleFollow(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(rt.out, "%s @%s (%d followers)\n", res.Status, args[0], view.Profile().FollowersCount)
				return nil
			})
		},
	}
}

func newSettingsCmd(flags *globalFlags) *cobra.Command {
	var (
		fullName, bio string
		add, remove   []string
		clearSkills   bool
	)
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Edit your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return authed(cmd, flags, func(ctx context.Context, rt *runtime) error {
				me := rt.session.CurrentUser()
				update := domain.ProfileUpdate{FullName: me.FullName, Bio: me.Bio, Skills: me.Skills}
				if cmd.Flags().Changed("full-name") {
					update.FullName = fullName
				}
				if cmd.Flags().Changed("bio") {
					update.Bio = bio
				}
				if clearSkills {
					update.Skills = nil
				}
				for _, s := range add {
					update.Skills = domain.AddSkill(update.Skills, s)
				}
				for _, s := range remove {
					update.Skills = domain.RemoveSkill(update.Skills, s)
				}

				editor := app.NewProfileEditor(rt.client, rt.session, rt.viewOptions()...)
				defer editor.Close()
				user, err := editor.Save(ctx, update)
				if err != nil {
					return err
				}
				printUser(rt.out, user)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&fullName, "full-name", "", "display name")
	f.StringVar(&bio, "bio", "", "short bio")
	f.StringSliceVar(&add, "skill", nil, "skill to add (repeatable)")
	f.StringSliceVar(&remove, "remove-skill", nil, "skill to remove (repeatable)")
	f.BoolVar(&clearSkills, "clear-skills", false, "remove every skill before adding --skill values")
	return cmd
}

func newUploadCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload an image or video and print its URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return authed(cmd, flags, func(ctx context.Context, rt *runtime) error {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				up, err := rt.client.Upload(ctx, args[0], f)
				if err != nil {
					rt.notifier.Error(domain.UserMessage(err, "Failed to upload file"))
					return err
				}
				fmt.Fprintf(rt.out, "%s\t%s\n", up.MediaType, up.URL)
				return nil
			})
		},
	}
}
