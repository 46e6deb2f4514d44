package main

import (
	"context"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "devsocial",
		Short:         "Terminal client for the DevSocial developer network",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.devsocial/config.yaml)")
	pf.StringVar(&flags.apiURL, "api-url", "", "API base URL, e.g. http://localhost:8000/api")
	pf.StringVar(&flags.store, "store", "", "session store driver: badger, memory or postgres")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		newLoginCmd(flags),
		newRegisterCmd(flags),
		newLogoutCmd(flags),
		newWhoamiCmd(flags),
		newFeedCmd(flags),
		newExploreCmd(flags),
		newSearchCmd(flags),
		newHashtagCmd(flags),
		newTrendingCmd(flags),
		newShowCmd(flags),
		newPostCmd(flags),
		newLikeCmd(flags),
		newDeleteCmd(flags),
		newCommentCmd(flags),
		newProfileCmd(flags),
		newFollowCmd(flags),
		newSettingsCmd(flags),
		newUploadCmd(flags),
		newAICmd(flags),
		newNotificationsCmd(flags),
		newWatchCmd(flags),
		newFakeServerCmd(flags),
	)
	return root
}

// run bootstraps a runtime for cmd and hands it to fn.
func run(cmd *cobra.Command, flags *globalFlags, fn func(ctx context.Context, rt *runtime) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := bootstrap(ctx, flags, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer rt.close()
	return fn(ctx, rt)
}

// authed is run for commands that need a verified session.
func authed(cmd *cobra.Command, flags *globalFlags, fn func(ctx context.Context, rt *runtime) error) error {
	return run(cmd, flags, func(ctx context.Context, rt *runtime) error {
		if _, err := rt.requireSession(ctx); err != nil {
			return err
		}
		return fn(ctx, rt)
	})
}
