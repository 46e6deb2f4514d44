package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"devsocial/internal/app"
	"devsocial/internal/domain"

	"github.com/spf13/cobra"
)

func newFeedCmd(flags *globalFlags) *cobra.Command {
	var policy string
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Show the home feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return authed(cmd, flags, func(ctx context.Context, rt *runtime) error {
				assembler, err := rt.feedAssembler(policy)
				if err != nil {
					return err
				}
				view := app.NewFeedView(rt.client, assembler, rt.viewOptions()...)
				defer view.Close()
				res, err := view.Load(ctx)
				if err != nil {
					return err
				}
				if res.Source == app.SourceGlobal {
					fmt.Fprintln(rt.out, "Showing recent posts from everyone.")
				}
				printPosts(rt.out, view.Posts())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&policy, "policy", "", "feed fallback policy: always, empty-only or never")
	return cmd
}

// listCmd builds a command that loads one page of posts and prints it.
func listCmd(flags *globalFlags, use, short string, args cobra.PositionalArgs, fetch func(rt *runtime, args []string) func(context.Context) ([]domain.Post, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, argv []string) error {
			return authed(cmd, flags, func(ctx context.Context, rt *runtime) error {
				list := app.NewPostList(rt.client, rt.viewOptions()...)
				defer list.Close()
				if err := list.Load(ctx, fetch(rt, argv)); err != nil {
					return err
				}
				printPosts(rt.out, list.Posts())
				return nil
			})
		},
	}
}

func newExploreCmd(flags *globalFlags) *cobra.Command {
	var limit int
	cmd := listCmd(flags, "explore", "Show recent posts from everyone", cobra.NoArgs,
		func(rt *runtime, _ []string) func(context.Context) ([]domain.Post, error) {
			return func(ctx context.Context) ([]domain.Post, error) { return rt.client.ListPosts(ctx, limit) }
		})
	cmd.Flags().IntVar(&limit, "limit", app.DefaultGlobalLimit, "maximum number of posts")
	return cmd
}

func newSearchCmd(flags *globalFlags) *cobra.Command {
	var users bool
	cmd := listCmd(flags, "search QUERY", "Search posts by content, or developers with --users", cobra.MinimumNArgs(1),
		func(rt *runtime, args []string) func(context.Context) ([]domain.Post, error) {
			q := strings.Join(args, " ")
			return func(ctx context.Context) ([]domain.Post, error) { return rt.client.SearchPosts(ctx, q) }
		})
	searchPosts := cmd.RunE
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if !users {
			return searchPosts(cmd, args)
		}
		return authed(cmd, flags, func(ctx context.Context, rt *runtime) error {
			found, err := rt.client.SearchUsers(ctx, strings.Join(args, " "))
			if err != nil {
				rt.notifier.Error(domain.UserMessage(err, "Search failed"))
				return err
			}
			printUsers(rt.out, found)
			return nil
		})
	}
	cmd.Flags().BoolVar(&users, "users", false, "search developers by username, name or skill")
	return cmd
}

func newHashtagCmd(flags *globalFlags) *cobra.Command {
	return listCmd(flags, "hashtag TAG", "Show posts carrying a hashtag", cobra.ExactArgs(1),
		func(rt *runtime, args []string) func(context.Context) ([]domain.Post, error) {
			tag := strings.TrimPrefix(args[0], "#")
			return func(ctx context.Context) ([]domain.Post, error) { return rt.client.HashtagPosts(ctx, tag) }
		})
}

func newTrendingCmd(flags *globalFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "trending",
		Short: "Show trending hashtags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return authed(cmd, flags, func(ctx context.Context, rt *runtime) error {
				tags, err := rt.client.Trending(ctx, limit)
				if err != nil {
					rt.notifier.Error(domain.UserMessage(err, "Failed to load trending hashtags"))
					return err
				}
				for _, t := range tags {
					fmt.Fprintf(rt.out, "#%s\t%d posts\n", t.Hashtag, t.Count)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of hashtags")
	return cmd
}

// detailCmd builds a command that loads post args[0] into a detail view.
func detailCmd(flags *globalFlags, use, short string, args cobra.PositionalArgs, fn func(ctx context.Context, rt *runtime, d *app.PostDetail, args []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, argv []string) error {
			return authed(cmd, flags, func(ctx context.Context, rt *runtime) error {
				d := app.NewPostDetail(rt.client, rt.viewOptions()...)
				defer d.Close()
				if err := d.Load(ctx, argv[0]); err != nil {
					return err
				}
				return fn(ctx, rt, d, argv[1:])
			})
		},
	}
}

func newShowCmd(flags *globalFlags) *cobra.Command {
	return detailCmd(flags, "show POST_ID", "Show a post with its comments", cobra.ExactArgs(1),
		func(_ context.Context, rt *runtime, d *app.PostDetail, _ []string) error {
			p, _ := d.Post()
			printPost(rt.out, p)
			printComments(rt.out, d.Comments())
			return nil
		})
}

func newLikeCmd(flags *globalFlags) *cobra.Command {
	return detailCmd(flags, "like POST_ID", "Toggle your like on a post", cobra.ExactArgs(1),
		func(ctx context.Context, rt *runtime, d *app.PostDetail, _ []string) error {
			res, err := d.ToggleLike(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(rt.out, "%s (%d likes)\n", res.Status, res.LikesCount)
			return nil
		})
}

func newDeleteCmd(flags *globalFlags) *cobra.Command {
	return detailCmd(flags, "delete POST_ID", "Delete one of your posts", cobra.ExactArgs(1),
		func(ctx context.Context, _ *runtime, d *app.PostDetail, _ []string) error {
			return d.Delete(ctx)
		})
}

func newCommentCmd(flags *globalFlags) *cobra.Command {
	return detailCmd(flags, "comment POST_ID TEXT...", "Comment on a post", cobra.MinimumNArgs(2),
		func(ctx context.Context, rt *runtime, d *app.PostDetail, args []string) error {
			if _, err := d.AddComment(ctx, strings.Join(args, " ")); err != nil {
				return err
			}
			p, _ := d.Post()
			fmt.Fprintf(rt.out, "Comment added (%d comments)\n", p.CommentsCount)
			return nil
		})
}

func newPostCmd(flags *globalFlags) *cobra.Command {
	var (
		np        domain.NewPost
		media     string
		aiCaption bool
	)
	cmd := &cobra.Command{
		Use:   "post [TEXT...]",
		Short: "Publish a post",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			np.Content = strings.Join(args, " ")
			return authed(cmd, flags, func(ctx context.Context, rt *runtime) error {
				if aiCaption {
					if err := app.SuggestCaption(ctx, rt.client, &np); err != nil {
						rt.notifier.Error(domain.UserMessage(err, "AI generation failed"))
						return err
					}
				}
				if media != "" {
					f, err := os.Open(media)
					if err != nil {
						return err
					}
					defer f.Close()
					if err := app.AttachMedia(ctx, rt.client, &np, media, f); err != nil {
						rt.notifier.Error(domain.UserMessage(err, "Failed to upload file"))
						return err
					}
				}
				assembler, err := rt.feedAssembler("")
				if err != nil {
					return err
				}
				view := app.NewFeedView(rt.client, assembler, rt.viewOptions()...)
				defer view.Close()
				p, err := view.Create(ctx, np)
				if err != nil {
					return err
				}
				printPost(rt.out, *p)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&np.CodeSnippet, "code", "", "code snippet to attach")
	f.StringVar(&np.Language, "lang", "", "language of the code snippet")
	f.StringSliceVar(&np.Hashtags, "tag", nil, "hashtag (repeatable)")
	f.StringVar(&media, "media", "", "image or video file to upload and attach")
	f.BoolVar(&aiCaption, "ai-caption", false, "let the server suggest a caption and hashtags")
	return cmd
}
