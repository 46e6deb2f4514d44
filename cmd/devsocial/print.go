package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"devsocial/internal/domain"
)

func printPosts(w io.Writer, posts []domain.Post) {
	if len(posts) == 0 {
		fmt.Fprintln(w, "No posts yet.")
		return
	}
	for i, p := range posts {
		if i > 0 {
			fmt.Fprintln(w)
		}
		printPost(w, p)
	}
}

func printPost(w io.Writer, p domain.Post) {
	heart := "♡"
	if p.IsLiked {
		heart = "♥"
	}
	fmt.Fprintf(w, "[%s] @%s · %s\n", p.ID, p.Username, ago(p.CreatedAt))
	fmt.Fprintln(w, p.Content)
	if p.CodeSnippet != "" {
		fmt.Fprintf(w, "```%s\n%s\n```\n", p.Language, p.CodeSnippet)
	}
	if p.MediaURL != "" {
		fmt.Fprintf(w, "%s: %s\n", p.MediaType, p.MediaURL)
	}
	if len(p.Hashtags) > 0 {
		fmt.Fprintln(w, "#"+strings.Join(p.Hashtags, " #"))
	}
	fmt.Fprintf(w, "%s %d  💬 %d\n", heart, p.LikesCount, p.CommentsCount)
}

func printUser(w io.Writer, u *domain.User) {
	fmt.Fprintf(w, "%s (@%s)\n", u.FullName, u.Username)
	if u.Bio != "" {
		fmt.Fprintln(w, u.Bio)
	}
	if len(u.Skills) > 0 {
		fmt.Fprintf(w, "skills: %s\n", strings.Join(u.Skills, ", "))
	}
	fmt.Fprintf(w, "%d posts  %d followers  %d following\n", u.PostsCount, u.FollowersCount, u.FollowingCount)
}

func printUsers(w io.Writer, users []domain.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No developers found.")
		return
	}
	for _, u := range users {
		fmt.Fprintf(w, "@%s\t%s", u.Username, u.FullName)
		if len(u.Skills) > 0 {
			fmt.Fprintf(w, "\t%s", strings.Join(u.Skills, ", "))
		}
		fmt.Fprintln(w)
	}
}

func printComments(w io.Writer, comments []domain.Comment) {
	for _, c := range comments {
		fmt.Fprintf(w, "  @%s · %s: %s\n", c.Username, ago(c.CreatedAt), c.Content)
	}
}

// ago renders t relative to now, the way the feed shows timestamps.
func ago(t time.Time) string {
	if t.IsZero() {
		return "just now"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
