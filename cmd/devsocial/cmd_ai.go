package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"devsocial/internal/app"
	"devsocial/internal/domain"

	"github.com/spf13/cobra"
)

func newAICmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ai",
		Short: "Code and career assistants",
	}
	cmd.AddCommand(
		codeToolCmd(flags, "explain", "Explain a code snippet", (*app.AITools).ExplainCode),
		codeToolCmd(flags, "bugs", "Look for bugs in a code snippet", (*app.AITools).DetectBugs),
		newCareerCmd(flags),
	)
	return cmd
}

// codeToolCmd builds a command that reads code from FILE, or stdin when FILE
// is absent or "-", and prints the tool's answer as returned.
func codeToolCmd(flags *globalFlags, use, short string, tool func(*app.AITools, context.Context, domain.CodeRequest) (string, error)) *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   use + " [FILE]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := readCode(cmd, args)
			if err != nil {
				return err
			}
			return authed(cmd, flags, func(ctx context.Context, rt *runtime) error {
				tools := app.NewAITools(rt.client, rt.viewOptions()...)
				defer tools.Close()
				text, err := tool(tools, ctx, domain.CodeRequest{Code: code, Language: lang})
				if err != nil {
					return err
				}
				fmt.Fprintln(rt.out, text)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "", "language of the snippet (server default: "+domain.DefaultCodeLanguage+")")
	return cmd
}

func readCode(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		return string(b), err
	}
	b, err := os.ReadFile(args[0])
	return string(b), err
}

func newCareerCmd(flags *globalFlags) *cobra.Command {
	var req domain.CareerRequest
	cmd := &cobra.Command{
		Use:   "career",
		Short: "Get career guidance for your skills",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return authed(cmd, flags, func(ctx context.Context, rt *runtime) error {
				if len(req.Skills) == 0 {
					req.Skills = rt.session.CurrentUser().Skills
				}
				tools := app.NewAITools(rt.client, rt.viewOptions()...)
				defer tools.Close()
				text, err := tools.CareerGuidance(ctx, req)
				if err != nil {
					return err
				}
				fmt.Fprintln(rt.out, text)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringSliceVar(&req.Skills, "skill", nil, "skill (repeatable, default: your profile skills)")
	f.StringVar(&req.Interests, "interests", "", "what you want to work on")
	f.StringVar(&req.ExperienceLevel, "level", "", "experience level (server default: "+domain.DefaultExperienceLevel+")")
	return cmd
}
