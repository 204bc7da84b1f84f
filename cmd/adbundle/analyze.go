package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/ukaji3/adbundle-go/internal/workbench"
	"github.com/ukaji3/adbundle-go/pkg/adbundle/analyst"
	"github.com/ukaji3/adbundle-go/pkg/adbundle/session"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		imagePath string
		videoPath string
		mode      string
		noChat    bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [input.xlsx]",
		Short: "Analyze a workbook with a product image and a video",
		Long: `Builds the data bundle, uploads the image and the video to Gemini,
prints the report and then accepts follow-up questions. Type /help in the
chat for the task commands.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts, err := extractOptions(cmd, mode)
			if err != nil {
				return err
			}

			in := workbench.Inputs{Workbook: args[0], Image: imagePath, Video: videoPath}
			if err := in.Validate(); err != nil {
				return err
			}

			ac, err := cfg.AnalystConfig()
			if err != nil {
				return err
			}
			a, client, err := analyst.NewGemini(ctx, cfg.Gemini.APIKey, ac, logger)
			if err != nil {
				return err
			}
			defer client.Close()

			stderr := cmd.ErrOrStderr()
			a.OnWait = func(waited time.Duration) {
				fmt.Fprintf(stderr, "⏳ waiting for video processing... %s\n", waited.Round(time.Second))
			}

			wb := workbench.New(opts, a, session.NewMemoryStore(), logger)
			wb.Progress = stderr

			s, err := wb.Start(ctx, in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			history := s.History()
			fmt.Fprintf(out, "📂 task %s\n\n%s\n", s.ID, history[len(history)-1].Content)
			if noChat {
				return nil
			}
			return runChat(ctx, wb)
		},
	}

	cmd.Flags().StringVar(&imagePath, "image", "", "Product image (png, jpg, jpeg, webp)")
	cmd.Flags().StringVar(&videoPath, "video", "", "Creative video (mp4, mov, avi)")
	cmd.Flags().StringVar(&mode, "mode", "standard", "Extraction mode: light, standard")
	cmd.Flags().BoolVar(&noChat, "no-chat", false, "Exit after the first report")
	return cmd
}

func runChat(ctx context.Context, wb *workbench.Workbench) error {
	err := wb.Run(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		fmt.Println("\n⏹️  Interrupted")
		return nil
	}
	return err
}
