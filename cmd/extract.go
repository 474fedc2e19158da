package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/mj1618/slidescene/internal/model"
	"github.com/mj1618/slidescene/internal/output"
	"github.com/mj1618/slidescene/internal/server"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [presentation-id]",
	Short: "Extract every slide of a presentation",
	Long: `Load a presentation page, extract each slide's elements in paint order and
print the result. Vector graphics are rasterized and canvases and tables are
screenshotted into the output directory; elements whose capture failed stay
flagged with should_screenshot and are listed under captureFailures.

Examples:
  slidescene extract 6f1c2a
  slidescene extract --url http://localhost:3000/pdf-maker?id=6f1c2a --format json
  slidescene extract --html deck.html --flat --tag svg,table
  slidescene extract 6f1c2a --save before.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().String("url", "", "Page URL (overrides the id template)")
	extractCmd.Flags().String("html", "", "Local HTML file (static backend unless --backend is set)")
	extractCmd.Flags().String("backend", "", "DOM backend: chrome, static (default from config)")
	extractCmd.Flags().String("output-dir", "", "Directory for captured images (default from config)")
	extractCmd.Flags().String("chrome-path", "", "Browser executable")
	extractCmd.Flags().Duration("timeout", 0, "Overall timeout (default from config)")
	extractCmd.Flags().Bool("flat", false, "Print a flat element list instead of full attributes")
	extractCmd.Flags().String("tag", "", "Comma-separated tags to keep (implies --flat)")
	extractCmd.Flags().String("text", "", "Keep elements whose text contains this (implies --flat)")
	extractCmd.Flags().String("bbox", "", "Keep elements within bounding box x,y,w,h (implies --flat)")
	extractCmd.Flags().Bool("pending", false, "Keep only elements whose capture failed (implies --flat)")
	extractCmd.Flags().String("save", "", "Also save the full result as a snapshot file for diff")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
		cfg.OutputDir = dir
	}
	if path, _ := cmd.Flags().GetString("chrome-path"); path != "" {
		cfg.ChromePath = path
	}
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		cfg.PageTimeout = timeout
	}

	runner, err := server.NewRunner(cfg, logger)
	if err != nil {
		return err
	}

	var id string
	if len(args) == 1 {
		id = args[0]
	}
	url, _ := cmd.Flags().GetString("url")
	htmlPath, _ := cmd.Flags().GetString("html")
	backend, _ := cmd.Flags().GetString("backend")
	req, err := runner.Request(id, url, htmlPath, backend)
	if err != nil {
		return err
	}

	view, err := viewFromFlags(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	p, err := runner.Run(ctx, req)
	if err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetString("save"); save != "" {
		if err := model.SaveSnapshot(save, *p); err != nil {
			return err
		}
		logger.Info("extract: saved snapshot", "path", save)
	}

	return output.Print(output.Shape(req.Source.String(), time.Now().Unix(), p, view))
}

func viewFromFlags(cmd *cobra.Command) (output.View, error) {
	var v output.View
	v.Flat, _ = cmd.Flags().GetBool("flat")
	v.Text, _ = cmd.Flags().GetString("text")
	v.Pending, _ = cmd.Flags().GetBool("pending")
	if tags, _ := cmd.Flags().GetString("tag"); tags != "" {
		v.Tags = splitList(tags)
	}
	if bbox, _ := cmd.Flags().GetString("bbox"); bbox != "" {
		b, err := parseBBox(bbox)
		if err != nil {
			return v, err
		}
		v.BBox = &b
	}
	return v, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseBBox parses "x,y,w,h" into a bounding box.
func parseBBox(s string) ([4]int, error) {
	var b [4]int
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return b, fmt.Errorf("invalid --bbox %q: want x,y,w,h", s)
	}
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return b, fmt.Errorf("invalid --bbox %q: %w", s, err)
		}
		b[i] = n
	}
	return b, nil
}
