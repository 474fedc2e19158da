package cmd

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/mj1618/slidescene/internal/model"
	"github.com/spf13/cobra"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate <snapshot.json>",
	Short: "Draw extracted element boxes over a slide image",
	Long: `Draw the bounding box and label of every element of one slide from a saved
snapshot, either over a screenshot of that slide (--image) or on a blank
canvas filled with element backgrounds. Elements still pending capture are
outlined in orange.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnnotate,
}

func init() {
	rootCmd.AddCommand(annotateCmd)
	annotateCmd.Flags().Int("slide", 1, "Slide number (1-based)")
	annotateCmd.Flags().String("image", "", "PNG screenshot of the slide (default: blank wireframe)")
	annotateCmd.Flags().String("output", "", "Output PNG path (required)")
	annotateCmd.Flags().Int("width", 1280, "Slide width in CSS pixels")
	annotateCmd.Flags().Int("height", 720, "Slide height in CSS pixels")
	annotateCmd.Flags().Bool("tags", false, "Label elements with their tag instead of paint index")
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	slideNum, _ := cmd.Flags().GetInt("slide")
	imagePath, _ := cmd.Flags().GetString("image")
	outPath, _ := cmd.Flags().GetString("output")
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")
	tags, _ := cmd.Flags().GetBool("tags")

	if outPath == "" {
		return fmt.Errorf("--output is required")
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid slide size %dx%d", width, height)
	}

	p, err := model.LoadSnapshot(args[0])
	if err != nil {
		return err
	}
	if slideNum < 1 || slideNum > len(p.Slides) {
		return fmt.Errorf("slide %d out of range (snapshot has %d slides)", slideNum, len(p.Slides))
	}
	slide := p.Slides[slideNum-1]

	var base image.Image
	fill := imagePath == ""
	if fill {
		base = blankSlide(slide, width, height)
	} else {
		base, err = readPNG(imagePath)
		if err != nil {
			return err
		}
	}

	mode := LabelIndex
	if tags {
		mode = LabelTag
	}
	annotated := AnnotateSlide(base, slide, [2]float64{float64(width), float64(height)}, mode, fill)

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := png.Encode(f, annotated); err != nil {
		f.Close()
		return fmt.Errorf("encode annotated image: %w", err)
	}
	logger.Info("annotate: wrote image", "path", outPath, "elements", len(slide.Elements))
	return f.Close()
}

func readPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
