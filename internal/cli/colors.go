package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/tuneboard/internal/colors"
)

var colorsPalette int

var colorsCmd = &cobra.Command{
	Use:   "colors <url|file>",
	Short: "Extract the dominant and accent colors of an image",
	Long: `Loads an image from an http(s) URL or a local file and prints its dominant
color (the mean of all pixels), the complementary accent color, the
contrasting text color and an optional palette.`,
	Args: cobra.ExactArgs(1),
	RunE: runColors,
}

func init() {
	colorsCmd.Flags().IntVarP(&colorsPalette, "palette", "p", -1, "palette size (default from config, 0 disables)")
	rootCmd.AddCommand(colorsCmd)
}

func runColors(cmd *cobra.Command, args []string) error {
	size := colorsPalette
	if size < 0 {
		size = cfg.Colors.PaletteSize
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	start := time.Now()
	img, err := artFetcher().Load(ctx, args[0])
	if err != nil {
		return err
	}
	theme := colors.NewTheme(img, size)

	out := cmd.OutOrStdout()
	if JSONOutput() {
		return printJSON(out, theme)
	}

	t := NewTable(out, "ROLE", "HEX", "RGB")
	t.Row("dominant", theme.Dominant.Hex(), theme.Dominant.String())
	t.Row("accent", theme.Accent.Hex(), theme.Accent.String())
	t.Row("text", theme.Text.Hex(), theme.Text.String())
	for i, c := range theme.Palette {
		t.Row(fmt.Sprintf("palette %d", i+1), c.Hex(), c.String())
	}
	t.Flush()

	if Verbose() {
		b := img.Bounds()
		fmt.Fprintf(cmd.ErrOrStderr(), "%dx%d image processed in %s\n", b.Dx(), b.Dy(), time.Since(start).Round(time.Millisecond))
	}
	return nil
}
