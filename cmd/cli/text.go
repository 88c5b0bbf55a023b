package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vegarsti/reader"
	"github.com/vegarsti/reader/backend"
	"github.com/vegarsti/reader/csv"
	"github.com/vegarsti/reader/html"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentFiles = 4

var (
	selection string
	format    string
)

var textCmd = &cobra.Command{
	Use:   "text FILE...",
	Short: "Print the text of the selected fragments of each file",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runText,
}

func init() {
	textCmd.Flags().StringVar(&selection, "select", "", "Comma separated fragment indices to select (default all)")
	textCmd.Flags().StringVar(&format, "format", "text", "Output format: text, csv or html")
}

// parseSelection turns "0,2,5" into a selection over n fragments.
// An empty string selects everything.
func parseSelection(s string, n int) ([]bool, error) {
	selected := make([]bool, n)
	if strings.TrimSpace(s) == "" {
		for i := range selected {
			selected[i] = true
		}
		return selected, nil
	}
	for _, field := range strings.Split(s, ",") {
		i, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, fmt.Errorf("invalid fragment index %q", field)
		}
		if i < 0 || i >= n {
			return nil, fmt.Errorf("fragment index %d out of range [0, %d)", i, n)
		}
		selected[i] = true
	}
	return selected, nil
}

// recognizeAll recognizes the files concurrently and returns one session
// per file, in argument order.
func recognizeAll(ctx context.Context, b *backend.Backend, filenames []string) ([]*reader.Session, error) {
	sessions := make([]*reader.Session, len(filenames))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFiles)
	for i, filename := range filenames {
		i, filename := i, filename
		g.Go(func() error {
			bs, err := os.ReadFile(filename)
			if err != nil {
				return err
			}
			file, err := reader.DetectFile(filename, bs)
			if err != nil {
				return err
			}
			fragments, err := b.Recognize(ctx, file)
			if err != nil {
				return fmt.Errorf("%s: %w", filename, err)
			}
			sessions[i] = reader.NewSession(file, fragments)
			log.WithFields(logrus.Fields{
				"file":      filename,
				"session":   sessions[i].ID.String(),
				"fragments": len(sessions[i].Fragments()),
			}).Debug("recognized")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func runText(cmd *cobra.Command, args []string) error {
	switch format {
	case "text", "csv", "html":
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	ctx := cmd.Context()
	b, err := backend.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	sessions, err := recognizeAll(ctx, b, args)
	if err != nil {
		return err
	}
	extractor := reader.NewExtractor(
		reader.WithStrategy(cfg.Strategy),
		reader.WithParagraphRule(cfg.ParagraphRule),
		reader.WithLogger(log),
	)
	out := cmd.OutOrStdout()
	for i, s := range sessions {
		selected, err := parseSelection(selection, len(s.Fragments()))
		if err != nil {
			return fmt.Errorf("%s: %w", args[i], err)
		}
		for j, sel := range selected {
			s.Set(j, sel)
		}
		if format == "csv" {
			fmt.Fprint(out, csv.FromFragments(s.Fragments(), s.Selected()))
			continue
		}
		text, err := s.Text(extractor)
		if errors.Is(err, reader.ErrEmptySelection) {
			log.WithField("file", args[i]).Info("no text selected")
			continue
		}
		if err != nil {
			return err
		}
		if format == "html" {
			page, err := html.FromText(text, "", "")
			if err != nil {
				return err
			}
			fmt.Fprint(out, page)
			continue
		}
		fmt.Fprintln(out, text)
	}
	return nil
}
