package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vegarsti/reader"
	"github.com/vegarsti/reader/backend"
	"github.com/vegarsti/reader/box"
	"github.com/vegarsti/reader/csv"
	"github.com/vegarsti/reader/image"
)

var fragmentsCmd = &cobra.Command{
	Use:   "fragments FILE",
	Short: "Print the recognized fragments of a file as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := backend.New(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer b.Close()
		sessions, err := recognizeAll(cmd.Context(), b, args)
		if err != nil {
			return err
		}
		s := sessions[0]
		fmt.Fprint(cmd.OutOrStdout(), csv.FromFragments(s.Fragments(), s.Selected()))
		return nil
	},
}

var overlayCmd = &cobra.Command{
	Use:   "overlay IMAGE OUTPUT",
	Short: "Write a PNG of the image with the recognized fragments outlined",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := backend.New(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer b.Close()
		sessions, err := recognizeAll(cmd.Context(), b, args[:1])
		if err != nil {
			return err
		}
		s := sessions[0]
		if !s.File.IsImage() {
			return fmt.Errorf("%s is not an image", args[0])
		}
		out, err := image.Overlay(s.File.Bytes, boxesOf(s.Fragments()))
		if err != nil {
			return err
		}
		return os.WriteFile(args[1], out, 0o644)
	},
}

func boxesOf(fragments []reader.Fragment) []box.Box {
	boxes := make([]box.Box, 0, len(fragments))
	for _, f := range fragments {
		boxes = append(boxes, f.Box)
	}
	return boxes
}
