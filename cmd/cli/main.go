package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vegarsti/reader"
	"github.com/vegarsti/reader/config"
)

var (
	envFile  string
	strategy string
	rule     string

	cfg *config.Config
	log *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:           "reader",
	Short:         "Read the text of scanned pages in reading order",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnv(envFile); err != nil && cmd.Flags().Changed("env") {
			return err
		}
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if strategy != "" {
			if cfg.Strategy, err = reader.ParseStrategy(strategy); err != nil {
				return err
			}
		}
		if rule != "" {
			if cfg.ParagraphRule, err = reader.ParseParagraphRule(rule); err != nil {
				return err
			}
		}
		log = cfg.NewLogger()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "File with environment variables")
	rootCmd.PersistentFlags().StringVar(&strategy, "strategy", "", "Sort strategy: original, xy, linear or xy-linear")
	rootCmd.PersistentFlags().StringVar(&rule, "rule", "", "Paragraph rule: simple or punctuated")
	rootCmd.AddCommand(textCmd, fragmentsCmd, overlayCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		die(err)
	}
}

func die(err error) {
	fmt.Fprintf(os.Stderr, "reader: %v\n", err)
	os.Exit(1)
}
