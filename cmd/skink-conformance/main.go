// Command skink-conformance runs the built-in behavioral scenarios against a
// fresh realm each and reports the results. It exists so semantics changes
// can be smoke-checked from the command line without the test harness.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"skink/pkg/builtins"
)

var (
	passMark = color.New(color.FgGreen).SprintFunc()
	failMark = color.New(color.FgRed, color.Bold).SprintFunc()
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	var (
		verbose  bool
		listOnly bool
		pattern  string
	)

	root := &cobra.Command{
		Use:           "skink-conformance",
		Short:         "Run the skink object-model conformance scenarios",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
			if listOnly {
				for _, s := range scenarios {
					fmt.Fprintln(cmd.OutOrStdout(), s.name)
				}
				return nil
			}
			return runScenarios(cmd, log, pattern)
		},
	}
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.Flags().BoolVar(&listOnly, "list", false, "list scenario names without running them")
	root.Flags().StringVar(&pattern, "run", "", "only run scenarios whose name matches this glob")

	if err := root.Execute(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func runScenarios(cmd *cobra.Command, log *logrus.Logger, pattern string) error {
	out := cmd.OutOrStdout()
	start := time.Now()
	var ran, failed int

	for _, s := range scenarios {
		if pattern != "" {
			matched, err := filepath.Match(pattern, s.name)
			if err != nil {
				return fmt.Errorf("bad --run pattern %q: %w", pattern, err)
			}
			if !matched && !strings.Contains(s.name, pattern) {
				continue
			}
		}
		ran++

		realm, err := builtins.NewRealm()
		if err != nil {
			return fmt.Errorf("realm setup: %w", err)
		}
		log.WithField("scenario", s.name).Debug("running")

		if err := s.run(realm); err != nil {
			failed++
			fmt.Fprintf(out, "%s %s\n", failMark("FAIL"), s.name)
			fmt.Fprintf(out, "     %v\n", err)
			continue
		}
		fmt.Fprintf(out, "%s %s\n", passMark("PASS"), s.name)
	}

	elapsed := time.Since(start).Round(time.Millisecond)
	if ran == 0 {
		return fmt.Errorf("no scenarios matched %q", pattern)
	}
	fmt.Fprintf(out, "\n%d scenarios, %d failed (%s)\n", ran, failed, elapsed)
	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, ran)
	}
	return nil
}
