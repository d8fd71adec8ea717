//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/timburks/notopad/pkg/capability"
	"github.com/timburks/notopad/pkg/config"
	"github.com/timburks/notopad/pkg/screen"
	"github.com/timburks/notopad/pkg/session"
)

var (
	cfgFile string
	script  string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "notopad [files...]",
	Short: "notopad: a modal text editor for the terminal",
	Long: `notopad edits one text file at a time in the terminal. Keys follow vi,
with Ctrl shortcuts for saving, opening, finding and undoing. Commands
typed after : and lisp expressions typed after ( do everything else.`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.notopad/config.yaml)")
	rootCmd.Flags().StringVar(&script, "eval", "", "run a lisp script on the first file and exit")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "log at debug level")
}

// openLog sends slog output to the log file. The terminal belongs to the screen.
func openLog(settings *config.Settings) (func(), error) {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(settings.LogLevel)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if debug {
		level = slog.LevelDebug
	}
	if err := os.MkdirAll(filepath.Dir(settings.LogFile), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(settings.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})))
	return func() { f.Close() }, nil
}

func run(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	closeLog, err := openLog(settings)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.Info("starting", "config", settings.Path(), "files", args)

	s, err := session.New(settings, capability.Detect(settings))
	if err != nil {
		return err
	}
	openErr := s.Open(args)

	if script != "" {
		// Run a script and exit.
		if openErr != nil {
			return openErr
		}
		source, err := os.ReadFile(script)
		if err != nil {
			return err
		}
		result, err := s.Eval(string(source))
		if cerr := s.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		if result != "" {
			fmt.Fprintln(cmd.OutOrStdout(), result)
		}
		return nil
	}

	// Create a screen to manage display.
	scr, err := screen.NewScreen()
	if err != nil {
		return err
	}
	defer scr.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx, scr)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
