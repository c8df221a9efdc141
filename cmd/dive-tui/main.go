package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/datadive/tui/internal/app"
	"github.com/datadive/tui/internal/client"
	"github.com/datadive/tui/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type options struct {
	configPath string
	serverURL  string
	roomCode   string
	name       string
	logFile    string
}

func newCmd(opts *options) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("DATADIVE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "dive-tui",
		Short:         "Terminal client for DataDive, the SQL guessing game.",
		Args:          cobra.ExactArgs(0),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Flags(), opts)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file (env: DATADIVE_CONFIG)")
	fs.StringVarP(&opts.serverURL, "url", "u", "", "WebSocket URL of the game server (env: DATADIVE_URL)")
	fs.StringVarP(&opts.roomCode, "room", "r", "", "room code to join (env: DATADIVE_ROOM)")
	fs.StringVarP(&opts.name, "name", "n", "", "display name (env: DATADIVE_NAME)")
	fs.StringVar(&opts.logFile, "log-file", "", "append structured logs to this file (env: DATADIVE_LOG_FILE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	return cmd
}

func run(fs *pflag.FlagSet, opts *options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Flags and env vars win over the config file.
	if fs.Changed("url") || opts.serverURL != "" {
		cfg.Server.URL = opts.serverURL
	}
	if fs.Changed("room") || opts.roomCode != "" {
		cfg.Player.RoomCode = opts.roomCode
	}
	if fs.Changed("name") || opts.name != "" {
		cfg.Player.DisplayName = opts.name
	}
	if fs.Changed("log-file") || opts.logFile != "" {
		cfg.LogFile = opts.logFile
	}

	log, closeLog, err := newLogger(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	wsURL, err := buildURL(cfg)
	if err != nil {
		return err
	}

	ws := client.New(wsURL, log)
	p := tea.NewProgram(app.New(ws, cfg, log), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}

// newLogger writes to the given file, or discards everything when no
// file is configured. Stdout and stderr belong to the TUI.
func newLogger(path string) (zerolog.Logger, func(), error) {
	if path == "" {
		return zerolog.Nop(), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	log := zerolog.New(f).With().Timestamp().Logger()
	return log, func() { _ = f.Close() }, nil
}

// buildURL appends the room code and display name as query parameters.
func buildURL(cfg *config.Config) (string, error) {
	u, err := url.Parse(cfg.Server.URL)
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	q := u.Query()
	if cfg.Player.RoomCode != "" {
		q.Set("room", cfg.Player.RoomCode)
	}
	if cfg.Player.DisplayName != "" {
		q.Set("name", cfg.Player.DisplayName)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func main() {
	opts := &options{}
	if err := newCmd(opts).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
