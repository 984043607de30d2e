package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"todoapp/backend"
	_ "todoapp/backend/file"
	_ "todoapp/backend/keyring"
	_ "todoapp/backend/memory"
	_ "todoapp/backend/sqlite"
	"todoapp/internal/config"
	"todoapp/internal/store"
	"todoapp/internal/tui"
	"todoapp/internal/utils"
	"todoapp/internal/views"
)

// Version is set at build time
var Version = "dev"

// Result codes for CLI output (used in no-prompt mode)
const (
	ResultActionCompleted = "ACTION_COMPLETED"
	ResultInfoOnly        = "INFO_ONLY"
	ResultError           = "ERROR"
)

// Config holds settings injected by the caller. Zero values fall back to the
// config file.
type Config struct {
	NoPrompt   bool
	Verbose    bool
	ConfigPath string // config file; empty means the XDG default
	Backend    string // overrides the configured backend
	DBPath     string // overrides backends.sqlite.path (for testing)
	FileDir    string // overrides backends.file.dir (for testing)

	// IsTerminal reports whether w is an interactive terminal. Nil checks
	// for a TTY with golang.org/x/term.
	IsTerminal func(w io.Writer) bool

	// Stdin answers confirmation prompts (os.Stdin when nil)
	Stdin io.Reader
}

// Execute runs the CLI with the given arguments and IO writers
func Execute(args []string, stdout, stderr io.Writer, cfg *Config) int {
	rootCmd := NewTodoApp(stdout, stderr, cfg)

	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	utils.GetLogger().SetOutput(stderr)
	defer utils.GetLogger().SetOutput(os.Stderr)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if containsJSONFlag(args) {
			outputErrorJSON(err, stdout)
		} else {
			_, _ = fmt.Fprintln(stderr, "Error:", err)
			if cfg != nil && cfg.NoPrompt {
				_, _ = fmt.Fprintln(stdout, ResultError)
			}
		}
		return 1
	}
	return 0
}

// containsJSONFlag checks if args contain --json flag
func containsJSONFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--json" {
			return true
		}
	}
	return false
}

// NewTodoApp creates the root command with injectable IO
func NewTodoApp(stdout, stderr io.Writer, cfg *Config) *cobra.Command {
	if cfg == nil {
		cfg = &Config{}
	}

	cmd := &cobra.Command{
		Use:     "todoapp",
		Short:   "A single-user to-do list",
		Long:    "todoapp keeps an ordered to-do list in a local persistence slot.\nRun without arguments on a terminal to open the interactive UI.",
		Version: Version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, cfg)
			if err != nil {
				return err
			}
			defer a.close()

			if a.isTerminal(stdout) {
				return a.runTUI(cmd.Context())
			}
			return a.list(stdout, a.settings.GetDefaultFilter(), a.json)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	cmd.PersistentFlags().String("config", "", "Config file (default $XDG_CONFIG_HOME/todoapp/config.yaml)")
	cmd.PersistentFlags().String("backend", "", "Persistence backend (sqlite, file, keyring, memory)")
	cmd.PersistentFlags().BoolP("verbose", "V", false, "Enable verbose/debug output")
	cmd.PersistentFlags().BoolP("no-prompt", "y", false, "Disable interactive prompts and print result codes")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")

	cmd.AddCommand(newTUICmd(cfg))
	cmd.AddCommand(newAddCmd(stdout, cfg))
	cmd.AddCommand(newListCmd(stdout, cfg))
	cmd.AddCommand(newToggleCmd(stdout, cfg))
	cmd.AddCommand(newDeleteCmd(stdout, cfg))
	cmd.AddCommand(newEditCmd(stdout, cfg))
	cmd.AddCommand(newExportCmd(stdout, cfg))
	cmd.AddCommand(newImportCmd(stdout, cfg))
	cmd.AddCommand(newVersionCmd(stdout))

	return cmd
}

// app is the per-invocation state: loaded settings, the open slot and the store
type app struct {
	cfg      *Config
	settings *config.Config
	kv       backend.KeyValueStore
	store    *store.Store
	noPrompt bool
	json     bool
}

// openApp loads the config, opens the backend and hydrates the store
func openApp(cmd *cobra.Command, cfg *Config) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = cfg.ConfigPath
	}

	settings, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	backendName, _ := cmd.Flags().GetString("backend")
	if backendName == "" {
		backendName = cfg.Backend
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	verbose = verbose || cfg.Verbose
	settings.ApplyFlags(backendName, verbose)
	if cfg.DBPath != "" {
		settings.Backends.SQLite.Path = cfg.DBPath
	}
	if cfg.FileDir != "" {
		settings.Backends.File.Dir = cfg.FileDir
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	logger := utils.GetLogger()
	logger.SetLevel(settings.Logging.Level)
	logger.SetFormatter(settings.Logging.Format)
	utils.SetVerboseMode(verbose)

	if !backend.IsRegistered(settings.Backend) {
		return nil, utils.ErrUnknownBackend(settings.Backend, backend.Names())
	}
	kv, err := backend.Open(settings.Backend, settings.BackendOptions())
	if err != nil {
		return nil, utils.ErrBackendUnavailable(settings.Backend, err)
	}
	utils.Debugf("opened %s backend, slot %q", settings.Backend, settings.StorageKey)
	if m, ok := kv.(modifiedReporter); ok {
		if at, found, err := m.Modified(cmd.Context(), settings.StorageKey); err == nil && found {
			utils.Debugf("slot %q last written %s", settings.StorageKey, at.Format(time.RFC3339))
		}
	}

	s := store.New(kv, store.WithKey(settings.StorageKey))
	if err := s.Load(cmd.Context()); err != nil {
		_ = kv.Close()
		return nil, utils.ErrBackendUnavailable(settings.Backend, err)
	}

	noPrompt, _ := cmd.Flags().GetBool("no-prompt")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	return &app{
		cfg:      cfg,
		settings: settings,
		kv:       kv,
		store:    s,
		noPrompt: noPrompt || cfg.NoPrompt,
		json:     jsonOutput,
	}, nil
}

// modifiedReporter is implemented by backends that record write times
type modifiedReporter interface {
	Modified(ctx context.Context, key string) (time.Time, bool, error)
}

func (a *app) close() {
	if err := a.kv.Close(); err != nil {
		utils.Warnf("closing backend: %v", err)
	}
}

// isTerminal reports whether w is an interactive terminal
func (a *app) isTerminal(w io.Writer) bool {
	if a.cfg.IsTerminal != nil {
		return a.cfg.IsTerminal(w)
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of w when it is a terminal, else 0
func (a *app) terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// runTUI runs the interactive UI with logs redirected to the log file
func (a *app) runTUI(ctx context.Context) error {
	logFile, err := utils.OpenLogFile(a.settings.Logging.File)
	if err != nil {
		utils.Warnf("logging to stderr: %v", err)
	} else {
		defer func() { _ = logFile.Close() }()
	}
	utils.Infof("starting tui with %d tasks on the %s backend", a.store.Len(), a.settings.Backend)

	return tui.Run(ctx, tui.New(a.store, a.settings.GetDefaultFilter()))
}

// confirm asks before a destructive action. It only prompts on an
// interactive terminal with prompts enabled; otherwise it proceeds.
func (a *app) confirm(stdout io.Writer, prompt string) bool {
	if a.noPrompt || !a.isTerminal(stdout) {
		return true
	}
	stdin := a.cfg.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	return utils.Confirm(prompt, false, stdin, stdout)
}

// actionDone reports a completed mutation
func (a *app) actionDone(stdout io.Writer, action string, task backend.Task, message string) error {
	if a.json {
		return outputActionJSON(action, task, stdout)
	}
	_, _ = fmt.Fprintln(stdout, message)
	if a.noPrompt {
		_, _ = fmt.Fprintln(stdout, ResultActionCompleted)
	}
	return nil
}

// infoOnly reports an action that changed nothing
func (a *app) infoOnly(stdout io.Writer, message string) error {
	if a.json {
		return outputInfoJSON(message, stdout)
	}
	_, _ = fmt.Fprintln(stdout, message)
	if a.noPrompt {
		_, _ = fmt.Fprintln(stdout, ResultInfoOnly)
	}
	return nil
}

func newTUICmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, cfg)
			if err != nil {
				return err
			}
			defer a.close()
			return a.runTUI(cmd.Context())
		},
	}
}

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(stdout, "todoapp version %s\n", Version)
		},
	}
}

type actionResponse struct {
	Action string       `json:"action"`
	Task   backend.Task `json:"task"`
	Result string       `json:"result"`
}

type infoResponse struct {
	Message string `json:"message"`
	Result  string `json:"result"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Code   int    `json:"code"`
	Result string `json:"result"`
}

// outputActionJSON outputs action result in JSON format
func outputActionJSON(action string, task backend.Task, stdout io.Writer) error {
	response := actionResponse{
		Action: action,
		Task:   task,
		Result: ResultActionCompleted,
	}

	jsonBytes, err := json.Marshal(response)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(stdout, string(jsonBytes))
	return nil
}

func outputInfoJSON(message string, stdout io.Writer) error {
	jsonBytes, err := json.Marshal(infoResponse{Message: message, Result: ResultInfoOnly})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(stdout, string(jsonBytes))
	return nil
}

// outputErrorJSON outputs error in JSON format
func outputErrorJSON(err error, stdout io.Writer) {
	response := errorResponse{
		Error:  err.Error(),
		Code:   1,
		Result: ResultError,
	}

	jsonBytes, _ := json.Marshal(response)
	_, _ = fmt.Fprintln(stdout, string(jsonBytes))
}

// printPage writes a page as text sized to the terminal, or as JSON
func (a *app) printPage(stdout io.Writer, page views.Page, jsonOutput bool) error {
	renderer := views.NewRenderer(stdout, a.terminalWidth(stdout))
	if jsonOutput {
		return renderer.RenderJSON(page)
	}
	renderer.Render(page)
	return nil
}
