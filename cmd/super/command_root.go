package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/picatz/super"
	"github.com/picatz/super/internal/history"
	"github.com/picatz/super/internal/render"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "super",
		Short: "Send a prompt from stdin to an OpenAI-compatible chat API",
		Long: `super reads a prompt from standard input, sends it to the chat completions
endpoint under --base-url, and prints the reply on standard output.

The API key is read from the environment variable named by --api-key.
Flags may also be set with SUPER_* environment variables or in $HOME/.super.yaml.`,
		Example: `  echo "Hello!" | OPENAI_API_KEY=sk-... super --base-url http://localhost:8080/v1 --model gpt-4o --api-key OPENAI_API_KEY`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runQuery(cmd, cfg)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	cmd.Flags().String(flagBaseURL, "", "base URL of the API, e.g. http://localhost:8080/v1")
	cmd.Flags().String(flagModel, "", "model name")
	cmd.Flags().String(flagAPIKey, "", "name of the environment variable holding the API key")
	cmd.Flags().BoolP(flagMarkdown, "m", false, "render the reply as terminal markdown")
	cmd.Flags().Bool(flagHistory, false, "record the query in the history database")

	cmd.PersistentFlags().String(flagConfig, "", "config file (default is $HOME/.super.yaml)")
	cmd.PersistentFlags().String(flagEnvFile, "", "dotenv file to load before reading the API key")
	cmd.PersistentFlags().BoolP(flagVerbose, "v", false, "log debug output to stderr")
	cmd.PersistentFlags().String(flagHistoryPath, "", "history database directory (default is $HOME/.super-history)")

	cmd.AddCommand(newHistoryCommand())

	return cmd
}

// runQuery validates the invocation, sends the prompt read from stdin and
// writes the reply to stdout. Every check that does not need the network
// happens before the query is sent.
func runQuery(cmd *cobra.Command, cfg *config) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	apiKey, err := cfg.apiKey()
	if err != nil {
		return err
	}

	input, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}

	prompt := strings.TrimSpace(string(input))
	if prompt == "" {
		return errors.New("no input provided on stdin")
	}

	stderr := cmd.ErrOrStderr()
	echoConfig(stderr, cfg, prompt)

	logger := newLogger(stderr, cfg.Verbose)

	client := super.NewClient(cfg.BaseURL, apiKey, super.WithLogger(logger))

	reply, queryErr := client.Query(cmd.Context(), cfg.Model, prompt)

	if cfg.History {
		if err := recordExchange(cmd, cfg, logger, prompt, reply, queryErr); err != nil {
			fmt.Fprintln(stderr, styleWarning.Render("history: "+err.Error()))
		}
	}

	if queryErr != nil {
		return queryErr
	}

	return writeReply(cmd.OutOrStdout(), reply, cfg.Markdown)
}

// echoConfig writes the invocation's settings to w, with the credential masked.
func echoConfig(w io.Writer, cfg *config, prompt string) {
	line := func(label, value string) {
		fmt.Fprintf(w, "%s %s\n", styleFaint.Render(label), value)
	}

	line("base_url:", cfg.BaseURL)
	line("model:   ", cfg.Model)
	line("api_key: ", "******** (from "+cfg.APIKeyEnv+")")
	line("prompt:  ", prompt)
}

func writeReply(w io.Writer, reply string, markdown bool) error {
	if markdown {
		width := render.DefaultWidth
		if f, ok := w.(*os.File); ok {
			width = render.Width(f)
		}

		out, err := render.Markdown(reply, width)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	}

	_, err := fmt.Fprintln(w, reply)
	return err
}

func recordExchange(cmd *cobra.Command, cfg *config, logger *slog.Logger, prompt, reply string, queryErr error) error {
	backend, err := openHistory(cfg.HistoryPath, logger)
	if err != nil {
		return err
	}
	defer backend.Close(cmd.Context())

	ex := history.Exchange{
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Prompt:  prompt,
		Reply:   reply,
	}
	if queryErr != nil {
		ex.Error = queryErr.Error()
	}

	ex, err = history.NewRecorder(backend).Record(cmd.Context(), ex)
	if err != nil {
		return err
	}

	logger.DebugContext(cmd.Context(), "recorded exchange", "id", ex.ID, "path", cfg.HistoryPath)

	return nil
}
