// Package main provides the CLI entrypoint for glossa.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/okrav/glossa/internal/chatui"
	"github.com/okrav/glossa/internal/config"
	"github.com/okrav/glossa/internal/model"
	"github.com/okrav/glossa/internal/review"
	"github.com/okrav/glossa/internal/stats"
	"github.com/okrav/glossa/internal/statsui"
	"github.com/okrav/glossa/internal/store"
	"github.com/okrav/glossa/internal/tui"
	"github.com/okrav/glossa/internal/tutor"
	"github.com/okrav/glossa/internal/wordfile"
)

const (
	defaultLang        = "German"
	defaultScenario    = "chat"
	defaultCurveWindow = 5
)

var (
	reviewLang  string
	reviewLimit int

	chatLang     string
	chatScenario string
	chatModel    string

	dueLang string

	levelLang string

	wordsLang string

	addLang string

	importLang string

	statsLang        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "glossa",
		Short:         "TUI vocabulary trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runReviewCmd,
	}

	addReviewFlags(rootCmd)

	rootCmd.AddCommand(newReviewCmd())
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newDueCmd())
	rootCmd.AddCommand(newLevelCmd())
	rootCmd.AddCommand(newWordsCmd())
	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addReviewFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&reviewLang, "lang", defaultLang, "study language")
	cmd.Flags().IntVar(&reviewLimit, "limit", review.DefaultLimit, "maximum cards per session")
}

func newReviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Run a flashcard session",
		Args:  cobra.NoArgs,
		RunE:  runReviewCmd,
	}
	addReviewFlags(cmd)
	return cmd
}

func runReviewCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "lang", &reviewLang, fileCfg.Review.Lang)
	applyIntConfig(cmd, "limit", &reviewLimit, fileCfg.Review.Limit)

	cfg := model.ReviewConfig{
		Lang:  reviewLang,
		Limit: reviewLimit,
	}
	if err := validateReviewConfig(cfg); err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	level, err := st.GetLevel(ctx, cfg.Lang)
	if err != nil {
		logErrf("failed to load level: %v\n", err)
		level = model.DefaultLevel
	}
	dueCount, err := st.CountDue(ctx, cfg.Lang, time.Now())
	if err != nil {
		logErrf("failed to count due words: %v\n", err)
	}

	session := review.NewSession(st, cfg)
	notice := ""
	if err := session.Load(ctx); err != nil {
		notice = fmt.Sprintf("failed to load due words: %v", err)
	}

	m := tui.NewModel(cfg, st, session, level, dueCount, notice)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk with the tutor",
		Args:  cobra.NoArgs,
		RunE:  runChatCmd,
	}
	cmd.Flags().StringVar(&chatLang, "lang", defaultLang, "study language")
	cmd.Flags().StringVar(&chatScenario, "scenario", defaultScenario, "conversation scenario")
	cmd.Flags().StringVar(&chatModel, "model", tutor.DefaultModel, "generation model")
	return cmd
}

func runChatCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "lang", &chatLang, fileCfg.Chat.Lang)
	applyStringConfig(cmd, "scenario", &chatScenario, fileCfg.Chat.Scenario)
	applyStringConfig(cmd, "model", &chatModel, fileCfg.Chat.Model)

	cfg := model.ChatConfig{
		Lang:     chatLang,
		Scenario: chatScenario,
		Model:    chatModel,
	}
	if !model.KnownLanguage(cfg.Lang) {
		return fmt.Errorf("unknown language %q (available: %s)", cfg.Lang, strings.Join(model.Languages, ", "))
	}
	if !tutor.KnownScenario(cfg.Scenario) {
		return fmt.Errorf("unknown scenario %q (available: %s)", cfg.Scenario, strings.Join(tutor.Scenarios(), ", "))
	}

	client, err := tutor.NewFromEnv(cfg.Model)
	if err != nil {
		return fmt.Errorf("set %s to use chat: %w", tutor.APIKeyEnv, err)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	level, err := st.GetLevel(context.Background(), cfg.Lang)
	if err != nil {
		logErrf("failed to load level: %v\n", err)
		level = model.DefaultLevel
	}

	m := chatui.NewModel(cfg, st, client, level)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run chat TUI: %w", err)
	}
	return nil
}

func newDueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "due",
		Short: "List words due for review",
		Args:  cobra.NoArgs,
		RunE:  runDueCmd,
	}
	cmd.Flags().StringVar(&dueLang, "lang", defaultLang, "study language")
	return cmd
}

func runDueCmd(cmd *cobra.Command, _ []string) error {
	if !model.KnownLanguage(dueLang) {
		return fmt.Errorf("unknown language %q (available: %s)", dueLang, strings.Join(model.Languages, ", "))
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	now := time.Now()
	count, err := st.CountDue(ctx, dueLang, now)
	if err != nil {
		return fmt.Errorf("failed to count due words: %w", err)
	}
	items, err := st.QueryDue(ctx, dueLang, now, count)
	if err != nil {
		return fmt.Errorf("failed to load due words: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(items) == 0 {
		if _, err := fmt.Fprintf(out, "Nothing due in %s.\n", dueLang); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	for _, item := range items {
		if _, err := fmt.Fprintf(out, "%s\t%s\t%d/5\n", item.Word, item.Translation, item.Proficiency); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if _, err := fmt.Fprintf(out, "%d due in %s\n", count, dueLang); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newLevelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "level [A1|A2|B1|B2|C1|C2]",
		Short: "Show or set the study level",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLevelCmd,
	}
	cmd.Flags().StringVar(&levelLang, "lang", defaultLang, "study language")
	return cmd
}

func runLevelCmd(cmd *cobra.Command, args []string) error {
	if !model.KnownLanguage(levelLang) {
		return fmt.Errorf("unknown language %q (available: %s)", levelLang, strings.Join(model.Languages, ", "))
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	if len(args) == 1 {
		level, err := model.ParseLevel(args[0])
		if err != nil {
			return err
		}
		if err := st.SetLevel(ctx, levelLang, level, time.Now()); err != nil {
			return fmt.Errorf("failed to set level: %w", err)
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s level set to %s\n", levelLang, level); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	level, err := st.GetLevel(ctx, levelLang)
	if err != nil {
		return fmt.Errorf("failed to load level: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s level: %s\n", levelLang, level); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newWordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "words",
		Short: "List stored vocabulary",
		Args:  cobra.NoArgs,
		RunE:  runWordsCmd,
	}
	cmd.Flags().StringVar(&wordsLang, "lang", defaultLang, "study language")
	return cmd
}

func runWordsCmd(cmd *cobra.Command, _ []string) error {
	if !model.KnownLanguage(wordsLang) {
		return fmt.Errorf("unknown language %q (available: %s)", wordsLang, strings.Join(model.Languages, ", "))
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	items, err := st.ListWords(context.Background(), wordsLang)
	if err != nil {
		return fmt.Errorf("failed to list words: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(items) == 0 {
		if _, err := fmt.Fprintf(out, "No words stored for %s yet.\n", wordsLang); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	for _, item := range items {
		next := "-"
		if item.NextReview != nil {
			next = item.NextReview.Format("2006-01-02")
		}
		if _, err := fmt.Fprintf(out, "%s\t%s\t%d/5\t%s\n", item.Word, item.Translation, item.Proficiency, next); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <word> <translation>",
		Short: "Add one word",
		Args:  cobra.ExactArgs(2),
		RunE:  runAddCmd,
	}
	cmd.Flags().StringVar(&addLang, "lang", defaultLang, "study language")
	return cmd
}

func runAddCmd(cmd *cobra.Command, args []string) error {
	if !model.KnownLanguage(addLang) {
		return fmt.Errorf("unknown language %q (available: %s)", addLang, strings.Join(model.Languages, ", "))
	}
	word := strings.TrimSpace(args[0])
	translation := strings.TrimSpace(args[1])
	if word == "" || translation == "" {
		return fmt.Errorf("word and translation must not be empty")
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	inserted, err := st.UpsertWordIfAbsent(context.Background(), word, addLang, translation, time.Now())
	if err != nil {
		return fmt.Errorf("failed to add word: %w", err)
	}
	out := cmd.OutOrStdout()
	if !inserted {
		if _, err := fmt.Fprintf(out, "%q is already stored; progress kept.\n", word); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if _, err := fmt.Fprintf(out, "Added %q to %s.\n", word, addLang); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import tab-separated word pairs",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
	cmd.Flags().StringVar(&importLang, "lang", defaultLang, "study language")
	return cmd
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	if !model.KnownLanguage(importLang) {
		return fmt.Errorf("unknown language %q (available: %s)", importLang, strings.Join(model.Languages, ", "))
	}
	candidates, skipped, err := wordfile.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load word file: %w", err)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	saved, err := st.SaveCandidates(context.Background(), importLang, candidates, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save words: %w", err)
	}
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "Imported %d new of %d entries into %s.\n", len(saved), len(candidates), importLang); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if skipped > 0 {
		logErrf("Skipped %d malformed lines.\n", skipped)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show review stats",
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsLang, "lang", "", "language filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a plain report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	if statsLang != "" && !model.KnownLanguage(statsLang) {
		return fmt.Errorf("unknown language %q (available: %s)", statsLang, strings.Join(model.Languages, ", "))
	}
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}

	cfg := model.StatsConfig{
		Lang:        statsLang,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain {
		report, err := stats.BuildReport(context.Background(), st, cfg)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		if err := report.Render(cmd.OutOrStdout(), cfg.CurveWindow); err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		return nil
	}

	m := statsui.NewModel(st, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# glossa configuration
# Uncomment a value to enable it. CLI flags override config values.

[review]
# lang = %q          # Study language (default %q)
# limit = %d               # Maximum cards per session

[chat]
# lang = %q          # Study language (default %q)
# scenario = %q        # Conversation scenario
# model = %q  # Generation model
`,
		defaultLang, defaultLang,
		review.DefaultLimit,
		defaultLang, defaultLang,
		defaultScenario,
		tutor.DefaultModel,
	)
}

func validateReviewConfig(cfg model.ReviewConfig) error {
	if !model.KnownLanguage(cfg.Lang) {
		return fmt.Errorf("unknown language %q (available: %s)", cfg.Lang, strings.Join(model.Languages, ", "))
	}
	if cfg.Limit <= 0 {
		return fmt.Errorf("--limit must be > 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
