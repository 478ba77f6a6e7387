package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vonshlovens/moodlog/internal/backup"
	"github.com/vonshlovens/moodlog/internal/config"
	"github.com/vonshlovens/moodlog/internal/diary"
	"github.com/vonshlovens/moodlog/internal/parser"
	"github.com/vonshlovens/moodlog/internal/sync"
	"github.com/vonshlovens/moodlog/internal/timeline"
)

var (
	cfgFile string
	verbose bool
	version = "dev"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "moodlog",
		Short:   "Local mood journal",
		Long:    `A local journal for daily mood entries, moments and monthly reflections, with a timeline, streaks and a report.`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	rootCmd.AddCommand(
		initCmd(),
		todayCmd(),
		writeCmd(),
		momentCmd(),
		deleteCmd(),
		reflectCmd(),
		timelineCmd(),
		reportCmd(),
		streakCmd(),
		themeCmd(),
		exportCmd(),
		importCmd(),
		watchCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for input the user can correct, 1 otherwise
func exitCode(err error) int {
	if diary.IsValidation(err) {
		return 2
	}
	return 1
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Interactive setup to create config file",
		Long:  `Interactively creates a configuration file and seeds an empty journal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(os.Stdin)

			fmt.Println("=== moodlog setup ===")
			fmt.Println()

			fmt.Print("Storage backend (diskv, sqlite, memory) [diskv]: ")
			backend, _ := reader.ReadString('\n')
			backend = strings.TrimSpace(backend)
			if backend == "" {
				backend = config.BackendDiskv
			}

			fmt.Printf("Theme (%s) [%s]: ", strings.Join(diary.Themes, ", "), diary.DefaultTheme)
			theme, _ := reader.ReadString('\n')
			theme = strings.TrimSpace(theme)
			if theme == "" {
				theme = diary.DefaultTheme
			}
			if !diary.ValidTheme(theme) {
				return fmt.Errorf("unknown theme: %s", theme)
			}

			content := strings.Replace(config.StarterConfig, "backend: diskv", "backend: "+backend, 1)
			content = strings.Replace(content, "default_theme: mint", "default_theme: "+theme, 1)

			configDir, err := config.GetStateDir()
			if err != nil {
				return err
			}
			configPath := filepath.Join(configDir, "config.yaml")
			if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}
			cfgFile = configPath

			a, err := openApp(mode{view: sync.ViewDiary})
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Printf("\nConfig file written to: %s\n", configPath)
			fmt.Printf("Journal stored at: %s\n", a.cfg.Store.Path)
			fmt.Println("\nTo write today's entry, run: moodlog write \"...\"")
			return nil
		},
	}
}

func todayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's entry and streak",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(mode{view: sync.ViewDiary, paint: true, status: true})
			if err != nil {
				return err
			}
			a.Close()
			return nil
		},
	}
}

func writeCmd() *cobra.Command {
	var (
		file      string
		mood      string
		achieve   string
		stress    string
		gratitude []string
		selfCare  []string
		highlight string
		photos    []string
	)

	cmd := &cobra.Command{
		Use:   "write [content]",
		Short: "Write or replace today's entry",
		Long:  `Saves today's diary entry. Writing again on the same day replaces the entry. Use --file to read a markdown draft with YAML frontmatter.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in diary.EntryInput
			if file != "" {
				draft, err := parser.NewParser().ParseFile(file)
				if err != nil {
					return err
				}
				in = draft.Input()
			}

			if len(args) > 0 {
				in.Content = strings.Join(args, " ")
			}
			if cmd.Flags().Changed("mood") || in.Mood == "" {
				in.Mood = diary.Mood(mood)
			}
			if achieve != "" {
				in.Achievements = achieve
			}
			if stress != "" {
				in.Stress = stress
			}
			if highlight != "" {
				in.Highlight = highlight
			}
			for i := 0; i < len(gratitude) && i < len(in.Gratitude); i++ {
				in.Gratitude[i] = gratitude[i]
			}
			in.SelfCare = append(in.SelfCare, selfCare...)

			for _, p := range photos {
				encoded, err := encodePhoto(p)
				if err != nil {
					return err
				}
				in.Photos = append(in.Photos, encoded)
			}

			a, err := openApp(mode{view: sync.ViewDiary})
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.coord.SaveDailyEntry(in); err != nil {
				return err
			}
			a.terminal.Quiet = false
			a.terminal.RenderStreak(a.coord.State().Streak)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "markdown draft to read")
	cmd.Flags().StringVarP(&mood, "mood", "m", string(diary.DefaultMood), "mood emoji (😢 😡 😴 😊 ✨)")
	cmd.Flags().StringVar(&achieve, "achievements", "", "what went well")
	cmd.Flags().StringVar(&stress, "stress", "", "what was stressful")
	cmd.Flags().StringArrayVarP(&gratitude, "gratitude", "g", nil, "something you are grateful for (up to 3)")
	cmd.Flags().StringArrayVarP(&selfCare, "self-care", "s", nil, "completed self-care item")
	cmd.Flags().StringVar(&highlight, "highlight", "", "highlight of the day, also added to moments")
	cmd.Flags().StringArrayVarP(&photos, "photo", "p", nil, "image file to attach")

	return cmd
}

func momentCmd() *cobra.Command {
	var (
		description string
		mood        string
	)

	cmd := &cobra.Command{
		Use:   "moment <name>",
		Short: "Save a moment for today",
		Long:  `Saves a moment dated today. A moment with the same name on the same day is replaced.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(mode{view: sync.ViewDiary})
			if err != nil {
				return err
			}
			defer a.Close()

			return a.coord.SaveMoment(diary.MomentInput{
				Name:        strings.Join(args, " "),
				Description: description,
				Mood:        diary.Mood(mood),
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "moment description")
	cmd.Flags().StringVarP(&mood, "mood", "m", "", "mood emoji, ⭐ when empty")

	return cmd
}

func deleteCmd() *cobra.Command {
	var moment bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry or a moment by id",
		Long:  `Deletes the entry with the given id, or the moment with --moment. Ids are listed by the timeline command.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(mode{view: sync.ViewDiary})
			if err != nil {
				return err
			}
			defer a.Close()

			if moment {
				return a.coord.DeleteMoment(args[0])
			}
			return a.coord.DeleteEntry(args[0])
		},
	}

	cmd.Flags().BoolVar(&moment, "moment", false, "delete a moment instead of an entry")
	return cmd
}

func reflectCmd() *cobra.Command {
	var (
		learned string
		proud   string
		improve string
		list    bool
	)

	cmd := &cobra.Command{
		Use:   "reflect",
		Short: "Show or write this month's reflection",
		RunE: func(cmd *cobra.Command, args []string) error {
			writing := cmd.Flags().Changed("learned") || cmd.Flags().Changed("proud") || cmd.Flags().Changed("improve")

			a, err := openApp(mode{view: sync.ViewReflection, paint: !list && !writing})
			if err != nil {
				return err
			}
			defer a.Close()

			if list {
				a.terminal.Mute = false
				for _, rec := range a.coord.ListReflections() {
					a.terminal.RenderReflectionForm(rec)
				}
				return nil
			}
			if !writing {
				return nil
			}

			// Unset flags keep what was already written this month
			current := a.coord.LoadReflection()
			in := diary.ReflectionInput{
				Learned:     current.Learned,
				ProudOf:     current.ProudOf,
				Improvement: current.Improvement,
			}
			if cmd.Flags().Changed("learned") {
				in.Learned = learned
			}
			if cmd.Flags().Changed("proud") {
				in.ProudOf = proud
			}
			if cmd.Flags().Changed("improve") {
				in.Improvement = improve
			}
			return a.coord.SaveReflection(in)
		},
	}

	cmd.Flags().StringVar(&learned, "learned", "", "what you learned this month")
	cmd.Flags().StringVar(&proud, "proud", "", "what you are proud of")
	cmd.Flags().StringVar(&improve, "improve", "", "what to improve next month")
	cmd.Flags().BoolVar(&list, "list", false, "show every month")

	return cmd
}

func timelineCmd() *cobra.Command {
	var (
		search string
		mood   string
		kind   string
	)

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "List entries and moments, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := timeline.ParseKind(kind)
			if err != nil {
				return err
			}

			a, err := openApp(mode{
				view:   sync.ViewTimeline,
				filter: timeline.Filter{Search: search, Mood: diary.Mood(mood), Kind: k},
				paint:  true,
			})
			if err != nil {
				return err
			}
			a.Close()
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive text search")
	cmd.Flags().StringVarP(&mood, "mood", "m", "", "only items with this mood")
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "only entries or moments (entry, moment)")

	return cmd
}

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show mood statistics and charts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(mode{view: sync.ViewReport, paint: true})
			if err != nil {
				return err
			}
			a.Close()
			return nil
		},
	}
}

func streakCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Show the current writing streak",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(mode{view: sync.ViewDiary})
			if err != nil {
				return err
			}
			defer a.Close()

			a.terminal.Quiet = false
			a.terminal.RenderStreak(a.coord.State().Streak)
			return nil
		},
	}
}

func themeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [name]",
		Short:     "Show or change the theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: diary.Themes,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(mode{view: sync.ViewDiary})
			if err != nil {
				return err
			}
			defer a.Close()

			if len(args) == 0 {
				fmt.Printf("Theme: %s\n", a.coord.State().Theme)
				return nil
			}
			return a.coord.SetTheme(args[0])
		},
	}
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write a backup of every collection",
		Long:  `Writes the combined backup document. The format follows the extension (.json, .yaml or .yml).`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(mode{view: sync.ViewDiary})
			if err != nil {
				return err
			}
			defer a.Close()

			doc := a.coord.Export()
			path := backup.FileName(doc.ExportDate, backup.FormatJSON)
			if len(args) > 0 {
				path = args[0]
			}

			if err := backup.WriteFile(path, doc); err != nil {
				return err
			}
			fmt.Printf("Backup written to: %s\n", path)
			return nil
		},
	}
}

func importCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the journal with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := backup.ReadFile(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(mode{view: sync.ViewDiary})
			if err != nil {
				return err
			}
			defer a.Close()

			if !force && len(a.repos.Entries.Stored()) > 0 {
				return errors.New("journal is not empty, rerun with --force to replace it")
			}
			return a.coord.Import(doc)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "replace a non-empty journal")
	return cmd
}

func watchCmd() *cobra.Command {
	var view string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep a view on screen and refresh it on outside changes",
		Long:  `Paints a view and repaints it whenever another moodlog process changes the store. Needs the diskv backend.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := sync.ParseView(view)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			a, err := openApp(mode{view: v, paint: true, status: true})
			if err != nil {
				return err
			}
			defer a.Close()

			// Handle graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				slog.Info("shutting down...")
				cancel()
			}()

			fmt.Println("Watching for changes. Press Ctrl+C to stop.")
			start := time.Now()
			if err := a.coord.Follow(ctx); err != nil {
				return fmt.Errorf("failed to watch store: %w", err)
			}
			slog.Debug("watch stopped", "duration", time.Since(start).Round(time.Second))
			return nil
		},
	}

	cmd.Flags().StringVar(&view, "view", string(sync.ViewTimeline), "view to keep on screen (diary, timeline, report, reflection)")
	return cmd
}
