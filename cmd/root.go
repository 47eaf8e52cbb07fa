package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"coderefine/internal/analyzer"
	"coderefine/internal/config"
	"coderefine/internal/models"
	"coderefine/internal/watcher"
)

var (
	formatFlag         string
	languageFlag       string
	watchFlag          bool
	configFlag         string
	generateConfigFlag bool
	saveFlag           bool
	userFlag           string
	summariesFlag      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "coderefine [files or directories]",
	Short: "Static review of C and Python snippets",
	Long: `coderefine inspects C and Python code for style and correctness issues,
logic smells and likely time/space complexity, then scores it and suggests
optimizations.

Examples:
  coderefine .                             # Analyze current directory
  coderefine main.py util.c                # Analyze specific files
  cat snippet.py | coderefine -            # Analyze stdin
  coderefine --language=c snippet.txt      # Force the language
  coderefine --format=json .               # Output results in JSON format
  coderefine --save main.py                # Store the report in history
  coderefine --generate-config             # Generate sample config file`,
	Run: runAnalysis,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&userFlag, "user", "", "History user id (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "", "Output format (console, json)")

	rootCmd.Flags().StringVarP(&languageFlag, "language", "l", "", "Language: python, c or auto")
	rootCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch mode for development")
	rootCmd.Flags().BoolVar(&generateConfigFlag, "generate-config", false, "Generate sample configuration file")
	rootCmd.Flags().BoolVar(&saveFlag, "save", false, "Save reports to history")
	rootCmd.Flags().BoolVar(&summariesFlag, "summaries", false, "Attach short summaries to suggestions")
}

func runAnalysis(cmd *cobra.Command, args []string) {
	if generateConfigFlag {
		generateConfig()
		return
	}

	a, err := newApp(appOptions{history: saveFlag, summaries: summariesFlag})
	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	cfg := a.cfg
	if formatFlag != "" {
		cfg.Output.Format = formatFlag
	}
	if cfg.Output.Format == "json" {
		cfg.Output.Colors = false
	}
	color.NoColor = color.NoColor || !cfg.Output.Colors

	if len(args) == 0 {
		args = []string{"."}
	}

	engine := a.analyzer()
	reportGen := analyzer.NewReportGeneratorWithConfig(cfg)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var results []*models.AnalysisResult
	if len(args) == 1 && args[0] == "-" {
		src, err := readInput("-")
		if err != nil {
			color.Red("Error reading stdin: %v\n", err)
			os.Exit(1)
		}
		res, err := engine.AnalyzeSource(ctx, src, languageFlag)
		if err != nil {
			color.Red("Analysis failed: %v\n", err)
			os.Exit(1)
		}
		results = append(results, res)
	} else {
		files := collectAll(args)
		if len(files) == 0 {
			color.Yellow("⚠️  No C or Python files found to analyze\n")
			return
		}
		if cfg.Output.Verbose {
			color.Cyan("🔍 Analyzing %d files with %d workers...\n\n", len(files), cfg.Analysis.MaxWorkers)
		}
		results, err = engine.AnalyzeFiles(ctx, files, languageFlag)
		if err != nil {
			color.Red("Some files were skipped: %v\n", err)
		}
	}

	emitReport(cfg, reportGen.Generate(results))

	if watchFlag {
		runWatch(ctx, a, engine, reportGen, args)
		return
	}

	if !cfg.Output.Colors {
		for _, res := range results {
			if !engine.Scorer().Acceptable(res.Score.Value) {
				os.Exit(1)
			}
		}
	}
}

func collectAll(args []string) []string {
	var files []string
	for _, arg := range args {
		found, err := collectSourceFiles(arg)
		if err != nil {
			color.Red("Error collecting files from %s: %v\n", arg, err)
			continue
		}
		files = append(files, found...)
	}
	return files
}

func emitReport(cfg *config.Config, report string) {
	if cfg.Output.OutputFile == "" {
		fmt.Print(report)
		return
	}
	if err := writeReportToFile(report, cfg.Output.OutputFile); err != nil {
		color.Red("Failed to write report to file: %v\n", err)
	} else {
		color.Green("📄 Report saved to: %s\n", cfg.Output.OutputFile)
	}
}

// runWatch re-analyzes changed files until interrupted.
func runWatch(ctx context.Context, a *app, engine *analyzer.Analyzer, reportGen *analyzer.ReportGenerator, paths []string) {
	fw, err := watcher.NewFileWatcher(watcher.Options{}, a.logger)
	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
	defer fw.Close()

	err = fw.Watch(paths, func(files []string) error {
		color.Cyan("\n🔄 %d file(s) changed, re-analyzing...\n\n", len(files))
		results, err := engine.AnalyzeFiles(ctx, files, languageFlag)
		if len(results) > 0 {
			emitReport(a.cfg, reportGen.Generate(results))
		}
		return err
	})
	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}

	color.Cyan("👀 Watching %d directories, press Ctrl+C to stop\n", len(fw.GetWatchedPaths()))
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
}

func generateConfig() {
	configPath := ".coderefine.yml"
	if err := config.GenerateConfig(configPath); err != nil {
		color.Red("Failed to generate config file: %v\n", err)
		os.Exit(1)
	}
	color.Green("✅ Generated sample configuration file: %s\n", configPath)
	color.Cyan("📝 Edit this file to customize coderefine behavior\n")
	color.Cyan("🚀 Run 'coderefine --config=%s .' to use it\n", configPath)
}
