package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/foldedcode/wic/utils/config"
)

// version is a placeholder for the version string, set at build time.
var version string

var verbose bool
var debug bool

// logFile holds the log file handle for proper cleanup.
var logFile *os.File

var rootCmd = &cobra.Command{
	Use:   "wic",
	Short: "A recursive workflow compiler for CWL v1.0",
	Long: `wic elaborates a tree of YAML workflow documents, compiling every
sub-workflow it references before its parent, into a single CWL v1.0
workflow document, a companion inputs file, and a visualization graph.

Getting Started:
  1. wic compile workflow.yml   Compile a workflow tree

Configuration is stored in ~/.wic/config.yaml`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.SetFlags(0)

		if logFileName := os.Getenv("WIC_LOG_FILE"); logFileName != "" {
			if file, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666); err == nil {
				logFile = file
				log.SetOutput(file)
				log.Printf("[INFO] Logging session started at %s\n", time.Now().Format(time.RFC3339))
			} else {
				log.Printf("[WARN] Failed to open log file '%s': %v. Continuing with stdout logging.\n", logFileName, err)
			}
		}

		defer func() {
			if logFile != nil {
				log.Printf("[INFO] Logging session ended at %s\n", time.Now().Format(time.RFC3339))
				if err := logFile.Sync(); err != nil {
					log.Printf("[WARN] Failed to sync log file: %v\n", err)
				}
				logFile.Close()
			}
		}()

		config.Verbose = verbose
		config.Debug = debug

		envPath := config.GetEnvPath()
		if verbose {
			log.Printf("[DEBUG] Loading configuration from %s\n", envPath)
		}

		if _, err := config.LoadEnvConfig(envPath); err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}

		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.AddCommand(versionCmd)
}

// getVersion returns the version string.
// Priority: build-time ldflags > VERSION file (for development)
func getVersion() string {
	if version != "" {
		return version
	}

	_, filename, _, ok := runtime.Caller(0)
	if ok {
		sourceDir := filepath.Dir(filename)
		projectRoot := filepath.Dir(sourceDir)
		versionPath := filepath.Join(projectRoot, "VERSION")
		content, err := os.ReadFile(versionPath)
		if err == nil {
			return "v" + strings.TrimSpace(string(content)) + "-dev"
		}
	}

	return "unknown (build with: go build -ldflags \"-X 'github.com/foldedcode/wic/cmd.version=vX.Y.Z'\")"
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the current wic version.`,
	Run: func(cmd *cobra.Command, args []string) {
		log.Printf("wic version: %s\n", getVersion())
	},
}

func Execute() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	err := rootCmd.Execute()
	if err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, "unknown command") {
			cmdPath := strings.Trim(strings.TrimPrefix(errMsg, "unknown command"), `"`+` for "wic"`)
			if _, statErr := os.Stat(cmdPath); statErr == nil || os.IsNotExist(statErr) {
				log.Printf("To compile a file, use the 'compile' command:\n\n   wic compile %s\n\n", cmdPath)
			} else {
				fmt.Fprintln(os.Stderr, err)
			}
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
