package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/a3tai/mcp-trademark-billing/internal/billing"
	"github.com/a3tai/mcp-trademark-billing/internal/config"
	"github.com/a3tai/mcp-trademark-billing/internal/mcp"
	"github.com/a3tai/mcp-trademark-billing/internal/pdf"
	"github.com/a3tai/mcp-trademark-billing/internal/report"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tm-billing",
		Short: "Trademark registration billing extractor",
		Long: `tm-billing reads trademark registration application packets (PDF),
recovers the applicant, unified social credit code, filing date and
trademark/category pairs, and prices them into payment requests.

It runs either as an MCP server on standard I/O or as a one-shot CLI.

Environment variables use the TM_BILLING_ prefix, e.g. TM_BILLING_DIR,
TM_BILLING_AGENT_FEE, TM_BILLING_FORMAT.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	config.DefineFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on standard I/O",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			setupLogging(cfg, true, cmd.ErrOrStderr())

			pdfService, err := pdf.NewService(cfg.MaxFileSize, cfg.PDFDirectory)
			if err != nil {
				return fmt.Errorf("failed to create PDF service: %w", err)
			}

			server, err := mcp.NewServer(cfg, pdfService)
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}

			// The parent process controls our lifecycle; stdin closing ends the run
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return server.Run(ctx)
		},
	}
}

func extractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract [packet.pdf ...]",
		Short: "Extract and bill packets, writing a report",
		Long: `Extract billing data from the given packets, or from every packet in
--dir when none are given, and write the payment request report.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			setupLogging(cfg, false, cmd.ErrOrStderr())

			pdfService, err := pdf.NewService(cfg.MaxFileSize, cfg.PDFDirectory)
			if err != nil {
				return fmt.Errorf("failed to create PDF service: %w", err)
			}

			paths := args
			if len(paths) == 0 {
				paths, err = pdfService.PacketPaths(cfg.PDFDirectory)
				if err != nil {
					return err
				}
				if len(paths) == 0 {
					return fmt.Errorf("no PDF packets found in %s", cfg.PDFDirectory)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			processor := billing.NewProcessor(pdfService, billing.ProcessorConfig{
				Workers: cfg.Workers,
				Options: billing.Options{FieldScope: cfg.Scope()},
				Logger:  log.Default(),
			})
			res, err := processor.ProcessFiles(ctx, paths)
			if err != nil {
				return err
			}

			return writeReport(cmd.OutOrStdout(), cfg, report.New(res, cfg.Fees()))
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate packet.pdf [packet.pdf ...]",
		Short: "Check that packets are readable PDFs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			setupLogging(cfg, false, cmd.ErrOrStderr())

			pdfService, err := pdf.NewService(cfg.MaxFileSize, cfg.PDFDirectory)
			if err != nil {
				return fmt.Errorf("failed to create PDF service: %w", err)
			}

			out := cmd.OutOrStdout()
			invalid := 0
			for _, path := range args {
				result, err := pdfService.ValidateFile(pdf.ValidateFileRequest{Path: path})
				if err != nil {
					invalid++
					fmt.Fprintf(out, "%s: %v\n", path, err)
					continue
				}
				if !result.Valid {
					invalid++
					fmt.Fprintf(out, "%s: invalid: %s\n", path, result.Message)
					continue
				}
				fmt.Fprintf(out, "%s: valid (%d pages)\n", path, result.Pages)
			}

			if invalid > 0 {
				return fmt.Errorf("%d of %d files failed validation", invalid, len(args))
			}
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}

// loadConfig resolves the configuration for a command and stamps the build version
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}
	return cfg, nil
}

// setupLogging configures logging for the run mode. In stdio mode stdout
// carries the MCP protocol, so logs go to stderr and only in debug mode.
func setupLogging(cfg *config.Config, stdio bool, stderr io.Writer) {
	log.SetOutput(stderr)
	if stdio {
		if !cfg.IsDebug() {
			log.SetOutput(io.Discard)
		}
		return
	}

	log.SetFlags(log.LstdFlags)
	if cfg.IsDebug() {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
		log.Printf("Starting with configuration: %s", cfg.String())
	}
}

// writeReport renders the report to the configured output file, or to w
func writeReport(w io.Writer, cfg *config.Config, r report.Report) error {
	if cfg.Output == "" {
		return report.Write(w, r, cfg.ReportFormat())
	}

	f, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := report.Write(f, r, cfg.ReportFormat()); err != nil {
		return err
	}
	log.Printf("Report written to %s", cfg.Output)
	return f.Close()
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "Trademark Billing\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
