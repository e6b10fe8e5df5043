package main

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nkp-tools/nkp-as-built/pkg/collector"
	"github.com/nkp-tools/nkp-as-built/pkg/config"
	"github.com/nkp-tools/nkp-as-built/pkg/inventory"
	"github.com/nkp-tools/nkp-as-built/pkg/kubectl"
	"github.com/nkp-tools/nkp-as-built/pkg/logger"
	"github.com/nkp-tools/nkp-as-built/pkg/projector"
	"github.com/nkp-tools/nkp-as-built/pkg/render"
	"github.com/nkp-tools/nkp-as-built/pkg/utils"
)

// Version information variables (set at build time)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// newSource builds the inventory source for cfg. Replaced in tests.
var newSource = buildSource

// NewReportCommand creates a new report command
func NewReportCommand() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate the as-built cluster report",
		Long: "Enumerate every Cluster API cluster visible from the management cluster and report " +
			"its platform, networking, registry and machine sizing details as text, HTML or JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig()
			if cfg == nil {
				return fmt.Errorf("configuration not loaded")
			}
			if noColor {
				cfg.Report.Color = false
			}
			return runReport(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringP("output", "o", "text", "Output format: text, html, json")
	flags.String("output-file", "", "Write the report to this file (html and json default to cluster_details.<format>)")
	flags.StringP("namespace", "n", collector.DefaultBootstrapNamespace, "Namespace of the Kommander bootstrap ConfigMap")
	flags.String("license-namespace", collector.DefaultLicenseNamespace, "Namespace holding the NKP license objects")
	flags.String("registry-schema", string(projector.RegistrySchemaURLs), "Image registry variable layout: urls, credentials")
	flags.Bool("resolve-nodes", false, "Resolve control plane and worker node names from machines")
	flags.String("source", config.SourceKubectl, "Inventory source: kubectl, api")
	flags.String("kubeconfig", "", "Path to the kubeconfig file")
	flags.String("context", "", "Kubeconfig context to use")
	flags.String("kubectl", "kubectl", "kubectl binary to execute")
	flags.Duration("timeout", 0, "Per-query timeout, 0 disables it")
	flags.BoolVar(&noColor, "no-color", false, "Disable coloured text output")

	return cmd
}

// NewVersionCommand creates a new version command
func NewVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version, build commit, and build time information",
		Run: func(cmd *cobra.Command, args []string) {
			runVersion(cmd.OutOrStdout())
		},
	}

	return cmd
}

// runReport collects the inventory, renders it and writes it out. It fails
// only when clusters cannot be listed or the report cannot be written.
func runReport(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	log := logger.GetLoggerFromContext(ctx)
	if logger.IsDebugEnabled(ctx) {
		log.Debugf("Running with log level %s and configuration %+v", logger.GetCurrentLogLevel(ctx), *cfg)
	}

	format, err := render.ParseFormat(cfg.Report.Format)
	if err != nil {
		return err
	}
	schema, err := projector.ParseRegistrySchema(cfg.Report.RegistrySchema)
	if err != nil {
		return err
	}

	source, err := newSource(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create %s inventory source: %w", cfg.Source, err)
	}

	c := collector.New(source, collector.Options{
		BootstrapNamespace: cfg.Platform.BootstrapNamespace,
		BootstrapConfigMap: cfg.Platform.BootstrapConfigMap,
		LicenseNamespace:   cfg.Platform.LicenseNamespace,
		RegistrySchema:     schema,
		ResolveNodes:       cfg.Report.ResolveNodes,
	}, log)

	inv, err := c.Collect(ctx)
	if err != nil {
		return err
	}

	renderer, err := render.New(format, render.Options{
		Color: cfg.Report.Color && cfg.Report.WritesToStdout() && !color.NoColor,
	})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, inv); err != nil {
		return fmt.Errorf("failed to render %s report: %w", format, err)
	}

	if !cfg.Report.WritesToStdout() && utils.FileExists(cfg.Report.OutputFile) {
		log.Infof("Replacing existing report %s", cfg.Report.OutputFile)
	}
	if err := utils.WriteOutput(stdout, cfg.Report.OutputFile, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", cfg.Report.OutputFile, err)
	}
	if !cfg.Report.WritesToStdout() {
		log.Infof("Cluster details written to %s", cfg.Report.OutputFile)
	}
	log.Infof("Reported %d clusters (run %s)", len(inv.Clusters), inv.RunID)
	return nil
}

// buildSource creates the kubectl or API backed inventory source.
func buildSource(cfg *config.Config, log *logrus.Logger) (inventory.Source, error) {
	switch cfg.Source {
	case config.SourceAPI:
		client, err := inventory.BuildDynamicClient(cfg.Kubectl.Kubeconfig, cfg.Kubectl.Context, cfg.Kubectl.Timeout)
		if err != nil {
			return nil, err
		}
		return inventory.NewAPISource(client), nil
	case config.SourceKubectl:
		if !utils.BinaryExists(cfg.Kubectl.Binary) {
			log.Warnf("kubectl binary %q not found, cluster queries will fail", cfg.Kubectl.Binary)
		}
		cli := kubectl.NewCLI(kubectl.Options{
			Binary:     cfg.Kubectl.Binary,
			Kubeconfig: cfg.Kubectl.Kubeconfig,
			Context:    cfg.Kubectl.Context,
			Timeout:    cfg.Kubectl.Timeout,
		}, log)
		return inventory.NewKubectlSource(cli), nil
	default:
		return nil, fmt.Errorf("unknown inventory source %q", cfg.Source)
	}
}

// runVersion displays version information
func runVersion(w io.Writer) {
	fmt.Fprintf(w, "NKP As-Built Reporter\n")
	fmt.Fprintf(w, "Version: %s\n", Version)
	fmt.Fprintf(w, "Git Commit: %s\n", GitCommit)
	fmt.Fprintf(w, "Build Time: %s\n", BuildTime)
}
