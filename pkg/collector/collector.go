package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nkp-tools/nkp-as-built/pkg/inventory"
	"github.com/nkp-tools/nkp-as-built/pkg/projector"
	"github.com/nkp-tools/nkp-as-built/pkg/tree"
)

const (
	// DefaultBootstrapNamespace holds the Kommander bootstrap ConfigMap.
	DefaultBootstrapNamespace = "default"
	// DefaultBootstrapConfigMap names the Kommander bootstrap ConfigMap.
	DefaultBootstrapConfigMap = "kommander-bootstrap-configuration"
	// DefaultLicenseNamespace holds the NKP license objects.
	DefaultLicenseNamespace = "kommander"

	installConfigKey = "kommander-install.yaml"
	clusterNameLabel = "konvoy.d2iq.io/cluster-name"
)

// Options tunes a collection run.
type Options struct {
	BootstrapNamespace string
	BootstrapConfigMap string
	LicenseNamespace   string
	RegistrySchema     projector.RegistrySchema
	ResolveNodes       bool
}

// Collector walks the platform: management cluster first, then every other
// listed cluster. Failures inside one cluster degrade that cluster's fields
// and never stop the run.
type Collector struct {
	source    inventory.Source
	projector *projector.Projector
	opts      Options
	runID     string
	log       *logrus.Entry
}

// New creates a collector
func New(source inventory.Source, opts Options, logger *logrus.Logger) *Collector {
	if opts.BootstrapNamespace == "" {
		opts.BootstrapNamespace = DefaultBootstrapNamespace
	}
	if opts.BootstrapConfigMap == "" {
		opts.BootstrapConfigMap = DefaultBootstrapConfigMap
	}
	if opts.LicenseNamespace == "" {
		opts.LicenseNamespace = DefaultLicenseNamespace
	}
	if logger == nil {
		logger = logrus.New()
	}

	runID := uuid.New().String()
	return &Collector{
		source:    source,
		projector: projector.New(opts.RegistrySchema),
		opts:      opts,
		runID:     runID,
		log:       logger.WithField("run", runID),
	}
}

// Collect runs the full inventory. It fails only when the cluster list
// cannot be obtained or the context is cancelled.
func (c *Collector) Collect(ctx context.Context) (*Inventory, error) {
	inv := &Inventory{
		RunID:       c.runID,
		CollectedAt: time.Now().UTC(),
		Platform:    c.CollectPlatform(ctx),
	}

	refs, err := c.source.ListClusters(ctx)
	if err != nil {
		return inv, fmt.Errorf("failed to enumerate clusters: %w", err)
	}
	c.log.Infof("Found %d clusters", len(refs))

	for _, ref := range orderClusters(refs, inv.Platform.ManagementCluster) {
		if err := ctx.Err(); err != nil {
			return inv, fmt.Errorf("collection interrupted: %w", err)
		}
		inv.Clusters = append(inv.Clusters, c.CollectCluster(ctx, ref))
	}

	if inv.ManagementFound() {
		c.log.Infof("Management cluster %s reported in namespace %s", inv.Clusters[0].ClusterName, inv.Clusters[0].Namespace)
	} else {
		c.log.Warnf("Management cluster %q not found among listed clusters", inv.Platform.ManagementCluster)
	}
	return inv, nil
}

// orderClusters moves the first cluster named mgmt to the front and keeps
// listing order for the rest.
func orderClusters(refs []inventory.ClusterRef, mgmt string) []inventory.ClusterRef {
	ordered := make([]inventory.ClusterRef, 0, len(refs))
	mgmtIdx := -1
	if mgmt != "" && mgmt != projector.Unknown {
		for i, ref := range refs {
			if ref.Name == mgmt {
				mgmtIdx = i
				ordered = append(ordered, ref)
				break
			}
		}
	}
	for i, ref := range refs {
		if i != mgmtIdx {
			ordered = append(ordered, ref)
		}
	}
	return ordered
}

// CollectPlatform reads the management cluster identity, platform version,
// air-gapped flag and license tier. Every lookup degrades to Unknown.
func (c *Collector) CollectPlatform(ctx context.Context) *PlatformSummary {
	summary := &PlatformSummary{
		ManagementCluster: projector.Unknown,
		Version:           projector.Unknown,
		Airgapped:         projector.Unknown,
		LicenseTier:       projector.Unknown,
	}

	cm, err := c.source.GetConfigMap(ctx, c.opts.BootstrapNamespace, c.opts.BootstrapConfigMap)
	if err != nil {
		c.warn(&summary.Events, "Error retrieving Kommander config: %v", err)
	} else {
		summary.ManagementCluster = cm.Get("metadata", "labels", clusterNameLabel).String(projector.Unknown)

		install, err := tree.ParseString(cm.Get("data", installConfigKey).String(""))
		if err != nil {
			c.warn(&summary.Events, "Failed to parse %s: %v", installConfigKey, err)
		}
		summary.Version = install.Get("version").String(projector.Unknown)
		summary.Airgapped = install.Get("airgapped", "enabled").String(projector.Unknown)
	}

	licenses, err := c.source.GetLicenses(ctx, c.opts.LicenseNamespace)
	if err != nil {
		c.warn(&summary.Events, "Error fetching license: %v", err)
	} else {
		summary.LicenseTier = licenses.Get("items").Index(0).Get("status", "dkpLevel").String(projector.Unknown)
	}

	c.log.Infof("Kommander cluster: %s, NKP version: %s, airgapped: %s, licence tier: %s",
		summary.ManagementCluster, summary.Version, summary.Airgapped, summary.LicenseTier)
	return summary
}

// CollectCluster fetches and projects one cluster. A failed fetch still
// yields a report, with Unknown fields and the failure recorded as an event.
func (c *Collector) CollectCluster(ctx context.Context, ref inventory.ClusterRef) projector.ProjectedReport {
	c.log.Infof("Fetching YAML for cluster '%s' in namespace '%s'...", ref.Name, ref.Namespace)

	var events []projector.Event
	doc, err := c.source.GetCluster(ctx, ref)
	if err != nil {
		c.warn(&events, "Failed to get YAML for cluster %s in namespace %s: %v", ref.Name, ref.Namespace, err)
		doc = tree.Value{}
	}

	report := c.projector.Project(ref.Name, doc)
	report.Namespace = ref.Namespace
	report.Events = append(events, report.Events...)

	c.log.Debugf("Cluster %s: %d image registries, %d worker pools",
		ref.Name, report.ImageRegistries.Len(), len(report.WorkerConfigs))

	if c.opts.ResolveNodes {
		report.NodesRequested = true
		machines, err := c.source.ListMachines(ctx)
		if err != nil {
			c.warn(&report.Events, "Error fetching machines: %v", err)
		} else {
			projector.AttachNodes(&report, machines)
		}
	}
	return report
}

func (c *Collector) warn(events *[]projector.Event, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	c.log.Warn(msg)
	*events = append(*events, projector.Event{Level: projector.EventWarning, Message: msg})
}
