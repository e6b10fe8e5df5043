package collector

import (
	"time"

	"github.com/nkp-tools/nkp-as-built/pkg/projector"
)

// PlatformSummary describes the management platform as a whole.
type PlatformSummary struct {
	ManagementCluster string `json:"managementCluster"`
	Version           string `json:"version"`
	Airgapped         string `json:"airgapped"`
	LicenseTier       string `json:"licenseTier"`

	Events []projector.Event `json:"events,omitempty"`
}

// Inventory is the result of one collection run.
type Inventory struct {
	RunID       string                      `json:"runId"`
	CollectedAt time.Time                   `json:"collectedAt"`
	Platform    *PlatformSummary            `json:"platform"`
	Clusters    []projector.ProjectedReport `json:"clusters"`
}

// ManagementFound reports whether the first cluster is the management cluster.
func (inv *Inventory) ManagementFound() bool {
	if inv == nil || inv.Platform == nil || len(inv.Clusters) == 0 {
		return false
	}
	return inv.Clusters[0].ClusterName == inv.Platform.ManagementCluster
}
