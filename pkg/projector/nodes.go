package projector

import (
	"strings"

	"github.com/nkp-tools/nkp-as-built/pkg/inventory"
)

// ResolveNodes returns, in listing order, the node names of machines owned by
// cluster whose node name contains pool. Node names are generated, so only
// containment of the pool name is reliable. An empty or unknown pool
// matches nothing.
func ResolveNodes(machines []inventory.Machine, cluster, pool string) []string {
	nodes := []string{}
	if pool == "" || pool == Unknown {
		return nodes
	}
	for _, m := range machines {
		if m.Cluster == cluster && m.NodeName != "" && strings.Contains(m.NodeName, pool) {
			nodes = append(nodes, m.NodeName)
		}
	}
	return nodes
}

// AttachNodes fills the report's node inventories from a machine listing.
func AttachNodes(report *ProjectedReport, machines []inventory.Machine) {
	report.NodesRequested = true
	report.ControlPlaneNodeNames = ResolveNodes(machines, report.ClusterName, report.ControlPlaneRefName())

	report.WorkerNodeNames = make([]PoolNodes, 0, len(report.WorkerConfigs))
	for _, worker := range report.WorkerConfigs {
		report.WorkerNodeNames = append(report.WorkerNodeNames, PoolNodes{
			Pool:  worker.Name,
			Nodes: ResolveNodes(machines, report.ClusterName, worker.Name),
		})
	}
}
