package render

import (
	"fmt"
	"strings"

	"github.com/nkp-tools/nkp-as-built/pkg/collector"
	"github.com/nkp-tools/nkp-as-built/pkg/projector"
)

// line is one entry of a multi-value field.
type line struct {
	text   string
	depth  int
	bullet bool
}

// field is one row of a cluster block. Scalar fields carry value; groups
// carry lines and are rendered even when empty.
type field struct {
	label string
	value string
	group bool
	lines []line
}

func scalar(label, value string) field {
	return field{label: label, value: value}
}

func group(label string, lines ...line) field {
	return field{label: label, group: true, lines: lines}
}

func summaryFields(p *collector.PlatformSummary) []field {
	return []field{
		scalar("Kommander Cluster Name", p.ManagementCluster),
		scalar("NKP Version", p.Version),
		scalar("Airgapped", p.Airgapped),
		scalar("NKP Licence Tier", p.LicenseTier),
	}
}

// clusterFields lists every report field in its declared order.
func clusterFields(r *projector.ProjectedReport) []field {
	fields := []field{
		scalar("Cluster", r.ClusterName),
		scalar("Namespace", r.Namespace),
		scalar("Kubernetes Version", r.KubernetesVersion),
		scalar("Control Plane Endpoint", r.ControlPlaneEndpoint),
		scalar("CNI Provider", r.CNIProvider),
		scalar("Storage Container", r.StorageContainer),
		scalar("Global Image Registry", r.GlobalImageRegistry),
		group("Service LoadBalancer Address Range", addressRangeLines(r.ServiceLoadBalancerRanges)...),
		scalar("Worker Subnet", r.WorkerSubnet),
		group("Image Registries", registryLines(r.ImageRegistries)...),
		group("Controlplane Configuration", sizingLines(r.ControlPlaneConfig, 0)...),
		group("Worker Configuration", workerLines(r.WorkerConfigs)...),
	}

	switch {
	case r.NodesResolved():
		fields = append(fields,
			group("Controlplane Nodes", bullets(r.ControlPlaneNodeNames, 0)...),
			group("Worker Nodes", poolNodeLines(r.WorkerNodeNames)...),
		)
	case r.NodesRequested:
		// requested but the machine listing failed
		unknown := line{text: projector.Unknown}
		fields = append(fields,
			group("Controlplane Nodes", unknown),
			group("Worker Nodes", unknown),
		)
	}
	return fields
}

func addressRangeLines(ranges []projector.AddressRange) []line {
	lines := make([]line, 0, len(ranges))
	for _, rng := range ranges {
		lines = append(lines, line{text: fmt.Sprintf("Start: %s, End: %s", rng.Start, rng.End), bullet: true})
	}
	return lines
}

func registryLines(regs projector.ImageRegistries) []line {
	if regs.Schema == projector.RegistrySchemaCredentials {
		lines := make([]line, 0, len(regs.Credentials))
		for _, c := range regs.Credentials {
			lines = append(lines, line{text: fmt.Sprintf("Username: %s, Server: %s", c.Username, c.Server), bullet: true})
		}
		return lines
	}
	return bullets(regs.URLs, 0)
}

func sizingLines(s projector.MachineSizing, depth int) []line {
	kv := func(k, v string) line { return line{text: k + ": " + v, depth: depth} }
	return []line{
		kv("clusterName", s.ClusterName),
		kv("imageName", s.ImageName),
		kv("memorySize", s.MemorySize),
		kv("project", s.Project),
		kv("subnets", strings.Join(s.Subnets, ", ")),
		kv("systemDiskSize", s.SystemDiskSize),
		kv("vcpuSockets", s.VCPUSockets),
		kv("vcpusPerSocket", s.VCPUsPerSocket),
	}
}

func workerLines(workers []projector.WorkerConfig) []line {
	var lines []line
	for _, w := range workers {
		lines = append(lines, line{text: "Worker Name: " + w.Name})
		lines = append(lines, sizingLines(w.MachineSizing, 1)...)
	}
	return lines
}

func poolNodeLines(pools []projector.PoolNodes) []line {
	var lines []line
	for _, p := range pools {
		lines = append(lines, line{text: "Worker Pool: " + p.Pool})
		lines = append(lines, bullets(p.Nodes, 1)...)
	}
	return lines
}

func bullets(items []string, depth int) []line {
	lines := make([]line, 0, len(items))
	for _, item := range items {
		lines = append(lines, line{text: item, depth: depth, bullet: true})
	}
	return lines
}

func eventLines(events []projector.Event) []line {
	lines := make([]line, 0, len(events))
	for _, e := range events {
		lines = append(lines, line{text: fmt.Sprintf("[%s] %s", e.Level, e.Message), bullet: true})
	}
	return lines
}
