package projector

import (
	"fmt"
	"strings"
)

// Unknown is rendered for every field that could not be read from the document.
const Unknown = "N/A"

// RegistrySchema selects how image registries are modelled in cluster documents.
type RegistrySchema string

const (
	// RegistrySchemaURLs reads clusterConfig.imageRegistries[].url.
	RegistrySchemaURLs RegistrySchema = "urls"
	// RegistrySchemaCredentials reads the imageRegistries variable's credentials list.
	RegistrySchemaCredentials RegistrySchema = "credentials"
)

// ParseRegistrySchema validates a schema name.
func ParseRegistrySchema(s string) (RegistrySchema, error) {
	switch RegistrySchema(strings.ToLower(strings.TrimSpace(s))) {
	case RegistrySchemaURLs:
		return RegistrySchemaURLs, nil
	case RegistrySchemaCredentials:
		return RegistrySchemaCredentials, nil
	default:
		return "", fmt.Errorf("invalid registry schema '%s'. Valid values are: urls, credentials", s)
	}
}

// AddressRange is one service load balancer address range.
type AddressRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// RegistryCredential is one entry of the credential-style registry list.
type RegistryCredential struct {
	Username string `json:"username"`
	Server   string `json:"server"`
}

// ImageRegistries holds exactly one of the two registry representations,
// selected by Schema.
type ImageRegistries struct {
	Schema      RegistrySchema       `json:"schema"`
	URLs        []string             `json:"urls,omitempty"`
	Credentials []RegistryCredential `json:"credentials,omitempty"`
}

// Len is the number of registries in the active representation.
func (r ImageRegistries) Len() int {
	if r.Schema == RegistrySchemaCredentials {
		return len(r.Credentials)
	}
	return len(r.URLs)
}

// MachineSizing describes the machines of one pool.
type MachineSizing struct {
	ClusterName    string   `json:"clusterName"`
	ImageName      string   `json:"imageName"`
	MemorySize     string   `json:"memorySize"`
	Project        string   `json:"project"`
	Subnets        []string `json:"subnets"`
	SystemDiskSize string   `json:"systemDiskSize"`
	VCPUSockets    string   `json:"vcpuSockets"`
	VCPUsPerSocket string   `json:"vcpusPerSocket"`
}

// WorkerConfig is the sizing of one named worker pool.
type WorkerConfig struct {
	Name string `json:"name"`
	MachineSizing
}

// PoolNodes lists the nodes resolved for one worker pool.
type PoolNodes struct {
	Pool  string   `json:"pool"`
	Nodes []string `json:"nodes"`
}

// EventLevel grades a diagnostic recorded while building a report.
type EventLevel string

const (
	// EventWarning marks a lookup that failed and degraded the report.
	EventWarning EventLevel = "warning"
)

// Event is one diagnostic, kept in the order it happened.
type Event struct {
	Level   EventLevel `json:"level"`
	Message string     `json:"message"`
}

// ProjectedReport is the flat report for one cluster.
type ProjectedReport struct {
	ClusterName               string          `json:"clusterName"`
	Namespace                 string          `json:"namespace"`
	KubernetesVersion         string          `json:"kubernetesVersion"`
	ControlPlaneEndpoint      string          `json:"controlPlaneEndpoint"`
	CNIProvider               string          `json:"cniProvider"`
	StorageContainer          string          `json:"storageContainer"`
	GlobalImageRegistry       string          `json:"globalImageRegistry"`
	ServiceLoadBalancerRanges []AddressRange  `json:"serviceLoadBalancerRanges"`
	WorkerSubnet              string          `json:"workerSubnet"`
	ImageRegistries           ImageRegistries `json:"imageRegistries"`
	ControlPlaneConfig        MachineSizing   `json:"controlPlaneConfig"`
	WorkerConfigs             []WorkerConfig  `json:"workerConfigs"`

	// NodesRequested is set when node matching was asked for. The node
	// inventories stay nil unless the machine listing succeeded.
	NodesRequested        bool        `json:"nodesRequested"`
	ControlPlaneNodeNames []string    `json:"controlPlaneNodeNames"`
	WorkerNodeNames       []PoolNodes `json:"workerNodeNames"`

	Events []Event `json:"events,omitempty"`

	// controlPlaneRef is the control plane object name, which node names
	// of the control plane pool contain.
	controlPlaneRef string
}

// ControlPlaneRefName returns spec.controlPlaneRef.name, or "" when absent.
func (r *ProjectedReport) ControlPlaneRefName() string {
	return r.controlPlaneRef
}

// NodesResolved reports whether node matching ran for this report.
func (r *ProjectedReport) NodesResolved() bool {
	return r.ControlPlaneNodeNames != nil || r.WorkerNodeNames != nil
}
