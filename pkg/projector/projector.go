package projector

import (
	"strings"

	"github.com/nkp-tools/nkp-as-built/pkg/tree"
)

const (
	clusterConfigVariable   = "clusterConfig"
	imageRegistriesVariable = "imageRegistries"
	workerConfigOverride    = "workerConfig"
)

// Projector extracts the report schema from cluster documents.
type Projector struct {
	schema RegistrySchema
}

// New creates a projector for one registry schema. An empty schema means URLs.
func New(schema RegistrySchema) *Projector {
	if schema == "" {
		schema = RegistrySchemaURLs
	}
	return &Projector{schema: schema}
}

// Project builds the report for one cluster document. Missing structure at
// any depth yields Unknown for the affected leaves only.
func (p *Projector) Project(name string, doc tree.Value) ProjectedReport {
	spec := doc.Get("spec")
	topology := spec.Get("topology")
	variables := topology.Get("variables")
	clusterConfig := variables.Find("name", clusterConfigVariable).Get("value")
	addons := clusterConfig.Get("addons")

	report := ProjectedReport{
		ClusterName:          name,
		Namespace:            doc.Get("metadata", "namespace").String(Unknown),
		KubernetesVersion:    topology.Get("version").String(Unknown),
		ControlPlaneEndpoint: spec.Get("controlPlaneEndpoint", "host").String(Unknown),
		CNIProvider:          addons.Get("cni", "provider").String(Unknown),
		StorageContainer: addons.Get("csi", "providers", "nutanix", "storageClassConfigs",
			"volume", "parameters", "storageContainer").String(Unknown),
		GlobalImageRegistry:       clusterConfig.Get("globalImageRegistryMirror", "url").String(Unknown),
		ServiceLoadBalancerRanges: addressRanges(addons.Get("serviceLoadBalancer", "configuration", "addressRanges")),
		WorkerSubnet:              workerSubnet(clusterConfig.Get("worker")),
		ImageRegistries:           p.imageRegistries(clusterConfig, variables),
		ControlPlaneConfig:        machineSizing(clusterConfig.Get("controlPlane", "nutanix", "machineDetails")),
		WorkerConfigs:             workerConfigs(topology.Get("workers", "machineDeployments")),
		controlPlaneRef:           spec.Get("controlPlaneRef", "name").String(""),
	}
	return report
}

func (p *Projector) imageRegistries(clusterConfig, variables tree.Value) ImageRegistries {
	regs := ImageRegistries{Schema: p.schema}
	switch p.schema {
	case RegistrySchemaCredentials:
		creds := variables.Find("name", imageRegistriesVariable).Get("value", "credentials")
		regs.Credentials = []RegistryCredential{}
		for _, item := range creds.Items() {
			regs.Credentials = append(regs.Credentials, RegistryCredential{
				Username: item.Get("username").String(Unknown),
				Server:   item.Get("server").String(Unknown),
			})
		}
	default:
		regs.URLs = clusterConfig.Get("imageRegistries").Strings("url")
		if regs.URLs == nil {
			regs.URLs = []string{}
		}
	}
	return regs
}

// workerSubnet reads clusterConfig.worker, either a plain value or a
// machineDetails block whose subnet names are joined.
func workerSubnet(worker tree.Value) string {
	if worker.Kind() == tree.KindScalar {
		return worker.String(Unknown)
	}
	names := worker.Get("nutanix", "machineDetails", "subnets").Strings("name")
	if len(names) == 0 {
		return Unknown
	}
	return strings.Join(names, ", ")
}

func addressRanges(v tree.Value) []AddressRange {
	ranges := []AddressRange{}
	for _, item := range v.Items() {
		ranges = append(ranges, AddressRange{
			Start: item.Get("start").String(Unknown),
			End:   item.Get("end").String(Unknown),
		})
	}
	return ranges
}

// machineSizing maps a nutanix machineDetails block. project.name is a
// two-level optional: the project block itself may be absent.
func machineSizing(md tree.Value) MachineSizing {
	subnets := []string{}
	for _, s := range md.Get("subnets").Items() {
		subnets = append(subnets, s.Get("name").String(Unknown))
	}

	return MachineSizing{
		ClusterName:    md.Get("cluster", "name").String(Unknown),
		ImageName:      md.Get("image", "name").String(Unknown),
		MemorySize:     md.Get("memorySize").String(Unknown),
		Project:        md.Get("project", "name").String(Unknown),
		Subnets:        subnets,
		SystemDiskSize: md.Get("systemDiskSize").String(Unknown),
		VCPUSockets:    md.Get("vcpuSockets").String(Unknown),
		VCPUsPerSocket: md.Get("vcpusPerSocket").String(Unknown),
	}
}

// workerConfigs keeps declaration order and drops pools without a
// workerConfig override.
func workerConfigs(deployments tree.Value) []WorkerConfig {
	configs := []WorkerConfig{}
	for _, md := range deployments.Items() {
		override := md.Get("variables", "overrides").Find("name", workerConfigOverride)
		if !override.Exists() {
			continue
		}
		configs = append(configs, WorkerConfig{
			Name:          md.Get("name").String(Unknown),
			MachineSizing: machineSizing(override.Get("value", "nutanix", "machineDetails")),
		})
	}
	return configs
}
