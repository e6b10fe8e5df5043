package inventory

import (
	"context"
	"fmt"

	"github.com/nkp-tools/nkp-as-built/pkg/kubectl"
	"github.com/nkp-tools/nkp-as-built/pkg/tree"
)

// machineColumnsSpec pins the machine listing to the four columns the lister reads.
const machineColumnsSpec = "custom-columns=" +
	"NAMESPACE:.metadata.namespace," +
	"NAME:.metadata.name," +
	"CLUSTER:.spec.clusterName," +
	"NODENAME:.status.nodeRef.name"

// KubectlSource answers inventory queries by shelling out to kubectl.
type KubectlSource struct {
	exec kubectl.Executor
}

// NewKubectlSource creates a source backed by the given executor
func NewKubectlSource(exec kubectl.Executor) *KubectlSource {
	return &KubectlSource{exec: exec}
}

// ListClusters runs `kubectl get clusters -A`.
func (s *KubectlSource) ListClusters(ctx context.Context) ([]ClusterRef, error) {
	out, err := s.exec.Run(ctx, "get", "clusters", "-A")
	if err != nil {
		return nil, fmt.Errorf("failed to list clusters: %w", err)
	}
	return ParseClusterTable(out), nil
}

// GetCluster runs `kubectl get cluster NAME -n NS -o yaml`.
func (s *KubectlSource) GetCluster(ctx context.Context, ref ClusterRef) (tree.Value, error) {
	return s.getYAML(ctx, "get", "cluster", ref.Name, "-n", ref.Namespace, "-o", "yaml")
}

// ListMachines lists machines with their owning cluster and node name.
func (s *KubectlSource) ListMachines(ctx context.Context) ([]Machine, error) {
	out, err := s.exec.Run(ctx, "get", "machines", "-A", "-o", machineColumnsSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to list machines: %w", err)
	}
	return ParseMachineTable(out), nil
}

// GetConfigMap runs `kubectl get configmap NAME -n NS -o yaml`.
func (s *KubectlSource) GetConfigMap(ctx context.Context, namespace, name string) (tree.Value, error) {
	return s.getYAML(ctx, "get", "configmap", name, "-n", namespace, "-o", "yaml")
}

// GetLicenses runs `kubectl get licenses -n NS -o yaml`.
func (s *KubectlSource) GetLicenses(ctx context.Context, namespace string) (tree.Value, error) {
	return s.getYAML(ctx, "get", "licenses", "-n", namespace, "-o", "yaml")
}

func (s *KubectlSource) getYAML(ctx context.Context, args ...string) (tree.Value, error) {
	out, err := s.exec.Run(ctx, args...)
	if err != nil {
		return tree.Value{}, err
	}
	doc, err := tree.ParseString(out)
	if err != nil {
		return tree.Value{}, fmt.Errorf("failed to decode output of kubectl %s: %w", args[1], err)
	}
	return doc, nil
}
