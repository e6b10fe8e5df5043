package inventory

import (
	"context"

	"k8s.io/apimachinery/pkg/types"

	"github.com/nkp-tools/nkp-as-built/pkg/tree"
)

// ClusterRef identifies one Cluster API cluster resource.
type ClusterRef = types.NamespacedName

// Machine is one row of the machine listing.
type Machine struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
	Cluster   string `json:"cluster"`
	NodeName  string `json:"nodeName"`
}

// Source answers the inventory queries the report needs. Implementations
// return errors and leave degradation to the caller.
type Source interface {
	// ListClusters lists every cluster across all namespaces.
	ListClusters(ctx context.Context) ([]ClusterRef, error)
	// GetCluster fetches one cluster's full document.
	GetCluster(ctx context.Context, ref ClusterRef) (tree.Value, error)
	// ListMachines lists every machine across all namespaces.
	ListMachines(ctx context.Context) ([]Machine, error)
	// GetConfigMap fetches a named ConfigMap document.
	GetConfigMap(ctx context.Context, namespace, name string) (tree.Value, error)
	// GetLicenses fetches the license list of a namespace.
	GetLicenses(ctx context.Context, namespace string) (tree.Value, error)
}
