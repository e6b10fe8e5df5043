package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/nkp-tools/nkp-as-built/pkg/tree"
)

// Resources read by the API source.
var (
	ClusterGVR   = schema.GroupVersionResource{Group: "cluster.x-k8s.io", Version: "v1beta1", Resource: "clusters"}
	MachineGVR   = schema.GroupVersionResource{Group: "cluster.x-k8s.io", Version: "v1beta1", Resource: "machines"}
	ConfigMapGVR = schema.GroupVersionResource{Version: "v1", Resource: "configmaps"}
	LicenseGVR   = schema.GroupVersionResource{Group: "kommander.mesosphere.io", Version: "v1beta1", Resource: "licenses"}
)

// APISource answers inventory queries through the Kubernetes API instead of kubectl.
type APISource struct {
	client dynamic.Interface
}

// NewAPISource creates a source backed by a dynamic client
func NewAPISource(client dynamic.Interface) *APISource {
	return &APISource{client: client}
}

// BuildDynamicClient creates a dynamic client from a kubeconfig path and context.
// Empty values fall back to KUBECONFIG, ~/.kube/config and the current context.
func BuildDynamicClient(kubeconfig, kubeContext string, timeout time.Duration) (dynamic.Interface, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfig != "" {
		rules.ExplicitPath = kubeconfig
	}
	overrides := &clientcmd.ConfigOverrides{CurrentContext: kubeContext}

	config, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to build kube config: %w", err)
	}
	config.Timeout = timeout

	client, err := dynamic.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}
	return client, nil
}

// ListClusters lists clusters across all namespaces, ordered by namespace and name.
func (s *APISource) ListClusters(ctx context.Context) ([]ClusterRef, error) {
	list, err := s.client.Resource(ClusterGVR).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list clusters: %w", err)
	}

	items := sortedItems(list)
	refs := make([]ClusterRef, 0, len(items))
	for _, item := range items {
		refs = append(refs, ClusterRef{Namespace: item.GetNamespace(), Name: item.GetName()})
	}
	return refs, nil
}

// GetCluster fetches one cluster object.
func (s *APISource) GetCluster(ctx context.Context, ref ClusterRef) (tree.Value, error) {
	obj, err := s.client.Resource(ClusterGVR).Namespace(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
	if err != nil {
		return tree.Value{}, fmt.Errorf("failed to get cluster %s: %w", ref, err)
	}
	return tree.FromObject(obj.Object)
}

// ListMachines lists machines across all namespaces with their node references.
func (s *APISource) ListMachines(ctx context.Context) ([]Machine, error) {
	list, err := s.client.Resource(MachineGVR).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list machines: %w", err)
	}

	items := sortedItems(list)
	machines := make([]Machine, 0, len(items))
	for _, item := range items {
		clusterName, _, _ := unstructured.NestedString(item.Object, "spec", "clusterName")
		nodeName, _, _ := unstructured.NestedString(item.Object, "status", "nodeRef", "name")
		machines = append(machines, Machine{
			Namespace: item.GetNamespace(),
			Name:      item.GetName(),
			Cluster:   clusterName,
			NodeName:  nodeName,
		})
	}
	return machines, nil
}

// GetConfigMap fetches a ConfigMap.
func (s *APISource) GetConfigMap(ctx context.Context, namespace, name string) (tree.Value, error) {
	obj, err := s.client.Resource(ConfigMapGVR).Namespace(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return tree.Value{}, fmt.Errorf("failed to get configmap %s/%s: %w", namespace, name, err)
	}
	return tree.FromObject(obj.Object)
}

// GetLicenses lists the licenses of a namespace as a single list document.
func (s *APISource) GetLicenses(ctx context.Context, namespace string) (tree.Value, error) {
	list, err := s.client.Resource(LicenseGVR).Namespace(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return tree.Value{}, fmt.Errorf("failed to list licenses in %s: %w", namespace, err)
	}
	return tree.FromObject(list.UnstructuredContent())
}

func sortedItems(list *unstructured.UnstructuredList) []unstructured.Unstructured {
	items := append([]unstructured.Unstructured(nil), list.Items...)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].GetNamespace() != items[j].GetNamespace() {
			return items[i].GetNamespace() < items[j].GetNamespace()
		}
		return items[i].GetName() < items[j].GetName()
	})
	return items
}
