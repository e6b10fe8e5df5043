package inventory

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	dynamicfake "k8s.io/client-go/dynamic/fake"

	"github.com/nkp-tools/nkp-as-built/pkg/kubectl"
	"github.com/nkp-tools/nkp-as-built/pkg/tree"
)

type fakeExecutor struct {
	outputs map[string]string
	calls   []string
}

func (f *fakeExecutor) Run(ctx context.Context, args ...string) (string, error) {
	key := strings.Join(args, " ")
	f.calls = append(f.calls, key)
	if out, ok := f.outputs[key]; ok {
		return out, nil
	}
	return "", &kubectl.CommandError{Args: args, Err: errors.New("exit status 1"), Stderr: "not found"}
}

func TestKubectlSource(t *testing.T) {
	exec := &fakeExecutor{outputs: map[string]string{
		"get clusters -A": "NAMESPACE NAME\ndefault mgmt\n",
		"get cluster mgmt -n default -o yaml": "spec:\n  topology:\n    version: v1.28.4\n",
		"get machines -A -o " + machineColumnsSpec: "NAMESPACE NAME CLUSTER NODENAME\ndefault m1 mgmt mgmt-cp-1\n",
		"get configmap kommander-bootstrap-configuration -n default -o yaml": "metadata:\n  name: kommander-bootstrap-configuration\n",
		"get licenses -n kommander -o yaml": "items: not-a-list: [",
	}}
	src := NewKubectlSource(exec)
	ctx := context.Background()

	refs, err := src.ListClusters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ClusterRef{{Namespace: "default", Name: "mgmt"}}, refs)

	doc, err := src.GetCluster(ctx, refs[0])
	require.NoError(t, err)
	assert.Equal(t, "v1.28.4", doc.Get("spec", "topology", "version").String(""))

	machines, err := src.ListMachines(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Machine{{Namespace: "default", Name: "m1", Cluster: "mgmt", NodeName: "mgmt-cp-1"}}, machines)

	cm, err := src.GetConfigMap(ctx, "default", "kommander-bootstrap-configuration")
	require.NoError(t, err)
	assert.Equal(t, "kommander-bootstrap-configuration", cm.Get("metadata", "name").String(""))

	_, err = src.GetLicenses(ctx, "kommander")
	require.Error(t, err)
	assert.True(t, errors.Is(err, tree.ErrParse), "malformed output is a parse failure")

	_, err = src.GetCluster(ctx, ClusterRef{Namespace: "default", Name: "ghost"})
	var cmdErr *kubectl.CommandError
	assert.True(t, errors.As(err, &cmdErr), "command failures keep their type")
}

func TestKubectlSource_ListClustersFailure(t *testing.T) {
	src := NewKubectlSource(&fakeExecutor{})

	refs, err := src.ListClusters(context.Background())
	assert.Nil(t, refs)
	var cmdErr *kubectl.CommandError
	assert.True(t, errors.As(err, &cmdErr))
}

func newObject(gvr schema.GroupVersionResource, kind, namespace, name string, fields map[string]interface{}) *unstructured.Unstructured {
	obj := &unstructured.Unstructured{Object: map[string]interface{}{}}
	for k, v := range fields {
		obj.Object[k] = v
	}
	obj.SetAPIVersion(gvr.GroupVersion().String())
	obj.SetKind(kind)
	obj.SetNamespace(namespace)
	obj.SetName(name)
	return obj
}

func newFakeDynamicClient(objects ...runtime.Object) *dynamicfake.FakeDynamicClient {
	return dynamicfake.NewSimpleDynamicClientWithCustomListKinds(runtime.NewScheme(),
		map[schema.GroupVersionResource]string{
			ClusterGVR:   "ClusterList",
			MachineGVR:   "MachineList",
			ConfigMapGVR: "ConfigMapList",
			LicenseGVR:   "LicenseList",
		},
		objects...,
	)
}

func TestAPISource(t *testing.T) {
	client := newFakeDynamicClient(
		newObject(ClusterGVR, "Cluster", "workspace-a", "prod", map[string]interface{}{
			"spec": map[string]interface{}{
				"topology": map[string]interface{}{"version": "v1.29.1"},
			},
		}),
		newObject(ClusterGVR, "Cluster", "default", "mgmt", nil),
		newObject(MachineGVR, "Machine", "default", "mgmt-cp-1", map[string]interface{}{
			"spec":   map[string]interface{}{"clusterName": "mgmt"},
			"status": map[string]interface{}{"nodeRef": map[string]interface{}{"name": "mgmt-cp-1-node"}},
		}),
		newObject(MachineGVR, "Machine", "default", "mgmt-md-pending", map[string]interface{}{
			"spec": map[string]interface{}{"clusterName": "mgmt"},
		}),
		newObject(ConfigMapGVR, "ConfigMap", "default", "kommander-bootstrap-configuration", map[string]interface{}{
			"data": map[string]interface{}{"kommander-install.yaml": "version: v2.12.0\n"},
		}),
		newObject(LicenseGVR, "License", "kommander", "nkp-license", map[string]interface{}{
			"status": map[string]interface{}{"dkpLevel": "Ultimate"},
		}),
	)
	src := NewAPISource(client)
	ctx := context.Background()

	refs, err := src.ListClusters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ClusterRef{
		{Namespace: "default", Name: "mgmt"},
		{Namespace: "workspace-a", Name: "prod"},
	}, refs)

	doc, err := src.GetCluster(ctx, ClusterRef{Namespace: "workspace-a", Name: "prod"})
	require.NoError(t, err)
	assert.Equal(t, "v1.29.1", doc.Get("spec", "topology", "version").String(""))

	_, err = src.GetCluster(ctx, ClusterRef{Namespace: "default", Name: "ghost"})
	assert.Error(t, err)

	machines, err := src.ListMachines(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Machine{
		{Namespace: "default", Name: "mgmt-cp-1", Cluster: "mgmt", NodeName: "mgmt-cp-1-node"},
		{Namespace: "default", Name: "mgmt-md-pending", Cluster: "mgmt", NodeName: ""},
	}, machines)

	cm, err := src.GetConfigMap(ctx, "default", "kommander-bootstrap-configuration")
	require.NoError(t, err)
	assert.Equal(t, "version: v2.12.0\n", cm.Get("data", "kommander-install.yaml").String(""))

	licenses, err := src.GetLicenses(ctx, "kommander")
	require.NoError(t, err)
	assert.Equal(t, "Ultimate", licenses.Get("items").Index(0).Get("status", "dkpLevel").String(""))
}
