package tree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `
spec:
  topology:
    version: v1.28.4
    variables:
      - name: clusterConfig
        value:
          addons:
            cni:
              provider: Cilium
      - name: clusterConfig
        value:
          addons:
            cni:
              provider: Calico
      - name: other
        value: null
  enabled: true
  replicas: 3
  empty: ~
zeta: 1
alpha: 2
`

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		kind    Kind
		wantErr bool
	}{
		{"mapping document", sampleDoc, KindMap, false},
		{"list document", "- a\n- b\n", KindList, false},
		{"scalar document", "hello", KindScalar, false},
		{"empty input", "", KindMissing, false},
		{"broken yaml", "spec: [unterminated", KindMissing, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrParse))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, v.Kind())
		})
	}
}

func TestValue_GetMissingAtAnyDepth(t *testing.T) {
	v, err := ParseString(sampleDoc)
	require.NoError(t, err)

	assert.Equal(t, "v1.28.4", v.Get("spec", "topology", "version").String("N/A"))
	assert.Equal(t, "N/A", v.Get("spec", "nope", "version").String("N/A"))
	assert.Equal(t, "N/A", v.Get("spec", "topology", "version", "deeper").String("N/A"))
	assert.Equal(t, "N/A", v.Get("spec", "empty").String("N/A"))
	assert.False(t, v.Get("spec", "empty").Exists())
	assert.Equal(t, KindNull, v.Get("spec", "empty").Kind())

	// descending through a list by key is a mismatch, not a failure
	assert.False(t, v.Get("spec", "topology", "variables", "name").Exists())

	var zero Value
	assert.Equal(t, "x", zero.Get("a", "b").String("x"))
	assert.Nil(t, zero.Items())
	assert.Equal(t, 0, zero.Len())
}

func TestValue_ScalarsKeepSourceText(t *testing.T) {
	v, err := ParseString(sampleDoc)
	require.NoError(t, err)

	assert.Equal(t, "true", v.Get("spec", "enabled").String(""))
	assert.Equal(t, "3", v.Get("spec", "replicas").String(""))
	assert.Equal(t, "", v.Get("spec", "topology").String(""), "mapping is not a scalar")
}

func TestValue_FindFirstMatchWins(t *testing.T) {
	v, err := ParseString(sampleDoc)
	require.NoError(t, err)

	vars := v.Get("spec", "topology", "variables")
	assert.Equal(t, 3, vars.Len())

	cfg := vars.Find("name", "clusterConfig")
	assert.Equal(t, "Cilium", cfg.Get("value", "addons", "cni", "provider").String(""))

	assert.False(t, vars.Find("name", "absent").Exists())
	assert.False(t, v.Get("spec").Find("name", "clusterConfig").Exists())
}

func TestValue_OrderPreserved(t *testing.T) {
	v, err := ParseString(sampleDoc)
	require.NoError(t, err)

	assert.Equal(t, "1", v.Key("zeta").String(""))

	items := v.Get("spec", "topology", "variables").Items()
	require.Len(t, items, 3)
	assert.Equal(t, "other", items[2].Key("name").String(""))
	assert.Equal(t, "other", v.Get("spec", "topology", "variables").Index(2).Key("name").String(""))
	assert.False(t, v.Get("spec", "topology", "variables").Index(3).Exists())
}

func TestValue_Strings(t *testing.T) {
	v, err := ParseString(`
registries:
  - url: https://a.example.com
  - username: bob
  - url: ""
  - url: https://b.example.com
`)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, v.Get("registries").Strings("url"))
}

func TestValue_Aliases(t *testing.T) {
	v, err := ParseString(`
base: &base
  name: shared
copy: *base
`)
	require.NoError(t, err)
	assert.Equal(t, "shared", v.Get("copy", "name").String(""))
}

func TestFromObject(t *testing.T) {
	obj := map[string]interface{}{
		"spec": map[string]interface{}{
			"clusterName": "prod",
			"nodes":       []interface{}{"a", "b"},
			"count":       int64(2),
		},
	}

	v, err := FromObject(obj)
	require.NoError(t, err)
	assert.Equal(t, "prod", v.Get("spec", "clusterName").String(""))
	assert.Equal(t, "2", v.Get("spec", "count").String(""))
	assert.Equal(t, 2, v.Get("spec", "nodes").Len())
}
