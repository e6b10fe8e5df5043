package inventory

import (
	"strings"
)

const (
	clusterColumns = 2
	machineColumns = 4
)

// ParseClusterTable turns `kubectl get clusters -A` output into refs.
// The first line is the header; rows with fewer than two columns are skipped.
func ParseClusterTable(output string) []ClusterRef {
	var refs []ClusterRef
	for _, fields := range tableRows(output, clusterColumns) {
		refs = append(refs, ClusterRef{Namespace: fields[0], Name: fields[1]})
	}
	return refs
}

// ParseMachineTable turns machine listing output into machines. Columns are
// NAMESPACE NAME CLUSTER NODENAME; shorter rows are skipped and a "<none>"
// node name becomes empty.
func ParseMachineTable(output string) []Machine {
	var machines []Machine
	for _, fields := range tableRows(output, machineColumns) {
		machines = append(machines, Machine{
			Namespace: fields[0],
			Name:      fields[1],
			Cluster:   noneToEmpty(fields[2]),
			NodeName:  noneToEmpty(fields[3]),
		})
	}
	return machines
}

func noneToEmpty(s string) string {
	if s == "<none>" {
		return ""
	}
	return s
}

func tableRows(output string, minColumns int) [][]string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) < 2 {
		return nil
	}

	var rows [][]string
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) < minColumns {
			continue
		}
		rows = append(rows, fields)
	}
	return rows
}
