// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

package gce

import (
	"fmt"
	"testing"

	"cloud.google.com/go/compute/apiv1/computepb"
	"github.com/googleapis/gax-go/v2/apierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/protobuf/proto"

	"github.com/gcevm/vmctl/internal/core"
	"github.com/gcevm/vmctl/internal/errors"
)

func TestClassify(t *testing.T) {
	notFound := &googleapi.Error{Code: 404, Message: "The resource 'demo' was not found"}
	wrapped, ok := apierror.FromError(notFound)
	require.True(t, ok)

	testCases := []struct {
		name         string
		err          error
		wantNotFound bool
	}{
		{"googleapi 404", notFound, true},
		{"apierror 404", wrapped, true},
		{"wrapped 404", fmt.Errorf("get: %w", notFound), true},
		{"forbidden", &googleapi.Error{Code: 403, Message: "forbidden"}, false},
		{"plain error", fmt.Errorf("dial tcp: i/o timeout"), false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := classify(tc.err, "instance", "demo")
			require.Error(t, err)
			assert.Equal(t, tc.wantNotFound, errors.IsNotFound(err))
		})
	}
	assert.NoError(t, classify(nil, "instance", "demo"))
}

func TestToInstance(t *testing.T) {
	in := &computepb.Instance{
		Name:        proto.String("demo"),
		Status:      proto.String("RUNNING"),
		MachineType: proto.String("zones/us-west1-a/machineTypes/e2-micro"),
		Zone:        proto.String("zones/us-west1-a"),
		CpuPlatform: proto.String("Intel Broadwell"),
		NetworkInterfaces: []*computepb.NetworkInterface{{
			Network:   proto.String("global/networks/default"),
			NetworkIP: proto.String("10.138.0.5"),
			AccessConfigs: []*computepb.AccessConfig{{
				Name:  proto.String("External NAT"),
				NatIP: proto.String("34.82.1.2"),
			}},
		}},
		Scheduling: &computepb.Scheduling{
			Preemptible:       proto.Bool(false),
			AutomaticRestart:  proto.Bool(true),
			OnHostMaintenance: proto.String("MIGRATE"),
		},
		Labels: map[string]string{"managed-by": "vmctl"},
	}

	out := toInstance(in)

	assert.Equal(t, "demo", out.Name)
	assert.Equal(t, core.Running, out.Status)
	assert.Equal(t, "Intel Broadwell", out.CPUPlatform)
	ip, ok := out.ExternalIP()
	assert.True(t, ok)
	assert.Equal(t, "34.82.1.2", ip)
	assert.Equal(t, "10.138.0.5", out.NetworkInterfaces[0].InternalIP)
	assert.True(t, out.Scheduling.AutomaticRestart)
	assert.Equal(t, "vmctl", out.Labels["managed-by"])
}

func TestToInstanceWithoutAccessConfig(t *testing.T) {
	out := toInstance(&computepb.Instance{
		Name:              proto.String("private"),
		NetworkInterfaces: []*computepb.NetworkInterface{{NetworkIP: proto.String("10.0.0.2")}},
	})
	_, ok := out.ExternalIP()
	assert.False(t, ok)
	assert.False(t, out.Scheduling.Preemptible)
}

func TestToInstanceResource(t *testing.T) {
	spec := core.InstanceSpec{
		Name:        "demo",
		MachineType: "zones/us-west1-a/machineTypes/e2-micro",
		BootDisk: core.BootDisk{
			DeviceName:  "boot-disk",
			SourceImage: "projects/debian-cloud/global/images/family/debian-12",
			SizeGB:      30,
			DiskType:    "zones/us-west1-a/diskTypes/pd-standard",
			AutoDelete:  true,
		},
		Network: core.NetworkSpec{
			Network:       "projects/p/global/networks/default",
			AccessConfigs: []core.AccessConfig{{Name: "External NAT", Type: "ONE_TO_ONE_NAT"}},
		},
		Scheduling:      core.Scheduling{Preemptible: true, OnHostMaintenance: "TERMINATE"},
		ServiceAccounts: []core.ServiceAccount{{Email: "default", Scopes: []string{"scope-a"}}},
		Metadata:        []core.MetadataItem{{Key: "startup-script", Value: "#!/bin/bash"}, {Key: "enable-oslogin", Value: "true"}},
		Tags:            []string{"web", "http-server"},
		Labels:          map[string]string{"os-type": "debian"},
	}

	out := toInstanceResource(spec)

	require.Len(t, out.GetDisks(), 1)
	disk := out.GetDisks()[0]
	assert.True(t, disk.GetBoot())
	assert.True(t, disk.GetAutoDelete())
	assert.Equal(t, int64(30), disk.GetInitializeParams().GetDiskSizeGb())
	assert.Equal(t, "projects/debian-cloud/global/images/family/debian-12", disk.GetInitializeParams().GetSourceImage())
	assert.Equal(t, "ONE_TO_ONE_NAT", out.GetNetworkInterfaces()[0].GetAccessConfigs()[0].GetType())
	assert.Equal(t, "TERMINATE", out.GetScheduling().GetOnHostMaintenance())
	assert.False(t, out.GetScheduling().GetAutomaticRestart())
	assert.Equal(t, "default", out.GetServiceAccounts()[0].GetEmail())
	require.Len(t, out.GetMetadata().GetItems(), 2)
	assert.Equal(t, "startup-script", out.GetMetadata().GetItems()[0].GetKey())
	assert.Equal(t, []string{"web", "http-server"}, out.GetTags().GetItems())
	assert.Equal(t, "debian", out.GetLabels()["os-type"])
}

func TestFirewallConversionRoundTrip(t *testing.T) {
	rule := core.FirewallRule{
		Name:         "demo-allow-http",
		Direction:    "INGRESS",
		Priority:     1000,
		SourceRanges: []string{"0.0.0.0/0"},
		TargetTags:   []string{"http-server"},
		Allowed:      []core.FirewallAllow{{Protocol: "tcp", Ports: []string{"80", "443"}}},
	}

	resource := toFirewallResource(rule)
	assert.Equal(t, "tcp", resource.GetAllowed()[0].GetIPProtocol())
	assert.Equal(t, int32(1000), resource.GetPriority())
	assert.Equal(t, rule, *fromFirewall(resource))
}

func TestToOperationStatus(t *testing.T) {
	testCases := []struct {
		name string
		op   *computepb.Operation
		want core.OperationStatus
	}{
		{
			name: "running",
			op: &computepb.Operation{
				Name:     proto.String("operation-1"),
				Status:   computepb.Operation_RUNNING.Enum(),
				Progress: proto.Int32(40),
			},
			want: core.OperationStatus{Name: "operation-1", Status: core.OperationRunning, Progress: 40},
		},
		{
			name: "pending",
			op:   &computepb.Operation{Name: proto.String("operation-2"), Status: computepb.Operation_PENDING.Enum()},
			want: core.OperationStatus{Name: "operation-2", Status: core.OperationPending},
		},
		{
			name: "done with errors",
			op: &computepb.Operation{
				Name:     proto.String("operation-3"),
				Status:   computepb.Operation_DONE.Enum(),
				Progress: proto.Int32(100),
				Error: &computepb.Error{Errors: []*computepb.Errors{{
					Code:    proto.String("QUOTA_EXCEEDED"),
					Message: proto.String("Quota 'CPUS' exceeded"),
				}}},
			},
			want: core.OperationStatus{
				Name:     "operation-3",
				Status:   core.OperationDone,
				Progress: 100,
				Errors:   []string{"QUOTA_EXCEEDED: Quota 'CPUS' exceeded"},
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := toOperationStatus(tc.op)
			assert.Equal(t, tc.want, got)
		})
	}
	assert.True(t, toOperationStatus(testCases[2].op).Failed())
}
