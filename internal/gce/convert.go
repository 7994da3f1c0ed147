// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

package gce

import (
	"errors"
	"fmt"
	"net/http"

	"cloud.google.com/go/compute/apiv1/computepb"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/protobuf/proto"

	"github.com/gcevm/vmctl/internal/core"
	apperrors "github.com/gcevm/vmctl/internal/errors"
)

// classify maps a provider 404 to a not-found error and wraps everything else
func classify(err error, resourceType, name string) error {
	if err == nil {
		return nil
	}
	if isNotFound(err) {
		nf := apperrors.NotFound(resourceType, name)
		nf.WithContext("cause", err.Error())
		return nf
	}
	return err
}

func isNotFound(err error) bool {
	if ae, ok := apierror.FromError(err); ok && ae.HTTPCode() == http.StatusNotFound {
		return true
	}
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}

// toInstance converts the provider resource into the core view
func toInstance(in *computepb.Instance) *core.Instance {
	out := &core.Instance{
		Name:        in.GetName(),
		Status:      core.InstanceStatus(in.GetStatus()),
		MachineType: in.GetMachineType(),
		Zone:        in.GetZone(),
		CPUPlatform: in.GetCpuPlatform(),
		Scheduling: core.Scheduling{
			Preemptible:       in.GetScheduling().GetPreemptible(),
			AutomaticRestart:  in.GetScheduling().GetAutomaticRestart(),
			OnHostMaintenance: in.GetScheduling().GetOnHostMaintenance(),
		},
		Labels: in.GetLabels(),
	}
	for _, ni := range in.GetNetworkInterfaces() {
		iface := core.NetworkInterface{
			Network:    ni.GetNetwork(),
			InternalIP: ni.GetNetworkIP(),
		}
		if acs := ni.GetAccessConfigs(); len(acs) > 0 {
			iface.HasAccessConfig = true
			iface.ExternalIP = acs[0].GetNatIP()
		}
		out.NetworkInterfaces = append(out.NetworkInterfaces, iface)
	}
	return out
}

// toInstanceResource converts a creation request into the provider resource
func toInstanceResource(spec core.InstanceSpec) *computepb.Instance {
	accessConfigs := make([]*computepb.AccessConfig, 0, len(spec.Network.AccessConfigs))
	for _, ac := range spec.Network.AccessConfigs {
		accessConfigs = append(accessConfigs, &computepb.AccessConfig{
			Name: proto.String(ac.Name),
			Type: proto.String(ac.Type),
		})
	}

	items := make([]*computepb.Items, 0, len(spec.Metadata))
	for _, item := range spec.Metadata {
		items = append(items, &computepb.Items{
			Key:   proto.String(item.Key),
			Value: proto.String(item.Value),
		})
	}

	instance := &computepb.Instance{
		Name:        proto.String(spec.Name),
		MachineType: proto.String(spec.MachineType),
		Disks: []*computepb.AttachedDisk{{
			AutoDelete: proto.Bool(spec.BootDisk.AutoDelete),
			Boot:       proto.Bool(true),
			DeviceName: proto.String(spec.BootDisk.DeviceName),
			InitializeParams: &computepb.AttachedDiskInitializeParams{
				SourceImage: proto.String(spec.BootDisk.SourceImage),
				DiskSizeGb:  proto.Int64(spec.BootDisk.SizeGB),
				DiskType:    proto.String(spec.BootDisk.DiskType),
			},
		}},
		NetworkInterfaces: []*computepb.NetworkInterface{{
			Network:       proto.String(spec.Network.Network),
			AccessConfigs: accessConfigs,
		}},
		Scheduling: &computepb.Scheduling{
			Preemptible:       proto.Bool(spec.Scheduling.Preemptible),
			AutomaticRestart:  proto.Bool(spec.Scheduling.AutomaticRestart),
			OnHostMaintenance: proto.String(spec.Scheduling.OnHostMaintenance),
		},
		Metadata: &computepb.Metadata{Items: items},
		Tags:     &computepb.Tags{Items: spec.Tags},
		Labels:   spec.Labels,
	}
	for _, sa := range spec.ServiceAccounts {
		instance.ServiceAccounts = append(instance.ServiceAccounts, &computepb.ServiceAccount{
			Email:  proto.String(sa.Email),
			Scopes: sa.Scopes,
		})
	}
	return instance
}

// toFirewallResource converts a rule into the provider resource
func toFirewallResource(rule core.FirewallRule) *computepb.Firewall {
	allowed := make([]*computepb.Allowed, 0, len(rule.Allowed))
	for _, a := range rule.Allowed {
		allowed = append(allowed, &computepb.Allowed{
			IPProtocol: proto.String(a.Protocol),
			Ports:      a.Ports,
		})
	}
	return &computepb.Firewall{
		Name:         proto.String(rule.Name),
		Direction:    proto.String(rule.Direction),
		Priority:     proto.Int32(rule.Priority),
		SourceRanges: rule.SourceRanges,
		TargetTags:   rule.TargetTags,
		Allowed:      allowed,
	}
}

// fromFirewall converts the provider resource into a rule
func fromFirewall(in *computepb.Firewall) *core.FirewallRule {
	rule := &core.FirewallRule{
		Name:         in.GetName(),
		Direction:    in.GetDirection(),
		Priority:     in.GetPriority(),
		SourceRanges: in.GetSourceRanges(),
		TargetTags:   in.GetTargetTags(),
	}
	for _, a := range in.GetAllowed() {
		rule.Allowed = append(rule.Allowed, core.FirewallAllow{Protocol: a.GetIPProtocol(), Ports: a.GetPorts()})
	}
	return rule
}

// toOperationStatus converts a fetched operation into a core observation
func toOperationStatus(op *computepb.Operation) core.OperationStatus {
	status := core.OperationStatus{
		Name:     op.GetName(),
		Progress: int(op.GetProgress()),
	}
	switch op.GetStatus() {
	case computepb.Operation_DONE:
		status.Status = core.OperationDone
	case computepb.Operation_RUNNING:
		status.Status = core.OperationRunning
	default:
		status.Status = core.OperationPending
	}
	for _, e := range op.GetError().GetErrors() {
		status.Errors = append(status.Errors, fmt.Sprintf("%s: %s", e.GetCode(), e.GetMessage()))
	}
	return status
}
