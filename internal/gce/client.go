// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

// Package gce adapts the Compute Engine REST clients to core.ComputeAPI
package gce

import (
	"context"
	stderrors "errors"

	compute "cloud.google.com/go/compute/apiv1"
	"cloud.google.com/go/compute/apiv1/computepb"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/gcevm/vmctl/internal/core"
	"github.com/gcevm/vmctl/internal/errors"
)

var _ core.ComputeAPI = (*Client)(nil)

// Client holds one REST client per resource kind
type Client struct {
	instances *compute.InstancesClient
	firewalls *compute.FirewallsClient
	zoneOps   *compute.ZoneOperationsClient
	globalOps *compute.GlobalOperationsClient
}

// Connect resolves Application Default Credentials and builds the clients.
// It returns the project detected from the credentials, which may be empty.
// Every failure is an auth_failed error.
func Connect(ctx context.Context, opts ...option.ClientOption) (*Client, string, error) {
	creds, err := google.FindDefaultCredentials(ctx, compute.DefaultAuthScopes()...)
	if err != nil {
		return nil, "", errors.Auth("failed to find default credentials; run: gcloud auth application-default login", err)
	}
	opts = append([]option.ClientOption{option.WithCredentials(creds)}, opts...)

	c := &Client{}
	if c.instances, err = compute.NewInstancesRESTClient(ctx, opts...); err != nil {
		return nil, "", errors.Auth("failed to create instances client", err)
	}
	if c.firewalls, err = compute.NewFirewallsRESTClient(ctx, opts...); err != nil {
		_ = c.Close()
		return nil, "", errors.Auth("failed to create firewalls client", err)
	}
	if c.zoneOps, err = compute.NewZoneOperationsRESTClient(ctx, opts...); err != nil {
		_ = c.Close()
		return nil, "", errors.Auth("failed to create zone operations client", err)
	}
	if c.globalOps, err = compute.NewGlobalOperationsRESTClient(ctx, opts...); err != nil {
		_ = c.Close()
		return nil, "", errors.Auth("failed to create global operations client", err)
	}

	log.Debug().Str("project", creds.ProjectID).Msg("Compute Engine clients initialized")
	return c, creds.ProjectID, nil
}

// GetInstance implements core.InstanceAPI
func (c *Client) GetInstance(ctx context.Context, project, zone, name string) (*core.Instance, error) {
	instance, err := c.instances.Get(ctx, &computepb.GetInstanceRequest{
		Project:  project,
		Zone:     zone,
		Instance: name,
	})
	if err != nil {
		return nil, classify(err, "instance", name)
	}
	return toInstance(instance), nil
}

// InsertInstance implements core.InstanceAPI
func (c *Client) InsertInstance(ctx context.Context, project, zone string, spec core.InstanceSpec) (core.Operation, error) {
	op, err := c.instances.Insert(ctx, &computepb.InsertInstanceRequest{
		Project:          project,
		Zone:             zone,
		InstanceResource: toInstanceResource(spec),
	})
	if err != nil {
		return core.Operation{}, err
	}
	return core.Operation{Name: op.Name(), Scope: core.ZoneScope, Zone: zone}, nil
}

// StartInstance implements core.InstanceAPI
func (c *Client) StartInstance(ctx context.Context, project, zone, name string) (core.Operation, error) {
	op, err := c.instances.Start(ctx, &computepb.StartInstanceRequest{Project: project, Zone: zone, Instance: name})
	if err != nil {
		return core.Operation{}, classify(err, "instance", name)
	}
	return core.Operation{Name: op.Name(), Scope: core.ZoneScope, Zone: zone}, nil
}

// StopInstance implements core.InstanceAPI
func (c *Client) StopInstance(ctx context.Context, project, zone, name string) (core.Operation, error) {
	op, err := c.instances.Stop(ctx, &computepb.StopInstanceRequest{Project: project, Zone: zone, Instance: name})
	if err != nil {
		return core.Operation{}, classify(err, "instance", name)
	}
	return core.Operation{Name: op.Name(), Scope: core.ZoneScope, Zone: zone}, nil
}

// ResetInstance implements core.InstanceAPI
func (c *Client) ResetInstance(ctx context.Context, project, zone, name string) (core.Operation, error) {
	op, err := c.instances.Reset(ctx, &computepb.ResetInstanceRequest{Project: project, Zone: zone, Instance: name})
	if err != nil {
		return core.Operation{}, classify(err, "instance", name)
	}
	return core.Operation{Name: op.Name(), Scope: core.ZoneScope, Zone: zone}, nil
}

// DeleteInstance implements core.InstanceAPI
func (c *Client) DeleteInstance(ctx context.Context, project, zone, name string) (core.Operation, error) {
	op, err := c.instances.Delete(ctx, &computepb.DeleteInstanceRequest{Project: project, Zone: zone, Instance: name})
	if err != nil {
		return core.Operation{}, classify(err, "instance", name)
	}
	return core.Operation{Name: op.Name(), Scope: core.ZoneScope, Zone: zone}, nil
}

// GetFirewall implements core.FirewallAPI
func (c *Client) GetFirewall(ctx context.Context, project, name string) (*core.FirewallRule, error) {
	rule, err := c.firewalls.Get(ctx, &computepb.GetFirewallRequest{Project: project, Firewall: name})
	if err != nil {
		return nil, classify(err, "firewall", name)
	}
	return fromFirewall(rule), nil
}

// InsertFirewall implements core.FirewallAPI
func (c *Client) InsertFirewall(ctx context.Context, project string, rule core.FirewallRule) (core.Operation, error) {
	op, err := c.firewalls.Insert(ctx, &computepb.InsertFirewallRequest{
		Project:          project,
		FirewallResource: toFirewallResource(rule),
	})
	if err != nil {
		return core.Operation{}, err
	}
	return core.Operation{Name: op.Name(), Scope: core.GlobalScope}, nil
}

// GetZoneOperation implements core.OperationAPI
func (c *Client) GetZoneOperation(ctx context.Context, project, zone, name string) (core.OperationStatus, error) {
	op, err := c.zoneOps.Get(ctx, &computepb.GetZoneOperationRequest{Project: project, Zone: zone, Operation: name})
	if err != nil {
		return core.OperationStatus{}, classify(err, "operation", name)
	}
	return toOperationStatus(op), nil
}

// GetGlobalOperation implements core.OperationAPI
func (c *Client) GetGlobalOperation(ctx context.Context, project, name string) (core.OperationStatus, error) {
	op, err := c.globalOps.Get(ctx, &computepb.GetGlobalOperationRequest{Project: project, Operation: name})
	if err != nil {
		return core.OperationStatus{}, classify(err, "operation", name)
	}
	return toOperationStatus(op), nil
}

// Close releases every client that was created
func (c *Client) Close() error {
	var errs []error
	if c.instances != nil {
		errs = append(errs, c.instances.Close())
	}
	if c.firewalls != nil {
		errs = append(errs, c.firewalls.Close())
	}
	if c.zoneOps != nil {
		errs = append(errs, c.zoneOps.Close())
	}
	if c.globalOps != nil {
		errs = append(errs, c.globalOps.Close())
	}
	return stderrors.Join(errs...)
}
