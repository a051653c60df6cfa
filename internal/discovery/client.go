package discovery

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/imamik/sdprov/internal/executor"
)

// Identity is the engine identity sent with every executor call.
type Identity struct {
	FQDN          string
	HostName      string
	AdminPassword string
}

// Vars returns the identity as executor variables.
func (i Identity) Vars() executor.Vars {
	return executor.Vars{
		"he_fqdn":           i.FQDN,
		"he_host_name":      i.HostName,
		"he_admin_password": i.AdminPassword,
	}
}

// ISCSIPortal addresses an iSCSI portal with the credentials to use on it.
type ISCSIPortal struct {
	Addresses string
	Ports     string
	User      string
	Password  string
}

// Client runs discovery operations through an executor.
type Client struct {
	exec     executor.Executor
	identity Identity
	log      logrus.FieldLogger
}

// NewClient creates a discovery client.
func NewClient(exec executor.Executor, identity Identity, log logrus.FieldLogger) *Client {
	return &Client{exec: exec, identity: identity, log: log}
}

// ISCSITargets discovers the targets exposed by portal using the discovery
// credentials.
func (c *Client) ISCSITargets(ctx context.Context, portal ISCSIPortal) ([]Target, error) {
	vars := c.identity.Vars().Merge(executor.Vars{
		"he_iscsi_discover_username": portal.User,
		"he_iscsi_discover_password": portal.Password,
		"he_iscsi_portal_addr":       portal.Addresses,
		"he_iscsi_portal_port":       portal.Ports,
	})

	c.log.Info("Discovering iSCSI targets")
	result, err := c.exec.Run(ctx, executor.TagISCSIDiscover, vars, executor.InventoryFor(""))
	if err != nil {
		return nil, fmt.Errorf("iSCSI discovery failed: %w", err)
	}
	return ParseTargets(result)
}

// ISCSILUNs lists the LUNs of target after logging in with the login
// credentials.
func (c *Client) ISCSILUNs(ctx context.Context, portal ISCSIPortal, target string) ([]LUN, error) {
	vars := c.identity.Vars().Merge(executor.Vars{
		"he_iscsi_username":    portal.User,
		"he_iscsi_password":    portal.Password,
		"he_iscsi_portal_addr": portal.Addresses,
		"he_iscsi_portal_port": portal.Ports,
		"he_iscsi_target":      target,
	})

	c.log.Info("Getting iSCSI LUNs list")
	result, err := c.exec.Run(ctx, executor.TagISCSIGetDevices, vars, executor.InventoryFor(""))
	if err != nil {
		return nil, fmt.Errorf("iSCSI LUN listing failed: %w", err)
	}
	return ParseLUNs(result, KeyISCSIDevices)
}

// FCLUNs lists the Fibre Channel LUNs visible to the host.
func (c *Client) FCLUNs(ctx context.Context) ([]LUN, error) {
	c.log.Info("Getting Fibre Channel LUNs list")
	result, err := c.exec.Run(ctx, executor.TagFCGetDevices, c.identity.Vars(), executor.InventoryFor(""))
	if err != nil {
		return nil, fmt.Errorf("fibre channel LUN listing failed: %w", err)
	}
	return ParseLUNs(result, KeyFCDevices)
}
