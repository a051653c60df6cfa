package storage

import (
	"github.com/imamik/sdprov/internal/util/ptr"
)

// DomainType identifies a storage backend.
type DomainType string

// Supported backends.
const (
	NFS       DomainType = "nfs"
	POSIXFS   DomainType = "posixfs"
	GlusterFS DomainType = "glusterfs"
	ISCSI     DomainType = "iscsi"
	FC        DomainType = "fc"

	// Legacy compound values rewritten to NFS with a fixed protocol version.
	NFS3 DomainType = "nfs3"
	NFS4 DomainType = "nfs4"
)

// DomainTypes lists the selectable backends in prompt order.
var DomainTypes = []DomainType{GlusterFS, ISCSI, FC, NFS, POSIXFS}

// NFS protocol versions.
const (
	NFSVersionAuto = "auto"
	NFSVersionV3   = "v3"
	NFSVersionV4   = "v4"
	NFSVersionV40  = "v4_0"
	NFSVersionV41  = "v4_1"
	NFSVersionV42  = "v4_2"
)

// NFSVersions lists the accepted NFS protocol versions.
var NFSVersions = []string{NFSVersionAuto, NFSVersionV3, NFSVersionV4, NFSVersionV40, NFSVersionV41, NFSVersionV42}

// POSIX filesystem types.
const (
	VFSTypeExt4 = "ext4"
	VFSTypeCeph = "ceph"
	VFSTypeNFS  = "nfs"
)

// VFSTypes lists the accepted POSIX filesystem types.
var VFSTypes = []string{VFSTypeExt4, VFSTypeCeph, VFSTypeNFS}

// Defaults and limits.
const (
	DefaultDomainName = "hosted_storage"
	DefaultISCSIPort  = "3260"
	DefaultNFSVersion = NFSVersionAuto
	DefaultVFSType    = VFSTypeCeph

	MaxUsernameLength = 50
	MaxPasswordLength = 100
)

// String implements fmt.Stringer.
func (d DomainType) String() string { return string(d) }

// Config is the mutable workflow state for one provisioning run. Empty
// strings and nil pointers mean "not provided yet"; pointer fields are used
// where an empty string is a legitimate answer.
type Config struct {
	DomainType   DomainType `yaml:"domain_type,omitempty" mapstructure:"domain_type"`
	Connection   string     `yaml:"connection,omitempty" mapstructure:"connection"`
	MountOptions *string    `yaml:"mount_options,omitempty" mapstructure:"mount_options"`
	NFSVersion   string     `yaml:"nfs_version,omitempty" mapstructure:"nfs_version"`
	VFSType      string     `yaml:"vfs_type,omitempty" mapstructure:"vfs_type"`

	ISCSIAddress          string  `yaml:"iscsi_address,omitempty" mapstructure:"iscsi_address"`
	ISCSIPort             string  `yaml:"iscsi_port,omitempty" mapstructure:"iscsi_port"`
	ISCSIDiscoverUser     *string `yaml:"iscsi_discover_user,omitempty" mapstructure:"iscsi_discover_user"`
	ISCSIDiscoverPassword *string `yaml:"iscsi_discover_password,omitempty" mapstructure:"iscsi_discover_password"`
	ISCSIUser             *string `yaml:"iscsi_user,omitempty" mapstructure:"iscsi_user"`
	ISCSIPassword         *string `yaml:"iscsi_password,omitempty" mapstructure:"iscsi_password"`
	ISCSITarget           string  `yaml:"iscsi_target,omitempty" mapstructure:"iscsi_target"`
	ISCSITPGT             string  `yaml:"iscsi_tpgt,omitempty" mapstructure:"iscsi_tpgt"`

	LunID   string `yaml:"lun_id,omitempty" mapstructure:"lun_id"`
	Discard bool   `yaml:"discard,omitempty" mapstructure:"discard"`

	DomainName    string  `yaml:"domain_name,omitempty" mapstructure:"domain_name"`
	DeviceSizeGiB float64 `yaml:"device_size_gib,omitempty" mapstructure:"device_size_gib"`
}

// HasBackendFields reports whether any backend-identifying field was
// pre-populated. A run that starts with such a field is unattended.
func (c *Config) HasBackendFields() bool {
	return c.DomainType != "" ||
		c.Connection != "" ||
		c.MountOptions != nil ||
		c.NFSVersion != "" ||
		c.ISCSIAddress != "" ||
		c.ISCSIPort != "" ||
		c.ISCSIUser != nil ||
		c.ISCSIPassword != nil ||
		c.ISCSITarget != ""
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.MountOptions = ptr.Clone(c.MountOptions)
	out.ISCSIDiscoverUser = ptr.Clone(c.ISCSIDiscoverUser)
	out.ISCSIDiscoverPassword = ptr.Clone(c.ISCSIDiscoverPassword)
	out.ISCSIUser = ptr.Clone(c.ISCSIUser)
	out.ISCSIPassword = ptr.Clone(c.ISCSIPassword)
	return &out
}

// NormalizeLegacyType rewrites the legacy nfs3/nfs4 domain types to plain NFS
// and fills the protocol version. It reports whether a rewrite happened.
func (c *Config) NormalizeLegacyType() bool {
	switch c.DomainType {
	case NFS3:
		c.DomainType = NFS
		c.NFSVersion = NFSVersionV3
	case NFS4:
		c.DomainType = NFS
		c.NFSVersion = NFSVersionV4
	default:
		return false
	}
	return true
}
