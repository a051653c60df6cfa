package config

import (
	"github.com/imamik/sdprov/internal/storage"
)

// Defaults.
const (
	DefaultAnsibleBinary = "ansible-playbook"
	DefaultPlaybook      = "/usr/share/sdprov/playbooks/storage_domain.yml"
	DefaultSettingsPath  = "/etc/sdprov/settings.yaml"
)

// Settings is the content of a settings file.
type Settings struct {
	Engine  EngineConfig      `yaml:"engine" mapstructure:"engine"`
	Ansible AnsibleConfig     `yaml:"ansible" mapstructure:"ansible"`
	Storage storage.Config    `yaml:"storage" mapstructure:"storage"`
	Answers map[string]string `yaml:"answers,omitempty" mapstructure:"answers"`
}

// EngineConfig identifies the engine.
type EngineConfig struct {
	FQDN          string `yaml:"fqdn" mapstructure:"fqdn"`
	HostName      string `yaml:"host_name,omitempty" mapstructure:"host_name"`
	AdminPassword string `yaml:"admin_password,omitempty" mapstructure:"admin_password"`
	LocalVMDir    string `yaml:"local_vm_dir,omitempty" mapstructure:"local_vm_dir"`
}

// AnsibleConfig configures the executor.
type AnsibleConfig struct {
	Binary        string `yaml:"binary,omitempty" mapstructure:"binary"`
	Playbook      string `yaml:"playbook,omitempty" mapstructure:"playbook"`
	UserExtraVars string `yaml:"user_extra_vars,omitempty" mapstructure:"user_extra_vars"`
	LogDir        string `yaml:"log_dir,omitempty" mapstructure:"log_dir"`
}

// Default returns settings with every default applied.
func Default() *Settings {
	s := &Settings{}
	s.applyDefaults()
	return s
}

func (s *Settings) applyDefaults() {
	if s.Ansible.Binary == "" {
		s.Ansible.Binary = DefaultAnsibleBinary
	}
	if s.Ansible.Playbook == "" {
		s.Ansible.Playbook = DefaultPlaybook
	}
	if s.Storage.DomainName == "" {
		s.Storage.DomainName = storage.DefaultDomainName
	}
	if s.Answers == nil {
		s.Answers = map[string]string{}
	}
}
