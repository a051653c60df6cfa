package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Validate checks the settings for errors the executor would only report
// late. Storage values are checked by the backend collectors.
func (s *Settings) Validate() error {
	var errs []error

	if s.Engine.FQDN == "" {
		errs = append(errs, errors.New("engine.fqdn is required"))
	} else if strings.ContainsAny(s.Engine.FQDN, " ,") {
		errs = append(errs, fmt.Errorf("engine.fqdn %q must be a single host name", s.Engine.FQDN))
	}
	if s.Ansible.Binary == "" {
		errs = append(errs, errors.New("ansible.binary is required"))
	}
	if s.Ansible.Playbook == "" {
		errs = append(errs, errors.New("ansible.playbook is required"))
	}
	if s.Ansible.LogDir != "" {
		if info, err := os.Stat(s.Ansible.LogDir); err != nil || !info.IsDir() {
			errs = append(errs, fmt.Errorf("ansible.log_dir %q is not a directory", s.Ansible.LogDir))
		}
	}

	return errors.Join(errs...)
}
