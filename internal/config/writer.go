package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/imamik/sdprov/internal/storage"
)

// Preseed is the settings subset written after a successful run. Feeding it
// back as a settings file repeats the run unattended.
type Preseed struct {
	Engine  EngineConfig   `yaml:"engine"`
	Ansible AnsibleConfig  `yaml:"ansible,omitempty"`
	Storage storage.Config `yaml:"storage"`
}

// WritePreseed writes s as a preseed file. The engine admin password is not
// written; supply it through the environment on the next run.
func WritePreseed(s *Settings, outputPath string) error {
	p := Preseed{
		Engine:  s.Engine,
		Ansible: s.Ansible,
		Storage: *s.Storage.Clone(),
	}
	p.Engine.AdminPassword = ""

	yamlBytes, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal preseed: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(generateHeader(outputPath))
	sb.WriteString("\n")
	sb.Write(yamlBytes)

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func generateHeader(outputPath string) string {
	var sb strings.Builder
	sb.WriteString("# sdprov storage domain preseed\n")
	sb.WriteString(fmt.Sprintf("# Generated: %s\n", time.Now().Format(time.RFC3339)))
	sb.WriteString("#\n")
	sb.WriteString("# Repeat the run unattended with:\n")
	sb.WriteString(fmt.Sprintf("#   SDPROV_ADMIN_PASSWORD=... sdprov provision -c %s\n", outputPath))
	return sb.String()
}
