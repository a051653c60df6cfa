// Package prerequisites checks that the host tools a provisioning run
// shells out to are installed.
package prerequisites

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const versionTimeout = 5 * time.Second

// Tool represents a host tool that may be required.
type Tool struct {
	// Name is the binary name or path to look for.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string

	// InstallHint tells the operator how to install the tool.
	InstallHint string
}

// ExecutorTools returns the tools the executor needs. binary is the
// configured ansible-playbook command.
func ExecutorTools(binary string) []Tool {
	if binary == "" {
		binary = "ansible-playbook"
	}
	return []Tool{
		{
			Name:        binary,
			Required:    true,
			Description: "Runs the storage domain playbook",
			InstallHint: "install the ansible-core package",
		},
	}
}

// OptionalTools returns tools that help diagnose storage problems.
func OptionalTools() []Tool {
	return []Tool{
		{
			Name:        "iscsiadm",
			Description: "Manual iSCSI discovery and session inspection",
			InstallHint: "install the iscsi-initiator-utils package",
		},
		{
			Name:        "showmount",
			Description: "Listing NFS exports of a storage server",
			InstallHint: "install the nfs-utils package",
		},
		{
			Name:        "multipath",
			Description: "Inspecting FC and iSCSI multipath devices",
			InstallHint: "install the device-mapper-multipath package",
		},
	}
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool    Tool
	Found   bool
	Path    string
	Version string
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.InstallHint))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// Check verifies that the specified tools are available.
func Check(ctx context.Context, tools []Tool) *CheckResults {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}

		path, err := exec.LookPath(tool.Name)
		if err == nil {
			result.Found = true
			result.Path = path
			result.Version = toolVersion(ctx, path)
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}

// CheckAll checks the executor tools followed by the optional ones.
func CheckAll(ctx context.Context, binary string) *CheckResults {
	required := ExecutorTools(binary)
	optional := OptionalTools()
	all := make([]Tool, 0, len(required)+len(optional))
	all = append(all, required...)
	all = append(all, optional...)
	return Check(ctx, all)
}

// toolVersion returns the first line of "<tool> --version", or "" if the
// tool does not answer.
func toolVersion(ctx context.Context, path string) string {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	// #nosec G204 - path comes from LookPath on a configured tool name
	output, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		return ""
	}
	first, _, _ := strings.Cut(string(output), "\n")
	return strings.TrimSpace(first)
}
