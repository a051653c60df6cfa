package handlers

import (
	"context"
	"fmt"
	"io"

	"github.com/imamik/sdprov/internal/config"
	"github.com/imamik/sdprov/internal/util/prerequisites"
)

// BuildInfo is stamped into the binary at link time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Version prints the build information and the executor found on the host.
// The executor binary comes from the settings file when it loads, otherwise
// the default is looked up.
func Version(ctx context.Context, g Globals, build BuildInfo, out io.Writer) {
	fmt.Fprintf(out, "sdprov %s\n", build.Version)
	fmt.Fprintf(out, "  commit:   %s\n", build.Commit)
	fmt.Fprintf(out, "  built:    %s\n", build.Date)

	binary := config.DefaultAnsibleBinary
	if s, err := loadSettings(g); err == nil {
		binary = s.Ansible.Binary
	} else {
		g.logger().WithError(err).Debug("Settings not loaded, looking up the default executor")
	}

	for _, r := range checkPrereqs(ctx, prerequisites.ExecutorTools(binary)).Results {
		switch {
		case !r.Found:
			fmt.Fprintf(out, "  executor: %s not found\n", r.Tool.Name)
		case r.Version != "":
			fmt.Fprintf(out, "  executor: %s (%s)\n", r.Version, r.Path)
		default:
			fmt.Fprintf(out, "  executor: %s\n", r.Path)
		}
	}
}
