package handlers

import (
	"context"

	"github.com/imamik/sdprov/internal/prompt"
	"github.com/imamik/sdprov/internal/provisioning"
)

// Cleanup removes temporary resources left by an interrupted provision run.
func Cleanup(ctx context.Context, g Globals) error {
	log := g.logger()

	s, err := loadSettings(g)
	if err != nil {
		return err
	}
	if err := requireExecutor(ctx, s); err != nil {
		return err
	}

	m := provisioning.NewMachine(newExecutor(s, log), prompt.NewAnswers(nil, nil, log), provisioning.Options{
		Identity:   identityOf(s),
		LocalVMDir: s.Engine.LocalVMDir,
	}, log)
	if err := m.FinalCleanup(ctx); err != nil {
		return err
	}
	log.Info("Temporary resources removed")
	return nil
}
