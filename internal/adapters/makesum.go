package adapters

import (
	"context"
	"os/exec"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"github.com/yzgyyang/portcran/internal/ports"
	"github.com/yzgyyang/portcran/internal/shared"
)

// MakesumAdapter refreshes distinfo by running the ports framework's
// makesum target.
type MakesumAdapter struct {
	Make string
}

func NewMakesumAdapter(program string) MakesumAdapter {
	if program == "" {
		program = "make"
	}
	return MakesumAdapter{Make: program}
}

func (a MakesumAdapter) Makesum(ctx context.Context, dir string) error {
	log.Ctx(ctx).Debug().Str("dir", dir).Msg("running makesum")
	cmd := exec.CommandContext(ctx, a.Make, "-C", dir, "makesum")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("makesum failed in " + dir).
			WithCause(shared.CommandError(output, err))
	}
	return nil
}

var _ ports.ChecksumPort = MakesumAdapter{}
