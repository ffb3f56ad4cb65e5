package app

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/yzgyyang/portcran/internal/core"
)

// Show loads a port and returns its regenerated Makefile.
func (s Service) Show(ctx context.Context, req ShowRequest) (ShowResult, error) {
	env := s.environment()
	collection := s.collection(env, req.PortsDir, core.CollectionOptions{})
	port, err := collection.Resolve(ctx, core.Selector{Name: strings.TrimSpace(req.Name), Origin: strings.TrimSpace(req.Origin)})
	if err != nil {
		return ShowResult{}, err
	}
	text, err := port.Generate()
	if err != nil {
		return ShowResult{}, err
	}
	return ShowResult{Origin: port.Origin(), Makefile: text}, nil
}

// Check loads ports and compares their regenerated Makefiles with the
// ones on disk. Ports that fail to load are reported, not returned as an
// error.
func (s Service) Check(ctx context.Context, req CheckRequest) (CheckResult, error) {
	env := s.environment()
	collection := s.collection(env, req.PortsDir, core.CollectionOptions{})

	origins := append([]string(nil), req.Origins...)
	if len(origins) == 0 {
		stubs, err := collection.Stubs(ctx)
		if err != nil {
			return CheckResult{}, err
		}
		for _, stub := range stubs {
			origins = append(origins, stub.Origin())
		}
	}
	sort.Strings(origins)

	var result CheckResult
	for _, origin := range origins {
		result.Checked++
		drifted, err := s.checkPort(ctx, collection, origin)
		switch {
		case err != nil:
			log.Ctx(ctx).Debug().Str("origin", origin).Err(err).Msg("port failed to load")
			result.Failed = append(result.Failed, CheckFailure{Origin: origin, Error: err.Error()})
		case drifted:
			result.Drifted = append(result.Drifted, origin)
		default:
			result.Clean = append(result.Clean, origin)
		}
	}
	return result, nil
}

func (s Service) checkPort(ctx context.Context, collection *core.Collection, origin string) (bool, error) {
	port, err := collection.ResolveOrigin(ctx, origin)
	if err != nil {
		return false, err
	}
	text, err := port.Generate()
	if err != nil {
		return false, err
	}
	disk, err := s.Makefiles.Read(port.Dir)
	if err != nil {
		return false, err
	}
	return text != disk, nil
}
