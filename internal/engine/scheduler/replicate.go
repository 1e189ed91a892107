package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/buildsched/internal/core/domain"
)

// replicateOutputs copies a transform's kReplicate (and, when manifest
// replication is enabled, kIncludeInManifest) outputs to their physical
// filesystem location (spec §4.3 step 7).
func (s *Scheduler) replicateOutputs(ctx context.Context, x *domain.BuildTransform) {
	for _, out := range x.Outputs() {
		wantsReplicate := out.Flags.Has(domain.FlagReplicate)
		wantsManifest := out.Flags.Has(domain.FlagIncludeInManifest) && s.cfg.ReplicateManifest
		if !wantsReplicate && !wantsManifest {
			continue
		}

		hash, ok := x.GetOutputContentHash(out.Path.Prefixed())
		if !ok {
			continue
		}

		if err := s.replicateOne(ctx, out.Path, hash); err != nil {
			s.logger.Warn(fmt.Sprintf("failed to replicate %s: %v", out.Path.Prefixed(), err))
		}
	}
}

// replicateOne writes a single output's content to disk, skipping the
// copy when the destination's .md5 sidecar already names the same hash.
func (s *Scheduler) replicateOne(ctx context.Context, path domain.BuildPath, hash domain.DataHash) error {
	dest := path.AbsolutePath()
	sidecar := dest + ".md5"

	if existing, err := os.ReadFile(sidecar); err == nil {
		if strings.TrimSpace(string(existing)) == hash.AsText() {
			return nil
		}
	}

	data, err := s.store.ReadData(ctx, hash)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return err
	}
	return os.WriteFile(sidecar, []byte(hash.AsText()), 0o644)
}
