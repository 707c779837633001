package artifact

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hangarhq/hangar/pkg/log"
	"github.com/hangarhq/hangar/pkg/types"
	"github.com/rs/zerolog"
)

// stagePrefix marks in-progress deployment directories. Staged directories
// are invisible to List and are promoted with a single rename, so a reader
// never observes a half-built deployment.
const stagePrefix = ".stage-"

// Store manages the on-disk deployment tree: one subdirectory per
// deployment under a fixed root.
type Store struct {
	root   string
	logger zerolog.Logger
}

// NewStore creates the deployment root if needed and returns a Store
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create deployment root: %w", err)
	}
	return &Store{
		root:   root,
		logger: log.WithComponent("artifact"),
	}, nil
}

// Root returns the deployment root directory
func (s *Store) Root() string {
	return s.root
}

// Path returns the directory a deployment lives in
func (s *Store) Path(name string) string {
	return filepath.Join(s.root, name)
}

// Exists reports whether a published deployment directory exists
func (s *Store) Exists(name string) bool {
	info, err := os.Stat(s.Path(name))
	return err == nil && info.IsDir()
}

// Stage creates the staging directory for a deployment. It fails if the
// deployment is already published.
func (s *Store) Stage(name string) (string, error) {
	if s.Exists(name) {
		return "", fmt.Errorf("deployment %s already exists", name)
	}

	stageDir := filepath.Join(s.root, stagePrefix+name)
	// A leftover stage from a crashed deploy is discarded
	if err := os.RemoveAll(stageDir); err != nil {
		return "", fmt.Errorf("failed to clear stale stage: %w", err)
	}
	if err := os.MkdirAll(stageDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create stage directory: %w", err)
	}
	return stageDir, nil
}

// Publish atomically promotes a staged deployment to its final directory
func (s *Store) Publish(name string) error {
	stageDir := filepath.Join(s.root, stagePrefix+name)
	if err := os.Rename(stageDir, s.Path(name)); err != nil {
		return fmt.Errorf("failed to publish deployment %s: %w", name, err)
	}
	return nil
}

// DiscardStage removes the staging directory of a failed deploy
func (s *Store) DiscardStage(name string) {
	stageDir := filepath.Join(s.root, stagePrefix+name)
	if err := os.RemoveAll(stageDir); err != nil {
		s.logger.Warn().Err(err).Str("deployment", name).Msg("failed to discard stage directory")
	}
}

// Remove deletes a published deployment directory recursively
func (s *Store) Remove(name string) error {
	if !s.Exists(name) {
		return fmt.Errorf("deployment %s not found", name)
	}
	if err := os.RemoveAll(s.Path(name)); err != nil {
		return fmt.Errorf("failed to remove deployment %s: %w", name, err)
	}
	return nil
}

// List returns the names of all published deployments, sorted
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read deployment root: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// CopyArtifacts copies each recorded artifact into dir and returns the
// accounting for the descriptor. Artifact types are processed in sorted
// order so the files_copied list is deterministic. Artifacts land under
// their source base name, so two sources sharing a base name would
// silently overwrite each other; that is rejected as an error.
func (s *Store) CopyArtifacts(dir string, paths map[string]string) (types.ModelFiles, error) {
	var files types.ModelFiles

	artifactTypes := make([]string, 0, len(paths))
	for t := range paths {
		artifactTypes = append(artifactTypes, t)
	}
	sort.Strings(artifactTypes)

	copied := make(map[string]string)
	for _, artifactType := range artifactTypes {
		src := paths[artifactType]
		base := filepath.Base(src)
		if prev, ok := copied[base]; ok {
			return types.ModelFiles{}, fmt.Errorf("artifacts %q and %q both resolve to file %s", prev, artifactType, base)
		}
		copied[base] = artifactType
		dst := filepath.Join(dir, base)

		size, err := copyFile(src, dst)
		if err != nil {
			return types.ModelFiles{}, fmt.Errorf("failed to copy %s artifact: %w", artifactType, err)
		}

		sizeMB := roundMB(size)
		files.FilesCopied = append(files.FilesCopied, types.CopiedFile{
			Type:   artifactType,
			Path:   filepath.Base(src),
			SizeMB: sizeMB,
		})
		files.ModelSizeMB += sizeMB

		s.logger.Debug().
			Str("type", artifactType).
			Str("src", src).
			Float64("size_mb", sizeMB).
			Msg("copied artifact")
	}

	files.ModelSizeMB = math.Round(files.ModelSizeMB*100) / 100
	return files, nil
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return 0, err
	}
	return n, out.Close()
}

func roundMB(bytes int64) float64 {
	return math.Round(float64(bytes)/(1024*1024)*100) / 100
}
