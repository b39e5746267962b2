package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/genemap/genemap/internal/domain/model"
	"github.com/genemap/genemap/internal/domain/types"
	"github.com/genemap/genemap/pkg/logger"
)

// Output file layout under the base directory.
const (
	mappingFile    = "gene_to_id.json"
	unresolvedFile = "unresolved_genes.yaml"
	infoFile       = "genes_info.json"
	xmlDirName     = "gene_xmls"

	dirMode  = 0o755
	fileMode = 0o644
)

// FileStore implements Store on a local directory. Writes go through a
// temp file and rename so a crashed run never leaves a torn file.
type FileStore struct {
	baseDir string
	xmlDir  string
	log     logger.Logger
}

// NewFileStore creates a store rooted at baseDir, creating it if needed.
func NewFileStore(baseDir string, opts ...Option) (*FileStore, error) {
	s := &FileStore{
		baseDir: baseDir,
		xmlDir:  xmlDirName,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get().Named("repository")
	}
	if err := os.MkdirAll(filepath.Join(s.baseDir, s.xmlDir), dirMode); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return s, nil
}

func (s *FileStore) SaveMapping(ctx context.Context, mapping map[string]string) error {
	data, err := json.MarshalIndent(mapping, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: mapping: %v", ErrSerialize, err)
	}
	return s.write(ctx, mappingFile, data)
}

func (s *FileStore) LoadMapping(ctx context.Context) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, mappingFile))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, mappingFile)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersist, err)
	}
	var mapping map[string]string
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("%w: mapping: %v", ErrSerialize, err)
	}
	return mapping, nil
}

func (s *FileStore) SaveUnresolved(ctx context.Context, entries []types.UnresolvedEntry) error {
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("%w: unresolved: %v", ErrSerialize, err)
	}
	return s.write(ctx, unresolvedFile, data)
}

func (s *FileStore) SaveGeneInfo(ctx context.Context, info map[string]model.GeneInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: gene info: %v", ErrSerialize, err)
	}
	return s.write(ctx, infoFile, data)
}

func (s *FileStore) SaveRecordXML(ctx context.Context, symbol, id string, data []byte) error {
	name := fmt.Sprintf("%s__%s.xml", sanitize(symbol), sanitize(id))
	return s.write(ctx, filepath.Join(s.xmlDir, name), data)
}

func (s *FileStore) write(ctx context.Context, rel string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(s.baseDir, rel)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, fileMode); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	s.log.Debug("file written",
		logger.String("path", path),
		logger.Int("bytes", len(data)))
	return nil
}

// sanitize keeps snapshot filenames flat even when a symbol carries a
// path separator, which some provisional symbols do.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, string(os.PathSeparator), "_")
	return strings.ReplaceAll(s, "/", "_")
}
