package repository

import "github.com/genemap/genemap/pkg/logger"

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithXMLDir overrides the subdirectory for raw record snapshots.
func WithXMLDir(name string) Option {
	return func(s *FileStore) {
		if name != "" {
			s.xmlDir = name
		}
	}
}

// WithLogger overrides the package logger.
func WithLogger(log logger.Logger) Option {
	return func(s *FileStore) {
		if log != nil {
			s.log = log
		}
	}
}
