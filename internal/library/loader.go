package library

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Cache file names
const (
	CacheDataFile    = "sfxlibrary.dat"
	CacheVersionFile = "sfxlibrary_version.txt"
)

// Source supplies the raw library manifest and its version.
type Source interface {
	LibraryVersion(ctx context.Context) (int, error)
	LibraryData(ctx context.Context) ([]byte, error)
}

// Loader fetches the library from a Source and keeps a copy in a cache
// directory so the app keeps working offline.
type Loader struct {
	source   Source
	cacheDir string
	logger   *log.Logger
}

// NewLoader creates a loader. An empty cacheDir disables caching.
func NewLoader(source Source, cacheDir string, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{
		source:   source,
		cacheDir: cacheDir,
		logger:   logger,
	}
}

// Load returns the current library. The cached manifest is reused when its
// version matches the remote one, unless force is set. When the source is
// unreachable the cached manifest is used regardless of its version.
func (l *Loader) Load(ctx context.Context, force bool) (*Library, error) {
	cachedVersion, cachedData, cacheErr := l.readCache()
	if cacheErr != nil && !errors.Is(cacheErr, os.ErrNotExist) {
		l.logger.Printf("library cache unreadable: %v", cacheErr)
	}
	hasCache := cacheErr == nil

	remoteVersion, err := l.source.LibraryVersion(ctx)
	if err != nil {
		if hasCache {
			l.logger.Printf("library version unavailable, using cached version %d: %v", cachedVersion, err)
			return decodeLibrary(cachedData, cachedVersion)
		}
		return nil, fmt.Errorf("fetch library version: %w", err)
	}

	if hasCache && !force && cachedVersion == remoteVersion {
		lib, err := decodeLibrary(cachedData, cachedVersion)
		if err == nil {
			return lib, nil
		}
		l.logger.Printf("cached library corrupt, refetching: %v", err)
	}

	data, err := l.source.LibraryData(ctx)
	if err != nil {
		if hasCache {
			l.logger.Printf("library download failed, using cached version %d: %v", cachedVersion, err)
			return decodeLibrary(cachedData, cachedVersion)
		}
		return nil, fmt.Errorf("fetch library: %w", err)
	}

	lib, err := decodeLibrary(data, remoteVersion)
	if err != nil {
		return nil, err
	}

	if err := l.writeCache(remoteVersion, data); err != nil {
		l.logger.Printf("failed to cache library: %v", err)
	}
	if lib.Orphans > 0 {
		l.logger.Printf("library version %d: skipped %d records with unknown parents", remoteVersion, lib.Orphans)
	}
	return lib, nil
}

func decodeLibrary(data []byte, version int) (*Library, error) {
	text, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode library: %w", err)
	}
	lib, err := Parse(string(text))
	if err != nil {
		return nil, fmt.Errorf("parse library: %w", err)
	}
	lib.Version = version
	return lib, nil
}

func (l *Loader) readCache() (int, []byte, error) {
	if l.cacheDir == "" {
		return 0, nil, os.ErrNotExist
	}
	rawVersion, err := os.ReadFile(filepath.Join(l.cacheDir, CacheVersionFile))
	if err != nil {
		return 0, nil, err
	}
	version, err := strconv.Atoi(strings.TrimSpace(string(rawVersion)))
	if err != nil {
		return 0, nil, fmt.Errorf("invalid cached version: %w", err)
	}
	data, err := os.ReadFile(filepath.Join(l.cacheDir, CacheDataFile))
	if err != nil {
		return 0, nil, err
	}
	return version, data, nil
}

func (l *Loader) writeCache(version int, data []byte) error {
	if l.cacheDir == "" {
		return nil
	}
	if err := os.MkdirAll(l.cacheDir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	// the version file marks the data as complete, so it goes last
	if err := writeFileAtomic(filepath.Join(l.cacheDir, CacheDataFile), data); err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(l.cacheDir, CacheVersionFile), []byte(strconv.Itoa(version)))
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename tmp: %w", err)
	}
	return nil
}
