package overlaystat

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"
)

// BackupPath returns where the pre-migration copy of a version v file is kept.
func BackupPath(path string, v byte) string {
	return fmt.Sprintf("%s.v%d.bak", path, v)
}

// checkHeader validates the version byte. An empty or zero header is left
// alone unless write is set, in which case it is stamped with the store's
// version. An older header triggers migration.
func (s *Store) checkHeader(write bool) error {
	size, err := s.data.Size()
	if err != nil {
		return fmt.Errorf("stat size: %w", err)
	}
	var header byte
	if size > 0 {
		var b [headerSize]byte
		if _, err := s.data.ReadAt(b[:], 0); err != nil {
			return fmt.Errorf("read header: %w", err)
		}
		header = b[0]
	}

	switch {
	case header == s.codec.version:
		return nil
	case header == 0:
		if !write {
			return nil
		}
		if _, err := s.data.WriteAt([]byte{s.codec.version}, 0); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		return nil
	case header > s.codec.version:
		return fmt.Errorf("%w: file has version %d, store is configured for %d", ErrUnsupportedVersion, header, s.codec.version)
	case s.readOnly:
		return fmt.Errorf("%w: file has version %d, store is configured for %d", ErrReadOnly, header, s.codec.version)
	}

	if err := s.migrateLocked(header, size); err != nil {
		return fmt.Errorf("%w: v%d -> v%d: %w", ErrMigration, header, s.codec.version, err)
	}
	return nil
}

// migrateLocked upgrades a version old file to the store's version:
//
//  1. copy the file byte-for-byte to BackupPath(path, old)
//  2. read every record from the backup under the old schema
//  3. write header, zeroed slot region and re-stamped records to a temp file
//  4. rename the temp file over the original and reopen it
//
// The original bytes are never modified in place.
func (s *Store) migrateLocked(old byte, size int64) error {
	if s.path == "" {
		return errors.New("transient store cannot be migrated")
	}
	start := time.Now()

	backup := BackupPath(s.path, old)
	if err := s.copyTo(backup, size); err != nil {
		return fmt.Errorf("backup: %w", err)
	}
	s.log.Debug("stat file backed up", "backup", backup, "bytes", size)

	recs, err := s.readBackup(backup, old)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}

	if err := s.replaceWithMigrated(recs, size); err != nil {
		return err
	}

	s.migratedFrom = old
	atomic.AddUint64(&s.statMigrations, 1)
	s.log.Info("stat file migrated",
		"from", old,
		"records", len(recs),
		"backup", backup,
		"elapsed", time.Since(start))
	return nil
}

// copyTo writes the first size bytes of the stream to dst, overwriting it.
func (s *Store) copyTo(dst string, size int64) (err error) {
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, out.Close())
	}()
	if _, err := io.Copy(out, io.NewSectionReader(s.data, 0, size)); err != nil {
		return err
	}
	return out.Sync()
}

// readBackup returns every record of the backup re-stamped with the
// configured source and overlay sizes.
func (s *Store) readBackup(path string, version byte) ([]Record, error) {
	opts := s.options
	opts.Version = version
	src, err := OpenReadOnly(path, opts)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	var recs []Record
	for rec, err := range src.All() {
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec.WithSizes(s.options.SourceSize, s.options.OverlaySize))
	}
	return recs, nil
}

// replaceWithMigrated builds the upgraded file next to the original and
// renames it into place. The temp file keeps the original length, so the
// slot region past the last record stays zeroed.
func (s *Store) replaceWithMigrated(recs []Record, size int64) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	closed := false
	defer func() {
		if err == nil {
			return
		}
		if !closed {
			err = errors.Join(err, tmp.Close())
		}
		if tmpPath != "" {
			err = errors.Join(err, os.Remove(tmpPath))
		}
	}()

	if fi, err := os.Stat(s.path); err == nil {
		if err := tmp.Chmod(fi.Mode().Perm()); err != nil {
			return fmt.Errorf("chmod temp file: %w", err)
		}
	}
	if err := tmp.Truncate(size); err != nil {
		return fmt.Errorf("size temp file: %w", err)
	}
	out := &fileBackend{file: tmp}
	if _, err := out.WriteAt([]byte{s.codec.version}, 0); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := writeSlots(out, s.codec, make([]byte, s.codec.size), recs); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	closed = true
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	tmpPath = ""

	f, err := os.OpenFile(s.path, os.O_RDWR, 0)
	if err != nil {
		// The migrated file is in place but this handle is gone.
		s.closed = true
		return errors.Join(fmt.Errorf("reopen migrated file: %w", err), s.data.Close())
	}
	prev := s.data
	s.data = &fileBackend{file: f}
	if err := prev.Close(); err != nil {
		s.log.Warn("closing pre-migration handle", "err", err)
	}
	if err := syncDir(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("sync directory: %w", err)
	}
	return nil
}

// syncDir makes a rename inside dir durable.
func syncDir(dir string) (err error) {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, d.Close())
	}()
	return d.Sync()
}
