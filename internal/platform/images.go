package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// ImageExt is the file extension of region image files.
const ImageExt = ".img"

// ImagePath returns the image file for the named region under dir.
func ImagePath(dir, name string) string {
	return filepath.Join(dir, name+ImageExt)
}

// LoadImages restores region contents from dir. A missing image leaves the
// region zeroed; an image whose size differs from the region is an error.
func (p *Platform) LoadImages(fs afero.Fs, dir string) error {
	for _, r := range p.regions {
		path := ImagePath(dir, r.Name)
		data, err := afero.ReadFile(fs, path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("reading image %s: %w", path, err)
		}
		if uint64(len(data)) != r.Size {
			return fmt.Errorf("image %s is %d bytes, region %q is %d", path, len(data), r.Name, r.Size)
		}
		copy(r.data, data)
		p.log.Debug().Str("region", r.Name).Str("path", path).Msg("image loaded")
	}
	return nil
}

// SaveImages writes every region to dir using the temp-file, sync, rename
// pattern so that a failed save never leaves a truncated image behind.
func (p *Platform) SaveImages(fs afero.Fs, dir string) error {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating image dir: %w", err)
	}
	for _, r := range p.regions {
		if err := writeImage(fs, ImagePath(dir, r.Name), r.data); err != nil {
			return err
		}
	}
	return nil
}

func writeImage(fs afero.Fs, path string, data []byte) error {
	tmp, err := afero.TempFile(fs, filepath.Dir(path), ".img-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fs.Remove(tmpName)
		return fmt.Errorf("writing image: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		fs.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := fs.Rename(tmpName, path); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
