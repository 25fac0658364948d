package capture

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
)

var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".gif":  true,
}

// Dir replays the images of a directory in file name order, starting over
// after the last one.
type Dir struct {
	path   string
	files  []string
	next   int
	closed bool
	mu     sync.Mutex
}

// IsImage reports whether the file name has a supported image extension.
func IsImage(name string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(name))]
}

// OpenDir lists the images in path. It fails when there are none.
func OpenDir(path string) (*Dir, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read capture directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !IsImage(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(path, e.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no images found in %s", path)
	}
	sort.Strings(files)

	return &Dir{path: path, files: files}, nil
}

// Files returns the image paths in replay order.
func (d *Dir) Files() []string {
	out := make([]string, len(d.files))
	copy(out, d.files)
	return out
}

// Read decodes the next image. A file that cannot be decoded yields an error
// wrapping ErrNoFrame and is skipped.
func (d *Dir) Read() (image.Image, error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, errors.New("capture directory closed")
	}
	path := d.files[d.next]
	d.next = (d.next + 1) % len(d.files)
	d.mu.Unlock()

	img, err := DecodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoFrame, err)
	}
	return img, nil
}

func (d *Dir) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// DecodeFile decodes a single image file.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}
