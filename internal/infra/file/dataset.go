package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"logicquest/internal/bank"
	"logicquest/internal/domain"
)

// DatasetStore reads and appends the four-file text datasets under a root directory.
// Dataset "" is the root itself; any other id names a subdirectory.
type DatasetStore struct {
	root  string
	files bank.Files
	mu    sync.Mutex
}

func NewDatasetStore(root string, files bank.Files) *DatasetStore {
	return &DatasetStore{root: root, files: files}
}

func (d *DatasetStore) dir(datasetID string) string {
	if datasetID == "" {
		return d.root
	}
	return filepath.Join(d.root, filepath.Clean("/" + datasetID)[1:])
}

// LoadBank parses the dataset into a validated bank.
func (d *DatasetStore) LoadBank(_ context.Context, datasetID string) (*bank.Bank, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.load(datasetID)
}

func (d *DatasetStore) load(datasetID string) (*bank.Bank, error) {
	dir := d.dir(datasetID)
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.IsDir()) {
		return nil, fmt.Errorf("%w: %s", domain.ErrDatasetNotFound, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDataset, err)
	}
	return bank.Load(os.DirFS(dir), d.files)
}

// AppendQuestion validates q against the stored dataset and appends it to all four files.
func (d *DatasetStore) AppendQuestion(_ context.Context, datasetID string, q domain.Question) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	current, err := d.load(datasetID)
	if err != nil {
		return err
	}
	if _, err := bank.Append(current, q); err != nil {
		return err
	}

	question, options, answer, difficulty := bank.FormatQuestion(current.Len()+1, q)
	dir := d.dir(datasetID)
	parts := []struct {
		name string
		text string
	}{
		{d.files.Questions, question},
		// option blocks are separated by a blank line
		{d.files.Options, "\n" + options},
		{d.files.Answers, answer},
		{d.files.Difficulty, difficulty},
	}
	// stage all four files before renaming any of them
	staged := make([]string, 0, len(parts))
	discard := func() {
		for _, tmp := range staged {
			os.Remove(tmp)
		}
	}
	for _, p := range parts {
		path := filepath.Join(dir, p.name)
		existing, err := os.ReadFile(path)
		if err != nil {
			discard()
			return fmt.Errorf("append %s: %w", p.name, err)
		}
		tmp, err := stageFile(path, appendText(existing, p.text))
		if err != nil {
			discard()
			return fmt.Errorf("append %s: %w", p.name, err)
		}
		staged = append(staged, tmp)
	}
	for i, p := range parts {
		if err := os.Rename(staged[i], filepath.Join(dir, p.name)); err != nil {
			staged = staged[i:]
			discard()
			return fmt.Errorf("append %s: %w", p.name, err)
		}
	}
	return nil
}

// appendText returns existing followed by text, first terminating an unterminated last line.
func appendText(existing []byte, text string) []byte {
	out := make([]byte, 0, len(existing)+len(text)+1)
	out = append(out, existing...)
	if len(existing) > 0 && existing[len(existing)-1] != '\n' {
		out = append(out, '\n')
	}
	return append(out, text...)
}
