package run

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/KaramelBytes/eda-cli/internal/utils"
)

const (
	manifestFileName = "manifest.json"
)

// Run is the manifest of one report run, persisted next to its figures.
type Run struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Source      string    `json:"source"`
	Sections    []string  `json:"sections"`
	Rows        int       `json:"rows"`
	Columns     int       `json:"columns"`
	Figures     []*Figure `json:"figures"`
	Markdown    string    `json:"markdown,omitempty"`
	Workbook    string    `json:"workbook,omitempty"`
	Warnings    []string  `json:"warnings,omitempty"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	CompletedAt time.Time `json:"completed_at"`

	// Not serialized: output directory holding the manifest and figures
	dir string `json:"-"`
}

// New constructs an in-memory run with a fresh id. An empty dir places the run
// under baseDir/<id>. Call Save() to persist.
func New(name, source, baseDir, dir string) *Run {
	id := uuid.NewString()
	if dir == "" {
		dir = filepath.Join(baseDir, id)
	}
	return &Run{
		ID:        id,
		Name:      name,
		Source:    source,
		CreatedAt: time.Now(),
		dir:       dir,
	}
}

// Load reads a manifest.json from the provided directory.
func Load(dir string) (*Run, error) {
	path := filepath.Join(dir, manifestFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, eris.Wrapf(err, "run manifest not found at %s", path)
		}
		return nil, eris.Wrap(err, "read run manifest")
	}
	var r Run
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, eris.Wrap(err, "parse run manifest")
	}
	r.dir = dir
	return &r, nil
}

// Dir returns the on-disk output directory of the run.
func (r *Run) Dir() string { return r.dir }

// AddFigure records a rendered figure.
func (r *Run) AddFigure(f Figure) {
	r.Figures = append(r.Figures, &f)
}

// Save writes manifest.json using atomic write.
func (r *Run) Save() error {
	if r.dir == "" {
		return eris.New("run directory not set")
	}
	if err := utils.EnsureDir(r.dir); err != nil {
		return eris.Wrap(err, "ensure dir")
	}
	r.CompletedAt = time.Now()
	data, err := utils.PrettyJSON(r)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(r.dir, manifestFileName), data)
}
