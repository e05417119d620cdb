package iomock

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// Seed describes a mock filesystem in YAML, for fixtures kept next to
// the tests that use them:
//
//	platform: windows
//	currentDirectory: C:\work
//	entries:
//	  - path: C:\work\notes.txt
//	    text: hello
//	  - path: C:\work\locked.bin
//	    data: AAEC
//	    attributes: ReadOnly, Hidden
//	    share: Read
//	  - path: C:\work\empty
//	    directory: true
type Seed struct {
	Platform         string      `yaml:"platform,omitempty"`
	CurrentDirectory string      `yaml:"currentDirectory,omitempty"`
	TempPath         string      `yaml:"tempPath,omitempty"`
	Entries          []SeedEntry `yaml:"entries"`
}

// SeedEntry is one file or directory of a Seed. Text and Data are
// mutually exclusive; Data is base64.
type SeedEntry struct {
	Path       string     `yaml:"path"`
	Directory  bool       `yaml:"directory,omitempty"`
	Text       string     `yaml:"text,omitempty"`
	Data       string     `yaml:"data,omitempty"`
	Attributes string     `yaml:"attributes,omitempty"`
	Share      string     `yaml:"share,omitempty"`
	Created    *time.Time `yaml:"created,omitempty"`
	Accessed   *time.Time `yaml:"accessed,omitempty"`
	Modified   *time.Time `yaml:"modified,omitempty"`
}

// LoadSeed decodes a Seed from YAML.
func LoadSeed(r io.Reader) (*Seed, error) {
	var s Seed
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return &s, nil
		}
		return nil, fmt.Errorf("iomock: decode seed: %w", err)
	}
	return &s, nil
}

// NewFromSeed creates a mock filesystem from s. opts are applied after the
// options the seed implies and so take precedence.
func NewFromSeed(s *Seed, opts ...Option) (*MockFileSystem, error) {
	var base []Option
	if s.Platform != "" {
		p, err := ParsePlatform(s.Platform)
		if err != nil {
			return nil, err
		}
		base = append(base, WithPlatform(p))
	}
	if s.CurrentDirectory != "" {
		base = append(base, WithCurrentDirectory(s.CurrentDirectory))
	}
	if s.TempPath != "" {
		base = append(base, WithTempPath(s.TempPath))
	}

	records, err := s.records()
	if err != nil {
		return nil, err
	}
	return New(records, append(base, opts...)...)
}

func (s *Seed) records() (map[string]*FileData, error) {
	out := make(map[string]*FileData, len(s.Entries))
	for _, e := range s.Entries {
		d, err := e.record()
		if err != nil {
			return nil, fmt.Errorf("iomock: seed entry %q: %w", e.Path, err)
		}
		if _, dup := out[e.Path]; dup {
			return nil, fmt.Errorf("iomock: seed entry %q: duplicate path", e.Path)
		}
		out[e.Path] = d
	}
	return out, nil
}

func (e SeedEntry) record() (*FileData, error) {
	var d *FileData
	switch {
	case e.Directory:
		if e.Text != "" || e.Data != "" {
			return nil, errors.New("directory with content")
		}
		d = NewDirectoryData()
	case e.Text != "" && e.Data != "":
		return nil, errors.New("both text and data given")
	case e.Data != "":
		b, err := base64.StdEncoding.DecodeString(e.Data)
		if err != nil {
			return nil, fmt.Errorf("decode data: %w", err)
		}
		d = NewFileData(b)
	default:
		d = NewTextFileData(e.Text)
	}

	if e.Attributes != "" {
		a, err := ParseFileAttributes(e.Attributes)
		if err != nil {
			return nil, err
		}
		d.SetAttributes(a)
	}
	if e.Share != "" {
		sh, err := ParseFileShare(e.Share)
		if err != nil {
			return nil, err
		}
		d.SetShare(sh)
	}
	if e.Created != nil {
		d.SetCreationTime(*e.Created)
	}
	if e.Accessed != nil {
		d.SetLastAccessTime(*e.Accessed)
	}
	if e.Modified != nil {
		d.SetLastWriteTime(*e.Modified)
	}
	return d, nil
}

// Seed captures the current tree as a Seed. File content is stored as
// base64 data; lazy content is materialized.
func (m *MockFileSystem) Seed() (*Seed, error) {
	s := &Seed{
		Platform:         m.platform.String(),
		CurrentDirectory: m.CurrentDirectory(),
		TempPath:         m.tempPath,
	}

	for _, e := range m.store.Enumerate() {
		d := e.Data
		created, accessed, modified := d.CreationTime(), d.LastAccessTime(), d.LastWriteTime()
		se := SeedEntry{
			Path:       e.Path,
			Directory:  d.IsDirectory(),
			Attributes: d.Attributes().String(),
			Share:      d.Share().String(),
			Created:    &created,
			Accessed:   &accessed,
			Modified:   &modified,
		}
		if !d.IsDirectory() {
			b, err := d.Contents()
			if err != nil {
				return nil, fmt.Errorf("iomock: seed entry %q: %w", e.Path, err)
			}
			se.Data = base64.StdEncoding.EncodeToString(b)
		}
		s.Entries = append(s.Entries, se)
	}
	return s, nil
}

// WriteSeed encodes s as YAML.
func WriteSeed(w io.Writer, s *Seed) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("iomock: encode seed: %w", err)
	}
	return enc.Close()
}
