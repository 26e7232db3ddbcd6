// SPDX-License-Identifier: MPL-2.0

package prefix

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfxkit/pfxkit/internal/runtime"
)

// MetadataFile is the name of the metadata file in the prefix root.
const MetadataFile = ".pfxkit"

// ErrNoMetadata is returned by ReadMetadata when the prefix has no
// metadata file.
var ErrNoMetadata = errors.New("prefix has no metadata")

// Metadata records which runtime a prefix was created with.
type Metadata struct {
	ProtonName string
	ProtonPath string
	Arch       runtime.Arch
	Created    time.Time
}

// WriteMetadata writes m to the prefix in dir.
func WriteMetadata(dir string, m Metadata) error {
	created := m.Created
	if created.IsZero() {
		created = time.Now()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "proton_name=%s\n", m.ProtonName)
	fmt.Fprintf(&sb, "proton_path=%s\n", m.ProtonPath)
	fmt.Fprintf(&sb, "arch=%s\n", m.Arch)
	fmt.Fprintf(&sb, "created=%s\n", created.UTC().Format(time.RFC3339))

	if err := os.WriteFile(filepath.Join(dir, MetadataFile), []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write prefix metadata: %w", err)
	}
	return nil
}

// ReadMetadata reads the metadata of the prefix in dir. Unknown keys,
// blank lines and # comments are ignored.
func ReadMetadata(dir string) (Metadata, error) {
	f, err := os.Open(filepath.Join(dir, MetadataFile))
	if errors.Is(err, os.ErrNotExist) {
		return Metadata{}, ErrNoMetadata
	}
	if err != nil {
		return Metadata{}, fmt.Errorf("read prefix metadata: %w", err)
	}
	defer f.Close()

	var m Metadata
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "proton_name":
			m.ProtonName = value
		case "proton_path":
			m.ProtonPath = value
		case "arch":
			arch, err := runtime.ParseArch(value)
			if err != nil {
				return Metadata{}, fmt.Errorf("read prefix metadata: %w", err)
			}
			m.Arch = arch
		case "created":
			created, err := time.Parse(time.RFC3339, value)
			if err != nil {
				return Metadata{}, fmt.Errorf("read prefix metadata: invalid created time: %w", err)
			}
			m.Created = created
		}
	}
	if err := sc.Err(); err != nil {
		return Metadata{}, fmt.Errorf("read prefix metadata: %w", err)
	}
	return m, nil
}
