// SPDX-License-Identifier: MPL-2.0

package prefix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pfxkit/pfxkit/internal/runtime"
)

func TestMetadata_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	created := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	want := Metadata{ProtonName: "Proton 9.0", ProtonPath: "/opt/proton", Arch: runtime.Win32, Created: created}

	if err := WriteMetadata(dir, want); err != nil {
		t.Fatalf("WriteMetadata() error = %v", err)
	}
	got, err := ReadMetadata(dir)
	if err != nil {
		t.Fatalf("ReadMetadata() error = %v", err)
	}
	if got.ProtonName != want.ProtonName || got.ProtonPath != want.ProtonPath ||
		got.Arch != want.Arch || !got.Created.Equal(want.Created) {
		t.Errorf("ReadMetadata() = %+v, want %+v", got, want)
	}
}

func TestReadMetadata(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    Metadata
		wantErr bool
	}{
		{
			name:    "comments and unknown keys",
			content: "# created by pfxkit\n\nproton_name = GE\nextra=1\narch=win64\nnot a pair\n",
			want:    Metadata{ProtonName: "GE", Arch: runtime.Win64},
		},
		{name: "bad arch", content: "arch=arm\n", wantErr: true},
		{name: "bad time", content: "created=yesterday\n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, MetadataFile), []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			got, err := ReadMetadata(dir)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadMetadata() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ReadMetadata() = %+v, want %+v", got, tt.want)
			}
		})
	}

	if _, err := ReadMetadata(t.TempDir()); !errors.Is(err, ErrNoMetadata) {
		t.Errorf("ReadMetadata() on bare dir error = %v, want ErrNoMetadata", err)
	}
}
