// SPDX-License-Identifier: EPL-2.0

package catalogue

import (
	"hash/fnv"
	"path"
	"path/filepath"
	"strings"

	"github.com/ik5/audmgr/sound"
)

var nameReplacer = strings.NewReplacer(" ", "_", "(", "", ")", "")

// Normalize turns a file name or path into a clip name: the directory and
// extension are dropped, spaces become underscores and parentheses are
// removed. "sfx/Door Open (2).wav" becomes "Door_Open_2".
func Normalize(name string) string {
	base := path.Base(filepath.ToSlash(name))
	base = strings.TrimSuffix(base, path.Ext(base))

	return nameReplacer.Replace(base)
}

// HashID derives the id of a clip from its normalised name using 32-bit
// FNV-1a. The same file always gets the same id.
func HashID(name string) sound.SoundID {
	h := fnv.New32a()
	_, _ = h.Write([]byte(Normalize(name)))

	return sound.SoundID(h.Sum32())
}

// Format returns the decoder key of a file name: its lower case extension
// without the dot.
func Format(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(filepath.ToSlash(name)), "."))
}
