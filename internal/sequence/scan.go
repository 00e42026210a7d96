package sequence

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"daylapse/internal/types"
)

// imageExtensions are the file types accepted by the input scan.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ListImages walks the input directories recursively and returns every
// image file path. Directories are processed in argument order; within a
// directory paths are sorted lexically, so the returned order is the
// stable source order used for timestamp tie-breaking. Fails with an
// empty-input error when no images are found at all.
func ListImages(dirs []string) ([]string, error) {
	var all []string
	for _, dir := range dirs {
		var found []string
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if imageExtensions[strings.ToLower(filepath.Ext(path))] {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, types.NewAppError(types.ErrCodeConfigBadInputDir,
				fmt.Sprintf("scanning input directory %s", dir), err)
		}
		sort.Strings(found)
		all = append(all, found...)
	}

	if len(all) == 0 {
		return nil, types.NewAppError(types.ErrCodeEmptyNoImages,
			fmt.Sprintf("no images found in %d input directories", len(dirs)), nil)
	}
	return all, nil
}
