package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/viant/afs/option"
	afsstorage "github.com/viant/afs/storage"
	"github.com/viant/afs/url"
)

// ListInput defines parameters for listing workspace content
type ListInput struct {
	Path      string `json:"directory_path,omitempty" description:"directory to list, workspace root when empty"`
	Recursive bool   `json:"recursive,omitempty" description:"descend into subdirectories"`
	FileType  string `json:"file_type,omitempty" description:"extension filter, e.g. .py"`
}

// ListOutput contains the listed assets
type ListOutput struct {
	Path   string   `json:"path"`
	Assets []*Asset `json:"assets,omitempty"`
}

// List lists files and directories under a workspace path.
func (s *Service) List(ctx context.Context, input *ListInput, output *ListOutput) error {
	location, err := s.resolve(input.Path)
	if err != nil {
		return err
	}
	var listOptions []afsstorage.Option
	if input.Recursive {
		listOptions = append(listOptions, option.NewRecursive(true))
	}
	objects, err := s.fs.List(ctx, location, listOptions...)
	if err != nil {
		return fmt.Errorf("failed to list %v: %w", input.Path, err)
	}

	filter := strings.ToLower(strings.TrimSpace(input.FileType))
	if filter != "" && !strings.HasPrefix(filter, ".") {
		filter = "." + filter
	}

	assets := make([]*Asset, 0, len(objects))
	for _, object := range objects {
		objectPath := url.Path(object.URL())
		if objectPath == location {
			continue
		}
		if filter != "" {
			if object.IsDir() || !strings.HasSuffix(strings.ToLower(object.Name()), filter) {
				continue
			}
		}
		assets = append(assets, &Asset{
			Path:        s.relative(objectPath),
			URL:         object.URL(),
			IsDir:       object.IsDir(),
			Mode:        object.Mode().String(),
			Size:        object.Size(),
			ModTime:     object.ModTime(),
			ContentType: GetContentType(objectPath),
		})
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Path < assets[j].Path })
	output.Path = s.relative(location)
	output.Assets = assets
	return nil
}
