// Package details is the view model behind a function's details page: readme,
// versions, the source file tree and the content of the selected file.
package details

import (
	"context"
	"errors"
	"fmt"
	"sync"

	types "github.com/eagraf/fnconsole/core/api"
	"github.com/eagraf/fnconsole/core/filetree"
	"github.com/eagraf/fnconsole/internal/constants"
	"github.com/eagraf/fnconsole/internal/gateway"
	"github.com/eagraf/fnconsole/internal/lifecycle"
	"github.com/rs/zerolog/log"
)

var ErrNotFound = errors.New("not found")

type View struct {
	lifecycle *lifecycle.Lifecycle
	gateway   gateway.Gateway

	mu              sync.RWMutex
	details         *types.GetFunctionDetailsResponse
	tree            []*filetree.Node
	selectedVersion string
	selected        *filetree.Node
	content         string
}

func New(l *lifecycle.Lifecycle, gw gateway.Gateway) *View {
	return &View{
		lifecycle:       l,
		gateway:         gw,
		tree:            make([]*filetree.Node, 0),
		selectedVersion: constants.LatestVersion,
	}
}

// Load fetches the details through the function's lifecycle, so the card is refreshed
// along with the view, and rebuilds the file tree. The selection is reset.
func (v *View) Load(ctx context.Context) error {
	details, err := v.lifecycle.RefreshDetails(ctx)
	if err != nil {
		return err
	}
	tree := filetree.Build(details.ObjectKeys)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.details = details
	v.tree = tree
	v.selectedVersion = constants.LatestVersion
	v.selected = nil
	v.content = ""
	log.Debug().Msgf("loaded details of %s: %d versions, %d tree nodes", details.Metadata.FunctionName, len(details.Versions), filetree.CountNodes(tree))
	return nil
}

func (v *View) Loaded() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.details != nil
}

func (v *View) Tree() []*filetree.Node {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.tree
}

func (v *View) Readme() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.details == nil {
		return ""
	}
	return v.details.ReadmeContent
}

func (v *View) Versions() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.details == nil {
		return []string{}
	}
	return v.details.Versions
}

func (v *View) SelectedVersion() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.selectedVersion
}

// SelectVersion picks one of the listed versions, or "latest".
func (v *View) SelectVersion(version string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if version == constants.LatestVersion {
		v.selectedVersion = version
		return nil
	}
	if v.details != nil {
		for _, listed := range v.details.Versions {
			if listed == version {
				v.selectedVersion = version
				return nil
			}
		}
	}
	return fmt.Errorf("%w: version %s", ErrNotFound, version)
}

// SelectFile selects the file with the given tree key and fetches its content.
// Directory keys and unknown keys are rejected with ErrNotFound.
func (v *View) SelectFile(ctx context.Context, key string) (string, error) {
	v.mu.RLock()
	node, ok := filetree.Lookup(v.tree, key)
	v.mu.RUnlock()
	if !ok || node.IsDir() {
		return "", fmt.Errorf("%w: file key %s", ErrNotFound, key)
	}
	return v.fetch(ctx, node)
}

// SelectPath selects a file by its full object key.
func (v *View) SelectPath(ctx context.Context, path string) (string, error) {
	var node *filetree.Node
	v.mu.RLock()
	filetree.Walk(v.tree, func(n *filetree.Node, _ []string) bool {
		if node == nil && !n.IsDir() && n.Path == path {
			node = n
		}
		return node == nil
	})
	v.mu.RUnlock()
	if node == nil {
		return "", fmt.Errorf("%w: file %s", ErrNotFound, path)
	}
	return v.fetch(ctx, node)
}

func (v *View) fetch(ctx context.Context, node *filetree.Node) (string, error) {
	content, err := v.gateway.FetchFileContent(ctx, v.lifecycle.Ref(), node.Path)
	if err != nil {
		return "", err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.selected = node
	v.content = content
	return content, nil
}

// Selected returns the selected file node, if any, and its content.
func (v *View) Selected() (*filetree.Node, string) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.selected, v.content
}
