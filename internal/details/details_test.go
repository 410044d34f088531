package details

import (
	"context"
	"testing"

	types "github.com/eagraf/fnconsole/core/api"
	"github.com/eagraf/fnconsole/core/filetree"
	"github.com/eagraf/fnconsole/internal/constants"
	"github.com/eagraf/fnconsole/internal/gateway"
	"github.com/eagraf/fnconsole/internal/gateway/mocks"
	"github.com/eagraf/fnconsole/internal/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testFunction() *types.Function {
	return &types.Function{
		FunctionRef: types.FunctionRef{
			FunctionName: "enrich",
			Repo:         "functions",
			Owner:        "memphisdev",
			Branch:       "main",
			SCM:          "github",
		},
		IsValid: true,
	}
}

func setupView(t *testing.T) (*View, *mocks.MockGateway) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockGateway(ctrl)

	l, err := lifecycle.NewFromFunction(gw, testFunction(), nil)
	require.Nil(t, err)

	gw.EXPECT().FetchDetails(gomock.Any(), l.Ref()).Return(&types.GetFunctionDetailsResponse{
		Metadata:      testFunction(),
		ReadmeContent: "# enrich",
		Versions:      []string{"v1.0.0", "v1.1.0"},
		ObjectKeys:    []string{"enrich/main.go", "README.md", "enrich/go.mod"},
	}, nil)

	v := New(l, gw)
	require.Nil(t, v.Load(context.Background()))
	return v, gw
}

func TestLoad(t *testing.T) {
	v, _ := setupView(t)

	assert.True(t, v.Loaded())
	assert.Equal(t, "# enrich", v.Readme())
	assert.Equal(t, []string{"v1.0.0", "v1.1.0"}, v.Versions())
	assert.Equal(t, constants.LatestVersion, v.SelectedVersion())

	tree := v.Tree()
	require.Len(t, tree, 2)
	assert.Equal(t, "README.md", tree[0].Name)
	assert.Equal(t, filetree.File, tree[0].Kind)
	assert.Equal(t, "enrich", tree[1].Name)
	assert.Equal(t, filetree.Directory, tree[1].Kind)
	assert.Equal(t, []string{"README.md", "enrich/go.mod", "enrich/main.go"}, filetree.Files(tree))
}

func TestSelectFile(t *testing.T) {
	v, gw := setupView(t)

	gw.EXPECT().FetchFileContent(gomock.Any(), gomock.Any(), "enrich/go.mod").Return("module enrich", nil)

	content, err := v.SelectFile(context.Background(), filetree.FileKey(1))
	require.Nil(t, err)
	assert.Equal(t, "module enrich", content)

	node, selected := v.Selected()
	require.NotNil(t, node)
	assert.Equal(t, "enrich/go.mod", node.Path)
	assert.Equal(t, "module enrich", selected)
}

func TestSelectFileRejectsDirectoriesAndUnknownKeys(t *testing.T) {
	v, _ := setupView(t)

	_, err := v.SelectFile(context.Background(), filetree.DirKey("enrich"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = v.SelectFile(context.Background(), "42")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSelectPathFailure(t *testing.T) {
	v, gw := setupView(t)

	gw.EXPECT().FetchFileContent(gomock.Any(), gomock.Any(), "README.md").Return("", &gateway.RequestFailedError{Op: "fetch file content", StatusCode: 404})

	_, err := v.SelectPath(context.Background(), "README.md")
	assert.ErrorIs(t, err, gateway.ErrRequestFailed)

	node, _ := v.Selected()
	assert.Nil(t, node)

	_, err = v.SelectPath(context.Background(), "enrich")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSelectVersion(t *testing.T) {
	v, _ := setupView(t)

	require.Nil(t, v.SelectVersion("v1.0.0"))
	assert.Equal(t, "v1.0.0", v.SelectedVersion())

	err := v.SelectVersion("v9.9.9")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "v1.0.0", v.SelectedVersion())

	require.Nil(t, v.SelectVersion(constants.LatestVersion))
	assert.Equal(t, constants.LatestVersion, v.SelectedVersion())
}
