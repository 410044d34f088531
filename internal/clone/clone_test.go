package clone

import (
	"testing"

	"github.com/eagraf/fnconsole/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDialog() *Dialog {
	return New(map[string]config.CloneRepository{
		"functions": {
			HTTPS:       "https://github.com/memphisdev/memphis-dev-functions.git",
			SSH:         "git@github.com:memphisdev/memphis-dev-functions.git",
			DownloadURL: "https://github.com/memphisdev/memphis-dev-functions/archive/refs/heads/master.zip",
		},
		"schemas": {
			HTTPS: "https://github.com/memphisdev/schemas.git",
		},
	})
}

func TestURL(t *testing.T) {
	d := testDialog()
	assert.Equal(t, []string{"functions", "schemas"}, d.Kinds())

	url, err := d.URL("functions", ProtocolSSH)
	require.Nil(t, err)
	assert.Equal(t, "git@github.com:memphisdev/memphis-dev-functions.git", url)

	cmd, err := d.Command("functions", ProtocolHTTPS)
	require.Nil(t, err)
	assert.Equal(t, "git clone https://github.com/memphisdev/memphis-dev-functions.git", cmd)

	_, err = d.URL("schemas", ProtocolSSH)
	assert.ErrorIs(t, err, ErrUnknownRepository)

	_, err = d.URL("missing", ProtocolHTTPS)
	assert.ErrorIs(t, err, ErrUnknownRepository)
}

func TestDownloadURL(t *testing.T) {
	d := testDialog()

	url, err := d.DownloadURL("functions")
	require.Nil(t, err)
	assert.Equal(t, "https://github.com/memphisdev/memphis-dev-functions/archive/refs/heads/master.zip", url)

	_, err = d.DownloadURL("schemas")
	assert.ErrorIs(t, err, ErrUnknownRepository)
}

func TestParseProtocol(t *testing.T) {
	p, err := ParseProtocol("SSH")
	require.Nil(t, err)
	assert.Equal(t, ProtocolSSH, p)

	p, err = ParseProtocol("")
	require.Nil(t, err)
	assert.Equal(t, ProtocolHTTPS, p)

	_, err = ParseProtocol("svn")
	assert.NotNil(t, err)
}
