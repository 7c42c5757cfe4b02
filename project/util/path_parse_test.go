package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandUser(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	assert.Equal(t, filepath.Join(home, "printer_data/mesh.yaml"), ExpandUser("~/printer_data/mesh.yaml"))
	assert.Equal(t, home, ExpandUser("~"))
	assert.Equal(t, "/tmp/mesh.yaml", ExpandUser("/tmp/mesh.yaml"))
	assert.Equal(t, "", ExpandUser(""))
	assert.Equal(t, "~no-such-user-here/x", ExpandUser("~no-such-user-here/x"))
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "", ResolvePath("/etc/bedlevel", ""))
	assert.Equal(t, "/etc/bedlevel/slots.db", ResolvePath("/etc/bedlevel", "slots.db"))
	assert.Equal(t, "/etc/bedlevel/data/slots.db", ResolvePath("/etc/bedlevel", "./data/../data/slots.db"))
	assert.Equal(t, "/var/lib/slots.db", ResolvePath("/etc/bedlevel", "/var/lib/slots.db"))
	assert.Equal(t, "slots.db", ResolvePath("", "slots.db"))
}
