package database

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Venkatesan-2007/innertia/core"
)

func TestDatabaseURL(t *testing.T) {
	conf := core.DatabaseConfig{
		User:     "app",
		Password: "s3cret/&?",
		Host:     "localhost",
		Port:     "5432",
		Name:     "innertia",
	}

	dsn := databaseURL(conf, "disable")

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "localhost", u.Hostname())
	assert.Equal(t, "5432", u.Port())
	assert.Equal(t, "/innertia", u.Path)
	assert.Equal(t, "app", u.User.Username())
	pwd, _ := u.User.Password()
	assert.Equal(t, "s3cret/&?", pwd)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
}
