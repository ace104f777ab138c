package forge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRemoteURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Remote
	}{
		{"https", "https://github.com/acme/widgets.git", Remote{"github.com", "acme", "widgets"}},
		{"https no suffix", "https://github.com/acme/widgets", Remote{"github.com", "acme", "widgets"}},
		{"https with user", "https://token@github.com/acme/widgets.git", Remote{"github.com", "acme", "widgets"}},
		{"ssh", "ssh://git@github.com/acme/widgets.git", Remote{"github.com", "acme", "widgets"}},
		{"scp-like", "git@github.com:acme/widgets.git", Remote{"github.com", "acme", "widgets"}},
		{"scp-like no user", "github.com:acme/widgets", Remote{"github.com", "acme", "widgets"}},
		{"host case folded", "https://GitHub.COM/acme/widgets", Remote{"github.com", "acme", "widgets"}},
		{"nested group path", "https://gitlab.example.com/group/sub/widgets.git", Remote{"gitlab.example.com", "sub", "widgets"}},
		{"trailing slash", "https://github.com/acme/widgets/", Remote{"github.com", "acme", "widgets"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRemoteURL(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRemoteURLErrors(t *testing.T) {
	for _, raw := range []string{
		"",
		"   ",
		"https://github.com",
		"https://github.com/justowner",
		"not a url at all",
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseRemoteURL(raw)
			assert.Error(t, err, "ParseRemoteURL(%q)", raw)
		})
	}
}

type registryTestProvider struct {
	Provider
	remote Remote
	token  string
}

func TestRegistryForRemoteURL(t *testing.T) {
	r := NewRegistry()
	r.Register("GitHub.com", func(remote Remote, token string) Provider {
		return &registryTestProvider{remote: remote, token: token}
	})

	p, err := r.ForRemoteURL("git@github.com:acme/widgets.git", "tok")
	require.NoError(t, err)

	tp, ok := p.(*registryTestProvider)
	require.True(t, ok)
	assert.Equal(t, Remote{"github.com", "acme", "widgets"}, tp.remote)
	assert.Equal(t, "tok", tp.token)
}

func TestRegistryUnknownHost(t *testing.T) {
	r := NewRegistry()

	_, err := r.ForRemoteURL("https://bitbucket.org/acme/widgets", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownHost), "err = %v, want ErrUnknownHost", err)
}
