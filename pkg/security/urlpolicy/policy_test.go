package urlpolicy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyAllowsEverythingByDefault(t *testing.T) {
	p, err := New(nil, nil)
	require.NoError(t, err)

	assert.True(t, p.IsAllowed("https://example.com"))
	assert.True(t, p.IsAllowed("http://localhost:8080/health"))
	assert.True(t, p.IsAllowed("about:blank"))
}

func TestPolicyDeniedTakesPrecedence(t *testing.T) {
	p, err := New(
		[]string{"https://*.example.com*"},
		[]string{"https://internal.example.com*"},
	)
	require.NoError(t, err)

	assert.True(t, p.IsAllowed("https://docs.example.com/guide"))
	assert.False(t, p.IsAllowed("https://internal.example.com/secrets"))
	assert.False(t, p.IsAllowed("https://other.org"), "not in allow list")
}

func TestPolicyRejectsUnsupportedSchemes(t *testing.T) {
	p, err := New(nil, nil)
	require.NoError(t, err)

	for _, raw := range []string{"file:///etc/passwd", "javascript:alert(1)", "ftp://host/file"} {
		err := p.Validate(raw)
		assert.Error(t, err, raw)
	}
}

func TestPolicyNormalizesTrailingSlash(t *testing.T) {
	p, err := New([]string{"https://example.com"}, nil)
	require.NoError(t, err)

	assert.True(t, p.IsAllowed("https://example.com"))
	assert.True(t, p.IsAllowed("https://example.com/"))
}

func TestPolicyRejectsBadPatterns(t *testing.T) {
	_, err := New([]string{"https://[invalid"}, nil)
	assert.Error(t, err)

	_, err = New(nil, []string{"https://[invalid"})
	assert.Error(t, err)
}
