package affiliate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultRewriter(t *testing.T) *Rewriter {
	t.Helper()
	rw, err := NewRewriter(DefaultRules())
	require.NoError(t, err)
	return rw
}

func TestRewrite_DefaultRules(t *testing.T) {
	rw := defaultRewriter(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "amazon tag added",
			in:   "https://www.amazon.ca/dp/B0ABC",
			want: "https://www.amazon.ca/dp/B0ABC?tag=dealspot-20",
		},
		{
			name: "amazon tag replaced",
			in:   "https://www.amazon.com/dp/B0ABC?tag=someone-20&th=1",
			want: "https://www.amazon.com/dp/B0ABC?tag=dealspot-20&th=1",
		},
		{
			name: "amazon tag already ours",
			in:   "https://www.amazon.com/dp/B0ABC?tag=dealspot-20",
			want: "https://www.amazon.com/dp/B0ABC?tag=dealspot-20",
		},
		{
			name: "linksynergy unwrapped",
			in:   "https://click.linksynergy.com/deeplink?id=x&mid=1&murl=https%3A%2F%2Fwww.walmart.ca%2Fip%2F123",
			want: "https://www.walmart.ca/ip/123",
		},
		{
			name: "redirectingat unwrapped then tagged",
			in:   "https://go.redirectingat.com/?id=1&url=https%3A%2F%2Fwww.amazon.com%2Fdp%2FB0X",
			want: "https://www.amazon.com/dp/B0X?tag=dealspot-20",
		},
		{
			name: "unwrap without destination kept",
			in:   "https://click.linksynergy.com/deeplink?id=x",
			want: "https://click.linksynergy.com/deeplink?id=x",
		},
		{
			name: "best buy prefix swapped",
			in:   "https://bestbuyca.o93x.net/c/1/2/3?u=https%3A%2F%2Fwww.bestbuy.ca%2Fp%2F1",
			want: "https://bestbuyca.o93x.net/c/5215192/2035226/10221?u=https%3A%2F%2Fwww.bestbuy.ca%2Fp%2F1",
		},
		{
			name: "unknown host untouched",
			in:   "https://example.com/deal?ref=1",
			want: "https://example.com/deal?ref=1",
		},
		{
			name: "not a url",
			in:   "just text",
			want: "just text",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rw.Rewrite(tt.in))
		})
	}
}

func TestParseRules(t *testing.T) {
	rules, err := ParseRules([]byte(`
rules:
  - name: shop
    host: shop.example.com
    action: set_param
    param: aff
    value: "42"
`))
	require.NoError(t, err)
	require.Len(t, rules, 1)

	rw, err := NewRewriter(rules)
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com/p?aff=42", rw.Rewrite("https://shop.example.com/p"))
	assert.Equal(t, "https://www.amazon.com/dp/1", rw.Rewrite("https://www.amazon.com/dp/1"))
}

func TestParseRules_Invalid(t *testing.T) {
	cases := map[string]string{
		"no host":        "rules:\n  - action: unwrap\n    param: u\n",
		"unknown action": "rules:\n  - host: a.com\n    action: explode\n",
		"set_param":      "rules:\n  - host: a.com\n    action: set_param\n    param: tag\n",
		"bad pattern":    "rules:\n  - host: a.com\n    action: replace_prefix\n    pattern: '(['\n    prefix: x\n",
		"bad yaml":       "rules: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRules([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestReplace_KeepsTableOnError(t *testing.T) {
	rw := defaultRewriter(t)
	before := rw.Len()

	err := rw.Replace([]Rule{{Host: "a.com", Action: "nope"}})
	assert.ErrorIs(t, err, ErrInvalidRule)
	assert.Equal(t, before, rw.Len())
}
