package moniker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_EmptyInputIsError(t *testing.T) {
	_, err := Parse("", true)
	require.Error(t, err)
}

func TestParse_RejectsForeignScheme(t *testing.T) {
	_, err := Parse("https://example.com/foo", true)
	require.Error(t, err)
}

func TestParse_BareForm(t *testing.T) {
	m, err := Parse("indices.sov/dev/EUR/ALL", true)
	require.NoError(t, err)
	assert.Equal(t, Path{"indices.sov", "dev", "EUR", "ALL"}, m.Path)
	assert.Empty(t, m.Namespace)
	assert.Empty(t, m.Version)
}

func TestParse_BasicPathNoVersionNoNamespace(t *testing.T) {
	m, err := Parse("moniker://indices.sov/dev/EUR/ALL", true)
	require.NoError(t, err)
	assert.Equal(t, Path{"indices.sov", "dev", "EUR", "ALL"}, m.Path)
	assert.Empty(t, m.Namespace)
	assert.Empty(t, m.Version)
	assert.Equal(t, VersionNone, m.VersionType)
}

func TestParse_NamespaceAndLatestVersion(t *testing.T) {
	m, err := Parse("verified@ref.sec/ISIN/US0378331005@latest", true)
	require.NoError(t, err)
	assert.Equal(t, "verified", m.Namespace)
	assert.Equal(t, "ref.sec/ISIN/US0378331005", m.Path.String())
	assert.Equal(t, "latest", m.Version)
	assert.Equal(t, VersionLatest, m.VersionType)
}

func TestParse_DateVersionWithRevision(t *testing.T) {
	m, err := Parse("commodities.der/crypto/ETH@20260115/v2", true)
	require.NoError(t, err)
	assert.Equal(t, "20260115", m.Version)
	assert.Equal(t, VersionDate, m.VersionType)
	assert.True(t, m.HasRevision)
	assert.Equal(t, 2, m.Revision)
	assert.Equal(t, Path{"commodities.der", "crypto", "ETH"}, m.Path)
}

func TestParse_LookbackVersion(t *testing.T) {
	m, err := Parse("prices.eq/AAPL@3M", true)
	require.NoError(t, err)
	assert.Equal(t, "3M", m.Version)
	assert.Equal(t, VersionLookback, m.VersionType)
	assert.Equal(t, 3, m.LookbackValue)
	assert.Equal(t, "M", m.LookbackUnit)
}

func TestParse_SubResource(t *testing.T) {
	m, err := Parse("sec/012345678@20260101/details.corporate.actions", true)
	require.NoError(t, err)
	assert.Equal(t, "details.corporate.actions", m.SubResource)
	assert.Equal(t, "20260101", m.Version)
	assert.Equal(t, VersionDate, m.VersionType)
	assert.Equal(t, Path{"sec", "012345678"}, m.Path)
}

func TestParse_FrequencyAndAllVersions(t *testing.T) {
	m, err := Parse("moniker://reports.eod/positions@daily", true)
	require.NoError(t, err)
	assert.Equal(t, VersionFrequency, m.VersionType)

	m, err = Parse("moniker://reports.eod/positions@ALL", true)
	require.NoError(t, err)
	assert.Equal(t, VersionAll, m.VersionType)
}

func TestParse_CustomVersion(t *testing.T) {
	m, err := Parse("moniker://reports.eod/positions@abc123", true)
	require.NoError(t, err)
	assert.Equal(t, VersionCustom, m.VersionType)
}

func TestParse_QueryParams(t *testing.T) {
	m, err := Parse("moniker://a/b?x=1&y=2&x=3", true)
	require.NoError(t, err)
	assert.Equal(t, "1", m.Params["x"], "first value wins on repeated keys")
	assert.Equal(t, "2", m.Params["y"])
}

func TestParse_InvalidSegmentRejected(t *testing.T) {
	_, err := Parse("moniker:// /b", true)
	require.Error(t, err)
}

func TestParse_RoundTrip(t *testing.T) {
	cases := []string{
		"moniker://indices.sov/dev/EUR/ALL",
		"moniker://verified@ref.sec/ISIN/US0378331005@latest",
		"moniker://commodities.der/crypto/ETH@20260115/v2",
		"moniker://prices.eq/AAPL@3M",
		"moniker://sec/012345678@20260101/details.corporate.actions",
	}
	for _, c := range cases {
		m1, err := Parse(c, true)
		require.NoError(t, err, c)
		m2, err := Parse(m1.String(), true)
		require.NoError(t, err, c)
		assert.Equal(t, m1, m2, c)
	}
}

func TestParse_NeverPanics(t *testing.T) {
	inputs := []string{
		"@", "/", "//", "moniker://", "a@@b", "a/@/b", "v9999999999999999999999",
		"moniker://a/v", "moniker://a@b@c@d/e",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			_, _ = Parse(in, true)
		}, in)
	}
}
