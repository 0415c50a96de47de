package manifest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestEntryValidate checks mandatory fields and the kind default.
func TestEntryValidate(t *testing.T) {
	t.Parallel()

	e := &Entry{}
	require.Error(t, e.Validate())

	e = &Entry{Name: "  "}
	require.Error(t, e.Validate())

	e = &Entry{Name: "Quake"}
	require.NoError(t, e.Validate())
	require.Equal(t, KindGame, e.Kind)

	e = &Entry{Name: "Quake Server", Kind: KindServer}
	require.NoError(t, e.Validate())
	require.Equal(t, "server/Quake Server", e.Key())

	e = &Entry{Name: "Quake", Kind: "modded"}
	require.Error(t, e.Validate())
}

// TestEntryFamily derives the installer family from the extension.
func TestEntryFamily(t *testing.T) {
	t.Parallel()

	cases := map[string]InstallerFamily{
		"setup.msi":        FamilyMSI,
		"Setup.MSI":        FamilyMSI,
		"setup.exe":        FamilySelfExtracting,
		"payload/inst.exe": FamilySelfExtracting,
	}
	for installer, family := range cases {
		e := &Entry{Name: "x", Installer: installer}
		require.Equal(t, family, e.Family(), installer)
	}
}
