package installer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/cobralans/cobra-lans/internal/domain/manifest"
)

// call records one process invocation observed by the fake runner.
type call struct {
	name string
	args []string
}

// fakeRunner scripts exit codes and launch failures per executable name.
type fakeRunner struct {
	calls      []call
	exitCodes  map[string]int
	launchErrs map[string]error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (int, error) {
	f.calls = append(f.calls, call{name: name, args: args})

	if err, ok := f.launchErrs[name]; ok {
		return 0, err
	}

	return f.exitCodes[name], nil
}

// primaryCalls returns the msiexec invocations in order.
func (f *fakeRunner) primaryCalls() []call {
	var primaries []call

	for _, c := range f.calls {
		if c.name == "msiexec" {
			primaries = append(primaries, c)
		}
	}

	return primaries
}

func msiEntry(name, base string) *domain.Entry {
	return &domain.Entry{
		Name:      name,
		Kind:      domain.KindGame,
		BasePath:  base,
		Installer: "game/setup.msi",
	}
}

// TestRunInstallsIsolation verifies that one failing entry neither aborts the
// batch nor hides the entries after it.
func TestRunInstallsIsolation(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	// Fail only the second entry's installer.
	scripted := &scriptedRunner{inner: runner, failOnCall: 2, code: 1603}
	svc := NewService("Installers", scripted)

	first := msiEntry("Doom", "Doom")
	second := msiEntry("Quake", "Quake")
	third := msiEntry("Unreal", "Unreal")

	failures := svc.RunInstalls(context.Background(), []*domain.Entry{first, second, third}, &Options{
		InstallDir: `C:\Games`,
	})

	require.Len(t, failures, 1)
	require.Equal(t, "Quake", failures[0].Entry)
	require.ErrorIs(t, failures[0].Err, errNonZeroExit)
	require.ErrorContains(t, failures[0].Err, "1603")

	// All three primaries were invoked, in order.
	primaries := runner.primaryCalls()
	require.Len(t, primaries, 3)
	require.Contains(t, primaries[2].args[1], "Unreal")
}

// scriptedRunner fails the nth msiexec call with the given exit code.
type scriptedRunner struct {
	inner      *fakeRunner
	seen       int
	failOnCall int
	code       int
}

func (s *scriptedRunner) Run(ctx context.Context, name string, args ...string) (int, error) {
	code, err := s.inner.Run(ctx, name, args...)

	if name == "msiexec" {
		s.seen++
		if s.seen == s.failOnCall {
			return s.code, nil
		}
	}

	return code, err
}

// TestRunInstallsLaunchFailure reports an entry whose installer cannot start.
func TestRunInstallsLaunchFailure(t *testing.T) {
	t.Parallel()

	launchErr := errors.New("file not found")
	runner := &fakeRunner{launchErrs: map[string]error{"msiexec": launchErr}}
	svc := NewService("Installers", runner)

	failures := svc.RunInstalls(context.Background(), []*domain.Entry{msiEntry("Doom", "Doom")}, &Options{
		InstallDir: `C:\Games`,
	})

	require.Len(t, failures, 1)
	require.ErrorIs(t, failures[0].Err, launchErr)
	require.Contains(t, failures[0].Error(), "Doom")
}

// TestRunInstallsSkipsEntriesWithoutPrimary treats a missing primary installer
// as a no-op, not an error.
func TestRunInstallsSkipsEntriesWithoutPrimary(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	svc := NewService("Installers", runner)

	entry := &domain.Entry{Name: "Docs Only", BasePath: "Docs"}

	failures := svc.RunInstalls(context.Background(), []*domain.Entry{entry}, &Options{
		InstallDir: `C:\Games`,
	})

	require.Empty(t, failures)
	require.Empty(t, runner.calls)
}

// TestRunInstallsPrerequisitesBestEffort runs prerequisites in order before
// the primary installer and ignores their exit status.
func TestRunInstallsPrerequisitesBestEffort(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{
		exitCodes:  map[string]int{},
		launchErrs: map[string]error{},
	}

	entry := msiEntry("Bad Company 2", "BC2")
	entry.Prerequisites = []domain.Prerequisite{
		{Path: "Redist/directx.exe", Args: `/silent /norestart`},
		{Path: "Redist/vcredist.exe"},
	}

	// First prerequisite exits non-zero, second cannot even launch.
	runner.exitCodes["Installers/Redist/directx.exe"] = 5
	runner.launchErrs["Installers/Redist/vcredist.exe"] = errors.New("missing")

	svc := NewService("Installers", runner)

	failures := svc.RunInstalls(context.Background(), []*domain.Entry{entry}, &Options{
		InstallDir: `C:\Games`,
	})

	require.Empty(t, failures)
	require.Len(t, runner.calls, 3)
	require.Equal(t, "Installers/Redist/directx.exe", runner.calls[0].name)
	require.Equal(t, []string{"/silent", "/norestart"}, runner.calls[0].args)
	require.Equal(t, "Installers/Redist/vcredist.exe", runner.calls[1].name)
	require.Equal(t, "msiexec", runner.calls[2].name)
}

// TestRunInstallsConditionalParameters checks player-name and server-address
// parameter inclusion rules.
func TestRunInstallsConditionalParameters(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	svc := NewService("Installers", runner)

	plain := msiEntry("Doom", "Doom")
	withName := msiEntry("Quake", "Quake")
	withName.SupportsPlayerName = true
	withIP := msiEntry("Bad Company 2", "BC2")
	withIP.RequiresServerIP = true

	failures := svc.RunInstalls(context.Background(), []*domain.Entry{plain, withName, withIP}, &Options{
		InstallDir:    `C:\Games`,
		PlayerName:    "CobraPlayer",
		ServerAddress: "192.168.1.10",
	})
	require.Empty(t, failures)

	primaries := runner.primaryCalls()
	require.Len(t, primaries, 3)

	// No player-name argument without the capability flag, even though a
	// name was supplied.
	for _, arg := range primaries[0].args {
		require.NotContains(t, arg, "PLAYERNAME")
		require.NotContains(t, arg, "SERVERADDRESS")
	}

	require.Contains(t, primaries[1].args, "PLAYERNAME=CobraPlayer")

	// Exactly four octet parameters, one per octet, in octet order.
	require.Contains(t, primaries[2].args, "SERVERADDRESS1=192")
	require.Contains(t, primaries[2].args, "SERVERADDRESS2=168")
	require.Contains(t, primaries[2].args, "SERVERADDRESS3=1")
	require.Contains(t, primaries[2].args, "SERVERADDRESS4=10")
	require.NotContains(t, primaries[2].args, "SERVERADDRESS5=")

	// Every MSI invocation ends with the basic-UI flag.
	for _, p := range primaries {
		require.Equal(t, "/qb", p.args[len(p.args)-1])
	}
}

// TestRunInstallsSelfExtractingFamily drives non-MSI installers directly with
// silent-install switches.
func TestRunInstallsSelfExtractingFamily(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	svc := NewService("Installers", runner)

	entry := &domain.Entry{
		Name:      "Painkiller",
		BasePath:  "Painkiller",
		Installer: "game/setup.exe",
	}

	failures := svc.RunInstalls(context.Background(), []*domain.Entry{entry}, &Options{
		InstallDir: `C:\Games`,
	})
	require.Empty(t, failures)

	require.Len(t, runner.calls, 1)
	require.Contains(t, runner.calls[0].name, "setup.exe")
	require.Contains(t, runner.calls[0].args, "/SILENT")
	require.Contains(t, runner.calls[0].args, `/DIR=C:\Games\Painkiller\`)
}

// TestRunInstallsInvalidOptions fails every entry with the same parameter error.
func TestRunInstallsInvalidOptions(t *testing.T) {
	t.Parallel()

	svc := NewService("Installers", &fakeRunner{})
	entries := []*domain.Entry{msiEntry("Doom", "Doom"), msiEntry("Quake", "Quake")}

	failures := svc.RunInstalls(context.Background(), entries, &Options{})
	require.Len(t, failures, 2)
	require.ErrorIs(t, failures[0].Err, errInstallDirRequired)

	failures = svc.RunInstalls(context.Background(), entries, &Options{
		InstallDir:    `C:\Games`,
		ServerAddress: "300.1.1.1",
	})
	require.Len(t, failures, 2)
	require.ErrorIs(t, failures[1].Err, errInvalidServerAddress)
}
