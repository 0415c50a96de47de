package installer

import (
	"context"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/cobralans/cobra-lans/internal/logger"
)

// windowsInstallerProcess is the Windows Installer engine executable.
// msiexec holds a machine-wide mutex: starting a batch while another install
// is in flight would make every MSI in the batch fail with code 1618.
const windowsInstallerProcess = "msiexec.exe"

// processLister enumerates running processes; swapped out in tests.
type processLister func() ([]ps.Process, error)

// InstallerBusy reports whether a Windows Installer process is already running.
func InstallerBusy(ctx context.Context) (bool, error) {
	return installerBusy(ctx, ps.Processes)
}

func installerBusy(ctx context.Context, list processLister) (bool, error) {
	processes, err := list()
	if err != nil {
		return false, err
	}

	for _, process := range processes {
		if strings.EqualFold(process.Executable(), windowsInstallerProcess) {
			logger.WarnKV(ctx, "Windows Installer is already running",
				"pid", process.Pid())

			return true, nil
		}
	}

	return false, nil
}
