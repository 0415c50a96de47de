package verifier

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// MetadataReader extracts the embedded product version from an installer file.
// Implementations must be read-only and treat extraction failure as a normal
// outcome, not a fault.
type MetadataReader interface {
	ProductVersion(ctx context.Context, path string) (string, error)
}

// metadataTimeout caps a single PowerShell metadata query.
const metadataTimeout = 30 * time.Second

// PowerShellReader reads installer metadata through PowerShell: the Windows
// Installer COM object for MSI packages and the version resource for
// executables. Available on Windows hosts only; elsewhere every lookup fails
// and callers degrade to the neutral "no version info" state.
type PowerShellReader struct {
	// timeout caps one metadata query.
	timeout time.Duration
}

// NewPowerShellReader creates a reader with the default query timeout.
func NewPowerShellReader() *PowerShellReader {
	return &PowerShellReader{timeout: metadataTimeout}
}

// ProductVersion returns the ProductVersion of an MSI package or EXE resource.
func (r *PowerShellReader) ProductVersion(ctx context.Context, path string) (string, error) {
	var script string

	// Single quotes inside a PowerShell single-quoted literal are doubled.
	quoted := strings.ReplaceAll(path, "'", "''")

	if strings.EqualFold(filepath.Ext(path), ".msi") {
		script = "$ErrorActionPreference='Stop';" +
			"$i=New-Object -ComObject WindowsInstaller.Installer;" +
			"$d=$i.OpenDatabase([string]'" + quoted + "',0);" +
			"$v=$d.OpenView(\"SELECT Value FROM Property WHERE Property='ProductVersion'\");" +
			"$v.Execute();" +
			"$r=$v.Fetch();" +
			"if($r -ne $null){Write-Output $r.StringData(1)}"
	} else {
		script = "$ErrorActionPreference='Stop';" +
			"$v=(Get-Item '" + quoted + "').VersionInfo.ProductVersion;" +
			"if($v){Write-Output $v}"
	}

	cmdCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, "powershell", "-NoProfile", "-NonInteractive", "-Command", script)

	output, err := cmd.Output()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(output)), nil
}
