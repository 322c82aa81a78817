package config

import (
	"os"
	"path/filepath"
	"strings"
)

// RunKeyPath is the per-user auto-start registry key, relative to HKCU.
const RunKeyPath = `Software\Microsoft\Windows\CurrentVersion\Run`

// Locations is the set of OS-specific roots the cleaner and the startup
// inventory work against. It is resolved once and handed to the engine, so
// tests and other platforms can substitute their own directories.
type Locations struct {
	// Temp is the process temporary directory (%TEMP%).
	Temp string

	// LocalAppData is the per-user local application data directory.
	LocalAppData string

	// WindowsDir is the Windows installation directory (e.g. C:\Windows).
	WindowsDir string

	// ProgramData is the machine-wide application data directory.
	ProgramData string

	// SystemDrive is the system drive root with trailing separator (e.g. C:\).
	SystemDrive string

	// StartupFolder is the per-user shell Startup folder.
	StartupFolder string

	// RunKey is the auto-start key path under HKCU.
	RunKey string
}

// Getenv looks up an environment variable. os.Getenv satisfies it.
type Getenv func(key string) string

// DefaultLocations resolves locations from the current process environment.
func DefaultLocations() Locations {
	return LocationsFromEnv(os.Getenv)
}

// LocationsFromEnv resolves locations through getenv, falling back to the
// stock Windows layout for anything that is unset.
func LocationsFromEnv(getenv Getenv) Locations {
	profile := getenv("USERPROFILE")

	local := getenv("LOCALAPPDATA")
	if local == "" && profile != "" {
		local = filepath.Join(profile, "AppData", "Local")
	}

	roaming := getenv("APPDATA")
	if roaming == "" && profile != "" {
		roaming = filepath.Join(profile, "AppData", "Roaming")
	}

	temp := getenv("TEMP")
	if temp == "" {
		temp = os.TempDir()
	}

	var startup string
	if roaming != "" {
		startup = filepath.Join(roaming, "Microsoft", "Windows", "Start Menu", "Programs", "Startup")
	}

	return Locations{
		Temp:          temp,
		LocalAppData:  local,
		WindowsDir:    orDefault(getenv("WINDIR"), `C:\Windows`),
		ProgramData:   orDefault(getenv("PROGRAMDATA"), `C:\ProgramData`),
		SystemDrive:   systemDrive(getenv("SYSTEMDRIVE")),
		StartupFolder: startup,
		RunKey:        RunKeyPath,
	}
}

// systemDrive normalizes %SYSTEMDRIVE% ("C:") to a root ("C:\").
func systemDrive(d string) string {
	if d == "" {
		return `C:\`
	}
	if strings.HasSuffix(d, `\`) || strings.HasSuffix(d, "/") {
		return d
	}
	return d + `\`
}

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

// Override returns a copy of l with every non-empty field of o applied.
func (l Locations) Override(o Locations) Locations {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&l.Temp, o.Temp)
	set(&l.LocalAppData, o.LocalAppData)
	set(&l.WindowsDir, o.WindowsDir)
	set(&l.ProgramData, o.ProgramData)
	set(&l.SystemDrive, o.SystemDrive)
	set(&l.StartupFolder, o.StartupFolder)
	set(&l.RunKey, o.RunKey)
	return l
}

// ProtectedPaths returns paths that must NEVER be deleted as a unit, whatever
// a catalog or a caller asks for. Files below them are fair game; the paths
// themselves are not.
func (l Locations) ProtectedPaths() []string {
	w := l.WindowsDir
	sd := l.SystemDrive
	paths := []string{
		w,
		filepath.Join(w, "System32"),
		filepath.Join(w, "SysWOW64"),
		filepath.Join(w, "WinSxS"),
		filepath.Join(w, "Installer"),
		filepath.Join(w, "servicing"),
		filepath.Join(w, "Prefetch"),
		filepath.Join(w, "Logs"),
		filepath.Join(sd, "Boot"),
		filepath.Join(sd, "EFI"),
		filepath.Join(sd, "Program Files"),
		filepath.Join(sd, "Program Files (x86)"),
		filepath.Join(sd, "Users"),
		filepath.Join(sd, "Recovery"),
		l.ProgramData,
		sd,
	}
	if l.LocalAppData != "" {
		paths = append(paths, l.LocalAppData)
	}
	if l.StartupFolder != "" {
		paths = append(paths, l.StartupFolder)
	}
	return paths
}
